package cli

import (
	"fmt"

	"github.com/blang/semver/v4"
	"github.com/spf13/cobra"

	"github.com/datapm/pkgcompat/pkg/loader"
	"github.com/datapm/pkgcompat/pkg/packagefile"
)

func newSchemaVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema-version <file>",
		Short: "Print the schema version a package file declares",
		Long: `Print the package file schema version declared by the $schema field of
<file>. A file without $schema is reported as the oldest schema version.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			declared, err := loader.DeclaredVersion(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), declared.String())

			current := semver.MustParse(packagefile.CurrentSchemaVersion)
			if declared.LT(current) {
				a.logger.WithFields(map[string]interface{}{
					"file":     args[0],
					"declared": declared.String(),
					"current":  current.String(),
				}).Info("Package file uses an older schema version; run upgrade to convert it")
			}
			return nil
		},
	}
}
