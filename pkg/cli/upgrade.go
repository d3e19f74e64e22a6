package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datapm/pkgcompat/pkg/packagefile"
)

func newUpgradeCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "upgrade <file>",
		Short: "Upgrade a package file to the current schema version",
		Long: fmt.Sprintf(`Upgrade a JSON or YAML package file of any known schema version to
schema version %s and write it as JSON.

The result is written to stdout unless --output is given. The input file is
never modified in place unless it is also the output.

Examples:
  datapm-compat upgrade old.json
  datapm-compat upgrade package.yaml -o package.json`, packagefile.CurrentSchemaVersion),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			data, err := packagefile.Encode(result.File)
			if err != nil {
				return err
			}
			data = append(data, '\n')

			logger := a.logger.WithField("file", args[0])
			for _, t := range result.Transitions {
				logger.WithField("step", t.String()).Debug("Applied upgrade step")
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			logger.WithFields(map[string]interface{}{
				"output": output,
				"steps":  len(result.Transitions),
			}).Info("Package file upgraded")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the upgraded package file to this path")

	return cmd
}
