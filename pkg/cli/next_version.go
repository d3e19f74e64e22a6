package cli

import (
	"fmt"

	"github.com/blang/semver/v4"
	"github.com/spf13/cobra"

	"github.com/datapm/pkgcompat/pkg/compatibility"
)

func newNextVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "next-version <version> <breaking|compatible|minor|no>",
		Short: "Print the version that follows a change of the given severity",
		Example: `  datapm-compat next-version 1.0.3 breaking     # 2.0.0
  datapm-compat next-version 1.0.3 compatible   # 1.1.0
  datapm-compat next-version 1.0.3 minor        # 1.0.4
  datapm-compat next-version 1.0.3 no           # 1.0.3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := semver.ParseTolerant(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			level, err := compatibility.ParseCompatibility(args[1])
			if err != nil {
				return err
			}

			next, err := compatibility.NextVersion(current, level)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), next.String())
			return nil
		},
	}
}
