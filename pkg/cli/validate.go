package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datapm/pkgcompat/pkg/packagefile"
	"github.com/datapm/pkgcompat/pkg/report"
	"github.com/datapm/pkgcompat/pkg/validation"
)

func newValidateCommand(a *app) *cobra.Command {
	var (
		format string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a package file is well formed",
		Long: `Upgrade a package file and check the structure the comparison relies on:
required metadata, a semantic version, unique schema titles and source slugs,
properties on object schemas, and stream sets that reference known schemas.

Warnings are reported but only fail the command with --strict.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = a.cfg.Compare.OutputFormat
			}
			reportFormat, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			loaded, err := a.loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			declared := loaded.File.SchemaURL
			if len(loaded.Transitions) > 0 {
				declared = packagefile.SchemaURL(loaded.Transitions[0].From)
			}
			result := validation.NewValidator(validation.DefaultValidationConfig()).ValidateDeclared(loaded.File, declared)
			for _, f := range append(append([]*validation.ValidationError{}, result.Errors...), result.Warnings...) {
				a.metrics.RecordValidationFinding(f.Rule, f.Severity.String())
			}

			if err := report.RenderValidation(cmd.OutOrStdout(), args[0], result, reportFormat); err != nil {
				return err
			}

			a.logger.WithFields(map[string]interface{}{
				"file":     args[0],
				"errors":   len(result.Errors),
				"warnings": len(result.Warnings),
			}).Debug("Package file validated")

			if !result.Valid {
				return fmt.Errorf("%w: %d validation errors", ErrCheckFailed, len(result.Errors))
			}
			if strict && len(result.Warnings) > 0 {
				return fmt.Errorf("%w: %d validation warnings", ErrCheckFailed, len(result.Warnings))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (text, json, markdown)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")

	return cmd
}
