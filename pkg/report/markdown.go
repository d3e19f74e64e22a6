package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/datapm/pkgcompat/pkg/compatibility"
	"github.com/datapm/pkgcompat/pkg/publish"
	"github.com/datapm/pkgcompat/pkg/validation"
)

func writePlanMarkdown(w io.Writer, plan *publish.Plan) error {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# Compatibility report: %s\n\n", plan.PackageSlug))

	b.WriteString("| | |\n|---|---|\n")
	b.WriteString(fmt.Sprintf("| Compatibility | **%s** |\n", plan.Compatibility))
	b.WriteString(fmt.Sprintf("| Prior version | `%s` |\n", plan.PriorVersion))
	b.WriteString(fmt.Sprintf("| Required version | `%s` |\n", plan.RequiredVersion))
	b.WriteString(fmt.Sprintf("| Differences | %d |\n\n", plan.Summary.Total))

	if len(plan.Differences) == 0 {
		b.WriteString("No changes.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	groups, err := compatibility.GroupBySeverity(plan.Differences)
	if err != nil {
		return err
	}

	for _, level := range severityOrder {
		diffs := groups[level]
		if len(diffs) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("## %s\n\n", groupTitle(level)))
		b.WriteString("| Change | Location | Description |\n")
		b.WriteString("|--------|----------|-------------|\n")
		for _, d := range diffs {
			b.WriteString(fmt.Sprintf("| `%s` | `%s` | %s |\n", d.Type, escapeMarkdown(d.Pointer), compatibility.Description(d.Type)))
		}
		b.WriteString("\n")
	}

	_, err = io.WriteString(w, b.String())
	return err
}

func writeValidationMarkdown(w io.Writer, path string, result *validation.ValidationResult) error {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# Validation report: %s\n\n", path))
	if result.Valid {
		b.WriteString("**Valid**\n\n")
	} else {
		b.WriteString("**Invalid**\n\n")
	}

	findings := append(append([]*validation.ValidationError{}, result.Errors...), result.Warnings...)
	if len(findings) == 0 {
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString("| Severity | Rule | Location | Message |\n")
	b.WriteString("|----------|------|----------|---------|\n")
	for _, f := range findings {
		b.WriteString(fmt.Sprintf("| %s | `%s` | `%s` | %s |\n", f.Severity, f.Rule, escapeMarkdown(f.Location), escapeMarkdown(f.Message)))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// escapeMarkdown escapes table cell separators
func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
