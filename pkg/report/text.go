package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/datapm/pkgcompat/pkg/compatibility"
	"github.com/datapm/pkgcompat/pkg/publish"
	"github.com/datapm/pkgcompat/pkg/validation"
)

var (
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	green  = color.New(color.FgGreen)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
)

// levelColor returns the color used for a compatibility level
func levelColor(level compatibility.Compatibility) *color.Color {
	switch level {
	case compatibility.BreakingChange:
		return red
	case compatibility.CompatibleChange:
		return yellow
	case compatibility.MinorChange:
		return cyan
	default:
		return green
	}
}

func writePlanText(w io.Writer, plan *publish.Plan) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Package:          %s\n", plan.PackageSlug)
	fmt.Fprintf(&buf, "Result:           %s\n", levelColor(plan.Compatibility).Sprint(strings.ToUpper(plan.Compatibility.String())))
	fmt.Fprintf(&buf, "Prior version:    %s\n", plan.PriorVersion)
	fmt.Fprintf(&buf, "Required version: %s\n\n", bold.Sprint(plan.RequiredVersion))

	summary := plan.Summary
	fmt.Fprintf(&buf, "Summary:\n")
	fmt.Fprintf(&buf, "  Total:      %d\n", summary.Total)
	if summary.Breaking > 0 {
		fmt.Fprintf(&buf, "  Breaking:   %s\n", red.Sprint(summary.Breaking))
	} else {
		fmt.Fprintf(&buf, "  Breaking:   %d\n", summary.Breaking)
	}
	if summary.Compatible > 0 {
		fmt.Fprintf(&buf, "  Compatible: %s\n", yellow.Sprint(summary.Compatible))
	} else {
		fmt.Fprintf(&buf, "  Compatible: %d\n", summary.Compatible)
	}
	fmt.Fprintf(&buf, "  Minor:      %d\n", summary.Minor)
	fmt.Fprintf(&buf, "  No change:  %d\n", summary.NoChange)

	groups, err := compatibility.GroupBySeverity(plan.Differences)
	if err != nil {
		return err
	}

	for _, level := range severityOrder {
		diffs := groups[level]
		if len(diffs) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "\n%s:\n", levelColor(level).Sprint(groupTitle(level)))
		for _, d := range diffs {
			fmt.Fprintf(&buf, "  %s %s\n", d.Type, d.Pointer)
			fmt.Fprintf(&buf, "    %s\n", compatibility.Description(d.Type))
		}
	}

	_, err = w.Write(buf.Bytes())
	return err
}

func writeValidationText(w io.Writer, path string, result *validation.ValidationResult) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "File:   %s\n", path)
	if result.Valid {
		fmt.Fprintf(&buf, "Result: %s\n", green.Sprint("VALID"))
	} else {
		fmt.Fprintf(&buf, "Result: %s\n", red.Sprint("INVALID"))
	}

	findings := append(append([]*validation.ValidationError{}, result.Errors...), result.Warnings...)
	if len(findings) > 0 {
		buf.WriteString("\n")
	}
	for _, f := range findings {
		severity := f.Severity.String()
		if f.Severity == validation.SeverityError {
			severity = red.Sprint(severity)
		} else {
			severity = yellow.Sprint(severity)
		}
		fmt.Fprintf(&buf, "[%s] %s\n", severity, f.Rule)
		fmt.Fprintf(&buf, "  Location: %s\n", f.Location)
		fmt.Fprintf(&buf, "  Message:  %s\n", f.Message)
	}

	_, err := w.Write(buf.Bytes())
	return err
}
