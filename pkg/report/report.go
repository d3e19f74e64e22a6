package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/datapm/pkgcompat/pkg/compatibility"
	"github.com/datapm/pkgcompat/pkg/publish"
	"github.com/datapm/pkgcompat/pkg/validation"
)

// ErrUnknownFormat is returned for an output format that has no renderer
var ErrUnknownFormat = errors.New("unknown report format")

// Format selects how a report is rendered
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat converts a user supplied format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// severityOrder is the order in which groups are printed, most severe first
var severityOrder = []compatibility.Compatibility{
	compatibility.BreakingChange,
	compatibility.CompatibleChange,
	compatibility.MinorChange,
	compatibility.Identical,
}

// groupTitle returns the heading used for a group of differences
func groupTitle(level compatibility.Compatibility) string {
	switch level {
	case compatibility.BreakingChange:
		return "Breaking changes"
	case compatibility.CompatibleChange:
		return "Compatible changes"
	case compatibility.MinorChange:
		return "Minor changes"
	default:
		return "Changes with no impact"
	}
}

// RenderPlan writes plan to w in the requested format
func RenderPlan(w io.Writer, plan *publish.Plan, format Format) error {
	switch format {
	case FormatText, "":
		return writePlanText(w, plan)
	case FormatJSON:
		return writeJSON(w, plan)
	case FormatMarkdown:
		return writePlanMarkdown(w, plan)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// RenderValidation writes the validation result for the file at path to w
func RenderValidation(w io.Writer, path string, result *validation.ValidationResult, format Format) error {
	switch format {
	case FormatText, "":
		return writeValidationText(w, path, result)
	case FormatJSON:
		return writeJSON(w, struct {
			File string `json:"file"`
			*validation.ValidationResult
		}{path, result})
	case FormatMarkdown:
		return writeValidationMarkdown(w, path, result)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
