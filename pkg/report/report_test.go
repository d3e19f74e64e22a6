package report

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapm/pkgcompat/pkg/compatibility"
	"github.com/datapm/pkgcompat/pkg/publish"
	"github.com/datapm/pkgcompat/pkg/validation"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func breakingPlan() *publish.Plan {
	diffs := []compatibility.Difference{
		{Type: compatibility.ChangeUpdatedDate, Pointer: "#"},
		{Type: compatibility.AddProperty, Pointer: "#/state/properties/capital"},
		{Type: compatibility.RemoveProperty, Pointer: "#/state/properties/zip"},
		{Type: compatibility.ChangePropertyDesc, Pointer: "#/state/properties/name"},
	}
	return &publish.Plan{
		ID:              "plan-1",
		PackageSlug:     "us-states",
		Compatibility:   compatibility.BreakingChange,
		PriorVersion:    "1.0.3",
		RequiredVersion: "2.0.0",
		Differences:     diffs,
		Summary:         compatibility.Summary{Total: 4, Breaking: 1, Compatible: 1, Minor: 1, NoChange: 1},
		CreatedAt:       time.Date(2021, 2, 1, 8, 0, 0, 0, time.UTC),
	}
}

func identicalPlan() *publish.Plan {
	return &publish.Plan{
		ID:              "plan-2",
		PackageSlug:     "us-states",
		Compatibility:   compatibility.Identical,
		PriorVersion:    "1.0.3",
		RequiredVersion: "1.0.3",
		Differences:     []compatibility.Difference{},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderPlan_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPlan(&buf, breakingPlan(), FormatText))
	out := buf.String()

	assert.Contains(t, out, "Package:          us-states\n")
	assert.Contains(t, out, "Result:           BREAKING\n")
	assert.Contains(t, out, "Required version: 2.0.0\n")
	assert.Contains(t, out, "  Breaking:   1\n")
	assert.Contains(t, out, "  REMOVE_PROPERTY #/state/properties/zip\n    Property removed\n")

	breaking := strings.Index(out, "Breaking changes:")
	compatible := strings.Index(out, "Compatible changes:")
	minor := strings.Index(out, "Minor changes:")
	none := strings.Index(out, "Changes with no impact:")
	require.True(t, breaking > 0 && compatible > 0 && minor > 0 && none > 0, out)
	assert.True(t, breaking < compatible && compatible < minor && minor < none, "groups are ordered most severe first")
}

func TestRenderPlan_TextIdentical(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPlan(&buf, identicalPlan(), FormatText))

	assert.Contains(t, buf.String(), "Result:           NO\n")
	assert.NotContains(t, buf.String(), "changes:")
}

func TestRenderPlan_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPlan(&buf, identicalPlan(), FormatJSON))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "no", decoded["compatibility"])
	assert.Equal(t, "1.0.3", decoded["requiredVersion"])
	assert.Equal(t, []interface{}{}, decoded["differences"])
}

func TestRenderPlan_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPlan(&buf, breakingPlan(), FormatMarkdown))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Compatibility report: us-states\n\n"))
	assert.Contains(t, out, "| Compatibility | **breaking** |\n")
	assert.Contains(t, out, "| Required version | `2.0.0` |\n")
	assert.Contains(t, out, "## Breaking changes\n\n")
	assert.Contains(t, out, "| `REMOVE_PROPERTY` | `#/state/properties/zip` | Property removed |\n")
}

func TestRenderPlan_MarkdownNoChanges(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPlan(&buf, identicalPlan(), FormatMarkdown))
	assert.Contains(t, buf.String(), "No changes.\n")
	assert.NotContains(t, buf.String(), "##")
}

func TestRenderPlan_UnmappedDifference(t *testing.T) {
	plan := breakingPlan()
	plan.Differences = append(plan.Differences, compatibility.Difference{Type: "RENAME_PROPERTY"})

	var buf bytes.Buffer
	err := RenderPlan(&buf, plan, FormatText)
	assert.ErrorIs(t, err, compatibility.ErrUnmappedDifferenceType)
	assert.Empty(t, buf.String(), "nothing is written when rendering fails")
}

func TestRenderPlan_UnknownFormat(t *testing.T) {
	err := RenderPlan(&bytes.Buffer{}, identicalPlan(), Format("html"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func invalidResult() *validation.ValidationResult {
	return &validation.ValidationResult{
		Errors: []*validation.ValidationError{
			{Location: "#", Rule: "MISSING_VERSION", Message: "Version is required", Severity: validation.SeverityError},
		},
		Warnings: []*validation.ValidationError{
			{Location: "#", Rule: "PACKAGE_SLUG_CONVENTION", Message: "Package slug should be lowercase | dashed", Severity: validation.SeverityWarning},
		},
		Valid: false,
	}
}

func TestRenderValidation(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   []string
	}{
		{"text", FormatText, []string{
			"File:   states.json\n",
			"Result: INVALID\n",
			"[ERROR] MISSING_VERSION\n  Location: #\n  Message:  Version is required\n",
			"[WARNING] PACKAGE_SLUG_CONVENTION\n",
		}},
		{"markdown", FormatMarkdown, []string{
			"# Validation report: states.json\n",
			"**Invalid**",
			"| ERROR | `MISSING_VERSION` | `#` | Version is required |\n",
			"lowercase \\| dashed",
		}},
		{"json", FormatJSON, []string{
			`"file": "states.json"`,
			`"rule": "MISSING_VERSION"`,
			`"valid": false`,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderValidation(&buf, "states.json", invalidResult(), tt.format))
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestRenderValidation_Valid(t *testing.T) {
	result := &validation.ValidationResult{Errors: []*validation.ValidationError{}, Warnings: []*validation.ValidationError{}, Valid: true}

	var buf bytes.Buffer
	require.NoError(t, RenderValidation(&buf, "states.json", result, FormatText))
	assert.Equal(t, "File:   states.json\nResult: VALID\n", buf.String())
}
