package validation

import (
	"encoding/json"
	"testing"

	"github.com/datapm/pkgcompat/pkg/packagefile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func validPackage() *packagefile.PackageFile {
	props := packagefile.NewPropertyMap()
	props.Set("name", &packagefile.Schema{Title: "name", Type: packagefile.SingleType("string")})
	props.Set("zip", &packagefile.Schema{Title: "zip", Type: packagefile.MultiType("string", "null")})

	return &packagefile.PackageFile{
		SchemaURL:   packagefile.CurrentSchemaURL,
		PackageSlug: "us-states",
		DisplayName: "US States",
		Version:     "1.0.3",
		Schemas: []*packagefile.Schema{
			{Title: "state", Type: packagefile.SingleType("object"), Properties: props, RecordCount: int64Ptr(50)},
		},
		Sources: []*packagefile.Source{
			{
				Slug: "census",
				Type: "http",
				StreamSets: []*packagefile.StreamSet{
					{Slug: "states", SchemaTitles: []string{"state"}},
				},
			},
		},
	}
}

func hasRule(findings []*ValidationError, rule string) bool {
	for _, f := range findings {
		if f.Rule == rule {
			return true
		}
	}
	return false
}

func TestValidator_ValidPackage(t *testing.T) {
	result := NewValidator(nil).Validate(validPackage())

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.NoError(t, result.Err())
}

func TestValidator_Rules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(pf *packagefile.PackageFile)
		rule    string
		isError bool
	}{
		{"missing slug", func(pf *packagefile.PackageFile) { pf.PackageSlug = "" }, "MISSING_PACKAGE_SLUG", true},
		{"missing display name", func(pf *packagefile.PackageFile) { pf.DisplayName = "" }, "MISSING_DISPLAY_NAME", true},
		{"missing version", func(pf *packagefile.PackageFile) { pf.Version = "" }, "MISSING_VERSION", true},
		{"invalid version", func(pf *packagefile.PackageFile) { pf.Version = "latest" }, "INVALID_VERSION", true},
		{"tolerant version", func(pf *packagefile.PackageFile) { pf.Version = "v1.2" }, "NON_CANONICAL_VERSION", false},
		{"slug convention", func(pf *packagefile.PackageFile) { pf.PackageSlug = "US_States" }, "PACKAGE_SLUG_CONVENTION", false},
		{"outdated schema", func(pf *packagefile.PackageFile) { pf.SchemaURL = packagefile.SchemaURL("0.5.0") }, "OUTDATED_SCHEMA_VERSION", false},
		{"duplicate title", func(pf *packagefile.PackageFile) {
			pf.Schemas = append(pf.Schemas, &packagefile.Schema{Title: "state"})
		}, "DUPLICATE_SCHEMA_TITLE", true},
		{"missing title", func(pf *packagefile.PackageFile) {
			pf.Schemas = append(pf.Schemas, &packagefile.Schema{})
		}, "MISSING_SCHEMA_TITLE", true},
		{"object without properties", func(pf *packagefile.PackageFile) { pf.Schemas[0].Properties = nil }, "MISSING_PROPERTIES", true},
		{"unknown type", func(pf *packagefile.PackageFile) { pf.Schemas[0].Type = packagefile.SingleType("blob") }, "UNKNOWN_TYPE", false},
		{"invalid precision", func(pf *packagefile.PackageFile) { pf.Schemas[0].RecordCountPrecision = "ROUGHLY" }, "INVALID_PRECISION", true},
		{"negative count", func(pf *packagefile.PackageFile) { pf.Schemas[0].ByteCount = int64Ptr(-1) }, "NEGATIVE_COUNT", true},
		{"duplicate source", func(pf *packagefile.PackageFile) {
			pf.Sources = append(pf.Sources, &packagefile.Source{Slug: "census", Type: "file"})
		}, "DUPLICATE_SOURCE_SLUG", true},
		{"missing source type", func(pf *packagefile.PackageFile) { pf.Sources[0].Type = "" }, "MISSING_SOURCE_TYPE", true},
		{"duplicate stream set", func(pf *packagefile.PackageFile) {
			pf.Sources[0].StreamSets = append(pf.Sources[0].StreamSets, &packagefile.StreamSet{Slug: "states"})
		}, "DUPLICATE_STREAM_SET_SLUG", true},
		{"unknown schema reference", func(pf *packagefile.PackageFile) {
			pf.Sources[0].StreamSets[0].SchemaTitles = []string{"county"}
		}, "UNKNOWN_SCHEMA_REFERENCE", true},
		{"stream precision", func(pf *packagefile.PackageFile) {
			pf.Sources[0].StreamSets[0].StreamStats.ExpectedBytesCountPrecision = "MAYBE"
		}, "INVALID_PRECISION", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := validPackage()
			tt.mutate(pf)

			result := NewValidator(DefaultValidationConfig()).Validate(pf)
			if tt.isError {
				assert.False(t, result.Valid)
				assert.True(t, hasRule(result.Errors, tt.rule), "expected error %s, got %v", tt.rule, result.Rules())
			} else {
				assert.True(t, result.Valid, "warnings must not invalidate: %s", result)
				assert.True(t, hasRule(result.Warnings, tt.rule), "expected warning %s, got %v", tt.rule, result.Rules())
			}
		})
	}
}

func TestValidator_DeclaredSchemaVersion(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		warning  string
		isError  bool
	}{
		{"current", packagefile.CurrentSchemaURL, "", false},
		{"missing means oldest", "", "OUTDATED_SCHEMA_VERSION", false},
		{"upgraded", packagefile.SchemaURL("0.3.0"), "OUTDATED_SCHEMA_VERSION", false},
		{"between steps", packagefile.SchemaURL("0.3.1"), "OUTDATED_SCHEMA_VERSION", false},
		{"newer", packagefile.SchemaURL("0.7.0"), "NEWER_SCHEMA_VERSION", false},
		{"unrecognized", "https://example.com/schema.json", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewValidator(nil).ValidateDeclared(validPackage(), tt.declared)
			if tt.isError {
				assert.True(t, hasRule(result.Errors, "UNRECOGNIZED_SCHEMA_VERSION"), result.String())
				return
			}
			assert.True(t, result.Valid, result.String())
			if tt.warning == "" {
				assert.Empty(t, result.Warnings)
			} else {
				assert.True(t, hasRule(result.Warnings, tt.warning), "expected warning %s, got %v", tt.warning, result.Rules())
			}
		})
	}
}

func TestValidator_NestedLocation(t *testing.T) {
	pf := validPackage()
	address := &packagefile.Schema{Title: "address", Type: packagefile.SingleType("object")}
	pf.Schemas[0].Properties.Set("address", address)

	result := NewValidator(nil).Validate(pf)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "#/state/properties/address", result.Errors[0].Location)
	assert.Equal(t, "MISSING_PROPERTIES", result.Errors[0].Rule)
}

func TestValidator_MaxDepth(t *testing.T) {
	pf := validPackage()
	leaf := pf.Schemas[0]
	for i := 0; i < 4; i++ {
		child := &packagefile.Schema{Type: packagefile.SingleType("object"), Properties: packagefile.NewPropertyMap()}
		leaf.Properties.Set("nested", child)
		leaf = child
	}

	config := DefaultValidationConfig()
	config.MaxDepth = 2
	result := NewValidator(config).Validate(pf)
	assert.True(t, hasRule(result.Errors, "MAX_DEPTH_EXCEEDED"))
}

func TestValidator_DisabledChecks(t *testing.T) {
	pf := validPackage()
	pf.PackageSlug = ""
	pf.Version = "latest"
	pf.Sources[0].StreamSets[0].SchemaTitles = []string{"county"}

	result := NewValidator(&ValidationConfig{}).Validate(pf)
	assert.True(t, result.Valid, result.String())
}

func TestValidationResult_Err(t *testing.T) {
	pf := validPackage()
	pf.PackageSlug = ""
	pf.DisplayName = ""

	result := NewValidator(nil).Validate(pf)
	err := result.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Package slug is required")
	assert.Contains(t, err.Error(), "Display name is required")
	assert.Equal(t, []string{"MISSING_PACKAGE_SLUG", "MISSING_DISPLAY_NAME"}, result.Rules())
}

func TestValidationResult_JSON(t *testing.T) {
	pf := validPackage()
	pf.Version = ""

	data, err := json.Marshal(NewValidator(nil).Validate(pf))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"errors": [{"location": "#", "rule": "MISSING_VERSION", "message": "Version is required", "severity": "ERROR"}],
		"warnings": [],
		"valid": false
	}`, string(data))
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "ERROR", SeverityError.String())
	assert.Equal(t, "WARNING", SeverityWarning.String())
	assert.Equal(t, "INFO", SeverityInfo.String())
}
