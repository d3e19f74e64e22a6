package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/blang/semver/v4"

	"github.com/datapm/pkgcompat/pkg/packagefile"
)

// Validator performs structural validation on package files before they are compared
type Validator struct {
	config *ValidationConfig
}

// ValidationConfig defines validation rules
type ValidationConfig struct {
	// RequireMetadata requires packageSlug, displayName and version
	RequireMetadata bool
	// RequireSemanticVersion requires version to be a strict semantic version
	RequireSemanticVersion bool
	// CheckNamingConventions validates slugs are lowercase and dash separated
	CheckNamingConventions bool
	// CheckReferences validates stream set schema titles refer to existing schemas
	CheckReferences bool
	// CheckKnownTypes warns about JSON Schema type names outside the standard set
	CheckKnownTypes bool
	// MaxDepth is the maximum property nesting depth
	MaxDepth int
}

// DefaultValidationConfig returns default validation settings
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		RequireMetadata:        true,
		RequireSemanticVersion: true,
		CheckNamingConventions: true,
		CheckReferences:        true,
		CheckKnownTypes:        true,
		MaxDepth:               32,
	}
}

// NewValidator creates a new validator
func NewValidator(config *ValidationConfig) *Validator {
	if config == nil {
		config = DefaultValidationConfig()
	}
	return &Validator{config: config}
}

// ValidationError represents a validation error
type ValidationError struct {
	Location string   `json:"location"`
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Location, e.Message, e.Rule)
}

// Severity indicates the severity of a validation error
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	return []string{"ERROR", "WARNING", "INFO"}[s]
}

// MarshalText implements encoding.TextMarshaler
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ValidationResult contains validation errors
type ValidationResult struct {
	Errors   []*ValidationError `json:"errors"`
	Warnings []*ValidationError `json:"warnings"`
	Valid    bool               `json:"valid"`
}

// Err joins all errors into one, or returns nil when the result is valid
func (r *ValidationResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

var (
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

	knownTypes = map[string]bool{
		"string": true, "number": true, "integer": true, "boolean": true,
		"object": true, "array": true, "null": true, "date": true, "date-time": true,
	}
)

// Validate performs validation on a package file in the current schema shape.
// A PackageFile without a $schema is taken to be current.
func (v *Validator) Validate(pf *packagefile.PackageFile) *ValidationResult {
	declared := pf.SchemaURL
	if declared == "" {
		declared = packagefile.CurrentSchemaURL
	}
	return v.ValidateDeclared(pf, declared)
}

// ValidateDeclared validates pf after it was upgraded from a document that
// declared the declared $schema URL.
func (v *Validator) ValidateDeclared(pf *packagefile.PackageFile, declared string) *ValidationResult {
	result := &ValidationResult{
		Errors:   make([]*ValidationError, 0),
		Warnings: make([]*ValidationError, 0),
		Valid:    true,
	}

	v.validateSchemaVersion(declared, result)
	v.validateMetadata(pf, result)

	// Validate schemas
	titles := make(map[string]bool, len(pf.Schemas))
	for i, schema := range pf.Schemas {
		location := fmt.Sprintf("#/schemas/%d", i)
		if schema == nil {
			result.addError(location, "NULL_SCHEMA", "Schema must not be null")
			continue
		}
		if schema.Title == "" {
			result.addError(location, "MISSING_SCHEMA_TITLE", "Schema must have a title")
		} else {
			location = "#/" + schema.Title
			if titles[schema.Title] {
				result.addError(location, "DUPLICATE_SCHEMA_TITLE",
					fmt.Sprintf("Schema title %q is used more than once", schema.Title))
			}
			titles[schema.Title] = true
		}
		v.validateSchema(schema, location, 0, result)
	}

	// Validate sources
	sourceSlugs := make(map[string]bool, len(pf.Sources))
	for i, source := range pf.Sources {
		if source == nil {
			result.addError(fmt.Sprintf("#/sources/%d", i), "NULL_SOURCE", "Source must not be null")
			continue
		}
		location := "#/sources/" + source.Slug
		if source.Slug == "" {
			location = fmt.Sprintf("#/sources/%d", i)
			result.addError(location, "MISSING_SOURCE_SLUG", "Source must have a slug")
		} else if sourceSlugs[source.Slug] {
			result.addError(location, "DUPLICATE_SOURCE_SLUG",
				fmt.Sprintf("Source slug %q is used more than once", source.Slug))
		}
		sourceSlugs[source.Slug] = true

		if source.Type == "" {
			result.addError(location, "MISSING_SOURCE_TYPE", "Source must have a connector type")
		}

		v.validateStreamSets(source, location, titles, result)
	}

	// Set valid flag
	result.Valid = len(result.Errors) == 0

	return result
}

func (v *Validator) validateSchemaVersion(declared string, result *ValidationResult) {
	version, err := packagefile.SchemaVersionFromURL(declared)
	if err != nil {
		result.addError("#", "UNRECOGNIZED_SCHEMA_VERSION", err.Error())
		return
	}

	current := semver.MustParse(packagefile.CurrentSchemaVersion)
	switch {
	case version.LT(current):
		result.addWarning("#", "OUTDATED_SCHEMA_VERSION",
			fmt.Sprintf("Package file declares schema v%s; it is upgraded to v%s before comparison", version, current))
	case version.GT(current):
		result.addWarning("#", "NEWER_SCHEMA_VERSION",
			fmt.Sprintf("Package file declares schema v%s, newer than v%s; it is compared as is", version, current))
	}
}

func (v *Validator) validateMetadata(pf *packagefile.PackageFile, result *ValidationResult) {
	if v.config.RequireMetadata {
		if pf.PackageSlug == "" {
			result.addError("#", "MISSING_PACKAGE_SLUG", "Package slug is required")
		}
		if pf.DisplayName == "" {
			result.addError("#", "MISSING_DISPLAY_NAME", "Display name is required")
		}
		if pf.Version == "" {
			result.addError("#", "MISSING_VERSION", "Version is required")
		}
	}

	if v.config.RequireSemanticVersion && pf.Version != "" {
		if _, err := semver.Parse(pf.Version); err != nil {
			if _, tolerantErr := semver.ParseTolerant(pf.Version); tolerantErr == nil {
				result.addWarning("#", "NON_CANONICAL_VERSION",
					fmt.Sprintf("Version %q is not in MAJOR.MINOR.PATCH form", pf.Version))
			} else {
				result.addError("#", "INVALID_VERSION",
					fmt.Sprintf("Version %q is not a semantic version: %v", pf.Version, err))
			}
		}
	}

	if v.config.CheckNamingConventions && pf.PackageSlug != "" && !slugPattern.MatchString(pf.PackageSlug) {
		result.addWarning("#", "PACKAGE_SLUG_CONVENTION",
			fmt.Sprintf("Package slug %q should be lowercase letters, digits and dashes", pf.PackageSlug))
	}
}

func (v *Validator) validateSchema(schema *packagefile.Schema, location string, depth int, result *ValidationResult) {
	if v.config.MaxDepth > 0 && depth > v.config.MaxDepth {
		result.addError(location, "MAX_DEPTH_EXCEEDED",
			fmt.Sprintf("Properties are nested deeper than %d levels", v.config.MaxDepth))
		return
	}

	if v.config.CheckKnownTypes {
		for _, name := range schema.Type.Names() {
			if !knownTypes[name] {
				result.addWarning(location, "UNKNOWN_TYPE",
					fmt.Sprintf("Type %q is not a standard JSON Schema type", name))
			}
		}
	}

	if schema.IsObject() && schema.Properties == nil {
		result.addError(location, "MISSING_PROPERTIES", "Object schema must declare properties")
	}

	validatePrecision(location, "recordCountPrecision", schema.RecordCountPrecision, result)
	validatePrecision(location, "byteCountPrecision", schema.ByteCountPrecision, result)
	validateCount(location, "recordCount", schema.RecordCount, result)
	validateCount(location, "byteCount", schema.ByteCount, result)

	if schema.Properties == nil {
		return
	}
	for _, key := range schema.Properties.Keys() {
		child, _ := schema.Properties.Get(key)
		childLocation := location + "/properties/" + key
		if child == nil {
			result.addError(childLocation, "NULL_PROPERTY", "Property must not be null")
			continue
		}
		v.validateSchema(child, childLocation, depth+1, result)
	}
}

func (v *Validator) validateStreamSets(source *packagefile.Source, sourceLocation string, titles map[string]bool, result *ValidationResult) {
	slugs := make(map[string]bool, len(source.StreamSets))

	for i, ss := range source.StreamSets {
		if ss == nil {
			result.addError(fmt.Sprintf("%s/streamSets/%d", sourceLocation, i), "NULL_STREAM_SET", "Stream set must not be null")
			continue
		}
		location := sourceLocation + "/streamSets/" + ss.Slug
		if ss.Slug == "" {
			location = fmt.Sprintf("%s/streamSets/%d", sourceLocation, i)
			result.addError(location, "MISSING_STREAM_SET_SLUG", "Stream set must have a slug")
		} else if slugs[ss.Slug] {
			result.addError(location, "DUPLICATE_STREAM_SET_SLUG",
				fmt.Sprintf("Stream set slug %q is used more than once", ss.Slug))
		}
		slugs[ss.Slug] = true

		if v.config.CheckReferences {
			for _, title := range ss.SchemaTitles {
				if !titles[title] {
					result.addError(location, "UNKNOWN_SCHEMA_REFERENCE",
						fmt.Sprintf("Stream set refers to schema %q which does not exist", title))
				}
			}
		}

		if ss.StreamStats.InspectedCount < 0 {
			result.addError(location, "NEGATIVE_COUNT", "inspectedCount must not be negative")
		}
		validatePrecision(location, "expectedRecordCountPrecision", ss.StreamStats.ExpectedRecordCountPrecision, result)
		validatePrecision(location, "expectedBytesCountPrecision", ss.StreamStats.ExpectedBytesCountPrecision, result)
		validateCount(location, "expectedRecordCount", ss.StreamStats.ExpectedRecordCount, result)
		validateCount(location, "expectedBytesCount", ss.StreamStats.ExpectedBytesCount, result)
	}
}

func validatePrecision(location, field string, p packagefile.CountPrecision, result *ValidationResult) {
	if !p.Valid() {
		result.addError(location, "INVALID_PRECISION",
			fmt.Sprintf("%s %q must be one of EXACT, APPROXIMATE, GREATER_THAN", field, p))
	}
}

func validateCount(location, field string, count *int64, result *ValidationResult) {
	if count != nil && *count < 0 {
		result.addError(location, "NEGATIVE_COUNT", fmt.Sprintf("%s must not be negative", field))
	}
}

func (r *ValidationResult) addError(location, rule, message string) {
	r.Errors = append(r.Errors, &ValidationError{
		Location: location,
		Rule:     rule,
		Message:  message,
		Severity: SeverityError,
	})
}

func (r *ValidationResult) addWarning(location, rule, message string) {
	r.Warnings = append(r.Warnings, &ValidationError{
		Location: location,
		Rule:     rule,
		Message:  message,
		Severity: SeverityWarning,
	})
}

// Rules returns the distinct rules that fired, errors first
func (r *ValidationResult) Rules() []string {
	seen := make(map[string]bool)
	var rules []string
	for _, list := range [][]*ValidationError{r.Errors, r.Warnings} {
		for _, e := range list {
			if !seen[e.Rule] {
				seen[e.Rule] = true
				rules = append(rules, e.Rule)
			}
		}
	}
	return rules
}

// String renders the result one finding per line
func (r *ValidationResult) String() string {
	var b strings.Builder
	for _, list := range [][]*ValidationError{r.Errors, r.Warnings} {
		for _, e := range list {
			fmt.Fprintf(&b, "[%s] %s: %s\n", e.Severity, e.Location, e.Message)
		}
	}
	return b.String()
}
