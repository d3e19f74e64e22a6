// Package validation provides structural validation for package files.
//
// # Overview
//
// The comparator assumes a well-formed package file: object schemas carry a
// properties map, titles and slugs are unique, and counts are sane. This
// package checks those preconditions up front so a malformed file is reported
// with a location instead of failing mid-comparison.
//
// # Validation Checks
//
// Metadata:
//   - packageSlug, displayName, version present
//   - version is a semantic version (tolerant forms such as v1.2 only warn)
//   - packageSlug is lowercase-dashed (warning)
//   - $schema is the current version (warning)
//
// Structural Rules:
//   - Schema titles present and unique
//   - Object schemas declare properties
//   - Precision values are EXACT, APPROXIMATE or GREATER_THAN
//   - Counts are not negative
//   - Source and stream set slugs present and unique
//   - Stream set schemaTitles refer to existing schemas
//
// # Usage Example
//
//	validator := validation.NewValidator(validation.DefaultValidationConfig())
//	result := validator.Validate(pf)
//	for _, err := range result.Errors {
//		fmt.Printf("[%s] %s: %s\n", err.Severity, err.Location, err.Message)
//	}
//
// # Related Packages
//
//   - pkg/compatibility: Consumes validated package files
package validation
