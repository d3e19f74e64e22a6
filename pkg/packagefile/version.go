package packagefile

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/blang/semver/v4"
)

// ErrSchemaVersionNotRecognized is returned when a $schema URL does not name a package file schema version
var ErrSchemaVersionNotRecognized = errors.New("ERROR_SCHEMA_VERSION_NOT_RECOGNIZED")

const (
	// OldestSchemaVersion is assumed for documents that carry no $schema
	OldestSchemaVersion = "0.1.0"
	// CurrentSchemaVersion is the shape of PackageFile
	CurrentSchemaVersion = "0.6.0"
)

// CurrentSchemaURL is the $schema of every canonical PackageFile
var CurrentSchemaURL = SchemaURL(CurrentSchemaVersion)

var schemaURLRegex = regexp.MustCompile(`^https?://datapm\.io/docs/package-file-schema-v(\d+\.\d+\.\d+)\.json$`)

// SchemaURL returns the $schema URL for a schema version token
func SchemaURL(version string) string {
	return fmt.Sprintf("https://datapm.io/docs/package-file-schema-v%s.json", version)
}

// SchemaVersionFromURL extracts the version from a $schema URL. An empty URL
// yields the oldest version.
func SchemaVersionFromURL(url string) (semver.Version, error) {
	if url == "" {
		return semver.MustParse(OldestSchemaVersion), nil
	}
	matches := schemaURLRegex.FindStringSubmatch(url)
	if matches == nil {
		return semver.Version{}, fmt.Errorf("%w: %s", ErrSchemaVersionNotRecognized, url)
	}
	v, err := semver.Parse(matches[1])
	if err != nil {
		return semver.Version{}, fmt.Errorf("%w: %s: %v", ErrSchemaVersionNotRecognized, url, err)
	}
	return v, nil
}

// SchemaVersion returns the schema version declared by a raw, JSON-decoded package file
func SchemaVersion(doc map[string]any) (semver.Version, error) {
	raw, exists := doc["$schema"]
	if !exists || raw == nil {
		return SchemaVersionFromURL("")
	}
	url, ok := raw.(string)
	if !ok {
		return semver.Version{}, fmt.Errorf("%w: $schema is %T", ErrSchemaVersionNotRecognized, raw)
	}
	return SchemaVersionFromURL(url)
}
