package compatibility

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/datapm/pkgcompat/pkg/packagefile"
)

// Comparator finds the differences between two versions of a package file.
// It holds no state between calls and is safe for concurrent use.
type Comparator struct {
	allRemovedProperties bool
	schemaAdditions      bool
}

// Option configures a Comparator
type Option func(*Comparator)

// WithAllRemovedProperties reports every property removed from an object.
// By default only the first removed property of each object is reported and
// the remaining properties of that object are not compared.
func WithAllRemovedProperties() Option {
	return func(c *Comparator) {
		c.allRemovedProperties = true
	}
}

// WithSchemaAdditions reports top-level schemas that exist only in the new
// package file as ADD_SCHEMA. By default additions are only detected among
// object properties.
func WithSchemaAdditions() Option {
	return func(c *Comparator) {
		c.schemaAdditions = true
	}
}

// NewComparator creates a new comparator
func NewComparator(opts ...Option) *Comparator {
	c := &Comparator{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultComparator = NewComparator()

// ComparePackages compares two package files with the default comparator
func ComparePackages(prior, next *packagefile.PackageFile) ([]Difference, error) {
	return defaultComparator.ComparePackages(prior, next)
}

// CompareSchemas compares two schema lists with the default comparator
func CompareSchemas(prior, next []*packagefile.Schema) ([]Difference, error) {
	return defaultComparator.CompareSchemas(prior, next)
}

// CompareSchema compares two schemas with the default comparator
func CompareSchema(prior, next *packagefile.Schema, pointer string) ([]Difference, error) {
	return defaultComparator.CompareSchema(prior, next, pointer)
}

// CompareSources compares two source lists
func CompareSources(prior, next []*packagefile.Source) []Difference {
	return defaultComparator.CompareSources(prior, next)
}

// ComparePackages compares package metadata, schemas and sources. Each field
// is checked independently; schema differences follow metadata differences
// and source differences come last.
func (c *Comparator) ComparePackages(prior, next *packagefile.PackageFile) ([]Difference, error) {
	var diffs []Difference
	add := func(changed bool, t DifferenceType) {
		if changed {
			diffs = append(diffs, Difference{Type: t, Pointer: "#"})
		}
	}

	add(prior.Description != next.Description, ChangePackageDescription)
	add(prior.DisplayName != next.DisplayName, ChangePackageDisplayName)
	add(prior.Version != next.Version, ChangeVersion)
	add(prior.ReadmeFile != next.ReadmeFile, ChangeReadmeFile)
	add(prior.Website != next.Website, ChangeWebsite)
	add(prior.ContactEmail != next.ContactEmail, ChangeContactEmail)
	add(prior.ReadmeMarkdown != next.ReadmeMarkdown, ChangeReadmeMarkdown)
	add(prior.LicenseFile != next.LicenseFile, ChangeLicenseFile)
	add(prior.LicenseMarkdown != next.LicenseMarkdown, ChangeLicenseMarkdown)
	add(prior.GeneratedBy != next.GeneratedBy, ChangeGeneratedBy)
	add(prior.UpdatedDate.UnixMilli() != next.UpdatedDate.UnixMilli(), ChangeUpdatedDate)

	schemaDiffs, err := c.CompareSchemas(prior.Schemas, next.Schemas)
	if err != nil {
		return nil, err
	}
	diffs = append(diffs, schemaDiffs...)
	diffs = append(diffs, c.CompareSources(prior.Sources, next.Sources)...)

	return diffs, nil
}

// CompareSources pairs sources by slug. Sources missing from next are
// reported as REMOVE_SOURCE; sources only in next are not reported. Null
// entries are skipped.
func (c *Comparator) CompareSources(prior, next []*packagefile.Source) []Difference {
	var diffs []Difference

	for _, p := range prior {
		if p == nil {
			continue
		}
		pointer := "#/sources/" + p.Slug
		n, found := findSource(next, p.Slug)
		if !found {
			diffs = append(diffs, Difference{Type: RemoveSource, Pointer: pointer})
			continue
		}
		diffs = append(diffs, c.CompareSource(p, n, pointer)...)
	}

	return diffs
}

// CompareSource compares connector type, URIs and configuration, then the
// stream sets of the source.
func (c *Comparator) CompareSource(prior, next *packagefile.Source, pointer string) []Difference {
	var diffs []Difference

	urisEqual := sameSet(prior.URIs, next.URIs)
	if !urisEqual {
		diffs = append(diffs, Difference{Type: ChangeSourceURIs, Pointer: pointer})
	}

	if prior.Type != next.Type || !urisEqual {
		diffs = append(diffs, Difference{Type: ChangeSource, Pointer: pointer})
	} else if !configurationEqual(prior.Configuration, next.Configuration) {
		diffs = append(diffs, Difference{Type: ChangeSourceConfig, Pointer: pointer})
	}

	for _, p := range prior.StreamSets {
		if p == nil {
			continue
		}
		streamPointer := pointer + "/streamSets/" + p.Slug
		n, found := next.FindStreamSet(p.Slug)
		if !found {
			diffs = append(diffs, Difference{Type: RemoveStreamSet, Pointer: streamPointer})
			continue
		}
		diffs = append(diffs, c.CompareStream(p, n, streamPointer)...)
	}

	return diffs
}

// CompareStream compares the inspection statistics and update fingerprint of
// a stream set. The fingerprint is only compared when prior has one.
func (c *Comparator) CompareStream(prior, next *packagefile.StreamSet, pointer string) []Difference {
	var diffs []Difference

	if prior.StreamStats.InspectedCount != next.StreamStats.InspectedCount {
		diffs = append(diffs, Difference{Type: ChangeStreamStats, Pointer: pointer})
	}

	if prior.LastUpdateHash != "" && prior.LastUpdateHash != next.LastUpdateHash {
		diffs = append(diffs, Difference{Type: ChangeStreamUpdateHash, Pointer: pointer})
	}

	return diffs
}

func findSource(sources []*packagefile.Source, slug string) (*packagefile.Source, bool) {
	for _, s := range sources {
		if s != nil && s.Slug == slug {
			return s, true
		}
	}
	return nil, false
}

// configurationEqual compares decoded configuration objects structurally. A
// missing configuration equals an empty one.
func configurationEqual(a, b map[string]any) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}

// sameSet reports whether a and b contain the same strings, ignoring order
func sameSet(a, b []string) bool {
	return len(setDifference(a, b)) == 0 && len(setDifference(b, a)) == 0
}

// setDifference returns elements in a that are not in b
func setDifference(a, b []string) []string {
	bSet := make(map[string]bool, len(b))
	for _, item := range b {
		bSet[item] = true
	}

	var result []string
	for _, item := range a {
		if !bSet[item] {
			result = append(result, item)
		}
	}
	return result
}
