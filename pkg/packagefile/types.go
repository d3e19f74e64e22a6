package packagefile

import (
	"time"
)

// CountPrecision qualifies a record or byte count
type CountPrecision string

const (
	CountPrecisionExact       CountPrecision = "EXACT"
	CountPrecisionApproximate CountPrecision = "APPROXIMATE"
	CountPrecisionGreaterThan CountPrecision = "GREATER_THAN"
)

// Valid reports whether p is one of the known precisions. The empty value is valid.
func (p CountPrecision) Valid() bool {
	switch p {
	case "", CountPrecisionExact, CountPrecisionApproximate, CountPrecisionGreaterThan:
		return true
	}
	return false
}

// PackageFile is the canonical, current-version description of one published dataset version
type PackageFile struct {
	SchemaURL       string              `json:"$schema"`
	PackageSlug     string              `json:"packageSlug"`
	DisplayName     string              `json:"displayName"`
	Description     string              `json:"description"`
	Version         string              `json:"version"`
	GeneratedBy     string              `json:"generatedBy,omitempty"`
	UpdatedDate     time.Time           `json:"updatedDate,omitzero"`
	ReadmeFile      string              `json:"readmeFile,omitempty"`
	LicenseFile     string              `json:"licenseFile,omitempty"`
	ReadmeMarkdown  string              `json:"readmeMarkdown,omitempty"`
	LicenseMarkdown string              `json:"licenseMarkdown,omitempty"`
	Website         string              `json:"website,omitempty"`
	ContactEmail    string              `json:"contactEmail,omitempty"`
	Registries      []RegistryReference `json:"registries,omitempty"`
	Sources         []*Source           `json:"sources"`
	Schemas         []*Schema           `json:"schemas"`
}

// RegistryReference is a registry the package is published to
type RegistryReference struct {
	URL           string `json:"url"`
	CatalogSlug   string `json:"catalogSlug"`
	PublishMethod string `json:"publishMethod,omitempty"`
}

// Schema is one entity, or one property of an entity
type Schema struct {
	ID                   string                          `json:"$id,omitempty"`
	Title                string                          `json:"title,omitempty"`
	Description          string                          `json:"description,omitempty"`
	Type                 TypeList                        `json:"type,omitzero"`
	Format               string                          `json:"format,omitempty"`
	Unit                 string                          `json:"unit,omitempty"`
	Hidden               bool                            `json:"hidden,omitempty"`
	RecordCount          *int64                          `json:"recordCount,omitempty"`
	RecordCountPrecision CountPrecision                  `json:"recordCountPrecision,omitempty"`
	ByteCount            *int64                          `json:"byteCount,omitempty"`
	ByteCountPrecision   CountPrecision                  `json:"byteCountPrecision,omitempty"`
	Properties           *PropertyMap                    `json:"properties,omitempty"`
	ValueTypes           map[string]*ValueTypeStatistics `json:"valueTypes,omitempty"`
	SampleRecords        []map[string]any                `json:"sampleRecords,omitempty"`
	DerivedFrom          []DerivedFrom                   `json:"derivedFrom,omitempty"`
}

// ValueTypeStatistics summarizes the observed values of one JSON type
type ValueTypeStatistics struct {
	ValueType       string         `json:"valueType"`
	RecordCount     int64          `json:"recordCount"`
	StringMinLength *int           `json:"stringMinLength,omitempty"`
	StringMaxLength *int           `json:"stringMaxLength,omitempty"`
	StringOptions   map[string]int `json:"stringOptions,omitempty"`
	NumberMinValue  *float64       `json:"numberMinValue,omitempty"`
	NumberMaxValue  *float64       `json:"numberMaxValue,omitempty"`
	DateMinValue    *time.Time     `json:"dateMinValue,omitempty"`
	DateMaxValue    *time.Time     `json:"dateMaxValue,omitempty"`
}

// DerivedFrom records where a schema's data came from
type DerivedFrom struct {
	URL         string `json:"url"`
	DisplayName string `json:"displayName,omitempty"`
}

// Source is one data-access definition within a package
type Source struct {
	Slug          string         `json:"slug"`
	Type          string         `json:"type"`
	URIs          []string       `json:"uris"`
	Configuration map[string]any `json:"configuration,omitempty"`
	StreamSets    []*StreamSet   `json:"streamSets"`
}

// StreamSet is one set of streams produced by a Source
type StreamSet struct {
	Slug           string         `json:"slug"`
	Configuration  map[string]any `json:"configuration,omitempty"`
	SchemaTitles   []string       `json:"schemaTitles"`
	LastUpdateHash string         `json:"lastUpdateHash,omitempty"`
	StreamStats    StreamStats    `json:"streamStats"`
}

// StreamStats holds the inspection statistics of a StreamSet
type StreamStats struct {
	InspectedCount               int64          `json:"inspectedCount"`
	ExpectedRecordCount          *int64         `json:"expectedRecordCount,omitempty"`
	ExpectedRecordCountPrecision CountPrecision `json:"expectedRecordCountPrecision,omitempty"`
	ExpectedBytesCount           *int64         `json:"expectedBytesCount,omitempty"`
	ExpectedBytesCountPrecision  CountPrecision `json:"expectedBytesCountPrecision,omitempty"`
}

// FindSchema returns the top-level schema with the given title
func (p *PackageFile) FindSchema(title string) (*Schema, bool) {
	for _, s := range p.Schemas {
		if s != nil && s.Title == title {
			return s, true
		}
	}
	return nil, false
}

// FindSource returns the source with the given slug
func (p *PackageFile) FindSource(slug string) (*Source, bool) {
	for _, s := range p.Sources {
		if s != nil && s.Slug == slug {
			return s, true
		}
	}
	return nil, false
}

// FindStreamSet returns the stream set with the given slug
func (s *Source) FindStreamSet(slug string) (*StreamSet, bool) {
	for _, ss := range s.StreamSets {
		if ss != nil && ss.Slug == slug {
			return ss, true
		}
	}
	return nil, false
}

// IsObject reports whether the schema declares the scalar type "object"
func (s *Schema) IsObject() bool {
	return s.Type.Is("object")
}
