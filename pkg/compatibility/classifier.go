package compatibility

import (
	"errors"
	"fmt"
)

// ErrUnmappedDifferenceType is returned when a difference type has no severity
var ErrUnmappedDifferenceType = errors.New("unmapped difference type")

// SeverityOf returns the compatibility level a single difference type implies
func SeverityOf(t DifferenceType) (Compatibility, error) {
	switch t {
	case RemoveProperty, RemoveSchema, ChangePropertyFormat, ChangePropertyType, HideProperty:
		return BreakingChange, nil

	case AddProperty, AddSchema, UnhideProperty:
		return CompatibleChange, nil

	case ChangePackageDescription, ChangePackageDisplayName, ChangePropertyDesc,
		ChangeSource, ChangeSourceURIs, ChangeSourceConfig,
		ChangeReadmeMarkdown, ChangeLicenseMarkdown, ChangeWebsite, ChangeContactEmail,
		RemoveHiddenProperty, RemoveHiddenSchema, ChangeVersion,
		RemoveSource, RemoveStreamSet, ChangePropertyUnit:
		return MinorChange, nil

	case ChangeStreamUpdateHash, ChangeStreamStats, ChangeGeneratedBy,
		ChangeUpdatedDate, ChangeReadmeFile, ChangeLicenseFile:
		return Identical, nil

	default:
		return Identical, fmt.Errorf("%w: %s", ErrUnmappedDifferenceType, t)
	}
}

// DiffCompatibility reduces a list of differences to the most severe level
// among them. An empty list is Identical.
func DiffCompatibility(diffs []Difference) (Compatibility, error) {
	result := Identical
	for _, d := range diffs {
		severity, err := SeverityOf(d.Type)
		if err != nil {
			return Identical, fmt.Errorf("%s: %w", d.Pointer, err)
		}
		result = LeastCompatible(result, severity)
	}
	return result, nil
}

// Summary counts differences per severity
type Summary struct {
	Total      int `json:"total"`
	Breaking   int `json:"breaking"`
	Compatible int `json:"compatible"`
	Minor      int `json:"minor"`
	NoChange   int `json:"no_change"`
}

// Summarize counts differences per severity
func Summarize(diffs []Difference) (Summary, error) {
	summary := Summary{Total: len(diffs)}

	for _, d := range diffs {
		severity, err := SeverityOf(d.Type)
		if err != nil {
			return Summary{}, err
		}
		switch severity {
		case BreakingChange:
			summary.Breaking++
		case CompatibleChange:
			summary.Compatible++
		case MinorChange:
			summary.Minor++
		case Identical:
			summary.NoChange++
		}
	}

	return summary, nil
}

// GroupBySeverity splits differences by level, keeping traversal order within each group
func GroupBySeverity(diffs []Difference) (map[Compatibility][]Difference, error) {
	groups := make(map[Compatibility][]Difference)
	for _, d := range diffs {
		severity, err := SeverityOf(d.Type)
		if err != nil {
			return nil, err
		}
		groups[severity] = append(groups[severity], d)
	}
	return groups, nil
}
