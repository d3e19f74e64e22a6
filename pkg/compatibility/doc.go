// Package compatibility compares two versions of a package file, classifies
// the differences by their impact on consumers and derives the next semantic
// version.
//
// # Overview
//
// Comparison is a recursive walk over both package files. Schemas are paired
// by title, sources and stream sets by slug, never by position. Every change
// found is reported as a Difference carrying a DifferenceType and a
// JSON-Pointer-like path:
//
//	#/state/properties/population
//	#/sources/census/streamSets/states
//
// The differences are then reduced to a single Compatibility level, the most
// severe level any of them implies, and the level picks the version bump.
//
// # Compatibility Levels
//
// Levels are ordered:
//
//	Identical < MinorChange < CompatibleChange < BreakingChange
//
// BreakingChange: consumers reading the old shape may fail. Removing a
// visible property or schema, changing a property's type, changing the format
// of a string property, hiding a property. Bumps the major version.
//
// CompatibleChange: consumers keep working and may gain data. Adding a
// property or schema, un-hiding a property. Bumps the minor version.
//
// MinorChange: metadata and access changes. Descriptions, display name,
// readme/license text, website, contact, units, source type/URIs/
// configuration, removal of hidden nodes, removal of sources and stream
// sets. Bumps the patch version.
//
// Identical: the data shape and metadata did not change in a way consumers
// care about. New update hashes, new inspection statistics, generator,
// update timestamp, readme/license file paths. No new version is required.
//
// # Usage Example
//
//	diffs, err := compatibility.ComparePackages(prior, next)
//	if err != nil {
//		return err
//	}
//	level, err := compatibility.DiffCompatibility(diffs)
//	if err != nil {
//		return err
//	}
//	current := semver.MustParse(prior.Version)
//	required, err := compatibility.NextVersion(current, level)
//	if err != nil {
//		return err
//	}
//	fmt.Printf("%s change, next version %s\n", level, required)
//
// # Matching Rules
//
// Prior lists drive the walk. A schema, source or stream set present only in
// prior is reported as removed; one present only in next is not reported at
// the top level. Additions are detected among object properties, where every
// added key is reported. Removals among object properties stop at the first
// removed key of each object. WithAllRemovedProperties and WithSchemaAdditions
// lift those two restrictions:
//
//	cmp := compatibility.NewComparator(
//		compatibility.WithAllRemovedProperties(),
//		compatibility.WithSchemaAdditions(),
//	)
//	diffs, err := cmp.ComparePackages(prior, next)
//
// # Type Comparison
//
// A "type" may be a string or an array of strings. Two arrays match when the
// new array contains every prior type, in any order; extra new types are
// allowed. A string and an array never match. Two strings match when equal.
//
// # Errors
//
// Comparing an "object" schema whose properties map is missing on either
// side fails with ErrPropertiesMissing. A difference type without a severity
// fails classification with ErrUnmappedDifferenceType, and NextVersion
// rejects levels outside the four known ones with ErrUnrecognizedCompatibility.
// These are contract violations; callers abort rather than recover.
package compatibility
