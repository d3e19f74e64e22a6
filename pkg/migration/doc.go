// Package migration upgrades package files written against older schema
// versions to the current canonical shape.
//
// The chain is an ordered list of Steps. Each step is gated on the
// document's $schema URL, rewrites the document in place and points $schema
// at the next version, so a v0.1.0 document passes through every step in a
// single call:
//
//	v0.1.0 -> v0.2.0  recordCountApproximate/byteCountApproximate become *Precision
//	v0.2.0 -> v0.3.0  inline schema "source" hoisted into sources[] / streamSets[]
//	v0.3.0 -> v0.4.0  string numberMaxValue/numberMinValue re-parsed, dropped if invalid
//	v0.4.0 -> v0.5.0  derivedFrom URL strings become {url} objects
//	v0.5.0 -> v0.6.0  source protocol -> type, uri -> uris[]
//
// A document with no $schema is treated as v0.1.0. A document already at the
// current version passes through unchanged, so upgrading is idempotent.
//
// # Usage Example
//
//	pf, applied, err := migration.UpgradeBytes(data)
//	if errors.Is(err, migration.ErrParsingPackageFile) {
//		// not JSON, or not a package file
//	}
//	for _, t := range applied {
//		log.Printf("upgraded %s", t)
//	}
package migration
