// Package packagefile defines the canonical package file: the self-describing
// document that a publishing client writes for every version of a dataset.
//
// # Overview
//
// A PackageFile carries package metadata, a list of Sources (how the data is
// reached) and a list of Schemas (what the data looks like). Schemas are
// trees: an "object" schema holds its properties in a PropertyMap, which
// keeps the order the properties were declared in.
//
// Every document names its shape through the $schema URL:
//
//	https://datapm.io/docs/package-file-schema-v0.6.0.json
//
// Older shapes are brought forward by package migration. This package only
// understands the current shape; CurrentSchemaURL names it.
//
// # Usage Example
//
//	pf, err := packagefile.DecodeJSON(data)
//	if err != nil {
//		return err
//	}
//	for _, schema := range pf.Schemas {
//		fmt.Println(schema.Title, schema.Type)
//	}
//
// # Schema Types
//
// The JSON Schema "type" keyword may be a string or an array of strings.
// TypeList keeps both forms:
//
//	packagefile.SingleType("string")          // "type": "string"
//	packagefile.MultiType("string", "null")   // "type": ["string", "null"]
package packagefile
