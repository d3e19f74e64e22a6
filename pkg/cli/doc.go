// Package cli provides the datapm-compat command-line interface.
//
// # Overview
//
// The CLI wraps the loader, publish, validation and report packages for use
// in CI pipelines and on a developer machine. Configuration comes from
// PKGCOMPAT_* environment variables (see pkg/config); flags override them.
//
// # Commands
//
// compare: Compare a published package file with a new one
//
//	datapm-compat compare published.json package.json \
//		--format markdown \
//		--fail-on breaking \
//		--check-version
//
// upgrade: Convert a package file to the current schema version
//
//	datapm-compat upgrade package.yaml -o package.json
//
// next-version: Compute the version that follows a change
//
//	datapm-compat next-version 1.0.3 compatible
//
// validate: Check a package file's structure
//
//	datapm-compat validate package.json --strict
//
// schema-version: Print the declared schema version
//
//	datapm-compat schema-version package.json
//
// # Exit Codes
//
// Run returns 0 on success, 3 when a check (--fail-on, --check-version or
// validate) did not pass and 1 for any other error.
package cli
