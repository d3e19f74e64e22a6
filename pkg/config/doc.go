// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings. Command line flags override these values.
//
// # Configuration Structure
//
// Comparison settings:
//
//	PKGCOMPAT_OUTPUT_FORMAT="text"  # text, json, markdown
//	PKGCOMPAT_REPORT_ALL_REMOVALS="false"
//	PKGCOMPAT_REPORT_SCHEMA_ADDITIONS="false"
//	PKGCOMPAT_FAIL_ON="breaking"  # breaking, compatible, minor; empty disables
//
// Loader settings:
//
//	PKGCOMPAT_CACHE_SIZE="64"
//
// Observability settings:
//
//	PKGCOMPAT_LOG_LEVEL="info"  # debug, info, warn, error
//	PKGCOMPAT_LOG_FORMAT="text"  # text, json
//	PKGCOMPAT_METRICS_TEXTFILE="/var/lib/node_exporter/pkgcompat.prom"
//	PKGCOMPAT_TRACING_ENABLED="false"
//	PKGCOMPAT_SERVICE_NAME="datapm-compat"
//	PKGCOMPAT_OTLP_ENDPOINT="localhost:4317"  # required when tracing is enabled
//	PKGCOMPAT_OTLP_INSECURE="false"
//
// # Usage Example
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Output: %s\n", cfg.Compare.OutputFormat)
//
// # Related Packages
//
//   - pkg/loader: Uses loader configuration
//   - pkg/observability: Uses observability configuration
package config
