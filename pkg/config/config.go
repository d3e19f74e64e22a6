package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/datapm/pkgcompat/pkg/compatibility"
	"github.com/datapm/pkgcompat/pkg/observability"
)

// Output formats understood by the report package
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Config holds all application configuration
type Config struct {
	// Comparison configuration
	Compare CompareConfig

	// Loader configuration
	Loader LoaderConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// CompareConfig holds comparison and reporting settings
type CompareConfig struct {
	OutputFormat string

	// Report every removed property instead of the first per object
	ReportAllRemovals bool

	// Report new top-level schemas as ADD_SCHEMA
	ReportSchemaAdditions bool

	// Exit non-zero when the result is at least this level; empty disables
	FailOn string
}

// LoaderConfig holds package file loading settings
type LoaderConfig struct {
	CacheSize int
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel  observability.LogLevel
	LogFormat observability.LogFormat

	// Metrics are written to this file after a run when set
	MetricsTextfile string

	// OpenTelemetry
	TracingEnabled bool
	ServiceName    string
	ServiceVersion string
	OTLPEndpoint   string
	OTLPInsecure   bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Compare:       loadCompareConfig(),
		Loader:        loadLoaderConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCompareConfig loads comparison configuration from environment
func loadCompareConfig() CompareConfig {
	return CompareConfig{
		OutputFormat:          strings.ToLower(getEnv("PKGCOMPAT_OUTPUT_FORMAT", FormatText)),
		ReportAllRemovals:     getEnvBool("PKGCOMPAT_REPORT_ALL_REMOVALS", false),
		ReportSchemaAdditions: getEnvBool("PKGCOMPAT_REPORT_SCHEMA_ADDITIONS", false),
		FailOn:                getEnv("PKGCOMPAT_FAIL_ON", ""),
	}
}

// loadLoaderConfig loads loader configuration from environment
func loadLoaderConfig() LoaderConfig {
	return LoaderConfig{
		CacheSize: getEnvInt("PKGCOMPAT_CACHE_SIZE", 64),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:        parseLogLevel(getEnv("PKGCOMPAT_LOG_LEVEL", "info")),
		LogFormat:       observability.LogFormat(strings.ToLower(getEnv("PKGCOMPAT_LOG_FORMAT", string(observability.TextFormat)))),
		MetricsTextfile: getEnv("PKGCOMPAT_METRICS_TEXTFILE", ""),
		TracingEnabled:  getEnvBool("PKGCOMPAT_TRACING_ENABLED", false),
		ServiceName:     getEnv("PKGCOMPAT_SERVICE_NAME", "datapm-compat"),
		ServiceVersion:  getEnv("PKGCOMPAT_SERVICE_VERSION", "dev"),
		OTLPEndpoint:    getEnv("PKGCOMPAT_OTLP_ENDPOINT", ""),
		OTLPInsecure:    getEnvBool("PKGCOMPAT_OTLP_INSECURE", false),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Compare.OutputFormat {
	case FormatText, FormatJSON, FormatMarkdown:
	default:
		return fmt.Errorf("invalid output format: %s (must be text, json, or markdown)", c.Compare.OutputFormat)
	}

	if c.Compare.FailOn != "" {
		if _, err := compatibility.ParseCompatibility(c.Compare.FailOn); err != nil {
			return fmt.Errorf("invalid fail-on level: %w", err)
		}
	}

	if c.Loader.CacheSize <= 0 {
		return fmt.Errorf("cache size must be positive, got %d", c.Loader.CacheSize)
	}

	switch c.Observability.LogFormat {
	case observability.JSONFormat, observability.TextFormat:
	default:
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Observability.LogFormat)
	}

	if c.Observability.TracingEnabled && c.Observability.ServiceName == "" {
		return fmt.Errorf("service name is required when tracing is enabled")
	}

	if c.Observability.TracingEnabled && c.Observability.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when tracing is enabled")
	}

	return nil
}

// parseLogLevel parses a log level string, falling back to info
func parseLogLevel(level string) observability.LogLevel {
	parsed, err := observability.ParseLogLevel(level)
	if err != nil {
		return observability.InfoLevel
	}
	return parsed
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
