package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// Comparison metrics
	ComparisonsTotal   *prometheus.CounterVec
	DifferencesTotal   *prometheus.CounterVec
	ComparisonDuration prometheus.Histogram

	// Migration metrics
	MigrationsTotal      *prometheus.CounterVec
	MigrationErrorsTotal prometheus.Counter

	// Loader metrics
	LoadsTotal       *prometheus.CounterVec
	LoadDuration     *prometheus.HistogramVec
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	// Validation metrics
	ValidationErrorsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,

		ComparisonsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pkgcompat_comparisons_total",
				Help: "Total number of package file comparisons by resulting compatibility",
			},
			[]string{"compatibility"},
		),
		DifferencesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pkgcompat_differences_total",
				Help: "Total number of differences found by difference type",
			},
			[]string{"type"},
		),
		ComparisonDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pkgcompat_comparison_duration_seconds",
				Help:    "Comparison duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
		),

		MigrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pkgcompat_migrations_total",
				Help: "Total number of schema migration steps applied",
			},
			[]string{"from", "to"},
		),
		MigrationErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pkgcompat_migration_errors_total",
				Help: "Total number of package files that could not be upgraded",
			},
		),

		LoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pkgcompat_loads_total",
				Help: "Total number of package files loaded",
			},
			[]string{"format", "status"},
		),
		LoadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pkgcompat_load_duration_seconds",
				Help:    "Package file load duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pkgcompat_cache_hits_total",
				Help: "Total number of parsed package file cache hits",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pkgcompat_cache_misses_total",
				Help: "Total number of parsed package file cache misses",
			},
		),

		ValidationErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pkgcompat_validation_errors_total",
				Help: "Total number of validation findings by rule and severity",
			},
			[]string{"rule", "severity"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		m.ComparisonsTotal,
		m.DifferencesTotal,
		m.ComparisonDuration,
		m.MigrationsTotal,
		m.MigrationErrorsTotal,
		m.LoadsTotal,
		m.LoadDuration,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.ValidationErrorsTotal,
	)

	return m
}

// RecordComparison records one comparison, its differences by type and its duration
func (m *Metrics) RecordComparison(compatibility string, differenceTypes []string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ComparisonsTotal.WithLabelValues(compatibility).Inc()
	for _, t := range differenceTypes {
		m.DifferencesTotal.WithLabelValues(t).Inc()
	}
	m.ComparisonDuration.Observe(duration.Seconds())
}

// RecordMigration records one applied migration step
func (m *Metrics) RecordMigration(from, to string) {
	if m == nil {
		return
	}
	m.MigrationsTotal.WithLabelValues(from, to).Inc()
}

// RecordMigrationError records a package file that could not be upgraded
func (m *Metrics) RecordMigrationError() {
	if m == nil {
		return
	}
	m.MigrationErrorsTotal.Inc()
}

// RecordLoad records one package file load
func (m *Metrics) RecordLoad(format string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.LoadsTotal.WithLabelValues(format, status).Inc()
	m.LoadDuration.WithLabelValues(format).Observe(duration.Seconds())
}

// RecordCache records a cache lookup
func (m *Metrics) RecordCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.Inc()
	} else {
		m.CacheMissesTotal.Inc()
	}
}

// RecordValidationFinding records one validation error or warning
func (m *Metrics) RecordValidationFinding(rule, severity string) {
	if m == nil {
		return
	}
	m.ValidationErrorsTotal.WithLabelValues(rule, severity).Inc()
}

// WriteTextfile writes the registry in the Prometheus text exposition format,
// for pickup by a node_exporter textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
