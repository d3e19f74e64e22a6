// Package observability provides structured logging, Prometheus metrics, and OpenTelemetry tracing.
//
// # Structured Logging
//
// Create logger:
//
//	logger := observability.NewLoggerWithFormat(observability.InfoLevel, observability.TextFormat, os.Stderr)
//	logger.WithField("file", path).Info("Package file loaded")
//
// Context-aware logging carries the plan ID:
//
//	ctx = observability.WithPlanID(observability.WithLogger(ctx, logger), plan.ID)
//	observability.FromContext(ctx).Info("Comparison finished")
//
// # Prometheus Metrics
//
// The CLI is short lived, so metrics are written once to a textfile for the
// node_exporter textfile collector instead of being served:
//
//	metrics := observability.NewMetrics(prometheus.NewRegistry())
//	metrics.RecordComparison("breaking", []string{"REMOVE_PROPERTY"}, elapsed)
//	err := metrics.WriteTextfile("/var/lib/node_exporter/pkgcompat.prom")
//
// All Record methods are no-ops on a nil *Metrics.
//
// # OpenTelemetry
//
// Spans are created through Tracer, which falls back to the global provider:
//
//	ctx, span := observability.Tracer(nil).Start(ctx, "publish.Plan")
//	defer span.End()
//
// # Related Packages
//
//   - pkg/config: log level, format and metrics textfile settings
package observability
