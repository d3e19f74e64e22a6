package publish

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blang/semver/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/datapm/pkgcompat/pkg/compatibility"
	"github.com/datapm/pkgcompat/pkg/observability"
	"github.com/datapm/pkgcompat/pkg/packagefile"
)

var (
	// ErrVersionTooLow is returned when a proposed version is below the one the changes require
	ErrVersionTooLow = errors.New("version too low for the changes made")
	// ErrInvalidVersion is returned when a version is not a semantic version
	ErrInvalidVersion = errors.New("invalid version")
)

// Plan is the outcome of comparing a published package file with a new one
type Plan struct {
	ID              string                      `json:"id"`
	PackageSlug     string                      `json:"packageSlug"`
	Compatibility   compatibility.Compatibility `json:"compatibility"`
	PriorVersion    string                      `json:"priorVersion"`
	RequiredVersion string                      `json:"requiredVersion"`
	Differences     []compatibility.Difference  `json:"differences"`
	Summary         compatibility.Summary       `json:"summary"`
	CreatedAt       time.Time                   `json:"createdAt"`
}

// Planner compares package file versions and derives the version to publish
//
// IMPORTANT: Use NewPlanner() to create instances. The zero value is not usable.
type Planner struct {
	comparator *compatibility.Comparator
	logger     *observability.Logger
	metrics    *observability.Metrics
	tracer     trace.Tracer
	now        func() time.Time
	newID      func() string
}

// Option configures a Planner
type Option func(*Planner)

// WithComparator sets the comparator, e.g. one built with non-default options
func WithComparator(c *compatibility.Comparator) Option {
	return func(p *Planner) {
		p.comparator = c
	}
}

// WithLogger sets the logger
func WithLogger(logger *observability.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(metrics *observability.Metrics) Option {
	return func(p *Planner) {
		p.metrics = metrics
	}
}

// WithTracerProvider sets the tracer provider used for spans
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *Planner) {
		p.tracer = observability.Tracer(tp)
	}
}

// NewPlanner creates a new planner
func NewPlanner(opts ...Option) *Planner {
	p := &Planner{
		comparator: compatibility.NewComparator(),
		logger:     observability.NewNopLogger(),
		tracer:     observability.Tracer(nil),
		now:        time.Now,
		newID:      func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan compares prior with next, classifies the differences and computes the
// minimum version next must be published as
func (p *Planner) Plan(ctx context.Context, prior, next *packagefile.PackageFile) (plan *Plan, err error) {
	id := p.newID()
	ctx = observability.WithPlanID(ctx, id)

	ctx, span := p.tracer.Start(ctx, "publish.Plan", trace.WithAttributes(
		attribute.String("pkgcompat.plan_id", id),
		attribute.String("pkgcompat.package", prior.PackageSlug),
	))
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	logger := observability.UpdateLoggerWithTraceContext(ctx, p.logger).WithField("plan_id", id)

	priorVersion, err := semver.ParseTolerant(prior.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: prior version %q: %v", ErrInvalidVersion, prior.Version, err)
	}

	start := time.Now()
	diffs, err := p.comparator.ComparePackages(prior, next)
	if err != nil {
		return nil, fmt.Errorf("failed to compare package files: %w", err)
	}

	level, err := compatibility.DiffCompatibility(diffs)
	if err != nil {
		return nil, err
	}
	summary, err := compatibility.Summarize(diffs)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	required, err := compatibility.NextVersion(priorVersion, level)
	if err != nil {
		return nil, err
	}

	types := make([]string, len(diffs))
	for i, d := range diffs {
		types[i] = string(d.Type)
	}
	p.metrics.RecordComparison(level.String(), types, elapsed)

	span.SetAttributes(
		attribute.String("pkgcompat.compatibility", level.String()),
		attribute.Int("pkgcompat.differences", len(diffs)),
		attribute.String("pkgcompat.required_version", required.String()),
	)

	logger.WithFields(map[string]interface{}{
		"package":          prior.PackageSlug,
		"compatibility":    level.String(),
		"differences":      len(diffs),
		"prior_version":    priorVersion.String(),
		"required_version": required.String(),
	}).Info("Compatibility plan computed")

	if diffs == nil {
		diffs = []compatibility.Difference{}
	}

	return &Plan{
		ID:              id,
		PackageSlug:     prior.PackageSlug,
		Compatibility:   level,
		PriorVersion:    priorVersion.String(),
		RequiredVersion: required.String(),
		Differences:     diffs,
		Summary:         summary,
		CreatedAt:       p.now().UTC(),
	}, nil
}

// CheckVersion verifies that proposed is at least the version the plan
// requires. Identical packages accept the prior version unchanged.
func (p *Planner) CheckVersion(plan *Plan, proposed string) error {
	proposedVersion, err := semver.ParseTolerant(proposed)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidVersion, proposed, err)
	}
	required, err := semver.Parse(plan.RequiredVersion)
	if err != nil {
		return fmt.Errorf("%w: required version %q: %v", ErrInvalidVersion, plan.RequiredVersion, err)
	}

	if proposedVersion.LT(required) {
		p.logger.WithFields(map[string]interface{}{
			"plan_id":          plan.ID,
			"proposed_version": proposedVersion.String(),
			"required_version": plan.RequiredVersion,
		}).Warn("Proposed version is too low")
		return fmt.Errorf("%w: %s is a %s change and requires at least %s, got %s",
			ErrVersionTooLow, plan.PackageSlug, plan.Compatibility, plan.RequiredVersion, proposedVersion)
	}
	return nil
}
