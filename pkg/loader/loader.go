package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/blang/semver/v4"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/datapm/pkgcompat/pkg/migration"
	"github.com/datapm/pkgcompat/pkg/observability"
	"github.com/datapm/pkgcompat/pkg/packagefile"
)

// Config holds loader configuration
type Config struct {
	// CacheSize is the number of parsed package files kept in memory
	CacheSize int
	// CacheTTL bounds how long a parsed package file stays cached
	CacheTTL time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		CacheSize: 64,
		CacheTTL:  10 * time.Minute,
	}
}

// Result is a package file in the current schema shape
type Result struct {
	File        *packagefile.PackageFile
	Transitions []migration.Transition
	Format      Format
	// Checksum is the hex SHA-256 of the bytes as read
	Checksum string
	Cached   bool
}

// entry is the cached form of a parsed file. The canonical JSON is decoded
// again on every hit so callers never share a PackageFile.
type entry struct {
	canonical   []byte
	transitions []migration.Transition
	format      Format
}

// Loader reads package files of any known schema version and upgrades them
//
// IMPORTANT: Use New() to create instances. The zero value is not usable.
type Loader struct {
	config  *Config
	cache   *lru.LRU[string, *entry]
	logger  *observability.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
}

// Option configures a Loader
type Option func(*Loader)

// WithLogger sets the logger
func WithLogger(logger *observability.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(metrics *observability.Metrics) Option {
	return func(l *Loader) {
		l.metrics = metrics
	}
}

// WithTracerProvider sets the tracer provider used for spans
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(l *Loader) {
		l.tracer = observability.Tracer(tp)
	}
}

// New creates a new loader
func New(config *Config, opts ...Option) *Loader {
	if config == nil {
		config = DefaultConfig()
	}
	size := config.CacheSize
	if size <= 0 {
		size = DefaultConfig().CacheSize
	}

	l := &Loader{
		config: config,
		cache:  lru.NewLRU[string, *entry](size, nil, config.CacheTTL),
		logger: observability.NewNopLogger(),
		tracer: observability.Tracer(nil),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and parses a package file from disk
func (l *Loader) Load(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read package file %s: %w", path, err)
	}

	result, err := l.Parse(ctx, data, DetectFormat(path, data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.logger.WithFields(map[string]interface{}{
		"file":        path,
		"format":      string(result.Format),
		"checksum":    result.Checksum[:12],
		"transitions": len(result.Transitions),
		"cached":      result.Cached,
	}).Debug("Package file loaded")

	return result, nil
}

// Parse parses a package file from memory. FormatAuto sniffs the content.
func (l *Loader) Parse(ctx context.Context, data []byte, format Format) (result *Result, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if format == FormatAuto {
		format = DetectFormat("", data)
	}

	ctx, span := l.tracer.Start(ctx, "loader.Parse", trace.WithAttributes(
		attribute.String("pkgcompat.format", string(format)),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		l.metrics.RecordLoad(string(format), err, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	checksum := Checksum(data)
	span.SetAttributes(attribute.String("pkgcompat.checksum", checksum))

	key := string(format) + ":" + checksum
	if cached, ok := l.cache.Get(key); ok {
		l.metrics.RecordCache(true)
		span.SetAttributes(attribute.Bool("pkgcompat.cached", true))
		pf, err := packagefile.DecodeJSON(cached.canonical)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", migration.ErrParsingPackageFile, err)
		}
		return &Result{
			File:        pf,
			Transitions: cached.transitions,
			Format:      cached.format,
			Checksum:    checksum,
			Cached:      true,
		}, nil
	}
	l.metrics.RecordCache(false)

	jsonData := data
	if format == FormatYAML {
		jsonData, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", migration.ErrParsingPackageFile, err)
		}
	}

	pf, transitions, err := migration.UpgradeBytes(jsonData)
	if err != nil {
		l.metrics.RecordMigrationError()
		return nil, err
	}
	for _, t := range transitions {
		l.metrics.RecordMigration(t.From, t.To)
	}
	if len(transitions) > 0 {
		observability.UpdateLoggerWithTraceContext(ctx, l.logger).
			WithField("from", transitions[0].From).
			WithField("to", packagefile.CurrentSchemaVersion).
			Info("Upgraded package file to current schema")
	}
	span.SetAttributes(attribute.Int("pkgcompat.transitions", len(transitions)))

	canonical, err := packagefile.Encode(pf)
	if err != nil {
		return nil, err
	}
	l.cache.Add(key, &entry{canonical: canonical, transitions: transitions, format: format})

	return &Result{
		File:        pf,
		Transitions: transitions,
		Format:      format,
		Checksum:    checksum,
	}, nil
}

// LoadPair loads the prior and new package files concurrently
func (l *Loader) LoadPair(ctx context.Context, priorPath, nextPath string) (*Result, *Result, error) {
	var prior, next *Result

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		prior, err = l.Load(ctx, priorPath)
		return err
	})
	eg.Go(func() error {
		var err error
		next, err = l.Load(ctx, nextPath)
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return prior, next, nil
}

// DeclaredVersion reads the schema version a package file declares, without
// upgrading it
func DeclaredVersion(path string) (semver.Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return semver.Version{}, fmt.Errorf("failed to read package file %s: %w", path, err)
	}

	if DetectFormat(path, data) == FormatYAML {
		data, err = yamlToJSON(data)
		if err != nil {
			return semver.Version{}, fmt.Errorf("%s: %w: %v", path, migration.ErrParsingPackageFile, err)
		}
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return semver.Version{}, fmt.Errorf("%s: %w: %v", path, migration.ErrParsingPackageFile, err)
	}
	if doc == nil {
		return semver.Version{}, fmt.Errorf("%s: %w: not an object", path, migration.ErrParsingPackageFile)
	}

	v, err := packagefile.SchemaVersion(doc)
	if err != nil {
		return semver.Version{}, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Purge empties the cache
func (l *Loader) Purge() {
	l.cache.Purge()
}

// Len returns the number of cached package files
func (l *Loader) Len() int {
	return l.cache.Len()
}

// Checksum returns the hex SHA-256 of data
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
