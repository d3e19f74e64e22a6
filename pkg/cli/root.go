package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/datapm/pkgcompat/pkg/config"
	"github.com/datapm/pkgcompat/pkg/loader"
	"github.com/datapm/pkgcompat/pkg/observability"
)

// Exit codes returned by Run
const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitCheckFailed = 3
)

// ErrCheckFailed is returned when a comparison or validation ran but its
// result is not acceptable
var ErrCheckFailed = errors.New("check failed")

// app holds the dependencies shared by every command. It is populated by the
// root command's PersistentPreRunE.
type app struct {
	cfg     *config.Config
	logger  *observability.Logger
	metrics *observability.Metrics
	tp      *sdktrace.TracerProvider
	loader  *loader.Loader
}

type rootOptions struct {
	verbose   bool
	logLevel  string
	logFormat string
}

// NewRootCommand creates the datapm-compat command tree
func NewRootCommand() *cobra.Command {
	cmd, _ := newRootCommand()
	return cmd
}

func newRootCommand() (*cobra.Command, *app) {
	a := &app{}
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "datapm-compat",
		Short: "Compare package file versions and compute the next version",
		Long: `datapm-compat reads datapm package files of any schema version, upgrades
them to the current schema, and compares a published version with a new one.

Every difference is classified as breaking, compatible, minor or no change,
and the most severe one decides the next semantic version.

Exit Codes:
  0  - Success
  1  - General error
  3  - Check failed (see --fail-on, --check-version and validate)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, opts)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format (text, json)")

	cmd.AddCommand(newCompareCommand(a))
	cmd.AddCommand(newUpgradeCommand(a))
	cmd.AddCommand(newNextVersionCommand())
	cmd.AddCommand(newValidateCommand(a))
	cmd.AddCommand(newSchemaVersionCommand(a))

	return cmd, a
}

// setup loads configuration, applies flag overrides and builds the shared dependencies
func (a *app) setup(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if opts.logLevel != "" {
		level, err := observability.ParseLogLevel(opts.logLevel)
		if err != nil {
			return err
		}
		cfg.Observability.LogLevel = level
	}
	if opts.verbose {
		cfg.Observability.LogLevel = observability.DebugLevel
	}
	if opts.logFormat != "" {
		cfg.Observability.LogFormat = observability.LogFormat(strings.ToLower(opts.logFormat))
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.cfg = cfg
	a.logger = observability.NewLoggerWithFormat(cfg.Observability.LogLevel, cfg.Observability.LogFormat, cmd.ErrOrStderr())
	a.metrics = observability.NewMetrics(prometheus.NewRegistry())

	if cfg.Observability.TracingEnabled {
		exporter, err := observability.NewOTLPExporter(cmd.Context(), cfg.Observability.OTLPEndpoint, cfg.Observability.OTLPInsecure)
		if err != nil {
			return err
		}
		a.tp, err = observability.InitTracing(cmd.Context(), observability.TracingConfig{
			Enabled:        true,
			ServiceName:    cfg.Observability.ServiceName,
			ServiceVersion: cfg.Observability.ServiceVersion,
			Exporter:       exporter,
		}, a.logger)
		if err != nil {
			return err
		}
	}

	loaderOpts := []loader.Option{loader.WithLogger(a.logger), loader.WithMetrics(a.metrics)}
	if a.tp != nil {
		loaderOpts = append(loaderOpts, loader.WithTracerProvider(a.tp))
	}
	a.loader = loader.New(&loader.Config{
		CacheSize: cfg.Loader.CacheSize,
		CacheTTL:  loader.DefaultConfig().CacheTTL,
	}, loaderOpts...)

	return nil
}

// teardown flushes spans and writes the metrics textfile. It runs whether or
// not the command succeeded.
func (a *app) teardown(ctx context.Context) error {
	if a.cfg == nil {
		return nil
	}

	var errs []error
	if err := observability.ShutdownTracing(ctx, a.tp, a.logger); err != nil {
		errs = append(errs, err)
	}
	if err := a.metrics.WriteTextfile(a.cfg.Observability.MetricsTextfile); err != nil {
		a.logger.WithError(err).Error("Failed to write metrics")
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Run executes the command line and returns the process exit code
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd, a := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if teardownErr := a.teardown(context.WithoutCancel(ctx)); err == nil {
		err = teardownErr
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}

// ExitCode maps an error returned by a command to a process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrCheckFailed):
		return ExitCheckFailed
	default:
		return ExitError
	}
}
