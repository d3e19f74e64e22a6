package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/datapm/pkgcompat/pkg/compatibility"
	"github.com/datapm/pkgcompat/pkg/observability"
	"github.com/datapm/pkgcompat/pkg/publish"
	"github.com/datapm/pkgcompat/pkg/report"
)

// watchDebounce collapses the burst of events an editor produces on save
const watchDebounce = 200 * time.Millisecond

type compareOptions struct {
	format          string
	allRemovals     bool
	schemaAdditions bool
	failOn          string
	checkVersion    bool
	watch           bool
}

func newCompareCommand(a *app) *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare <prior> <new>",
		Short: "Compare two package files and report the required version",
		Long: `Compare the published package file <prior> with <new>.

Both files may be JSON or YAML and of any schema version; they are upgraded
before comparison. The report lists every difference grouped by severity and
the minimum version <new> must be published as.

Examples:
  datapm-compat compare published.json package.json
  datapm-compat compare published.json package.json --format markdown
  datapm-compat compare published.json package.json --fail-on breaking
  datapm-compat compare published.json package.json --watch`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.applyCompareFlags(cmd, opts)
			return runCompare(cmd.Context(), a, cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format (text, json, markdown)")
	cmd.Flags().BoolVar(&opts.allRemovals, "all-removals", false, "Report every removed property, not only the first per object")
	cmd.Flags().BoolVar(&opts.schemaAdditions, "schema-additions", false, "Report new top-level schemas")
	cmd.Flags().StringVar(&opts.failOn, "fail-on", "", "Fail when the change is at least this severe (breaking, compatible, minor, no)")
	cmd.Flags().BoolVar(&opts.checkVersion, "check-version", false, "Fail when the version declared by <new> is below the required version")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-run the comparison whenever <new> changes")

	return cmd
}

// applyCompareFlags fills options the user did not set from the configuration
func (a *app) applyCompareFlags(cmd *cobra.Command, opts *compareOptions) {
	if !cmd.Flags().Changed("format") {
		opts.format = a.cfg.Compare.OutputFormat
	}
	if !cmd.Flags().Changed("all-removals") {
		opts.allRemovals = a.cfg.Compare.ReportAllRemovals
	}
	if !cmd.Flags().Changed("schema-additions") {
		opts.schemaAdditions = a.cfg.Compare.ReportSchemaAdditions
	}
	if !cmd.Flags().Changed("fail-on") {
		opts.failOn = a.cfg.Compare.FailOn
	}
}

func runCompare(ctx context.Context, a *app, out io.Writer, priorPath, nextPath string, opts *compareOptions) error {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	var failOn *compatibility.Compatibility
	if opts.failOn != "" {
		level, err := compatibility.ParseCompatibility(opts.failOn)
		if err != nil {
			return fmt.Errorf("invalid --fail-on: %w", err)
		}
		failOn = &level
	}

	var comparatorOpts []compatibility.Option
	if opts.allRemovals {
		comparatorOpts = append(comparatorOpts, compatibility.WithAllRemovedProperties())
	}
	if opts.schemaAdditions {
		comparatorOpts = append(comparatorOpts, compatibility.WithSchemaAdditions())
	}

	plannerOpts := []publish.Option{
		publish.WithComparator(compatibility.NewComparator(comparatorOpts...)),
		publish.WithLogger(a.logger),
		publish.WithMetrics(a.metrics),
	}
	if a.tp != nil {
		plannerOpts = append(plannerOpts, publish.WithTracerProvider(a.tp))
	}
	planner := publish.NewPlanner(plannerOpts...)

	compare := func() error {
		prior, next, err := a.loader.LoadPair(ctx, priorPath, nextPath)
		if err != nil {
			return err
		}

		plan, err := planner.Plan(ctx, prior.File, next.File)
		if err != nil {
			return err
		}
		if err := report.RenderPlan(out, plan, format); err != nil {
			return err
		}

		if opts.checkVersion {
			if err := planner.CheckVersion(plan, next.File.Version); err != nil {
				return fmt.Errorf("%w: %w", ErrCheckFailed, err)
			}
		}
		if failOn != nil && plan.Compatibility >= *failOn {
			return fmt.Errorf("%w: %s change, failing on %s or worse", ErrCheckFailed, plan.Compatibility, *failOn)
		}
		return nil
	}

	if !opts.watch {
		return compare()
	}

	if err := compare(); err != nil {
		a.logger.WithError(err).Warn("Comparison failed")
	}
	return watchFile(ctx, nextPath, a.logger, compare)
}

// watchFile calls run every time the file at path is written or replaced,
// until ctx is done. The parent directory is watched so editors that save
// through a rename are still seen.
func watchFile(ctx context.Context, path string, logger *observability.Logger, run func() error) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	logger.WithField("file", target).Info("Watching for changes")

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = time.After(watchDebounce)

		case <-pending:
			pending = nil
			logger.WithField("file", target).Debug("File changed")
			func() {
				defer observability.RecoverPanic(logger, "compare")
				if err := run(); err != nil {
					logger.WithError(err).Warn("Comparison failed")
				}
			}()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Error("Watcher error")
		}
	}
}
