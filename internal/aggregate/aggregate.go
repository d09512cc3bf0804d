// Package aggregate orchestrates the adapters for one gate run and seals
// their results into a QualityReport. Adapters run concurrently; the report's
// content is independent of their completion order.
package aggregate

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agentient/qualgate/internal/adapter"
	"github.com/agentient/qualgate/internal/classify"
	"github.com/agentient/qualgate/internal/config"
	"github.com/agentient/qualgate/internal/progress"
	"github.com/agentient/qualgate/internal/report"
	"github.com/agentient/qualgate/internal/scan"
)

// Aggregator runs every applicable adapter plus the coverage adapter over a
// file set and assembles the QualityReport. It never returns an error: a
// failing tool degrades the report instead of aborting the run.
type Aggregator struct {
	runner   adapter.CommandRunner
	registry *adapter.Registry
	coverage *adapter.CoverageAdapter
	cfg      *config.Config
	log      *zap.Logger
	progress progress.Manager
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithProgress attaches a progress manager for interactive runs.
func WithProgress(pm progress.Manager) Option {
	return func(a *Aggregator) { a.progress = pm }
}

// WithRegistry replaces the built-in adapter registry (used by tests).
func WithRegistry(r *adapter.Registry) Option {
	return func(a *Aggregator) { a.registry = r }
}

// New creates an Aggregator. A nil logger is replaced with a no-op one.
func New(runner adapter.CommandRunner, cfg *config.Config, log *zap.Logger, opts ...Option) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Aggregator{
		runner:   runner,
		registry: adapter.NewRegistry(),
		coverage: &adapter.CoverageAdapter{},
		cfg:      cfg,
		log:      log,
		progress: progress.NewManager(false),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes the gate over the given files rooted at dir.
func (a *Aggregator) Run(ctx context.Context, dir string, files []scan.File) *report.QualityReport {
	start := time.Now()

	out := &report.QualityReport{
		RunID:        uuid.NewString(),
		ToolFailures: make(map[string]report.ToolFailure),
		FilesScanned: len(files),
	}

	langs := make(map[scan.Language]bool)
	for _, f := range files {
		langs[f.Language] = true
	}
	adapters := a.applicable(langs)
	withCoverage := a.cfg.ToolEnabled(a.coverage.Name())

	budget := a.cfg.BudgetDuration()
	runCtx, cancelRun := context.WithTimeout(ctx, budget)
	defer cancelRun()

	total := len(adapters)
	if withCoverage {
		total++
	}
	task := a.progress.StartTask("running quality tools", total)
	defer a.progress.Close()

	blocking := a.cfg.BlockingSet()

	var mu sync.Mutex
	aborted := false

	record := func(fn func()) {
		mu.Lock()
		defer mu.Unlock()
		fn()
	}

	g, gCtx := errgroup.WithContext(runCtx)
	g.SetLimit(runtime.NumCPU())

	for _, ad := range adapters {
		ad := ad
		g.Go(func() error {
			defer task.Increment(1)
			a.runAdapter(gCtx, dir, ad, files, out, record, blocking, cancelRun, &aborted)
			// Errors are collected on the report; returning nil lets the
			// remaining adapters finish.
			return nil
		})
	}

	if withCoverage {
		g.Go(func() error {
			defer task.Increment(1)
			a.runCoverage(dir, out, record)
			return nil
		})
	}

	_ = g.Wait()

	if runCtx.Err() == context.DeadlineExceeded || aborted {
		out.Incomplete = true
	}

	report.SortViolations(out.Violations)
	out.GeneratedAt = time.Now().UTC()
	out.DurationMs = time.Since(start).Milliseconds()

	a.log.Debug("gate run aggregated",
		zap.String("run_id", out.RunID),
		zap.Int("violations", len(out.Violations)),
		zap.Int("tool_failures", len(out.ToolFailures)),
		zap.Bool("incomplete", out.Incomplete),
	)
	return out
}

// applicable returns the enabled adapters matching the scanned languages.
func (a *Aggregator) applicable(langs map[scan.Language]bool) []adapter.Adapter {
	var out []adapter.Adapter
	for _, ad := range a.registry.ForLanguages(langs) {
		if a.cfg.ToolEnabled(ad.Name()) {
			out = append(out, ad)
		}
	}
	return out
}

func (a *Aggregator) runAdapter(
	ctx context.Context,
	dir string,
	ad adapter.Adapter,
	files []scan.File,
	out *report.QualityReport,
	record func(func()),
	blocking map[report.Severity]bool,
	cancelRun context.CancelFunc,
	aborted *bool,
) {
	paths := adapter.FilterFiles(ad, files)
	if len(paths) == 0 {
		return
	}

	timeout := a.cfg.ToolTimeout(ad.Name(), ad.DefaultTimeout())
	toolCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	bin, args := ad.Command(paths)
	a.log.Debug("running tool", zap.String("tool", ad.Name()), zap.Int("files", len(paths)))

	stdout, stderr, exitCode, err := a.runner.Run(toolCtx, dir, bin, args...)
	if err != nil {
		record(func() { out.ToolFailures[ad.Name()] = failureFor(toolCtx, err, timeout) })
		return
	}

	findings, perr := ad.Parse(stdout, stderr, exitCode)
	if perr != nil {
		record(func() {
			out.ToolFailures[ad.Name()] = report.ToolFailure{
				Kind:   report.FailureParse,
				Detail: perr.Error(),
			}
		})
		return
	}

	violations := classify.Apply(ad.Name(), findings)

	record(func() {
		out.Violations = append(out.Violations, violations...)
		if a.cfg.FailFast && !*aborted {
			for _, v := range violations {
				if blocking[v.Severity] {
					*aborted = true
					cancelRun()
					break
				}
			}
		}
	})
}

func (a *Aggregator) runCoverage(dir string, out *report.QualityReport, record func(func())) {
	path, err := a.coverage.Discover(dir, a.cfg.Coverage.ReportPath)
	if err != nil {
		record(func() {
			out.ToolFailures[a.coverage.Name()] = report.ToolFailure{
				Kind:   report.FailureMissing,
				Detail: "no coverage report found",
			}
		})
		return
	}

	reports, err := a.coverage.ParseFile(path)
	if err != nil {
		record(func() {
			out.ToolFailures[a.coverage.Name()] = report.ToolFailure{
				Kind:   report.FailureParse,
				Detail: err.Error(),
			}
		})
		return
	}

	record(func() { out.Coverage = reports })
}

// failureFor maps a runner error onto the failure taxonomy.
func failureFor(ctx context.Context, err error, timeout time.Duration) report.ToolFailure {
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		return report.ToolFailure{
			Kind:   report.FailureTimeout,
			Detail: "timed out after " + timeout.String(),
		}
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return report.ToolFailure{
			Kind:   report.FailureMissing,
			Detail: err.Error(),
		}
	default:
		return report.ToolFailure{
			Kind:   report.FailureCrash,
			Detail: err.Error(),
		}
	}
}
