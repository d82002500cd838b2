// Package engine sequences a benchmark run.
//
// For every scenario the orchestrator resolves run options, generates the
// payload once, runs each case through the runner, reduces the samples to
// statistics and a histogram, and hands the results to the reporting
// adapters. Lifecycle hooks fire around benchmark, scenario and case
// boundaries.
//
// Example usage:
//
//	o := engine.New(config.NewResolver(nil), engine.WithLogger(output.NewDefaultLogger(os.Stdout, false)))
//	report, err := o.Run(ctx, benchmark)
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wesleyorama2/microbench/internal/bench"
	"github.com/wesleyorama2/microbench/internal/bench/config"
	"github.com/wesleyorama2/microbench/internal/bench/histogram"
	"github.com/wesleyorama2/microbench/internal/bench/hooks"
	"github.com/wesleyorama2/microbench/internal/bench/metrics"
	"github.com/wesleyorama2/microbench/internal/bench/runner"
	"github.com/wesleyorama2/microbench/internal/bench/stats"
)

// Orchestrator runs benchmarks. It holds no per-run state and may be
// reused, but a single Orchestrator should not run benchmarks concurrently
// since measurements would contend for CPU.
type Orchestrator struct {
	resolver   *config.Resolver
	hooks      *hooks.Registry
	logger     Logger
	comparator Comparator
	log        *slog.Logger
	progress   ProgressFunc
	emitEvery  time.Duration
	runnerOpts []runner.Option
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithHooks sets the lifecycle hook registry.
func WithHooks(r *hooks.Registry) Option {
	return func(o *Orchestrator) { o.hooks = r }
}

// WithLogger sets the per-case logger adapter.
func WithLogger(l Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithComparator sets the per-scenario comparator adapter.
func WithComparator(c Comparator) Option {
	return func(o *Orchestrator) { o.comparator = c }
}

// WithSlog sets the structured logger used for diagnostics.
func WithSlog(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithProgress streams live progress every interval while a case runs.
func WithProgress(fn ProgressFunc, interval time.Duration) Option {
	return func(o *Orchestrator) {
		o.progress = fn
		o.emitEvery = interval
	}
}

// WithRunnerOptions passes options through to every case runner.
func WithRunnerOptions(opts ...runner.Option) Option {
	return func(o *Orchestrator) { o.runnerOpts = append(o.runnerOpts, opts...) }
}

// New creates an orchestrator. Unset adapters default to no-ops.
func New(resolver *config.Resolver, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		resolver:   resolver,
		logger:     NopLogger{},
		comparator: NopComparator{},
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.resolver == nil {
		o.resolver = config.NewResolver(nil)
	}
	if o.log == nil {
		o.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.hooks == nil {
		o.hooks = hooks.NewRegistry(o.log)
	}
	if o.logger == nil {
		o.logger = NopLogger{}
	}
	if o.comparator == nil {
		o.comparator = NopComparator{}
	}
	return o
}

// Run executes every (scenario, case) pair of b.
//
// Configuration errors, candidate failures and statistics errors abort the
// run and are returned; no post hooks fire after such a failure. Hook and
// adapter failures are logged and the run continues.
func (o *Orchestrator) Run(ctx context.Context, b *bench.Benchmark) (*Report, error) {
	if err := ValidateBenchmark(b); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:       uuid.NewString(),
		Benchmark:   b.Name,
		Description: b.Description,
		StartedAt:   time.Now(),
		Scenarios:   make([]ScenarioReport, 0, len(b.Scenarios)),
	}

	log := o.log.With(slog.String("benchmark", b.Name), slog.String("run_id", report.RunID))
	log.InfoContext(ctx, "benchmark started",
		slog.Int("scenarios", len(b.Scenarios)),
		slog.Int("cases", len(b.Cases)),
	)

	o.hooks.Execute(ctx, hooks.PreBenchmark, hooks.Context{Benchmark: b})

	for i := range b.Scenarios {
		scenario := b.Scenarios[i]
		sr, err := o.runScenario(ctx, log, b, &scenario)
		if err != nil {
			log.ErrorContext(ctx, "benchmark aborted", slog.String("scenario", scenario.Name), slog.Any("error", err))
			return nil, err
		}
		report.Scenarios = append(report.Scenarios, *sr)
	}

	o.hooks.Execute(ctx, hooks.PostBenchmark, hooks.Context{Benchmark: b})

	report.FinishedAt = time.Now()
	log.InfoContext(ctx, "benchmark finished", slog.Duration("duration", report.Duration()))
	return report, nil
}

func (o *Orchestrator) runScenario(ctx context.Context, log *slog.Logger, b *bench.Benchmark, s *bench.Scenario) (*ScenarioReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scenario '%s' not started: %w", s.Name, err)
	}

	opts, err := o.resolver.RunOptions(b, *s)
	if err != nil {
		return nil, err
	}
	bins, barWidth, err := o.resolver.HistogramOptions(b, *s)
	if err != nil {
		return nil, err
	}

	log = log.With(slog.String("scenario", s.Name))
	log.DebugContext(ctx, "scenario resolved",
		slog.Int("iterations", opts.Iterations),
		slog.Duration("time_limit", opts.TimeLimit),
		slog.Bool("priority_cpu", opts.PriorityCPU),
	)

	o.hooks.Execute(ctx, hooks.PreScenario, hooks.Context{Benchmark: b, Scenario: s})

	payload, err := generatePayload(b, *s)
	if err != nil {
		return nil, err
	}
	opts.Payload = payload

	sr := &ScenarioReport{
		Name:        s.Name,
		Description: s.Description,
		Params:      s.Params,
		Iterations:  opts.Iterations,
		TimeLimit:   opts.TimeLimit,
		PriorityCPU: opts.PriorityCPU,
		Cases:       make([]CaseReport, 0, len(b.Cases)),
	}

	for i := range b.Cases {
		c := &b.Cases[i]
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("case '%s' not started: %w", c.Name, err)
		}

		o.hooks.Execute(ctx, hooks.PreCase, hooks.Context{Benchmark: b, Scenario: s, Case: c})

		runOpts := opts
		runOpts.Case = c.Name
		cr, err := o.runCase(ctx, log, s.Name, c, runOpts, histogram.Options{Bins: bins, BarWidth: barWidth})
		if err != nil {
			return nil, err
		}
		sr.Cases = append(sr.Cases, *cr)

		summary := cr.Summary
		o.hooks.Execute(ctx, hooks.PostCase, hooks.Context{Benchmark: b, Scenario: s, Case: c, Result: &summary})
	}

	results := sr.Results()
	if len(results) > 1 {
		o.compare(ctx, log, Comparison{ScenarioName: s.Name, Results: results})
	}

	o.hooks.Execute(ctx, hooks.PostScenario, hooks.Context{Benchmark: b, Scenario: s, Results: sr.Results()})
	return sr, nil
}

func (o *Orchestrator) runCase(ctx context.Context, log *slog.Logger, scenario string, c *bench.Case, opts bench.RunOptions, hopts histogram.Options) (*CaseReport, error) {
	log = log.With(slog.String("case", c.Name))
	log.DebugContext(ctx, "case started")

	recorder := metrics.NewRecorderWithConfig(metrics.RecorderConfig{EmitInterval: o.emitEvery})
	if o.progress != nil {
		recorder.Start(func(snap metrics.Snapshot) {
			o.progress(Progress{Scenario: scenario, Case: c.Name, Iterations: opts.Iterations, TimeLimit: opts.TimeLimit, Snapshot: snap})
		})
	}

	// the recorder observes calls live only when a progress view needs it
	var runOpts []runner.Option
	if o.progress != nil {
		runOpts = append(runOpts, runner.WithObserver(recorder))
	}
	runOpts = append(runOpts, o.runnerOpts...)
	result, err := runner.New(runOpts...).Run(ctx, c.Fn, opts)
	recorder.Stop()
	if err != nil {
		return nil, err
	}
	if o.progress == nil {
		recorder.RecordMillis(result.Samples.Latencies)
	}

	snap := recorder.Snapshot()
	if o.progress != nil {
		o.progress(Progress{Scenario: scenario, Case: c.Name, Iterations: opts.Iterations, TimeLimit: opts.TimeLimit, Snapshot: snap, Done: true})
	}

	st, err := stats.Calculate(result.Samples.Latencies)
	if err != nil {
		return nil, fmt.Errorf("case '%s': %w", c.Name, err)
	}

	var cpuStats *bench.Statistics
	if opts.PriorityCPU {
		cs, err := stats.Calculate(result.Samples.CPUTimes)
		if err != nil {
			return nil, fmt.Errorf("case '%s' cpu times: %w", c.Name, err)
		}
		cpuStats = &cs
	}

	hist, err := histogram.BuildWithOptions(result.Samples.Latencies, hopts)
	if err != nil {
		return nil, fmt.Errorf("case '%s': %w", c.Name, err)
	}

	opsPerSec := result.OpsPerSec()
	cr := &CaseReport{
		Summary:       stats.Summarize(c.Name, st, opsPerSec),
		Count:         result.Count,
		Elapsed:       result.Elapsed,
		Statistics:    st,
		CPUStatistics: cpuStats,
		Resources:     result.Resources,
		Histogram:     hist,
		HDR:           snap.Latency,
	}

	log.DebugContext(ctx, "case finished",
		slog.Int("count", result.Count),
		slog.Duration("elapsed", result.Elapsed),
		slog.Float64("ops_per_sec", opsPerSec),
	)

	o.logCase(ctx, log, CaseLog{
		Name:          c.Name,
		ScenarioName:  scenario,
		Count:         result.Count,
		Elapsed:       result.Elapsed,
		OpsPerSec:     opsPerSec,
		Statistics:    st,
		Resources:     result.Resources,
		Histogram:     hist,
		PriorityCPU:   opts.PriorityCPU,
		CPUStatistics: cpuStats,
		HDR:           snap.Latency,
	})

	return cr, nil
}

// logCase and compare isolate adapter failures from the run.
func (o *Orchestrator) logCase(ctx context.Context, log *slog.Logger, c CaseLog) {
	err := guard(func() error { return o.logger.LogCase(c) })
	if err != nil {
		log.WarnContext(ctx, "logger adapter failed", slog.Any("error", err))
	}
}

func (o *Orchestrator) compare(ctx context.Context, log *slog.Logger, c Comparison) {
	err := guard(func() error { return o.comparator.Compare(c) })
	if err != nil {
		log.WarnContext(ctx, "comparator adapter failed", slog.Any("error", err))
	}
}

func guard(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &bench.PanicError{Value: rec}
		}
	}()
	return fn()
}

func generatePayload(b *bench.Benchmark, s bench.Scenario) (payload any, err error) {
	if b.GeneratePayload == nil {
		return nil, nil
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("scenario '%s': payload generation failed: %w", s.Name, &bench.PanicError{Value: rec})
		}
	}()
	return b.GeneratePayload(s), nil
}

// ValidateBenchmark checks that b can be run.
func ValidateBenchmark(b *bench.Benchmark) error {
	if b == nil {
		return &bench.InvalidInputError{Op: "engine.Run", Reason: "benchmark is nil"}
	}
	if b.Name == "" {
		return &bench.InvalidInputError{Op: "engine.Run", Reason: "benchmark name is required"}
	}
	if len(b.Cases) == 0 {
		return &bench.InvalidInputError{Op: "engine.Run", Reason: fmt.Sprintf("benchmark '%s' has no cases", b.Name)}
	}
	if len(b.Scenarios) == 0 {
		return &bench.InvalidInputError{Op: "engine.Run", Reason: fmt.Sprintf("benchmark '%s' has no scenarios", b.Name)}
	}

	seen := make(map[string]bool, len(b.Cases))
	for i, c := range b.Cases {
		if c.Name == "" {
			return &bench.InvalidInputError{Op: "engine.Run", Reason: fmt.Sprintf("case #%d has no name", i)}
		}
		if seen[c.Name] {
			return &bench.InvalidInputError{Op: "engine.Run", Reason: fmt.Sprintf("duplicate case name '%s'", c.Name)}
		}
		seen[c.Name] = true
		if c.Fn == nil {
			return &bench.InvalidInputError{Op: "engine.Run", Reason: fmt.Sprintf("case '%s' has no function", c.Name)}
		}
	}
	return nil
}
