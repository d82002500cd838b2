// Package runner executes a candidate repeatedly and records per-call
// measurements.
//
// Calls are strictly sequential: each call completes before the next one
// starts. The stop condition is evaluated after every call, so a call in
// progress is never interrupted and the time limit may be overshot by at
// most one call.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/wesleyorama2/microbench/internal/bench"
)

// Observer receives the latency of each completed call.
type Observer interface {
	Observe(latency time.Duration)
}

// Runner runs candidates against resolved RunOptions.
type Runner struct {
	observer Observer
	memory   MemorySampler
	cpu      CPUClock
	now      func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithObserver streams every call latency to o (for example a live
// metrics recorder).
func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observer = o }
}

// WithMemorySampler replaces the resident-memory sampler.
func WithMemorySampler(p MemorySampler) Option {
	return func(r *Runner) { r.memory = p }
}

// WithCPUClock replaces the process CPU clock.
func WithCPUClock(c CPUClock) Option {
	return func(r *Runner) { r.cpu = c }
}

// WithClock replaces the wall clock used for latencies and the time bound.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		memory: NewProcessMemorySampler(),
		cpu:    ProcessCPUTime,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes fn under New's defaults. See (*Runner).Run.
func Run(ctx context.Context, fn bench.Candidate, opts bench.RunOptions) (*bench.RunResult, error) {
	return New().Run(ctx, fn, opts)
}

// Run invokes fn until a stop bound is reached.
//
// The run stops after the call that makes count reach opts.Iterations
// (when bounded) or after the first call that ends at or past
// opts.TimeLimit of elapsed time (when bounded), whichever comes first.
//
// Returns a ConfigurationError when both bounds are unbounded, a
// CandidateFunctionError when a call fails or panics (no partial result is
// returned), and the context error when ctx is cancelled between calls.
func (r *Runner) Run(ctx context.Context, fn bench.Candidate, opts bench.RunOptions) (*bench.RunResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, &bench.InvalidInputError{Op: "runner.Run", Reason: fmt.Sprintf("case '%s' has no candidate function", opts.Case)}
	}

	capacity := 0
	if opts.IterationsBounded() {
		capacity = opts.Iterations
		if capacity > preallocLimit {
			capacity = preallocLimit
		}
	}

	samples := bench.SampleSet{Latencies: make([]float64, 0, capacity)}
	if opts.PriorityCPU {
		samples.CPUTimes = make([]float64, 0, capacity)
	}

	sampler := newPeakTracker(r.memory, opts.MemorySampleInterval)
	args := bench.CallArgs{Params: opts.Params, Payload: opts.Payload}

	sampler.sample(r.now())
	cpuStart := r.cpu()
	start := r.now()

	// nil for contexts that can never be cancelled
	done := ctx.Done()

	count := 0
	for {
		select {
		case <-done:
			return nil, fmt.Errorf("case '%s' interrupted after %d iterations: %w", opts.Case, count, ctx.Err())
		default:
		}

		var callCPU float64
		if opts.PriorityCPU {
			callCPU = r.cpu()
		}

		callStart := r.now()
		err := invoke(ctx, fn, args)
		callEnd := r.now()

		if err != nil {
			return nil, &bench.CandidateFunctionError{Case: opts.Case, Iteration: count, Err: err}
		}

		latency := callEnd.Sub(callStart)
		samples.Latencies = append(samples.Latencies, toMillis(latency))
		if opts.PriorityCPU {
			samples.CPUTimes = append(samples.CPUTimes, nonNegative(r.cpu()-callCPU))
		}
		if r.observer != nil {
			r.observer.Observe(latency)
		}
		sampler.maybeSample(callEnd)

		count++
		if opts.IterationsBounded() && count >= opts.Iterations {
			break
		}
		if opts.TimeBounded() && callEnd.Sub(start) >= opts.TimeLimit {
			break
		}
	}

	elapsed := r.now().Sub(start)
	cpuTotal := r.cpu() - cpuStart
	sampler.sample(r.now())

	return &bench.RunResult{
		Samples: samples,
		Resources: bench.ResourceSnapshot{
			CPUTime:    nonNegative(cpuTotal),
			PeakMemory: sampler.peak,
		},
		Count:   count,
		Elapsed: elapsed,
	}, nil
}

// preallocLimit caps up-front sample allocation for large iteration counts.
const preallocLimit = 1 << 20

// invoke calls fn, converting a panic into a PanicError.
func invoke(ctx context.Context, fn bench.Candidate, args bench.CallArgs) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &bench.PanicError{Value: rec}
		}
	}()
	return fn(ctx, args)
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
