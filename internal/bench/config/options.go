package config

import (
	"fmt"
	"time"

	"github.com/wesleyorama2/microbench/internal/bench"
)

// Paths of the values resolved for every case run.
const (
	PathIterations           = "defaults.iterations"
	PathTimeLimit            = "defaults.timeLimit"
	PathPriorityCPU          = "defaults.priorityCpu"
	PathBins                 = "histogram.bins"
	PathBarWidth             = "histogram.barWidth"
	PathMemorySampleInterval = "runner.memorySampleInterval"
)

// CaseLayer builds the case configuration layer for a scenario: its Config
// overrides with any explicitly set bounds placed under "defaults".
func CaseLayer(s bench.Scenario) map[string]any {
	explicit := map[string]any{}
	if s.Iterations != nil {
		explicit["iterations"] = *s.Iterations
	}
	if s.TimeLimit != nil {
		explicit["timeLimit"] = *s.TimeLimit
	}
	if s.PriorityCPU != nil {
		explicit["priorityCpu"] = *s.PriorityCPU
	}

	layer := DeepCopy(s.Config)
	if len(explicit) == 0 {
		if layer == nil {
			return map[string]any{}
		}
		return layer
	}
	return DeepMerge(layer, map[string]any{"defaults": explicit})
}

// RunOptions resolves the bounds for running a scenario of a benchmark.
//
// Iterations and timeLimit resolve independently through the four layers;
// a resolved value of 0 or nil is unbounded. A ConfigurationError is
// returned when a value has the wrong type, is negative, or when both
// bounds end up unbounded.
func (r *Resolver) RunOptions(b *bench.Benchmark, s bench.Scenario) (bench.RunOptions, error) {
	var manifest map[string]any
	if b != nil {
		manifest = b.Config
	}
	caseLayer := CaseLayer(s)

	iterations, err := r.resolveInt(PathIterations, manifest, caseLayer)
	if err != nil {
		return bench.RunOptions{}, err
	}
	if iterations < 0 {
		return bench.RunOptions{}, &bench.ConfigurationError{Path: PathIterations, Reason: "cannot be negative"}
	}

	timeLimit, err := r.resolveDuration(PathTimeLimit, manifest, caseLayer)
	if err != nil {
		return bench.RunOptions{}, err
	}
	if timeLimit < 0 {
		return bench.RunOptions{}, &bench.ConfigurationError{Path: PathTimeLimit, Reason: "cannot be negative"}
	}

	priority, err := r.resolveBool(PathPriorityCPU, manifest, caseLayer)
	if err != nil {
		return bench.RunOptions{}, err
	}

	sampleEvery, err := r.resolveDuration(PathMemorySampleInterval, manifest, caseLayer)
	if err != nil {
		return bench.RunOptions{}, err
	}

	opts := bench.RunOptions{
		Iterations:           iterations,
		TimeLimit:            timeLimit,
		PriorityCPU:          priority,
		Params:               s.Params,
		MemorySampleInterval: sampleEvery,
	}
	if err := opts.Validate(); err != nil {
		return bench.RunOptions{}, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return opts, nil
}

// HistogramOptions resolves the histogram bin count and bar width for a scenario.
func (r *Resolver) HistogramOptions(b *bench.Benchmark, s bench.Scenario) (bins, barWidth int, err error) {
	var manifest map[string]any
	if b != nil {
		manifest = b.Config
	}
	caseLayer := CaseLayer(s)

	if bins, err = r.resolveInt(PathBins, manifest, caseLayer); err != nil {
		return 0, 0, err
	}
	if barWidth, err = r.resolveInt(PathBarWidth, manifest, caseLayer); err != nil {
		return 0, 0, err
	}
	return bins, barWidth, nil
}

func (r *Resolver) resolveInt(path string, manifest, caseLayer map[string]any) (int, error) {
	v, err := r.Resolve(path, manifest, caseLayer)
	if err != nil {
		return 0, err
	}
	return AsInt(path, v)
}

func (r *Resolver) resolveBool(path string, manifest, caseLayer map[string]any) (bool, error) {
	v, err := r.Resolve(path, manifest, caseLayer)
	if err != nil {
		return false, err
	}
	return AsBool(path, v)
}

func (r *Resolver) resolveDuration(path string, manifest, caseLayer map[string]any) (time.Duration, error) {
	v, err := r.Resolve(path, manifest, caseLayer)
	if err != nil {
		return 0, err
	}
	return AsDuration(path, v)
}
