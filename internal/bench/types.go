// Package bench defines the data model shared by the micro-benchmark harness.
//
// A Benchmark groups the candidate implementations under comparison (cases)
// with the parameterizations they are measured under (scenarios). Every
// (scenario, case) pair is executed by the runner, reduced by the statistics
// and histogram packages and handed to the reporting adapters by the engine.
package bench

import (
	"context"
	"time"
)

// CallArgs is the single argument passed to every candidate call.
type CallArgs struct {
	// Params are the scenario parameters
	Params map[string]any

	// Payload is the value produced by the benchmark's payload generator
	Payload any
}

// Candidate is an operation under measurement.
//
// The runner only observes completion and failure: a returned error (or a
// panic) aborts the case. Candidates that perform I/O should block until the
// work is done; latency is measured from invocation to return.
type Candidate func(ctx context.Context, args CallArgs) error

// Case is one candidate implementation under comparison.
type Case struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Fn          Candidate `json:"-" yaml:"-"`
}

// Scenario is a named parameterization run across all cases of a benchmark.
//
// Nil bounds defer to the manifest, user and built-in configuration layers.
type Scenario struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Params      map[string]any `json:"params,omitempty" yaml:"params,omitempty"`

	// Iterations caps the number of calls; 0 means unbounded
	Iterations *int `json:"iterations,omitempty" yaml:"iterations,omitempty"`

	// TimeLimit caps the wall time of a case; 0 means unbounded
	TimeLimit *time.Duration `json:"timeLimit,omitempty" yaml:"timeLimit,omitempty"`

	// PriorityCPU records per-call CPU time and headlines it in reports
	PriorityCPU *bool `json:"priorityCpu,omitempty" yaml:"priorityCpu,omitempty"`

	// Config holds arbitrary case-layer configuration overrides
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// Benchmark is a set of cases measured under a set of scenarios.
type Benchmark struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Cases       []Case     `json:"cases" yaml:"cases"`
	Scenarios   []Scenario `json:"scenarios" yaml:"scenarios"`

	// GeneratePayload builds the payload for a scenario. It is called once
	// per scenario, before the first case runs.
	GeneratePayload func(s Scenario) any `json:"-" yaml:"-"`

	// Config is the manifest configuration layer
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// RunOptions are the resolved bounds and inputs for a single case run.
type RunOptions struct {
	// Case names the case being run (used in error reports)
	Case string

	// Iterations is the call cap; values <= 0 are unbounded
	Iterations int

	// TimeLimit is the wall-time cap; values <= 0 are unbounded
	TimeLimit time.Duration

	// PriorityCPU enables per-call CPU time collection
	PriorityCPU bool

	// Params and Payload form the candidate's CallArgs
	Params  map[string]any
	Payload any

	// MemorySampleInterval is the minimum spacing between resident-memory
	// readings (default 50ms)
	MemorySampleInterval time.Duration
}

// IterationsBounded reports whether the iteration cap is finite.
func (o RunOptions) IterationsBounded() bool {
	return o.Iterations > 0
}

// TimeBounded reports whether the time limit is finite.
func (o RunOptions) TimeBounded() bool {
	return o.TimeLimit > 0
}

// Validate ensures at least one stop bound is finite.
func (o RunOptions) Validate() error {
	if !o.IterationsBounded() && !o.TimeBounded() {
		return &ConfigurationError{
			Path:   "defaults",
			Reason: "both iterations and timeLimit are unbounded; at least one must be finite",
		}
	}
	return nil
}

// SampleSet holds per-iteration measurements in milliseconds.
type SampleSet struct {
	// Latencies holds the wall time of each call
	Latencies []float64 `json:"latencies"`

	// CPUTimes holds the process CPU time consumed by each call (priorityCpu only)
	CPUTimes []float64 `json:"cpuTimes,omitempty"`
}

// ResourceSnapshot is captured once per run.
type ResourceSnapshot struct {
	// CPUTime is the process CPU time consumed by the run, in milliseconds
	CPUTime float64 `json:"cpuTime"`

	// PeakMemory is the highest resident set size observed, in bytes
	PeakMemory uint64 `json:"peakMemory"`
}

// RunResult is the raw output of one case run.
type RunResult struct {
	Samples   SampleSet        `json:"samples"`
	Resources ResourceSnapshot `json:"resources"`
	Count     int              `json:"count"`
	Elapsed   time.Duration    `json:"elapsed"`
}

// ElapsedMillis returns the elapsed wall time in milliseconds.
func (r *RunResult) ElapsedMillis() float64 {
	return float64(r.Elapsed) / float64(time.Millisecond)
}

// OpsPerSec returns the call throughput of the run.
func (r *RunResult) OpsPerSec() float64 {
	ms := r.ElapsedMillis()
	if ms <= 0 {
		return 0
	}
	return float64(r.Count) / ms * 1000
}

// Statistics are descriptive statistics over a latency sample set.
// All figures except Count and CV are in milliseconds.
type Statistics struct {
	Count              int     `json:"count"`
	Mean               float64 `json:"mean"`
	Median             float64 `json:"median"`
	StdDev             float64 `json:"stddev"`
	Variance           float64 `json:"variance"`
	Min                float64 `json:"min"`
	Max                float64 `json:"max"`
	P50                float64 `json:"p50"`
	P90                float64 `json:"p90"`
	P95                float64 `json:"p95"`
	P99                float64 `json:"p99"`
	CV                 float64 `json:"cv"`
	ConfidenceInterval float64 `json:"confidenceInterval"`
}

// CaseResult is the comparator-facing summary of one (scenario, case) pair.
type CaseResult struct {
	Name      string  `json:"name"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	StdDev    float64 `json:"stddev"`
	OpsPerSec float64 `json:"opsPerSec"`
	P95       float64 `json:"p95"`
	CV        float64 `json:"cv"`
}
