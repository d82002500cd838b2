package engine

import (
	"time"

	"github.com/wesleyorama2/microbench/internal/bench"
	"github.com/wesleyorama2/microbench/internal/bench/metrics"
)

// CaseLog is everything the logger adapter receives for one finished case.
type CaseLog struct {
	Name         string
	ScenarioName string
	Count        int
	Elapsed      time.Duration
	OpsPerSec    float64
	Statistics   bench.Statistics
	Resources    bench.ResourceSnapshot
	Histogram    string
	PriorityCPU  bool

	// CPUStatistics summarizes per-call CPU time; set only when PriorityCPU
	CPUStatistics *bench.Statistics

	// HDR holds the streaming HDR percentiles recorded during the run
	HDR metrics.LatencyStats
}

// Comparison is what the comparator adapter receives once per scenario.
type Comparison struct {
	ScenarioName string
	Results      []bench.CaseResult
}

// Logger reports the results of a single case.
type Logger interface {
	LogCase(c CaseLog) error
}

// Comparator compares the cases of one scenario. It must not modify
// c.Results.
type Comparator interface {
	Compare(c Comparison) error
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(CaseLog) error

// LogCase calls f(c).
func (f LoggerFunc) LogCase(c CaseLog) error { return f(c) }

// ComparatorFunc adapts a function to Comparator.
type ComparatorFunc func(Comparison) error

// Compare calls f(c).
func (f ComparatorFunc) Compare(c Comparison) error { return f(c) }

// NopLogger discards case logs.
type NopLogger struct{}

// LogCase does nothing.
func (NopLogger) LogCase(CaseLog) error { return nil }

// NopComparator discards comparisons.
type NopComparator struct{}

// Compare does nothing.
func (NopComparator) Compare(Comparison) error { return nil }

// Progress is a live view of the case currently running.
type Progress struct {
	Scenario   string
	Case       string
	Iterations int
	TimeLimit  time.Duration
	Snapshot   metrics.Snapshot

	// Done is set on the final update for a case
	Done bool
}

// ProgressFunc receives progress updates from a background goroutine.
type ProgressFunc func(Progress)
