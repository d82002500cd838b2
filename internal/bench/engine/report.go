package engine

import (
	"time"

	"github.com/wesleyorama2/microbench/internal/bench"
	"github.com/wesleyorama2/microbench/internal/bench/metrics"
)

// Report is the outcome of a full benchmark run.
type Report struct {
	RunID       string           `json:"runId"`
	Benchmark   string           `json:"benchmark"`
	Description string           `json:"description,omitempty"`
	StartedAt   time.Time        `json:"startedAt"`
	FinishedAt  time.Time        `json:"finishedAt"`
	Scenarios   []ScenarioReport `json:"scenarios"`
}

// Duration returns the wall time of the whole run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Scenario returns the report of the named scenario.
func (r *Report) Scenario(name string) (*ScenarioReport, bool) {
	for i := range r.Scenarios {
		if r.Scenarios[i].Name == name {
			return &r.Scenarios[i], true
		}
	}
	return nil, false
}

// ScenarioReport holds the cases run under one scenario.
type ScenarioReport struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Params      map[string]any `json:"params,omitempty"`
	Iterations  int            `json:"iterations"`
	TimeLimit   time.Duration  `json:"timeLimit"`
	PriorityCPU bool           `json:"priorityCpu"`
	Cases       []CaseReport   `json:"cases"`
}

// Results returns the comparator view of the scenario's cases.
func (s *ScenarioReport) Results() []bench.CaseResult {
	out := make([]bench.CaseResult, len(s.Cases))
	for i, c := range s.Cases {
		out[i] = c.Summary
	}
	return out
}

// CaseReport holds everything measured for one (scenario, case) pair.
type CaseReport struct {
	Summary       bench.CaseResult       `json:"summary"`
	Count         int                    `json:"count"`
	Elapsed       time.Duration          `json:"elapsed"`
	Statistics    bench.Statistics       `json:"statistics"`
	CPUStatistics *bench.Statistics      `json:"cpuStatistics,omitempty"`
	Resources     bench.ResourceSnapshot `json:"resources"`
	Histogram     string                 `json:"histogram"`
	HDR           metrics.LatencyStats   `json:"hdr"`
}
