// Package output renders benchmark results on the console.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/wesleyorama2/microbench/internal/bench"
	"github.com/wesleyorama2/microbench/internal/bench/engine"
)

// DefaultLogger prints a detailed report for every case.
type DefaultLogger struct {
	w       io.Writer
	palette *Palette
	mu      sync.Mutex
}

// NewDefaultLogger creates a logger writing to w (stdout when nil).
// Colors follow the terminal; pass noColor to force plain output.
func NewDefaultLogger(w io.Writer, noColor bool) *DefaultLogger {
	if w == nil {
		w = os.Stdout
	}
	return &DefaultLogger{w: w, palette: PaletteFor(w, noColor)}
}

// LogCase implements engine.Logger.
func (l *DefaultLogger) LogCase(c engine.CaseLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.palette
	var sb strings.Builder

	rule := strings.Repeat("=", 20)
	sb.WriteString("\n")
	sb.WriteString(p.Title.Sprintf("%s Test Case: %s (%s) %s", rule, c.Name, c.ScenarioName, rule))
	sb.WriteString("\n\n")

	if c.PriorityCPU {
		sb.WriteString(p.Highlight.Sprint("Measurement mode: CPU time"))
		sb.WriteString("\n\n")
	}

	section(&sb, p, "Time Histogram")
	sb.WriteString(c.Histogram)
	sb.WriteString("\n")

	section(&sb, p, "General Performance")
	sb.WriteString(renderPairs([][2]string{
		{"Iterations", formatCount(c.Count)},
		{"Total Time (ms)", formatMillis(c.Elapsed)},
		{"Throughput (ops/sec)", formatNumber(c.OpsPerSec)},
	}))
	sb.WriteString("\n")

	section(&sb, p, "Resources")
	sb.WriteString(renderPairs([][2]string{
		{"CPU time (ms)", formatNumber(c.Resources.CPUTime)},
		{"Peak Memory (MB)", formatMegabytes(c.Resources.PeakMemory)},
	}))
	sb.WriteString("\n")

	if c.PriorityCPU && c.CPUStatistics != nil {
		section(&sb, p, "CPU Time per Call")
		sb.WriteString(statisticsTable(*c.CPUStatistics))
		sb.WriteString("\n")
	}

	section(&sb, p, "Statistics")
	sb.WriteString(statisticsTable(c.Statistics))
	sb.WriteString("\n")

	section(&sb, p, "Percentiles")
	sb.WriteString(renderPairs([][2]string{
		{"P50 (ms)", formatNumber(c.Statistics.P50)},
		{"P90 (ms)", formatNumber(c.Statistics.P90)},
		{"P95 (ms)", formatNumber(c.Statistics.P95)},
		{"P99 (ms)", formatNumber(c.Statistics.P99)},
	}))
	sb.WriteString("\n")

	section(&sb, p, "Variability")
	sb.WriteString(renderPairs([][2]string{
		{"Coeff. Variation (%)", formatDecimals(c.Statistics.CV*100, 2)},
		{"95% CI (±ms)", formatNumber(c.Statistics.ConfidenceInterval)},
	}))
	sb.WriteString("\n")

	_, err := io.WriteString(l.w, sb.String())
	return err
}

func statisticsTable(s bench.Statistics) string {
	return renderPairs([][2]string{
		{"Mean (ms)", formatNumber(s.Mean)},
		{"Median (ms)", formatNumber(s.Median)},
		{"Std. Dev. (ms)", formatNumber(s.StdDev)},
		{"Variance (ms²)", formatNumber(s.Variance)},
		{"Min (ms)", formatNumber(s.Min)},
		{"Max (ms)", formatNumber(s.Max)},
	})
}

func section(sb *strings.Builder, p *Palette, title string) {
	sb.WriteString(p.Section.Sprint(title))
	sb.WriteString("\n")
}

// compile-time interface check
var _ engine.Logger = (*DefaultLogger)(nil)

// formatCaseLine is a one-line summary used by quiet mode.
func formatCaseLine(c engine.CaseLog) string {
	return fmt.Sprintf("%s/%s: %s iterations, mean %s ms, p95 %s ms, %s ops/sec",
		c.ScenarioName, c.Name, formatCount(c.Count),
		formatNumber(c.Statistics.Mean), formatNumber(c.Statistics.P95), formatNumber(c.OpsPerSec))
}

// SummaryLogger prints one line per case.
type SummaryLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewSummaryLogger creates a one-line-per-case logger writing to w.
func NewSummaryLogger(w io.Writer) *SummaryLogger {
	if w == nil {
		w = os.Stdout
	}
	return &SummaryLogger{w: w}
}

// LogCase implements engine.Logger.
func (l *SummaryLogger) LogCase(c engine.CaseLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := fmt.Fprintln(l.w, formatCaseLine(c))
	return err
}
