// Package report exports benchmark reports as JSON and HTML files.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/wesleyorama2/microbench/internal/bench/engine"
	"github.com/wesleyorama2/microbench/internal/bench/output"
)

// ReportData contains all data needed to render the HTML report.
type ReportData struct {
	*engine.Report
	ChartJSON template.JS
}

// ChartSeries is one scenario's bar chart data.
type ChartSeries struct {
	Scenario string    `json:"scenario"`
	Cases    []string  `json:"cases"`
	Mean     []float64 `json:"mean"`
	P95      []float64 `json:"p95"`
	Speedup  []float64 `json:"speedup"`
}

// GenerateHTML generates an HTML report and writes it to a file.
func GenerateHTML(r *engine.Report, outputPath string) error {
	html, err := GenerateHTMLString(r)
	if err != nil {
		return fmt.Errorf("failed to generate HTML: %w", err)
	}

	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}

	return nil
}

// GenerateHTMLString renders the HTML report and returns it as a string.
func GenerateHTMLString(r *engine.Report) (string, error) {
	if r == nil {
		return "", fmt.Errorf("report cannot be nil")
	}

	tmpl, err := template.New("report").Funcs(templateFuncs()).Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	chartJSON, err := convertChartJSON(r)
	if err != nil {
		return "", fmt.Errorf("failed to convert chart data: %w", err)
	}

	data := ReportData{
		Report:    r,
		ChartJSON: template.JS(chartJSON),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// convertChartJSON builds the per-scenario chart series.
func convertChartJSON(r *engine.Report) (string, error) {
	series := make([]ChartSeries, 0, len(r.Scenarios))
	for _, s := range r.Scenarios {
		cs := ChartSeries{Scenario: s.Name}
		speedups := map[string]float64{}
		for _, sp := range output.Speedups(s.Results()) {
			speedups[sp.Name] = finite(sp.Ratio)
		}
		for _, c := range s.Cases {
			cs.Cases = append(cs.Cases, c.Summary.Name)
			cs.Mean = append(cs.Mean, c.Summary.Mean)
			cs.P95 = append(cs.P95, c.Summary.P95)
			cs.Speedup = append(cs.Speedup, speedups[c.Summary.Name])
		}
		series = append(series, cs)
	}

	jsonBytes, err := json.Marshal(series)
	if err != nil {
		return "[]", err
	}
	return string(jsonBytes), nil
}

// finite maps an infinite ratio to 0 so it survives JSON encoding.
func finite(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}

// templateFuncs returns the template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDuration": formatDuration,
		"formatMs":       formatMs,
		"formatCount":    formatCount,
		"formatBytes":    formatBytes,
		"mul":            mul,
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dm %ds", mins, secs)
}

// formatMs formats a millisecond figure with up to four decimals.
func formatMs(v float64) string {
	return humanize.FormatFloat("#,###.####", v)
}

func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

func formatBytes(b uint64) string {
	return humanize.IBytes(b)
}

// mul multiplies two float64 values (for template use).
func mul(a, b float64) float64 {
	return a * b
}
