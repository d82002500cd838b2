package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/microbench/internal/bench"
	"github.com/wesleyorama2/microbench/internal/bench/config"
	"github.com/wesleyorama2/microbench/internal/bench/engine"
)

func sampleReport() *engine.Report {
	start := time.Date(2026, 3, 1, 12, 30, 45, 0, time.UTC)
	return &engine.Report{
		RunID:      "0b7d5a64-2a8e-4c41-9b0b-6f3f9b5b8f11",
		Benchmark:  "add vs multiply",
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		Scenarios: []engine.ScenarioReport{
			{
				Name:       "small",
				Iterations: 1000,
				Cases: []engine.CaseReport{
					{
						Summary:    bench.CaseResult{Name: "add", Mean: 0.001, P95: 0.002, OpsPerSec: 900000},
						Count:      1000,
						Elapsed:    time.Millisecond,
						Statistics: bench.Statistics{Count: 1000, Mean: 0.001, P95: 0.002, CV: 0.1},
						Resources:  bench.ResourceSnapshot{CPUTime: 1.2, PeakMemory: 8 << 20},
						Histogram:  "0.00–0.01 | ███ 1000\n",
					},
					{
						Summary:    bench.CaseResult{Name: "multiply", Mean: 0.002, P95: 0.004, OpsPerSec: 450000},
						Count:      1000,
						Elapsed:    2 * time.Millisecond,
						Statistics: bench.Statistics{Count: 1000, Mean: 0.002, P95: 0.004},
						Histogram:  "0.00–0.01 | ███ 1000\n",
					},
				},
			},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "add vs multiply", decoded["benchmark"])
	assert.Equal(t, "0b7d5a64-2a8e-4c41-9b0b-6f3f9b5b8f11", decoded["runId"])

	scenarios := decoded["scenarios"].([]any)
	require.Len(t, scenarios, 1)
	cases := scenarios[0].(map[string]any)["cases"].([]any)
	assert.Len(t, cases, 2)

	assert.Error(t, WriteJSON(&buf, nil))
}

func TestGenerateHTMLString(t *testing.T) {
	html, err := GenerateHTMLString(sampleReport())
	require.NoError(t, err)

	assert.Contains(t, html, "<title>add vs multiply - Benchmark Report</title>")
	assert.Contains(t, html, "0b7d5a64-2a8e-4c41-9b0b-6f3f9b5b8f11")
	assert.Contains(t, html, "<td>multiply</td>")
	assert.Contains(t, html, "chart-0")
	assert.Contains(t, html, `"speedup":[2,1]`)
	assert.Contains(t, html, "8.0 MiB")
	assert.Contains(t, html, "1.5s")

	_, err = GenerateHTMLString(nil)
	assert.Error(t, err)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "add-vs-multiply-20260301-123045", BaseName(sampleReport()))

	r := sampleReport()
	r.Benchmark = "///"
	assert.True(t, strings.HasPrefix(BaseName(r), "benchmark-"))
}

func TestExport(t *testing.T) {
	dir := t.TempDir()

	t.Run("disabled", func(t *testing.T) {
		paths, err := Export(sampleReport(), config.OutputSettings{OutputDir: dir})
		require.NoError(t, err)
		assert.Empty(t, paths)
	})

	t.Run("both formats", func(t *testing.T) {
		out := filepath.Join(dir, "nested", "results")
		paths, err := Export(sampleReport(), config.OutputSettings{SaveToFile: true, OutputDir: out, Format: config.FormatBoth})
		require.NoError(t, err)
		require.Len(t, paths, 2)
		assert.Equal(t, ".json", filepath.Ext(paths[0]))
		assert.Equal(t, ".html", filepath.Ext(paths[1]))

		for _, p := range paths {
			info, err := os.Stat(p)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		}
	})

	t.Run("json only", func(t *testing.T) {
		paths, err := Export(sampleReport(), config.OutputSettings{SaveToFile: true, OutputDir: dir, Format: config.FormatJSON})
		require.NoError(t, err)
		require.Len(t, paths, 1)
		assert.Equal(t, filepath.Join(dir, "add-vs-multiply-20260301-123045.json"), paths[0])
	})
}
