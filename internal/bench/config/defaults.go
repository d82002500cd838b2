package config

// Built-in default values.
const (
	DefaultIterations           = 100000
	DefaultTimeLimitMillis      = 5000
	DefaultBenchmarkDir         = "bench/"
	DefaultMaxDepth             = 3
	DefaultBins                 = 6
	DefaultBarWidth             = 40
	DefaultOutputDir            = "results"
	DefaultOutputFormat         = "json"
	DefaultMemorySampleInterval = 50
)

// Defaults returns a fresh copy of the built-in configuration layer.
func Defaults() map[string]any {
	return map[string]any{
		"discovery": map[string]any{
			"benchmarkDir": DefaultBenchmarkDir,
			"maxDepth":     DefaultMaxDepth,
		},
		"defaults": map[string]any{
			"iterations":  DefaultIterations,
			"timeLimit":   DefaultTimeLimitMillis,
			"priorityCpu": false,
		},
		"histogram": map[string]any{
			"bins":     DefaultBins,
			"barWidth": DefaultBarWidth,
		},
		"output": map[string]any{
			"enableConsole": true,
			"saveToFile":    false,
			"outputDir":     DefaultOutputDir,
			"format":        DefaultOutputFormat,
		},
		"runner": map[string]any{
			"memorySampleInterval": DefaultMemorySampleInterval,
		},
	}
}
