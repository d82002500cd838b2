package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Settings is the typed view of a merged configuration tree.
type Settings struct {
	Discovery DiscoverySettings `mapstructure:"discovery" json:"discovery" yaml:"discovery"`
	Defaults  DefaultSettings   `mapstructure:"defaults" json:"defaults" yaml:"defaults"`
	Histogram HistogramSettings `mapstructure:"histogram" json:"histogram" yaml:"histogram"`
	Output    OutputSettings    `mapstructure:"output" json:"output" yaml:"output"`
	Runner    RunnerSettings    `mapstructure:"runner" json:"runner" yaml:"runner"`
}

// DiscoverySettings control where manifest overlays are searched for.
type DiscoverySettings struct {
	BenchmarkDir string `mapstructure:"benchmarkDir" json:"benchmarkDir" yaml:"benchmarkDir"`
	MaxDepth     int    `mapstructure:"maxDepth" json:"maxDepth" yaml:"maxDepth"`
}

// DefaultSettings are the run bounds used when no higher layer sets them.
type DefaultSettings struct {
	Iterations  int           `mapstructure:"iterations" json:"iterations" yaml:"iterations"`
	TimeLimit   time.Duration `mapstructure:"timeLimit" json:"timeLimit" yaml:"timeLimit"`
	PriorityCPU bool          `mapstructure:"priorityCpu" json:"priorityCpu" yaml:"priorityCpu"`
}

// HistogramSettings shape the text histogram.
type HistogramSettings struct {
	Bins     int `mapstructure:"bins" json:"bins" yaml:"bins"`
	BarWidth int `mapstructure:"barWidth" json:"barWidth" yaml:"barWidth"`
}

// OutputSettings select the console adapters and file export.
type OutputSettings struct {
	EnableConsole bool   `mapstructure:"enableConsole" json:"enableConsole" yaml:"enableConsole"`
	SaveToFile    bool   `mapstructure:"saveToFile" json:"saveToFile" yaml:"saveToFile"`
	OutputDir     string `mapstructure:"outputDir" json:"outputDir" yaml:"outputDir"`
	Format        string `mapstructure:"format" json:"format" yaml:"format"`
}

// RunnerSettings tune resource sampling.
type RunnerSettings struct {
	MemorySampleInterval time.Duration `mapstructure:"memorySampleInterval" json:"memorySampleInterval" yaml:"memorySampleInterval"`
}

// Export formats accepted by output.format.
const (
	FormatJSON = "json"
	FormatHTML = "html"
	FormatBoth = "both"
)

// WantsJSON reports whether the JSON export is enabled.
func (o OutputSettings) WantsJSON() bool {
	return o.Format == "" || o.Format == FormatJSON || o.Format == FormatBoth
}

// WantsHTML reports whether the HTML export is enabled.
func (o OutputSettings) WantsHTML() bool {
	return o.Format == FormatHTML || o.Format == FormatBoth
}

// Decode converts a configuration tree into Settings. Keys the Settings
// type does not know about are ignored.
func Decode(tree map[string]any) (*Settings, error) {
	var s Settings

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       durationHook,
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create config decoder: %w", err)
	}

	if err := decoder.Decode(tree); err != nil {
		return nil, &ValidationErrors{Errors: []*ValidationError{{Message: err.Error()}}}
	}
	return &s, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// durationHook applies the millisecond convention to time.Duration fields.
func durationHook(from, to reflect.Type, data any) (any, error) {
	if to != durationType || from == durationType {
		return data, nil
	}
	return AsDuration("", data)
}
