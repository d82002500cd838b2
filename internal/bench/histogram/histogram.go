// Package histogram bins latency samples into an equal-width frequency
// distribution and renders it as text bars.
package histogram

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/wesleyorama2/microbench/internal/bench"
)

const (
	// DefaultBins is the number of bins used when none is configured.
	DefaultBins = 6

	// DefaultBarWidth is the length of the bar for the most populated bin.
	DefaultBarWidth = 40

	barChar = "█"
)

// Options controls histogram rendering.
type Options struct {
	// Bins is the number of equal-width bins (>= 1)
	Bins int

	// BarWidth is the bar length of the fullest bin (>= 1)
	BarWidth int
}

// DefaultOptions returns 6 bins scaled to 40 characters.
func DefaultOptions() Options {
	return Options{Bins: DefaultBins, BarWidth: DefaultBarWidth}
}

// Bin is one bucket of the distribution, covering [Start, End).
// The last bin also includes the maximum sample.
type Bin struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

// Build renders samples into bins with the default bar width.
func Build(samples []float64, bins int) (string, error) {
	return BuildWithOptions(samples, Options{Bins: bins, BarWidth: DefaultBarWidth})
}

// BuildWithOptions renders samples as one line per bin:
//
//	<start>–<end> | ████████ <count>
//
// Range labels are padded to a common width so the bars line up.
func BuildWithOptions(samples []float64, opts Options) (string, error) {
	if opts.BarWidth < 1 {
		return "", &bench.InvalidInputError{Op: "histogram.Build", Reason: "bar width must be at least 1"}
	}

	bins, err := Compute(samples, opts.Bins)
	if err != nil {
		return "", err
	}

	maxCount := 0
	labels := make([]string, len(bins))
	labelWidth := 0
	for i, b := range bins {
		if b.Count > maxCount {
			maxCount = b.Count
		}
		labels[i] = fmt.Sprintf("%.2f–%.2f", b.Start, b.End)
		if w := utf8.RuneCountInString(labels[i]); w > labelWidth {
			labelWidth = w
		}
	}

	var sb strings.Builder
	for i, b := range bins {
		barLen := int(math.Round(float64(b.Count) / float64(maxCount) * float64(opts.BarWidth)))
		fmt.Fprintf(&sb, "%-*s | %s %d\n", labelWidth, labels[i], strings.Repeat(barChar, barLen), b.Count)
	}

	return sb.String(), nil
}

// Compute bins samples into the given number of equal-width bins between the
// sample minimum and maximum.
//
// When every sample is equal the bin width falls back to 1, so all samples
// land in the first bin. A value's bin is floor((v-min)/width), clamped to the
// last bin so the maximum never overflows. Bin counts always sum to
// len(samples).
func Compute(samples []float64, bins int) ([]Bin, error) {
	if len(samples) == 0 {
		return nil, &bench.InvalidInputError{Op: "histogram.Build", Reason: "sample set is empty"}
	}
	if bins < 1 {
		return nil, &bench.InvalidInputError{Op: "histogram.Build", Reason: fmt.Sprintf("bin count must be at least 1, got %d", bins)}
	}

	lo, hi := samples[0], samples[0]
	for _, v := range samples[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	width := (hi - lo) / float64(bins)
	if width == 0 || math.IsNaN(width) {
		width = 1
	}

	result := make([]Bin, bins)
	for i := range result {
		result[i].Start = lo + float64(i)*width
		result[i].End = lo + float64(i+1)*width
	}

	for _, v := range samples {
		idx := int(math.Floor((v - lo) / width))
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		result[idx].Count++
	}

	return result, nil
}
