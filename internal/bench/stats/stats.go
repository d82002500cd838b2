// Package stats reduces latency sample sets to descriptive statistics.
//
// Conventions (fixed for reproducibility):
//   - Variance and standard deviation are population figures (divisor n):
//     the full observed sample set is summarized, not a sub-sample.
//   - Quantiles interpolate linearly between the order statistics at the
//     floor and ceiling of the zero-based rank p·(n-1).
//   - CV is StdDev/Mean, and 0 when StdDev is 0.
//   - ConfidenceInterval is the 95% normal-approximation half-width
//     1.96·StdDev/√n, with no small-sample correction.
//
// All functions are pure and safe for concurrent use.
package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/wesleyorama2/microbench/internal/bench"
)

// Z95 is the two-sided 95% standard normal critical value.
const Z95 = 1.96

// Calculate computes Statistics over samples. The input is never modified.
//
// Returns an InvalidInputError when samples is empty or contains a negative,
// NaN or infinite value.
func Calculate(samples []float64) (bench.Statistics, error) {
	if len(samples) == 0 {
		return bench.Statistics{}, &bench.InvalidInputError{Op: "stats.Calculate", Reason: "sample set is empty"}
	}
	for i, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return bench.Statistics{}, &bench.InvalidInputError{
				Op:     "stats.Calculate",
				Reason: fmt.Sprintf("sample %d is %v; samples must be finite and non-negative", i, v),
			}
		}
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	n := float64(len(sorted))
	mean, variance := stat.PopMeanVariance(sorted, nil)
	stddev := math.Sqrt(variance)

	cv := 0.0
	if stddev != 0 {
		cv = stddev / mean
	}

	median := Quantile(sorted, 0.5)

	return bench.Statistics{
		Count:              len(sorted),
		Mean:               mean,
		Median:             median,
		StdDev:             stddev,
		Variance:           variance,
		Min:                sorted[0],
		Max:                sorted[len(sorted)-1],
		P50:                median,
		P90:                Quantile(sorted, 0.90),
		P95:                Quantile(sorted, 0.95),
		P99:                Quantile(sorted, 0.99),
		CV:                 cv,
		ConfidenceInterval: Z95 * stddev / math.Sqrt(n),
	}, nil
}

// Quantile returns the p-quantile of an ascending-sorted, non-empty slice,
// interpolating between the order statistics around rank p·(n-1).
// p is clamped to [0, 1].
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}

	rank := p * float64(len(sorted)-1)
	lo := math.Floor(rank)
	hi := math.Ceil(rank)
	if lo == hi {
		return sorted[int(lo)]
	}

	lower := sorted[int(lo)]
	upper := sorted[int(hi)]
	return lower + (rank-lo)*(upper-lower)
}

// Summarize builds the comparator-facing CaseResult for a case.
func Summarize(name string, s bench.Statistics, opsPerSec float64) bench.CaseResult {
	return bench.CaseResult{
		Name:      name,
		Mean:      s.Mean,
		Median:    s.Median,
		StdDev:    s.StdDev,
		OpsPerSec: opsPerSec,
		P95:       s.P95,
		CV:        s.CV,
	}
}
