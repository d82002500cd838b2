package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/microbench/internal/bench"
)

func TestCalculate_Empty(t *testing.T) {
	_, err := Calculate(nil)
	assert.ErrorIs(t, err, bench.ErrInvalidInput)

	_, err = Calculate([]float64{})
	assert.ErrorIs(t, err, bench.ErrInvalidInput)
}

func TestCalculate_RejectsBadSamples(t *testing.T) {
	for _, v := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := Calculate([]float64{1, v, 3})
		assert.ErrorIs(t, err, bench.ErrInvalidInput, "value %v", v)
	}
}

func TestCalculate_SingleElement(t *testing.T) {
	s, err := Calculate([]float64{5})
	require.NoError(t, err)

	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 5.0, s.Mean)
	assert.Equal(t, 5.0, s.Median)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 0.0, s.Variance)
	assert.Equal(t, 0.0, s.CV)
	assert.False(t, math.IsNaN(s.CV))
	assert.Equal(t, 0.0, s.ConfidenceInterval)
	assert.Equal(t, 5.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 5.0, s.P99)
}

func TestCalculate_KnownFixture(t *testing.T) {
	// 1..10 ms
	samples := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}

	s, err := Calculate(samples)
	require.NoError(t, err)

	assert.Equal(t, 10, s.Count)
	assert.InDelta(t, 5.5, s.Mean, 1e-12)
	assert.InDelta(t, 5.5, s.Median, 1e-12)
	// population variance of 1..10 is (n^2-1)/12 = 8.25
	assert.InDelta(t, 8.25, s.Variance, 1e-12)
	assert.InDelta(t, math.Sqrt(8.25), s.StdDev, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 10.0, s.Max)
	// rank 0.9*9 = 8.1 -> 9 + 0.1*(10-9)
	assert.InDelta(t, 9.1, s.P90, 1e-12)
	// rank 0.95*9 = 8.55 -> 9.55
	assert.InDelta(t, 9.55, s.P95, 1e-12)
	// rank 0.99*9 = 8.91 -> 9.91
	assert.InDelta(t, 9.91, s.P99, 1e-12)
	assert.InDelta(t, math.Sqrt(8.25)/5.5, s.CV, 1e-12)
	assert.InDelta(t, 1.96*math.Sqrt(8.25)/math.Sqrt(10), s.ConfidenceInterval, 1e-12)

	// input untouched
	assert.Equal(t, 10.0, samples[0])
	assert.Equal(t, 1.0, samples[9])
}

func TestCalculate_AllEqual(t *testing.T) {
	s, err := Calculate([]float64{3, 3, 3, 3})
	require.NoError(t, err)

	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 0.0, s.CV)
	assert.Equal(t, 3.0, s.P95)
}

func TestCalculate_PercentileOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(200) + 1
		samples := make([]float64, n)
		for i := range samples {
			samples[i] = rng.ExpFloat64() * 3
		}

		s, err := Calculate(samples)
		require.NoError(t, err)

		assert.LessOrEqual(t, s.Min, s.P50)
		assert.LessOrEqual(t, s.P50, s.P90)
		assert.LessOrEqual(t, s.P90, s.P95)
		assert.LessOrEqual(t, s.P95, s.P99)
		assert.LessOrEqual(t, s.P99, s.Max)
		assert.Equal(t, s.Median, s.P50)
	}
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{1, 4},
		{0.5, 2.5},
		{0.25, 1.75},
		{-0.1, 1},
		{1.5, 4},
	}

	for _, tt := range tests {
		got := Quantile(sorted, tt.p)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Quantile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := bench.Statistics{Mean: 2, Median: 1.5, StdDev: 0.5, P95: 3, CV: 0.25}
	r := Summarize("add", s, 1234)

	assert.Equal(t, bench.CaseResult{
		Name: "add", Mean: 2, Median: 1.5, StdDev: 0.5, OpsPerSec: 1234, P95: 3, CV: 0.25,
	}, r)
}
