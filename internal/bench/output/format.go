package output

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// formatNumber rounds v to at most three decimals and adds thousands
// separators; trailing zeros are dropped.
func formatNumber(v float64) string {
	return formatDecimals(v, 3)
}

func formatDecimals(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 1) {
		return "∞"
	}
	if math.IsInf(v, -1) {
		return "-∞"
	}
	scale := math.Pow(10, float64(decimals))
	rounded := math.Round(v*scale) / scale
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	return humanize.Commaf(rounded)
}

// formatCount adds thousands separators to an integer.
func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

// formatMegabytes renders a byte count in MB with two decimals.
func formatMegabytes(b uint64) string {
	return formatDecimals(float64(b)/1024/1024, 2)
}

// formatMillis renders a duration as fractional milliseconds.
func formatMillis(d time.Duration) string {
	return formatNumber(float64(d) / float64(time.Millisecond))
}

// formatDurationShort formats a duration in a short format.
func formatDurationShort(d time.Duration) string {
	switch {
	case d <= 0:
		return "0s"
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fµs", float64(d)/float64(time.Microsecond))
	case d < time.Second:
		return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	default:
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
}

// formatRate renders an operations-per-second figure, abbreviating large
// values with SI prefixes.
func formatRate(opsPerSec float64) string {
	if opsPerSec < 10000 {
		return formatDecimals(opsPerSec, 1) + " ops/s"
	}
	return humanize.SIWithDigits(opsPerSec, 2, "ops/s")
}
