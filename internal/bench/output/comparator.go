package output

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/wesleyorama2/microbench/internal/bench"
	"github.com/wesleyorama2/microbench/internal/bench/engine"
)

// DefaultComparator prints the cases of a scenario ranked by P95 latency,
// followed by speedups relative to the slowest case.
type DefaultComparator struct {
	w       io.Writer
	palette *Palette
	mu      sync.Mutex
}

// NewDefaultComparator creates a comparator writing to w (stdout when nil).
func NewDefaultComparator(w io.Writer, noColor bool) *DefaultComparator {
	if w == nil {
		w = os.Stdout
	}
	return &DefaultComparator{w: w, palette: PaletteFor(w, noColor)}
}

// Speedup is the ratio of the slowest case's P95 to a case's P95.
type Speedup struct {
	Name  string
	Ratio float64
}

// Rank returns a copy of results sorted by ascending P95. Ties keep
// their input order.
func Rank(results []bench.CaseResult) []bench.CaseResult {
	ranked := make([]bench.CaseResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].P95 < ranked[j].P95 })
	return ranked
}

// Speedups computes each case's speedup relative to the case with the
// largest P95, in ranked order. A zero P95 against a non-zero worst yields
// +Inf; when every P95 is zero all ratios are 1.
func Speedups(results []bench.CaseResult) []Speedup {
	ranked := Rank(results)
	if len(ranked) == 0 {
		return nil
	}

	worst := ranked[len(ranked)-1].P95
	out := make([]Speedup, len(ranked))
	for i, r := range ranked {
		ratio := 1.0
		if r.P95 > 0 {
			ratio = worst / r.P95
		} else if worst > 0 {
			ratio = math.Inf(1)
		}
		out[i] = Speedup{Name: r.Name, Ratio: ratio}
	}
	return out
}

// Compare implements engine.Comparator.
func (c *DefaultComparator) Compare(cmp engine.Comparison) error {
	if len(cmp.Results) <= 1 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.palette
	ranked := Rank(cmp.Results)

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(p.Title.Sprintf("Comparison in scenario %s:", cmp.ScenarioName))
	sb.WriteString("\n")

	rows := make([][]string, len(ranked))
	for i, r := range ranked {
		rows[i] = []string{
			r.Name,
			formatNumber(r.Mean),
			formatNumber(r.Median),
			formatNumber(r.StdDev),
			formatDecimals(r.OpsPerSec, 0),
			formatNumber(r.P95),
		}
	}
	sb.WriteString(RenderTable(
		[]string{"Function", "Mean (ms)", "Median (ms)", "StdDev (ms)", "Ops/sec", "P95 (ms)"},
		rows,
	))
	sb.WriteString("\n")

	speedups := Speedups(cmp.Results)
	sb.WriteString("\n")
	sb.WriteString(p.Section.Sprintf("Speedup ratios (relative to %s):", ranked[len(ranked)-1].Name))
	sb.WriteString("\n")
	for i, s := range speedups {
		line := fmt.Sprintf("%s: %sx", s.Name, formatDecimals(s.Ratio, 2))
		if i == 0 {
			line = p.Good.Sprint(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	_, err := io.WriteString(c.w, sb.String())
	return err
}

var _ engine.Comparator = (*DefaultComparator)(nil)
