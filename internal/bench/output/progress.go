package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/wesleyorama2/microbench/internal/bench/engine"
)

// ANSI control for in-place updates
const (
	clearLine = "\033[2K"

	progressFilled = "█"
	progressEmpty  = "░"
	progressWidth  = 30
)

// ProgressDisplay renders live progress for the running case.
//
// On a terminal a single line is redrawn in place. Otherwise only the
// final line of each case is printed so logs and CI output stay readable.
type ProgressDisplay struct {
	w       io.Writer
	isTTY   bool
	palette *Palette

	mu sync.Mutex
}

// ProgressConfig contains configuration for ProgressDisplay.
type ProgressConfig struct {
	Writer   io.Writer
	NoColor  bool
	ForceTTY bool
}

// NewProgressDisplay creates a progress display.
func NewProgressDisplay(config ProgressConfig) *ProgressDisplay {
	if config.Writer == nil {
		config.Writer = os.Stderr
	}
	return &ProgressDisplay{
		w:       config.Writer,
		isTTY:   config.ForceTTY || IsTerminal(config.Writer),
		palette: PaletteFor(config.Writer, config.NoColor),
	}
}

// Update renders one progress update. It is safe to call from the
// recorder's emitter goroutine.
func (d *ProgressDisplay) Update(p engine.Progress) {
	d.mu.Lock()
	defer d.mu.Unlock()

	line := d.render(p)

	if d.isTTY {
		fmt.Fprint(d.w, "\r"+clearLine+line)
		if p.Done {
			fmt.Fprintln(d.w)
		}
		return
	}

	if p.Done {
		fmt.Fprintln(d.w, line)
	}
}

// IsTTY returns whether the output is a terminal.
func (d *ProgressDisplay) IsTTY() bool {
	return d.isTTY
}

func (d *ProgressDisplay) render(p engine.Progress) string {
	s := p.Snapshot
	fraction := Fraction(p)

	return fmt.Sprintf("%s %s %s | %s calls | %s | p95 %s | %s",
		d.palette.Label.Sprintf("%s/%s", p.Scenario, p.Case),
		d.palette.Good.Sprint(renderProgressBar(fraction, progressWidth)),
		d.palette.Value.Sprintf("%3.0f%%", fraction*100),
		formatCount(int(s.Count)),
		formatRate(s.OpsPerSec),
		formatDurationShort(s.Latency.P95),
		d.palette.Dim.Sprint(formatDurationShort(s.Elapsed)),
	)
}

// Fraction estimates how far a case has progressed toward whichever stop
// bound it will hit first.
func Fraction(p engine.Progress) float64 {
	if p.Done {
		return 1
	}

	var f float64
	if p.Iterations > 0 {
		f = float64(p.Snapshot.Count) / float64(p.Iterations)
	}
	if p.TimeLimit > 0 {
		if tf := float64(p.Snapshot.Elapsed) / float64(p.TimeLimit); tf > f {
			f = tf
		}
	}
	if f > 1 {
		f = 1
	}
	return f
}

// renderProgressBar renders a progress bar.
func renderProgressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	filled := int(progress * float64(width))
	empty := width - filled

	return "[" + strings.Repeat(progressFilled, filled) + strings.Repeat(progressEmpty, empty) + "]"
}

// DefaultProgressInterval is how often the live line is redrawn.
const DefaultProgressInterval = 200 * time.Millisecond
