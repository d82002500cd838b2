package output

import (
	"io"

	"github.com/fatih/color"
)

// Palette defines the colors used for the console report.
type Palette struct {
	Title     *color.Color
	Section   *color.Color
	Label     *color.Color
	Value     *color.Color
	Good      *color.Color
	Bad       *color.Color
	Dim       *color.Color
	Highlight *color.Color
}

// DefaultPalette returns the default palette.
func DefaultPalette() *Palette {
	return &Palette{
		Title:     color.New(color.FgCyan, color.Bold),
		Section:   color.New(color.FgBlue, color.Bold),
		Label:     color.New(color.FgYellow),
		Value:     color.New(color.FgWhite),
		Good:      color.New(color.FgGreen, color.Bold),
		Bad:       color.New(color.FgRed, color.Bold),
		Dim:       color.New(color.Faint),
		Highlight: color.New(color.FgMagenta, color.Bold),
	}
}

// NoColorPalette returns a palette with all colors disabled.
func NoColorPalette() *Palette {
	p := DefaultPalette()
	for _, c := range []*color.Color{p.Title, p.Section, p.Label, p.Value, p.Good, p.Bad, p.Dim, p.Highlight} {
		c.DisableColor()
	}
	return p
}

// PaletteFor picks the palette for a writer. Colors are used only when
// noColor is false and w is a color-capable terminal.
func PaletteFor(w io.Writer, noColor bool) *Palette {
	if noColor || !IsTerminal(w) || !supportsColors() {
		return NoColorPalette()
	}
	return DefaultPalette()
}

// SuccessIcon returns a checkmark symbol with appropriate color
func SuccessIcon(noColor bool) string {
	if noColor {
		return "✓"
	}
	return color.New(color.FgGreen).Sprint("✓")
}

// ErrorIcon returns an X symbol with appropriate color
func ErrorIcon(noColor bool) string {
	if noColor {
		return "✗"
	}
	return color.New(color.FgRed).Sprint("✗")
}

// WarningIcon returns a warning symbol with appropriate color
func WarningIcon(noColor bool) string {
	if noColor {
		return "⚠"
	}
	return color.New(color.FgYellow).Sprint("⚠")
}
