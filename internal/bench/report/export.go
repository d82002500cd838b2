package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/wesleyorama2/microbench/internal/bench/config"
	"github.com/wesleyorama2/microbench/internal/bench/engine"
)

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *engine.Report) error {
	if r == nil {
		return fmt.Errorf("report cannot be nil")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// SaveJSON writes r as JSON to path.
func SaveJSON(r *engine.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	if err := WriteJSON(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// BaseName returns the file name, without extension, used for exports of r:
// "<benchmark>-<start timestamp>".
func BaseName(r *engine.Report) string {
	name := strings.Trim(unsafeChars.ReplaceAllString(r.Benchmark, "-"), "-")
	if name == "" {
		name = "benchmark"
	}
	return fmt.Sprintf("%s-%s", name, r.StartedAt.Format("20060102-150405"))
}

// Export writes the files selected by settings into settings.OutputDir and
// returns their paths. Nothing is written when SaveToFile is false.
func Export(r *engine.Report, settings config.OutputSettings) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("report cannot be nil")
	}
	if !settings.SaveToFile {
		return nil, nil
	}

	dir := settings.OutputDir
	if dir == "" {
		dir = config.DefaultOutputDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	base := filepath.Join(dir, BaseName(r))
	var written []string

	if settings.WantsJSON() {
		path := base + ".json"
		if err := SaveJSON(r, path); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if settings.WantsHTML() {
		path := base + ".html"
		if err := GenerateHTML(r, path); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}
