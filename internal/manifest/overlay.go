package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlekSi/pointer"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/microbench/internal/bench"
	"github.com/wesleyorama2/microbench/internal/bench/config"
)

// Overlay replaces parts of a registered benchmark from a YAML file.
//
//	name: json-field-access
//	config:
//	  histogram:
//	    bins: 10
//	scenarios:
//	  - name: small
//	    iterations: 50000
//	  - name: huge
//	    timeLimit: 10s
//	    params:
//	      roles: 5000
type Overlay struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Config      map[string]any    `yaml:"config,omitempty"`
	Scenarios   []ScenarioOverlay `yaml:"scenarios,omitempty"`

	// Path is the file the overlay was read from
	Path string `yaml:"-"`
}

// ScenarioOverlay is one scenario entry of an overlay. Entries bind to
// registered scenarios by name; unknown names add new scenarios.
type ScenarioOverlay struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Params      map[string]any `yaml:"params,omitempty"`
	Iterations  *int           `yaml:"iterations,omitempty"`

	// TimeLimit is milliseconds or a duration string such as "2s"
	TimeLimit   any            `yaml:"timeLimit,omitempty"`
	PriorityCPU *bool          `yaml:"priorityCpu,omitempty"`
	Config      map[string]any `yaml:"config,omitempty"`
}

var overlayExtensions = map[string]bool{".yaml": true, ".yml": true}

// LoadOverlay reads an overlay file.
func LoadOverlay(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest overlay: %w", err)
	}

	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse manifest overlay %s: %w", path, err)
	}
	if o.Name == "" {
		return nil, &bench.ConfigurationError{Path: path, Reason: "overlay has no name"}
	}
	o.Path = path
	return &o, nil
}

// FindOverlay searches dir for a YAML overlay whose name is name,
// descending at most maxDepth directories below dir. It returns "" when
// dir does not exist or no overlay matches.
func FindOverlay(dir, name string, maxDepth int) (string, error) {
	root := filepath.Clean(dir)
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}

	var found string
	errFound := errors.New("found")

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if dirDepth(root, path) > maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if !overlayExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		o, err := peekName(path)
		if err != nil || o != name {
			return nil
		}
		found = path
		return errFound
	})
	if err != nil && !errors.Is(err, errFound) {
		return "", fmt.Errorf("failed to search %s for manifests: %w", root, err)
	}
	return found, nil
}

func dirDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

func peekName(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var head struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return "", err
	}
	return head.Name, nil
}

// Apply returns a copy of b with the overlay applied. The overlay's config
// is deep-merged over the manifest layer; when the overlay lists scenarios
// they replace the registered list.
func Apply(b *bench.Benchmark, o *Overlay) (*bench.Benchmark, error) {
	if o == nil {
		return Clone(b), nil
	}
	if o.Name != b.Name {
		return nil, &bench.ConfigurationError{Path: o.Path, Reason: fmt.Sprintf("overlay is for '%s', not '%s'", o.Name, b.Name)}
	}

	out := Clone(b)
	if o.Description != "" {
		out.Description = o.Description
	}
	if len(o.Config) > 0 {
		out.Config = config.DeepMerge(out.Config, o.Config)
	}

	if len(o.Scenarios) > 0 {
		registered := make(map[string]bench.Scenario, len(b.Scenarios))
		for _, s := range out.Scenarios {
			registered[s.Name] = s
		}

		scenarios := make([]bench.Scenario, 0, len(o.Scenarios))
		for i, so := range o.Scenarios {
			s, err := so.apply(registered[so.Name], fmt.Sprintf("scenarios[%d]", i))
			if err != nil {
				return nil, err
			}
			scenarios = append(scenarios, s)
		}
		out.Scenarios = scenarios
	}

	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (so ScenarioOverlay) apply(base bench.Scenario, path string) (bench.Scenario, error) {
	s := base
	s.Name = so.Name
	if so.Description != "" {
		s.Description = so.Description
	}
	if so.Params != nil {
		s.Params = so.Params
	}
	if so.Iterations != nil {
		s.Iterations = pointer.ToInt(*so.Iterations)
	}
	if so.TimeLimit != nil {
		d, err := config.AsDuration(path+".timeLimit", so.TimeLimit)
		if err != nil {
			return bench.Scenario{}, err
		}
		s.TimeLimit = pointer.ToDuration(d)
	}
	if so.PriorityCPU != nil {
		s.PriorityCPU = pointer.ToBool(*so.PriorityCPU)
	}
	if len(so.Config) > 0 {
		s.Config = config.DeepMerge(s.Config, so.Config)
	}
	return s, nil
}

// Load finds the named benchmark and applies an overlay to it. An explicit
// overlayPath wins; otherwise discovery.BenchmarkDir is searched.
func Load(p Provider, name, overlayPath string, discovery config.DiscoverySettings) (*bench.Benchmark, error) {
	b, err := p.Find(name)
	if err != nil {
		return nil, err
	}

	if overlayPath == "" && discovery.BenchmarkDir != "" {
		overlayPath, err = FindOverlay(discovery.BenchmarkDir, name, discovery.MaxDepth)
		if err != nil {
			return nil, err
		}
	}
	if overlayPath == "" {
		return b, nil
	}

	o, err := LoadOverlay(overlayPath)
	if err != nil {
		return nil, err
	}
	return Apply(b, o)
}
