// Package manifest finds the benchmarks the CLI can run.
//
// Benchmarks are Go values registered in a Registry; their scenarios and
// manifest-level configuration can be replaced by YAML overlay files.
package manifest

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/wesleyorama2/microbench/internal/bench"
	"github.com/wesleyorama2/microbench/internal/bench/config"
	"github.com/wesleyorama2/microbench/internal/bench/engine"
)

// ErrNotFound is returned when no benchmark has the requested name.
var ErrNotFound = errors.New("benchmark not found")

// Summary describes a registered benchmark.
type Summary struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Cases       int    `json:"cases" yaml:"cases"`
	Scenarios   int    `json:"scenarios" yaml:"scenarios"`
}

// Provider looks up benchmarks by name.
type Provider interface {
	Find(name string) (*bench.Benchmark, error)
	List() []Summary
}

// Registry is an in-process Provider.
type Registry struct {
	mu         sync.RWMutex
	benchmarks map[string]*bench.Benchmark
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{benchmarks: make(map[string]*bench.Benchmark)}
}

// Register validates b and adds it. Names must be unique.
func (r *Registry) Register(b *bench.Benchmark) error {
	if err := Validate(b); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.benchmarks[b.Name]; exists {
		return &bench.InvalidInputError{Op: "manifest.Register", Reason: fmt.Sprintf("benchmark '%s' is already registered", b.Name)}
	}
	r.benchmarks[b.Name] = Clone(b)
	return nil
}

// MustRegister is Register that panics on error, for use in init code.
func (r *Registry) MustRegister(b *bench.Benchmark) {
	if err := r.Register(b); err != nil {
		panic(err)
	}
}

// Find returns a copy of the named benchmark that the caller may modify.
func (r *Registry) Find(name string) (*bench.Benchmark, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.benchmarks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return Clone(b), nil
}

// List returns summaries of all benchmarks sorted by name.
func (r *Registry) List() []Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Summary, 0, len(r.benchmarks))
	for _, b := range r.benchmarks {
		out = append(out, Summary{
			Name:        b.Name,
			Description: b.Description,
			Cases:       len(b.Cases),
			Scenarios:   len(b.Scenarios),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Validate checks a benchmark definition: it must be runnable and its
// scenario names must be non-empty and unique.
func Validate(b *bench.Benchmark) error {
	if err := engine.ValidateBenchmark(b); err != nil {
		return err
	}

	seen := make(map[string]bool, len(b.Scenarios))
	for i, s := range b.Scenarios {
		if s.Name == "" {
			return &bench.InvalidInputError{Op: "manifest.Validate", Reason: fmt.Sprintf("scenario #%d has no name", i)}
		}
		if seen[s.Name] {
			return &bench.InvalidInputError{Op: "manifest.Validate", Reason: fmt.Sprintf("duplicate scenario name '%s'", s.Name)}
		}
		seen[s.Name] = true
	}
	return nil
}

// Clone returns a copy of b whose slices and configuration maps are not
// shared with b. Candidate functions and scenario params are shared.
func Clone(b *bench.Benchmark) *bench.Benchmark {
	if b == nil {
		return nil
	}
	c := *b
	c.Cases = append([]bench.Case(nil), b.Cases...)
	c.Scenarios = make([]bench.Scenario, len(b.Scenarios))
	for i, s := range b.Scenarios {
		s.Config = config.DeepCopy(s.Config)
		c.Scenarios[i] = s
	}
	c.Config = config.DeepCopy(b.Config)
	return &c
}
