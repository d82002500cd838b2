// Package examples holds the benchmarks that ship with microbench.
package examples

import (
	"github.com/wesleyorama2/microbench/internal/bench"
	"github.com/wesleyorama2/microbench/internal/manifest"
)

// All returns fresh definitions of the built-in benchmarks.
func All() []*bench.Benchmark {
	return []*bench.Benchmark{
		AddVsMultiply(),
		JSONFieldAccess(),
		JSONBuild(),
	}
}

// Register adds the built-in benchmarks to reg.
func Register(reg *manifest.Registry) error {
	for _, b := range All() {
		if err := reg.Register(b); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding the built-in benchmarks.
func NewRegistry() (*manifest.Registry, error) {
	reg := manifest.NewRegistry()
	if err := Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// sink keeps candidate results observable so calls are not optimized away.
var sink any
