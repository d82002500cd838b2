// Package hooks holds the lifecycle handlers run around benchmark, scenario
// and case boundaries.
package hooks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/wesleyorama2/microbench/internal/bench"
)

// Stage identifies a lifecycle boundary.
type Stage string

// Lifecycle stages, in the order they fire for a single case.
const (
	PreBenchmark  Stage = "preBenchmark"
	PreScenario   Stage = "preScenario"
	PreCase       Stage = "preCase"
	PostCase      Stage = "postCase"
	PostScenario  Stage = "postScenario"
	PostBenchmark Stage = "postBenchmark"
)

// Stages lists every stage.
var Stages = []Stage{PreBenchmark, PreScenario, PreCase, PostCase, PostScenario, PostBenchmark}

func (s Stage) valid() bool {
	for _, st := range Stages {
		if st == s {
			return true
		}
	}
	return false
}

// Context is passed to every hook. Fields not meaningful at a stage are
// left zero: Scenario is set from preScenario on, Case and Result only for
// case stages, and Results for postScenario.
type Context struct {
	Benchmark *bench.Benchmark
	Scenario  *bench.Scenario
	Case      *bench.Case
	Result    *bench.CaseResult
	Results   []bench.CaseResult
}

// Hook is a lifecycle handler. A returned error (or a panic) is logged and
// does not stop the run.
type Hook func(ctx context.Context, hc Context) error

// Registry stores hooks per stage. It is constructed once and passed to
// the orchestrator; there is no package-level registry.
type Registry struct {
	mu     sync.RWMutex
	hooks  map[Stage][]Hook
	logger *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger discards output.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		hooks:  make(map[Stage][]Hook),
		logger: logger,
	}
}

// Register appends h to the hooks of stage.
func (r *Registry) Register(stage Stage, h Hook) error {
	if !stage.valid() {
		return &bench.InvalidInputError{Op: "hooks.Register", Reason: fmt.Sprintf("unknown stage %q", stage)}
	}
	if h == nil {
		return &bench.InvalidInputError{Op: "hooks.Register", Reason: "hook is nil"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[stage] = append(r.hooks[stage], h)
	return nil
}

// Len returns the number of hooks registered for stage.
func (r *Registry) Len(stage Stage) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks[stage])
}

// Execute runs the hooks of stage sequentially, in registration order.
//
// Failures are wrapped in a HookExecutionError, logged at WARN and
// returned for inspection; the caller is expected to continue. A nil
// registry executes nothing.
func (r *Registry) Execute(ctx context.Context, stage Stage, hc Context) []error {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	list := make([]Hook, len(r.hooks[stage]))
	copy(list, r.hooks[stage])
	r.mu.RUnlock()

	var failures []error
	for i, h := range list {
		if err := call(ctx, h, hc); err != nil {
			hookErr := &bench.HookExecutionError{Stage: string(stage), Index: i, Err: err}
			r.logger.WarnContext(ctx, "hook failed",
				slog.String("stage", string(stage)),
				slog.Int("hook", i),
				slog.Any("error", err),
			)
			failures = append(failures, hookErr)
		}
	}
	return failures
}

func call(ctx context.Context, h Hook, hc Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &bench.PanicError{Value: rec}
		}
	}()
	return h(ctx, hc)
}
