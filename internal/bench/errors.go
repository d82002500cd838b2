package bench

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching against the typed errors below.
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrInvalidInput      = errors.New("invalid input")
	ErrCandidateFunction = errors.New("candidate function failed")
	ErrHookExecution     = errors.New("hook execution failed")
)

// ConfigurationError reports an unresolvable configuration path or a run
// with no finite stop bound. It is fatal to the current run.
type ConfigurationError struct {
	Path   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("configuration error on '%s': %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// Is matches ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// InvalidInputError reports a computation invoked on unusable input,
// such as statistics over an empty sample set.
type InvalidInputError struct {
	Op     string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: invalid input: %s", e.Op, e.Reason)
}

// Is matches ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// CandidateFunctionError wraps a failure raised by a candidate. Iteration is
// the zero-based index of the failing call.
type CandidateFunctionError struct {
	Case      string
	Iteration int
	Err       error
}

func (e *CandidateFunctionError) Error() string {
	return fmt.Sprintf("case '%s' failed at iteration %d: %v", e.Case, e.Iteration, e.Err)
}

// Unwrap returns the candidate's error.
func (e *CandidateFunctionError) Unwrap() error {
	return e.Err
}

// Is matches ErrCandidateFunction.
func (e *CandidateFunctionError) Is(target error) bool {
	return target == ErrCandidateFunction
}

// HookExecutionError wraps a failing lifecycle handler. It is logged where it
// occurs and never returned to the caller of the run.
type HookExecutionError struct {
	Stage string
	Index int
	Err   error
}

func (e *HookExecutionError) Error() string {
	return fmt.Sprintf("%s hook #%d failed: %v", e.Stage, e.Index, e.Err)
}

// Unwrap returns the handler's error.
func (e *HookExecutionError) Unwrap() error {
	return e.Err
}

// Is matches ErrHookExecution.
func (e *HookExecutionError) Is(target error) bool {
	return target == ErrHookExecution
}

// PanicError carries a recovered panic value.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
