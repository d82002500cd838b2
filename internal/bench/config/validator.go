package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON string

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func userSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("schema.json", strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("invalid schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("schema.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("invalid schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// ValidateTree checks a configuration layer against the config schema.
//
// Returns nil if valid, or a ValidationErrors containing all problems found.
func ValidateTree(tree map[string]any) error {
	schema, err := userSchema()
	if err != nil {
		return err
	}

	// The schema validator expects encoding/json shapes (float64 numbers).
	raw, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("failed to encode config for validation: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode config for validation: %w", err)
	}

	errs := &ValidationErrors{}
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		collectSchemaErrors(ve, errs)
		return errs
	}
	return nil
}

// Load decodes a merged configuration tree and validates the result.
func Load(merged map[string]any) (*Settings, error) {
	settings, err := Decode(merged)
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// collectSchemaErrors flattens the leaves of a schema validation error.
func collectSchemaErrors(err *jsonschema.ValidationError, errs *ValidationErrors) {
	if len(err.Causes) == 0 {
		errs.Add(pointerToPath(err.InstanceLocation), err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, errs)
	}
}

// pointerToPath turns a JSON pointer ("/defaults/iterations") into a
// dotted configuration path.
func pointerToPath(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return ""
	}
	parts := strings.Split(pointer, "/")
	for i, p := range parts {
		parts[i] = strings.NewReplacer("~1", "/", "~0", "~").Replace(p)
	}
	return strings.Join(parts, ".")
}

// Validate checks the semantic rules of a fully merged configuration.
//
// Returns nil if valid, or a ValidationErrors containing all validation errors.
func (s *Settings) Validate() error {
	errs := &ValidationErrors{}

	if s.Defaults.Iterations < 0 {
		errs.Add(PathIterations, "iterations cannot be negative")
	}
	if s.Defaults.TimeLimit < 0 {
		errs.Add(PathTimeLimit, "timeLimit cannot be negative")
	}
	if s.Runner.MemorySampleInterval < 0 {
		errs.Add(PathMemorySampleInterval, "memorySampleInterval cannot be negative")
	}
	if s.Histogram.Bins < 1 {
		errs.Add(PathBins, "bins must be at least 1")
	}
	if s.Histogram.BarWidth < 1 {
		errs.Add(PathBarWidth, "barWidth must be at least 1")
	}
	if s.Discovery.MaxDepth < 0 {
		errs.Add("discovery.maxDepth", "maxDepth cannot be negative")
	}
	switch s.Output.Format {
	case "", FormatJSON, FormatHTML, FormatBoth:
	default:
		errs.Add("output.format", fmt.Sprintf("unknown format: %s", s.Output.Format))
	}
	if s.Output.SaveToFile && s.Output.OutputDir == "" {
		errs.Add("output.outputDir", "outputDir is required when saveToFile is enabled")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
