package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTree_Valid(t *testing.T) {
	tests := []struct {
		name string
		tree map[string]any
	}{
		{"empty", map[string]any{}},
		{"defaults", Defaults()},
		{"duration string", map[string]any{"defaults": map[string]any{"timeLimit": "3s"}}},
		{"null bound", map[string]any{"defaults": map[string]any{"iterations": nil}}},
		{"toml integers", map[string]any{"histogram": map[string]any{"bins": int64(3)}}},
		{"unknown keys", map[string]any{"custom": map[string]any{"anything": []any{1, "x"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, ValidateTree(tt.tree))
		})
	}
}

func TestValidateTree_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		tree  map[string]any
		field string
	}{
		{"negative iterations", map[string]any{"defaults": map[string]any{"iterations": -1}}, "defaults.iterations"},
		{"fractional iterations", map[string]any{"defaults": map[string]any{"iterations": 1.5}}, "defaults.iterations"},
		{"zero bins", map[string]any{"histogram": map[string]any{"bins": 0}}, "histogram.bins"},
		{"bad format", map[string]any{"output": map[string]any{"format": "xml"}}, "output.format"},
		{"priority type", map[string]any{"defaults": map[string]any{"priorityCpu": "yes"}}, "defaults.priorityCpu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTree(tt.tree)
			require.Error(t, err)

			var verrs *ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.NotEmpty(t, verrs.Errors)

			found := false
			for _, e := range verrs.Errors {
				if e.Field == tt.field {
					found = true
				}
			}
			assert.True(t, found, "expected an error on %s, got %v", tt.field, err)
		})
	}
}

func TestLoad(t *testing.T) {
	s, err := Load(NewResolver(nil).Merge(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultBarWidth, s.Histogram.BarWidth)

	_, err = Load(NewResolver(map[string]any{
		"histogram": map[string]any{"bins": 0},
		"output":    map[string]any{"saveToFile": true, "outputDir": ""},
	}).Merge(nil, nil))
	require.Error(t, err)

	var verrs *ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs.Errors, 2)
}

func TestValidationErrors(t *testing.T) {
	errs := &ValidationErrors{}
	assert.False(t, errs.HasErrors())
	assert.Equal(t, "no validation errors", errs.Error())

	errs.Add("defaults.iterations", "iterations cannot be negative")
	assert.Equal(t, "validation error on field 'defaults.iterations': iterations cannot be negative", errs.Error())

	errs.Add("", "broken")
	assert.True(t, strings.HasPrefix(errs.Error(), "2 validation errors:\n"))
	assert.Contains(t, errs.Error(), "2. validation error: broken")
}

func TestPointerToPath(t *testing.T) {
	assert.Equal(t, "", pointerToPath(""))
	assert.Equal(t, "", pointerToPath("/"))
	assert.Equal(t, "defaults.iterations", pointerToPath("/defaults/iterations"))
	assert.Equal(t, "a/b.c", pointerToPath("/a~1b/c"))
}
