// Package config provides the hierarchical configuration used by the harness.
//
// Configuration is a tree of nested maps addressed by dot-separated paths
// ("defaults.iterations"). Four layers are consulted, highest precedence
// first:
//
//  1. case     - values derived from the scenario being run
//  2. manifest - the benchmark's own configuration
//  3. user     - the user's config file plus command-line overrides
//  4. defaults - built-in values (see Defaults)
//
// Layers are never modified: Merge always returns a new tree. Any map with
// string keys and any slice may appear in a layer; copies and merges
// normalize them to map[string]any and []any.
package config

import (
	"reflect"
	"strings"

	"github.com/wesleyorama2/microbench/internal/bench"
)

// Resolver looks up and merges values across the four configuration layers.
//
// A Resolver is immutable after construction and safe for concurrent use.
type Resolver struct {
	defaults map[string]any
	user     map[string]any
}

// NewResolver creates a resolver over the built-in defaults and the given
// user layer. A nil user layer is treated as empty.
func NewResolver(user map[string]any) *Resolver {
	return NewResolverWithDefaults(Defaults(), user)
}

// NewResolverWithDefaults creates a resolver with a custom defaults layer.
func NewResolverWithDefaults(defaults, user map[string]any) *Resolver {
	return &Resolver{
		defaults: DeepCopy(defaults),
		user:     DeepCopy(user),
	}
}

// User returns a copy of the user layer.
func (r *Resolver) User() map[string]any {
	return DeepCopy(r.user)
}

// Resolve returns the value at path from the first layer that defines it,
// searching case, manifest, user and defaults in that order.
//
// A key that is present with a nil value counts as defined. Returns a
// ConfigurationError when the path is empty or undefined in every layer.
func (r *Resolver) Resolve(path string, manifest, caseLayer map[string]any) (any, error) {
	keys, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	for _, layer := range []map[string]any{caseLayer, manifest, r.user, r.defaults} {
		if v, ok := lookup(layer, keys); ok {
			return v, nil
		}
	}

	return nil, &bench.ConfigurationError{Path: path, Reason: "not found in any config level"}
}

// Merge combines all four layers into a new tree. Mappings present in two
// layers merge key by key; any other value (including slices) from the
// higher-precedence layer replaces the lower one wholesale.
func (r *Resolver) Merge(manifest, caseLayer map[string]any) map[string]any {
	merged := DeepMerge(r.defaults, r.user)
	merged = DeepMerge(merged, manifest)
	return DeepMerge(merged, caseLayer)
}

// Lookup returns the value at a dot-separated path within a single tree.
func Lookup(tree map[string]any, path string) (any, bool) {
	keys, err := splitPath(path)
	if err != nil {
		return nil, false
	}
	return lookup(tree, keys)
}

func splitPath(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &bench.ConfigurationError{Reason: "configuration key must be a non-empty string"}
	}
	return strings.Split(path, "."), nil
}

func lookup(tree map[string]any, keys []string) (any, bool) {
	if tree == nil {
		return nil, false
	}

	var current any = tree
	for _, key := range keys {
		var ok bool
		current, ok = child(current, key)
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// child indexes node by key when node is a map with string keys.
func child(node any, key string) (any, bool) {
	if m, ok := node.(map[string]any); ok {
		v, ok := m[key]
		return v, ok
	}

	rv := reflect.ValueOf(node)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

// DeepMerge returns a new tree holding source merged over target.
// Neither input is modified.
func DeepMerge(target, source map[string]any) map[string]any {
	result := DeepCopy(target)
	if result == nil {
		result = make(map[string]any, len(source))
	}

	for key, sv := range source {
		nv := copyValue(sv)
		if sm, ok := nv.(map[string]any); ok {
			tm, _ := result[key].(map[string]any)
			result[key] = DeepMerge(tm, sm)
			continue
		}
		result[key] = nv
	}

	return result
}

// DeepCopy returns a copy of tree sharing no maps or slices with it.
func DeepCopy(tree map[string]any) map[string]any {
	if tree == nil {
		return nil
	}
	out := make(map[string]any, len(tree))
	for k, v := range tree {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return DeepCopy(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	case []byte:
		return append([]byte(nil), val...)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		if rv.IsNil() {
			return map[string]any(nil)
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = copyValue(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any(nil)
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = copyValue(rv.Index(i).Interface())
		}
		return out
	}
	return v
}

// WithOverrides returns a copy of tree with each dotted path in overrides
// set to its value. Intermediate mappings are created as needed.
func WithOverrides(tree map[string]any, overrides map[string]any) (map[string]any, error) {
	result := DeepCopy(tree)
	if result == nil {
		result = map[string]any{}
	}

	for path, value := range overrides {
		keys, err := splitPath(path)
		if err != nil {
			return nil, err
		}

		node := result
		for _, key := range keys[:len(keys)-1] {
			next, ok := node[key].(map[string]any)
			if !ok {
				next = map[string]any{}
				node[key] = next
			}
			node = next
		}
		node[keys[len(keys)-1]] = copyValue(value)
	}

	return result, nil
}
