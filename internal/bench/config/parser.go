package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// UserConfigBaseName is the file name, without extension, of the user config.
const UserConfigBaseName = "bench.config"

// UserConfigExtensions lists the extensions tried by FindUserConfig, in order.
var UserConfigExtensions = []string{".yaml", ".yml", ".json", ".toml"}

// FindUserConfig returns the path of the first bench.config file present
// in dir, or "" when there is none.
func FindUserConfig(dir string) (string, error) {
	for _, ext := range UserConfigExtensions {
		path := filepath.Join(dir, UserConfigBaseName+ext)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to stat config file: %w", err)
		}
	}
	return "", nil
}

// LoadUserConfig loads the user layer from dir. A missing file yields an
// empty layer; the returned path is "" in that case.
func LoadUserConfig(dir string) (map[string]any, string, error) {
	path, err := FindUserConfig(dir)
	if err != nil || path == "" {
		return map[string]any{}, "", err
	}

	tree, err := LoadFile(path)
	if err != nil {
		return nil, path, err
	}
	return tree, path, nil
}

// LoadFile loads a configuration tree from a file.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
//   - .toml -> TOML
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data, path)
}

// ParseConfig parses configuration data into a tree.
//
// The format is determined by the file extension in path, or defaults to YAML
// if the path is empty or has an unknown extension.
func ParseConfig(data []byte, path string) (map[string]any, error) {
	var raw map[string]any

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config (unknown format %s): %w", ext, err)
		}
	}

	if raw == nil {
		return map[string]any{}, nil
	}
	return normalize(raw).(map[string]any), nil
}

// normalize converts decoder-specific container types into the
// map[string]any / []any shapes the resolver walks.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	default:
		return v
	}
}
