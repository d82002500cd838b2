package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/wesleyorama2/microbench/internal/bench"
)

// ParseDurationString parses a duration string with support for common formats.
//
// Supported formats:
//   - Standard Go duration: "30s", "2m", "1h30m", "500ms"
//   - Milliseconds as a bare number: "250" (treated as 250ms)
//
// An empty string parses as zero.
func ParseDurationString(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err == nil {
		return d, nil
	}

	if ms, err := strconv.ParseFloat(s, 64); err == nil {
		return millisToDuration(ms), nil
	}

	return 0, fmt.Errorf("invalid duration format: %s", s)
}

// AsInt converts a configuration value to an int. Nil converts to zero.
func AsInt(path string, v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float32:
		return floatToInt(path, float64(n))
	case float64:
		return floatToInt(path, n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, typeError(path, "an integer", v)
		}
		return i, nil
	default:
		return 0, typeError(path, "an integer", v)
	}
}

// AsBool converts a configuration value to a bool. Nil converts to false.
func AsBool(path string, v any) (bool, error) {
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, typeError(path, "a boolean", v)
		}
		return parsed, nil
	default:
		return false, typeError(path, "a boolean", v)
	}
}

// AsString converts a configuration value to a string. Nil converts to "".
func AsString(path string, v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return "", typeError(path, "a string", v)
	}
}

// AsDuration converts a configuration value to a duration. Numbers are
// milliseconds, strings use ParseDurationString and nil converts to zero.
func AsDuration(path string, v any) (time.Duration, error) {
	switch d := v.(type) {
	case nil:
		return 0, nil
	case time.Duration:
		return d, nil
	case string:
		parsed, err := ParseDurationString(d)
		if err != nil {
			return 0, &bench.ConfigurationError{Path: path, Reason: err.Error()}
		}
		return parsed, nil
	case float32:
		return millisToDuration(float64(d)), nil
	case float64:
		return millisToDuration(d), nil
	default:
		ms, err := AsInt(path, v)
		if err != nil {
			return 0, typeError(path, "a duration", v)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
}

func millisToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func floatToInt(path string, f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, typeError(path, "an integer", f)
	}
	if f != math.Trunc(f) {
		return 0, typeError(path, "an integer", f)
	}
	return int(f), nil
}

func typeError(path, want string, got any) error {
	return &bench.ConfigurationError{
		Path:   path,
		Reason: fmt.Sprintf("expected %s, got %T (%v)", want, got, got),
	}
}
