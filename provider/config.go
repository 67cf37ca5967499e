package provider

import (
	"fmt"
	"time"
)

// String reads a string entry from a factory config map.
func String(cfg map[string]any, key, def string) string {
	if v, ok := cfg[key].(string); ok && v != "" {
		return v
	}
	return def
}

// Int reads an integer entry, accepting the numeric types Viper and JSON produce.
func Int(cfg map[string]any, key string, def int) (int, error) {
	switch v := cfg[key].(type) {
	case nil:
		return def, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("config %q: expected integer, got %T", key, v)
	}
}

// Duration reads a duration entry given as time.Duration, a Go duration
// string ("3s") or integer milliseconds.
func Duration(cfg map[string]any, key string, def time.Duration) (time.Duration, error) {
	switch v := cfg[key].(type) {
	case nil:
		return def, nil
	case time.Duration:
		return v, nil
	case string:
		if v == "" {
			return def, nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("config %q: %w", key, err)
		}
		return d, nil
	case int:
		return time.Duration(v) * time.Millisecond, nil
	case int64:
		return time.Duration(v) * time.Millisecond, nil
	case float64:
		return time.Duration(v * float64(time.Millisecond)), nil
	default:
		return 0, fmt.Errorf("config %q: expected duration, got %T", key, v)
	}
}
