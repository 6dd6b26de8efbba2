package config

import (
	"fmt"
	"time"
)

func isOk[T any](p *T, err error) bool {
	return p != nil && err == nil
}

func parseBoolFn() func(any) (bool, error) {
	return func(v any) (bool, error) {
		b, ok := v.(bool)
		if !ok {
			return false, fmt.Errorf("expected bool, got %T", v)
		}

		return b, nil
	}
}

func parseStringFn(check func(string) error) func(any) (string, error) {
	return func(v any) (string, error) {
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("expected string, got %T", v)
		}

		if check != nil {
			if err := check(s); err != nil {
				return "", err
			}
		}

		return s, nil
	}
}

// parseDurationFn accepts either a duration string ("30s", "10m") or an
// integer number of seconds.
func parseDurationFn(check func(time.Duration) error) func(any) (time.Duration, error) {
	return func(v any) (time.Duration, error) {
		var d time.Duration

		switch x := v.(type) {
		case string:
			parsed, err := time.ParseDuration(x)
			if err != nil {
				return 0, err
			}
			d = parsed
		case int64:
			d = time.Duration(x) * time.Second
		default:
			return 0, fmt.Errorf("expected duration string or seconds, got %T", v)
		}

		if check != nil {
			if err := check(d); err != nil {
				return 0, err
			}
		}

		return d, nil
	}
}
