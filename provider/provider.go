package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/asreval/errors"
)

// Provider is a named backend that can report whether it is reachable.
type Provider interface {
	Name() string
	IsAvailable(ctx context.Context) bool
}

// Factory builds a provider from its section of the configuration file.
type Factory[T Provider] func(cfg map[string]any) (T, error)

// Settings reads typed values from a provider section. Keys are the
// lowercased names viper produces.
type Settings map[string]any

// String returns the value of key rendered as text, or "" when absent.
func (s Settings) String(key string) string {
	switch v := s[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Duration parses key as a Go duration such as "90s". Bare numbers are
// seconds. An absent key yields 0.
func (s Settings) Duration(key string) (time.Duration, error) {
	switch v := s[key].(type) {
	case nil:
		return 0, nil
	case time.Duration:
		return v, nil
	case int:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, errors.InvalidFormat(key, "duration such as 90s").WithCause(err)
		}
		return d, nil
	default:
		return 0, errors.InvalidFormat(key, "duration such as 90s")
	}
}
