package config

import (
	"fmt"
	"os"
	"time"

	json "github.com/json-iterator/go"
)

// file mirrors Config for the JSON representation. Zero values keep the defaults.
type file struct {
	Headers struct {
		BufferSize int `json:"buffer_size"`
	} `json:"headers"`
	Body struct {
		BufferSize int `json:"buffer_size"`
	} `json:"body"`
	NET struct {
		ReadTimeout               string `json:"read_timeout"`
		WriteTimeout              string `json:"write_timeout"`
		AcceptLoopInterruptPeriod string `json:"accept_loop_interrupt_period"`
	} `json:"net"`
	Static struct {
		Root  string `json:"root"`
		Index string `json:"index"`
	} `json:"static"`
}

// Load reads a JSON config file and applies it on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse applies the JSON document on top of the defaults. Durations are written as
// strings understood by time.ParseDuration, e.g. "90s".
func Parse(data []byte) (*Config, error) {
	var f file
	if err := json.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := Default()
	if f.Headers.BufferSize < 0 || f.Body.BufferSize < 0 {
		return nil, fmt.Errorf("config: buffer sizes must not be negative")
	}

	cfg.Headers.BufferSize = or(f.Headers.BufferSize, cfg.Headers.BufferSize)
	cfg.Body.BufferSize = or(f.Body.BufferSize, cfg.Body.BufferSize)
	cfg.Static.Root = or(f.Static.Root, cfg.Static.Root)
	cfg.Static.Index = or(f.Static.Index, cfg.Static.Index)

	for _, d := range []struct {
		value string
		into  *time.Duration
	}{
		{f.NET.ReadTimeout, &cfg.NET.ReadTimeout},
		{f.NET.WriteTimeout, &cfg.NET.WriteTimeout},
		{f.NET.AcceptLoopInterruptPeriod, &cfg.NET.AcceptLoopInterruptPeriod},
	} {
		if len(d.value) == 0 {
			continue
		}

		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}

		if parsed <= 0 {
			return nil, fmt.Errorf("config: duration %q must be positive", d.value)
		}

		*d.into = parsed
	}

	return cfg, nil
}

func or[T comparable](value, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}

	return value
}
