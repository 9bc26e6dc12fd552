package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// envPrefix prefixes every taskmaster environment variable.
const envPrefix = "TASKMASTER_"

// loadFromEnv overrides config from TASKMASTER_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	mark := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	lookup := func(name string) (string, bool) {
		v := os.Getenv(envPrefix + name)
		return v, v != ""
	}
	setInt := func(name, field string, target *int) error {
		v, ok := lookup(name)
		if !ok {
			return nil
		}
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %q is not an integer", envPrefix, name, v)
		}
		*target = i
		mark(field)
		return nil
	}

	if v, ok := lookup("SEED"); ok {
		cfg.SeedFile = v
		mark("seed_file")
	}
	if v, ok := lookup("DEMO"); ok {
		cfg.Demo = boolFromString(v)
		mark("demo")
	}
	if v, ok := lookup("FILTER"); ok {
		cfg.DefaultFilter = v
		mark("default_filter")
	}
	if v, ok := lookup("CONFIRM_DELETE"); ok {
		cfg.ConfirmDelete = boolFromString(v)
		mark("confirm_delete")
	}
	if err := setInt("COUNTER_WARN_AT", "counter_warn_at", &cfg.CounterWarnAt); err != nil {
		return err
	}
	if err := setInt("COUNTER_DANGER_AT", "counter_danger_at", &cfg.CounterDangerAt); err != nil {
		return err
	}

	// Logging configuration
	if v, ok := lookup("LOG_DIR"); ok {
		cfg.LogDir = v
		mark("log_dir")
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = v
		mark("log_level")
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		cfg.LogFormat = v
		mark("log_format")
	}
	if v, ok := lookup("LOG_TIMESTAMPS"); ok {
		cfg.LogTimestamps = boolFromString(v)
		mark("log_timestamps")
	}
	if v, ok := lookup("LOG_CALLER"); ok {
		cfg.LogCaller = boolFromString(v)
		mark("log_caller")
	}
	return nil
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
