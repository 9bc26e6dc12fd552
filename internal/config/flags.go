package config

import (
	"flag"
)

// flagFields maps flag names to config field names for source tracking.
var flagFields = map[string]string{
	"seed":              "seed_file",
	"demo":              "demo",
	"filter":            "default_filter",
	"confirm-delete":    "confirm_delete",
	"counter-warn-at":   "counter_warn_at",
	"counter-danger-at": "counter_danger_at",
	"log-dir":           "log_dir",
	"log-level":         "log_level",
	"log-format":        "log_format",
	"log-timestamps":    "log_timestamps",
	"log-caller":        "log_caller",
}

// parseFlags defines the global flags on fs, binds them to cfg and parses
// args. Flags that appear in args are recorded in sources when non-nil.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskmaster", flag.ContinueOnError)
	}

	// Seeding
	fs.StringVar(&cfg.SeedFile, "seed", cfg.SeedFile, "Seed file with initial tasks (JSON)")
	fs.BoolVar(&cfg.Demo, "demo", cfg.Demo, "Start with demo tasks")

	// UI
	fs.StringVar(&cfg.DefaultFilter, "filter", cfg.DefaultFilter, "Initial filter (all, pending, completed)")
	fs.BoolVar(&cfg.ConfirmDelete, "confirm-delete", cfg.ConfirmDelete, "Ask before deleting a task")
	fs.IntVar(&cfg.CounterWarnAt, "counter-warn-at", cfg.CounterWarnAt, "Character count that turns the counter amber")
	fs.IntVar(&cfg.CounterDangerAt, "counter-danger-at", cfg.CounterDangerAt, "Character count that turns the counter red")

	// Logging
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
