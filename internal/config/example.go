package config

import (
	"fmt"
	"io"
	"sort"
)

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskmaster configuration file
# Values can be overridden by TASKMASTER_* environment variables or CLI flags

# Seed file loaded into the empty task list at startup (JSON, optional)
# seed_file = "tasks.seed.json"

# Start with the built-in demo tasks when no seed file is given
demo = false

# Filter shown when the UI opens: all, pending or completed
default_filter = "all"

# Ask before deleting a single task
confirm_delete = true

# Character counter turns amber above counter_warn_at and red above
# counter_danger_at. Task text is limited to 100 characters.
counter_warn_at = 60
counter_danger_at = 80

# Log directory (supports ~ and $VAR expansion)
log_dir = "~/.taskmaster"

# Logging: level (debug, info, warn, error), format (text, json, logfmt)
log_level = "info"
log_format = "text"
log_timestamps = true
log_caller = false
`
}

// WriteEffective writes every config value with the source it came from.
func (cws *ConfigWithSources) WriteEffective(w io.Writer) error {
	cfg := cws.Config
	values := map[string]interface{}{
		"seed_file":         cfg.SeedFile,
		"demo":              cfg.Demo,
		"default_filter":    cfg.DefaultFilter,
		"confirm_delete":    cfg.ConfirmDelete,
		"counter_warn_at":   cfg.CounterWarnAt,
		"counter_danger_at": cfg.CounterDangerAt,
		"log_dir":           cfg.LogDir,
		"log_level":         cfg.LogLevel,
		"log_format":        cfg.LogFormat,
		"log_timestamps":    cfg.LogTimestamps,
		"log_caller":        cfg.LogCaller,
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, file := range cws.Files {
		if _, err := fmt.Fprintf(w, "# read %s\n", file); err != nil {
			return err
		}
	}
	for _, k := range keys {
		source := cws.Sources[k]
		if source == "" {
			source = SourceDefault
		}
		if _, err := fmt.Fprintf(w, "%-18s = %-24v (%s)\n", k, values[k], source); err != nil {
			return err
		}
	}
	return nil
}
