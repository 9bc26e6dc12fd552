package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// Default values.
const (
	DefaultFilter          = "all"
	DefaultConfirmDelete   = true
	DefaultCounterWarnAt   = 60
	DefaultCounterDangerAt = 80
	DefaultLogDir          = "~/.taskmaster"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"

	// counterCeiling matches the task text limit; thresholds above it would
	// never trigger.
	counterCeiling = 100
)

// Config holds the full configuration for taskmaster.
type Config struct {
	// Seed file loaded into the empty store at startup (optional)
	SeedFile string `toml:"seed_file"`

	// Start with the built-in demo tasks (ignored when SeedFile is set)
	Demo bool `toml:"demo"`

	// Filter shown when the UI opens: all, pending or completed
	DefaultFilter string `toml:"default_filter"`

	// Ask before deleting a single task
	ConfirmDelete bool `toml:"confirm_delete"`

	// Character counter colour thresholds
	CounterWarnAt   int `toml:"counter_warn_at"`
	CounterDangerAt int `toml:"counter_danger_at"`

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"seed_file",
		"demo",
		"default_filter",
		"confirm_delete",
		"counter_warn_at",
		"counter_danger_at",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.SeedFile = ""
	cfg.Demo = false
	cfg.DefaultFilter = DefaultFilter
	cfg.ConfirmDelete = DefaultConfirmDelete
	cfg.CounterWarnAt = DefaultCounterWarnAt
	cfg.CounterDangerAt = DefaultCounterDangerAt
	cfg.LogDir = DefaultLogDir
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = true
	cfg.LogCaller = false
}
