// Package config defines the run configuration of taskflow: its defaults, the
// command-line flags that set it and the TASKFLOW_ environment overrides.
package config

import (
	"time"

	"github.com/spf13/pflag"

	apperrors "github.com/agbru/taskflow/internal/errors"
	"github.com/agbru/taskflow/internal/ui"
	"github.com/agbru/taskflow/internal/work"
)

// EnvPrefix is the prefix of every environment variable read by taskflow.
const EnvPrefix = "TASKFLOW_"

// Log formats accepted by --log-format.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// AppConfig aggregates the configuration shared by all demos.
type AppConfig struct {
	// Seed seeds the shared random source.
	Seed int64
	// MaxDraw is the inclusive upper bound of random draws.
	MaxDraw int
	// TimeUnit is the length of one abstract time unit.
	TimeUnit time.Duration
	// Timeout bounds the whole run. Zero disables it.
	Timeout time.Duration
	// Limit caps concurrently running units. Zero means unbounded.
	Limit int
	// Quiet prints only the results.
	Quiet bool
	// Compact replaces per-event lines with a spinner.
	Compact bool
	// NoColor disables ANSI colors.
	NoColor bool
	// Theme names the color theme: dark, light or none.
	Theme string
	// Verbose enables debug logging and memory statistics.
	Verbose bool
	// LogFormat is "console" or "json".
	LogFormat string
	// OutputFile receives a run report when set.
	OutputFile string
	// Metrics dumps the Prometheus exposition after the run.
	Metrics bool
	// MetricsAddr serves the Prometheus exposition over HTTP during the run
	// when set (e.g. ":9090").
	MetricsAddr string
	// DryRun replaces real delays with instant ones and reports simulated time.
	DryRun bool
	// TUI runs the interactive dashboard.
	TUI bool
}

// Default returns the configuration used when nothing is overridden.
func Default() AppConfig {
	return AppConfig{
		Seed:      1,
		MaxDraw:   work.DefaultMaxDraw,
		TimeUnit:  work.DefaultTimeUnit,
		LogFormat: LogFormatConsole,
		Theme:     ui.ThemeDark,
	}
}

// RegisterFlags binds the configuration fields to fs, using the current
// values of c as defaults.
func (c *AppConfig) RegisterFlags(fs *pflag.FlagSet) {
	fs.Int64Var(&c.Seed, "seed", c.Seed, "Seed of the shared random source")
	fs.IntVar(&c.MaxDraw, "max-draw", c.MaxDraw, "Inclusive upper bound of random draws")
	fs.DurationVar(&c.TimeUnit, "time-unit", c.TimeUnit, "Length of one abstract time unit")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Maximum duration of the run (0 disables)")
	fs.IntVar(&c.Limit, "limit", c.Limit, "Maximum number of units running at once (0 = unbounded)")
	fs.BoolVarP(&c.Quiet, "quiet", "q", c.Quiet, "Print only the results")
	fs.BoolVar(&c.Compact, "compact", c.Compact, "Show a spinner instead of per-event lines")
	fs.BoolVar(&c.NoColor, "no-color", c.NoColor, "Disable colored output")
	fs.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "Enable debug logging and memory statistics")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Log format: console or json")
	fs.StringVarP(&c.OutputFile, "output", "o", c.OutputFile, "Write a run report to this file")
	fs.StringVar(&c.Theme, "theme", c.Theme, "Color theme: dark, light or none")
	fs.BoolVar(&c.Metrics, "metrics", c.Metrics, "Print Prometheus metrics after the run")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "Serve Prometheus metrics on this address during the run")
	fs.BoolVar(&c.DryRun, "dry-run", c.DryRun, "Skip real delays and report simulated time")
	fs.BoolVar(&c.TUI, "tui", c.TUI, "Run the interactive dashboard")
}

// ApplyEnv overrides every field whose flag was not set explicitly on fs
// with the matching TASKFLOW_ environment variable, if any.
func (c *AppConfig) ApplyEnv(fs *pflag.FlagSet) {
	applyEnvOverrides(c, fs)
}

// Validate checks cross-field consistency.
func (c AppConfig) Validate() error {
	if c.MaxDraw < 1 {
		return apperrors.NewConfigError("--max-draw must be at least 1, got %d", c.MaxDraw)
	}
	if c.TimeUnit < 0 {
		return apperrors.NewConfigError("--time-unit must not be negative, got %s", c.TimeUnit)
	}
	if c.Timeout < 0 {
		return apperrors.NewConfigError("--timeout must not be negative, got %s", c.Timeout)
	}
	if c.Limit < 0 {
		return apperrors.NewConfigError("--limit must not be negative, got %d", c.Limit)
	}
	if c.LogFormat != LogFormatConsole && c.LogFormat != LogFormatJSON {
		return apperrors.NewConfigError("--log-format must be %q or %q, got %q", LogFormatConsole, LogFormatJSON, c.LogFormat)
	}
	if !ui.IsTheme(c.Theme) {
		return apperrors.NewConfigError("--theme must be one of %v, got %q", ui.ThemeNames(), c.Theme)
	}
	if c.Quiet && c.TUI {
		return apperrors.NewConfigError("--quiet and --tui cannot be combined")
	}
	return nil
}
