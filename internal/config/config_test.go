package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/pflag"

	apperrors "github.com/agbru/taskflow/internal/errors"
)

func newFlagSet(c *AppConfig) *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.RegisterFlags(fs)
	return fs
}

func TestDefault(t *testing.T) {
	t.Parallel()
	c := Default()
	if c.Seed != 1 || c.MaxDraw != 10 || c.TimeUnit != time.Second || c.LogFormat != LogFormatConsole {
		t.Errorf("unexpected defaults: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestRegisterFlags(t *testing.T) {
	t.Parallel()
	c := Default()
	fs := newFlagSet(&c)
	err := fs.Parse([]string{"--seed", "7", "--max-draw=20", "--time-unit", "10ms", "--limit", "2", "-q", "--dry-run", "--theme", "none"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Seed != 7 || c.MaxDraw != 20 || c.TimeUnit != 10*time.Millisecond || c.Limit != 2 || !c.Quiet || !c.DryRun || c.Theme != "none" {
		t.Errorf("flags not applied: %+v", c)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TASKFLOW_SEED", "99")
	t.Setenv("TASKFLOW_TIME_UNIT", "5ms")
	t.Setenv("TASKFLOW_VERBOSE", "yes")
	t.Setenv("TASKFLOW_LIMIT", "not-a-number")
	t.Setenv("TASKFLOW_MAX_DRAW", "50")
	t.Setenv("TASKFLOW_THEME", "Light")
	t.Setenv("TASKFLOW_METRICS_ADDR", "127.0.0.1:0")

	c := Default()
	fs := newFlagSet(&c)
	if err := fs.Parse([]string{"--max-draw", "12"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	c.ApplyEnv(fs)

	if c.Seed != 99 {
		t.Errorf("Seed = %d, want 99", c.Seed)
	}
	if c.TimeUnit != 5*time.Millisecond {
		t.Errorf("TimeUnit = %v, want 5ms", c.TimeUnit)
	}
	if !c.Verbose {
		t.Error("Verbose should be set from env")
	}
	if c.Limit != 0 {
		t.Errorf("invalid env value should be ignored, Limit = %d", c.Limit)
	}
	if c.Theme != "light" || c.MetricsAddr != "127.0.0.1:0" {
		t.Errorf("Theme = %q, MetricsAddr = %q", c.Theme, c.MetricsAddr)
	}
	if c.MaxDraw != 12 {
		t.Errorf("explicit flag must win over env, MaxDraw = %d", c.MaxDraw)
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"TRUE", false, true},
		{"1", false, true},
		{"no", true, false},
		{"maybe", true, true},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.in, tt.def); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v", tt.in, tt.def, got)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"zero max draw", func(c *AppConfig) { c.MaxDraw = 0 }},
		{"negative time unit", func(c *AppConfig) { c.TimeUnit = -time.Second }},
		{"negative timeout", func(c *AppConfig) { c.Timeout = -time.Second }},
		{"negative limit", func(c *AppConfig) { c.Limit = -1 }},
		{"bad log format", func(c *AppConfig) { c.LogFormat = "xml" }},
		{"quiet tui", func(c *AppConfig) { c.Quiet, c.TUI = true, true }},
		{"unknown theme", func(c *AppConfig) { c.Theme = "orange" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected ConfigError, got %v", err)
			}
		})
	}
}
