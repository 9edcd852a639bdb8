package ui

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme names accepted by --theme.
const (
	ThemeDark    = "dark"
	ThemeLight   = "light"
	ThemeNoColor = "none"
)

// Theme colors the line-oriented CLI output. Fields hold ANSI escape codes;
// an empty string leaves that category uncolored.
type Theme struct {
	Name string

	Highlight string // demo names and report paths
	Success   string
	Warning   string // seeds, timeouts, retries
	Error     string
	Info      string
	Bold      string
	Reset     string

	// Units is the per-unit palette, indexed modulo its length.
	Units []string

	// Dashboard holds the matching colors of the TUI.
	Dashboard TUITheme
}

// TUITheme holds the lipgloss colors of the dashboard.
type TUITheme struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
	Units   []lipgloss.TerminalColor
}

var (
	// DarkTheme suits dark terminal backgrounds. Unit 0 is cyan, unit 1 red,
	// unit 2 magenta.
	DarkTheme = Theme{
		Name:      ThemeDark,
		Highlight: "\033[36m",
		Success:   "\033[38;5;82m",
		Warning:   "\033[38;5;220m",
		Error:     "\033[38;5;196m",
		Info:      "\033[35m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
		Units:     []string{"\033[36m", "\033[91m", "\033[35m", "\033[92m", "\033[93m", "\033[94m"},
		Dashboard: TUITheme{
			Text:    lipgloss.Color("#E0E0E0"),
			Border:  lipgloss.Color("#00CED1"),
			Accent:  lipgloss.Color("#00CED1"),
			Success: lipgloss.Color("#9ece6a"),
			Warning: lipgloss.Color("#FFB347"),
			Error:   lipgloss.Color("#FF4444"),
			Dim:     lipgloss.Color("#666666"),
			Info:    lipgloss.Color("#4488FF"),
			Units: []lipgloss.TerminalColor{
				lipgloss.Color("#00CED1"), lipgloss.Color("#FF4444"), lipgloss.Color("#D670D6"),
				lipgloss.Color("#9ece6a"), lipgloss.Color("#FFB347"), lipgloss.Color("#4488FF"),
			},
		},
	}

	// LightTheme uses darker tones readable on light backgrounds.
	LightTheme = Theme{
		Name:      ThemeLight,
		Highlight: "\033[38;5;30m",
		Success:   "\033[38;5;28m",
		Warning:   "\033[38;5;130m",
		Error:     "\033[38;5;124m",
		Info:      "\033[38;5;54m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
		Units:     []string{"\033[38;5;30m", "\033[38;5;124m", "\033[38;5;90m", "\033[38;5;28m", "\033[38;5;130m", "\033[38;5;25m"},
		Dashboard: TUITheme{
			Text:    lipgloss.Color("#202020"),
			Border:  lipgloss.Color("#007B83"),
			Accent:  lipgloss.Color("#007B83"),
			Success: lipgloss.Color("#2E7D32"),
			Warning: lipgloss.Color("#B35900"),
			Error:   lipgloss.Color("#B00020"),
			Dim:     lipgloss.Color("#8A8A8A"),
			Info:    lipgloss.Color("#1E4FBF"),
			Units: []lipgloss.TerminalColor{
				lipgloss.Color("#007B83"), lipgloss.Color("#B00020"), lipgloss.Color("#8E24AA"),
				lipgloss.Color("#2E7D32"), lipgloss.Color("#B35900"), lipgloss.Color("#1E4FBF"),
			},
		},
	}

	// NoColorTheme disables every color, in the CLI and the dashboard.
	NoColorTheme = Theme{
		Name: ThemeNoColor,
		Dashboard: TUITheme{
			Text:    lipgloss.NoColor{},
			Border:  lipgloss.NoColor{},
			Accent:  lipgloss.NoColor{},
			Success: lipgloss.NoColor{},
			Warning: lipgloss.NoColor{},
			Error:   lipgloss.NoColor{},
			Dim:     lipgloss.NoColor{},
			Info:    lipgloss.NoColor{},
		},
	}

	themes = map[string]Theme{
		ThemeDark:    DarkTheme,
		ThemeLight:   LightTheme,
		ThemeNoColor: NoColorTheme,
	}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// ThemeNames lists the accepted theme names in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsTheme reports whether name is a known theme.
func IsTheme(name string) bool {
	_, ok := themes[name]
	return ok
}

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// GetCurrentTUITheme returns the dashboard colors of the active theme.
func GetCurrentTUITheme() TUITheme {
	return GetCurrentTheme().Dashboard
}

// SetTheme activates the named theme. The active theme is unchanged when
// name is unknown.
func SetTheme(name string) error {
	t, ok := themes[name]
	if !ok {
		return fmt.Errorf("unknown theme %q (want one of %v)", name, ThemeNames())
	}
	themeMutex.Lock()
	currentTheme = t
	themeMutex.Unlock()
	return nil
}

// InitTheme activates the named theme, or NoColorTheme when noColor is set
// or the NO_COLOR environment variable exists (https://no-color.org/).
func InitTheme(name string, noColor bool) error {
	if _, exists := os.LookupEnv("NO_COLOR"); noColor || exists {
		name = ThemeNoColor
	}
	return SetTheme(name)
}
