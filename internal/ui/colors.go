package ui

import "github.com/charmbracelet/lipgloss"

// ColorReset returns the escape code that clears all formatting.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorRed returns the error color.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen returns the success color.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow returns the warning color.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorMagenta returns the info color.
func ColorMagenta() string { return GetCurrentTheme().Info }

// ColorCyan returns the highlight color.
func ColorCyan() string { return GetCurrentTheme().Highlight }

// ColorBold returns the bold escape code.
func ColorBold() string { return GetCurrentTheme().Bold }

// UnitColor returns the ANSI color of a unit index. It is cosmetic only and
// empty when colors are disabled.
func UnitColor(idx int) string {
	units := GetCurrentTheme().Units
	if len(units) == 0 || idx < 0 {
		return ""
	}
	return units[idx%len(units)]
}

// UnitTUIColor returns the dashboard color of a unit index.
func UnitTUIColor(idx int) lipgloss.TerminalColor {
	units := GetCurrentTUITheme().Units
	if len(units) == 0 || idx < 0 {
		return lipgloss.NoColor{}
	}
	return units[idx%len(units)]
}
