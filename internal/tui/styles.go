package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/taskflow/internal/event"
	"github.com/agbru/taskflow/internal/ui"
)

// Style variables for the dashboard, rebuilt from the ui theme by
// initTUIStyles.
var (
	panelStyle       lipgloss.Style
	headerStyle      lipgloss.Style
	titleStyle       lipgloss.Style
	dimStyle         lipgloss.Style
	metricValueStyle lipgloss.Style
	footerKeyStyle   lipgloss.Style
	footerDescStyle  lipgloss.Style
	stateStyles      map[event.State]lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme. Run calls it
// again after the theme has been initialized from the flags.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	dimStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	metricValueStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	footerKeyStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	footerDescStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	stateStyles = map[event.State]lipgloss.Style{
		event.Pending:   lipgloss.NewStyle().Foreground(t.Dim),
		event.Running:   lipgloss.NewStyle().Foreground(t.Info),
		event.Retrying:  lipgloss.NewStyle().Foreground(t.Warning),
		event.Completed: lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		event.Failed:    lipgloss.NewStyle().Foreground(t.Error).Bold(true),
	}
}

// unitStyle colors a unit label with its per-index color.
func unitStyle(idx int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ui.UnitTUIColor(idx)).Bold(true)
}
