package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/taskflow/internal/format"
)

// HeaderModel renders the top bar: demo, run id and elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	demo      string
	runID     string
	width     int
}

// NewHeaderModel creates a header whose timer starts now.
func NewHeaderModel(demo, runID string) HeaderModel {
	return HeaderModel{startTime: time.Now(), demo: demo, runID: runID}
}

// SetDone freezes the elapsed timer.
func (h *HeaderModel) SetDone() {
	if h.endTime.IsZero() {
		h.endTime = time.Now()
	}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the running or frozen elapsed time.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header line.
func (h HeaderModel) View() string {
	left := titleStyle.Render("taskflow") + " " + dimStyle.Render(h.demo)
	right := dimStyle.Render("run "+h.runID) + "  " +
		metricValueStyle.Render(fmt.Sprintf("%ss", format.FormatSeconds(h.Elapsed())))
	gap := h.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return headerStyle.Render(left + spaces(gap) + right)
}

func spaces(n int) string {
	return fmt.Sprintf("%*s", n, "")
}
