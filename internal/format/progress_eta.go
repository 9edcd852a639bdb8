package format

import (
	"fmt"
	"strings"
	"time"
)

// ProgressWithETA estimates the remaining time of a run from the share of
// units that reached a terminal state.
type ProgressWithETA struct {
	numUnits  int
	startTime time.Time
	now       func() time.Time
	progress  float64
}

// NewProgressWithETA starts an estimator for numUnits units.
func NewProgressWithETA(numUnits int) *ProgressWithETA {
	return &ProgressWithETA{numUnits: numUnits, startTime: time.Now(), now: time.Now}
}

// Update records the current completion fraction, clamped to [0, 1], and
// returns the estimated time remaining.
func (p *ProgressWithETA) Update(fraction float64) time.Duration {
	p.progress = min(max(fraction, 0), 1)
	return p.ETA()
}

// Progress returns the last recorded fraction.
func (p *ProgressWithETA) Progress() float64 {
	return p.progress
}

// ETA extrapolates the elapsed time linearly. It returns 0 while no unit has
// finished.
func (p *ProgressWithETA) ETA() time.Duration {
	if p.progress <= 0 || p.progress >= 1 {
		return 0
	}
	elapsed := p.now().Sub(p.startTime)
	total := time.Duration(float64(elapsed) / p.progress)
	return total - elapsed
}

// FormatETA renders an ETA compactly ("45s", "2m30s", "1h15m").
func FormatETA(eta time.Duration) string {
	if eta <= 0 {
		return "calculating..."
	}
	if eta < time.Second {
		return "< 1s"
	}
	eta = eta.Round(time.Second)
	h := int(eta.Hours())
	m := int(eta.Minutes()) % 60
	s := int(eta.Seconds()) % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0 && s > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatProgressBar draws a bar of the given width, e.g. "[#####-----]".
func FormatProgressBar(progress float64, width int) string {
	if width < 1 {
		width = 1
	}
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// FormatProgressBarWithETA combines the bar, a percentage and the ETA.
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("%s %5.1f%% ETA: %s",
		FormatProgressBar(progress, width), min(max(progress, 0), 1)*100, FormatETA(eta))
}
