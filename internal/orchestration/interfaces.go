package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/taskflow/internal/event"
)

// Summary is the presentation-ready, non-generic form of an Outcome.
// It serves as the shared domain type between orchestration and presentation layers.
type Summary struct {
	// Demo is the name of the plan that ran.
	Demo string
	// RunID identifies the run in logs and reports.
	RunID string
	// Seed is the seed of the random source used by the run.
	Seed int64
	// Results holds one description per unit in launch order. Empty on failure.
	Results []string
	// Duration is the wall-clock time of the run.
	Duration time.Duration
	// Err is the run failure, if any.
	Err error
	// Units is the final status of every unit.
	Units []event.UnitStatus
}

// EventReporter defines the interface for displaying lifecycle events.
// This interface decouples the orchestration layer from the presentation layer:
// implementations decide how events look (plain lines, spinner, TUI) while
// the orchestration layer focuses on coordinating the units.
type EventReporter interface {
	// DisplayEvents consumes events until the channel is closed.
	// It is called in a separate goroutine.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - events: Channel receiving lifecycle events from the units.
	//   - numUnits: The number of units being tracked.
	//   - out: The writer for event output.
	DisplayEvents(wg *sync.WaitGroup, events <-chan event.Event, numUnits int, out io.Writer)
}

// EventReporterFunc is a function adapter that implements EventReporter.
type EventReporterFunc func(wg *sync.WaitGroup, events <-chan event.Event, numUnits int, out io.Writer)

// DisplayEvents calls the underlying function.
func (f EventReporterFunc) DisplayEvents(wg *sync.WaitGroup, events <-chan event.Event, numUnits int, out io.Writer) {
	f(wg, events, numUnits, out)
}

// NullEventReporter is a no-op implementation of EventReporter.
// It drains the event channel without displaying anything.
// Useful for quiet mode or testing.
type NullEventReporter struct{}

// DisplayEvents drains the channel without output.
func (NullEventReporter) DisplayEvents(wg *sync.WaitGroup, events <-chan event.Event, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(events)
}

// ResultPresenter defines the interface for presenting a finished run.
type ResultPresenter interface {
	// PresentSummary displays per-unit results and the timing report.
	PresentSummary(summary Summary, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler handles run errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
