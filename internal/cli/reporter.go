package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/taskflow/internal/event"
	"github.com/agbru/taskflow/internal/format"
	"github.com/agbru/taskflow/internal/orchestration"
	"github.com/agbru/taskflow/internal/ui"
)

// FormatEvent renders one lifecycle event as a single uncolored line.
func FormatEvent(e event.Event) string {
	prefix := fmt.Sprintf("[unit %d] ", e.Unit)
	switch e.Kind {
	case event.Start:
		if e.Payload == "" {
			return prefix + "started."
		}
		return prefix + "started: " + e.Payload
	case event.Retry:
		return fmt.Sprintf("%sdrew %s, too low; retrying.", prefix, e.Payload)
	case event.Accept:
		return fmt.Sprintf("%s---> finished with %s", prefix, e.Payload)
	case event.StageSleep, event.StageDone:
		return prefix + e.Payload
	case event.Done:
		return prefix + "--> " + e.Payload
	case event.Fail:
		return prefix + "failed: " + e.Payload
	}
	return prefix + e.Kind.String() + " " + e.Payload
}

// EventReporter prints every event as a line colored by unit index.
type EventReporter struct{}

var _ orchestration.EventReporter = EventReporter{}

// DisplayEvents prints events until the channel is closed.
func (EventReporter) DisplayEvents(wg *sync.WaitGroup, events <-chan event.Event, _ int, out io.Writer) {
	defer wg.Done()
	for e := range events {
		fmt.Fprintf(out, "%s%s%s\n", ui.UnitColor(e.Unit), FormatEvent(e), ui.ColorReset())
	}
}

// SpinnerReporter shows a single spinner line with a completion bar instead
// of one line per event.
type SpinnerReporter struct{}

var _ orchestration.EventReporter = SpinnerReporter{}

// DisplayEvents animates the spinner until the channel is closed.
func (SpinnerReporter) DisplayEvents(wg *sync.WaitGroup, events <-chan event.Event, numUnits int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewCompletionAggregator(numUnits)
	if agg == nil {
		orchestration.DrainChannel(events)
		return
	}

	eta := format.NewProgressWithETA(numUnits)
	s := newSpinner(spinner.WithWriter(out), spinner.WithHiddenCursor(true))
	s.UpdateSuffix(formatSpinnerSuffix(orchestration.AggregatedProgress{}, numUnits, 0))
	s.Start()
	defer s.Stop()

	for e := range events {
		ap := agg.Update(e)
		s.UpdateSuffix(formatSpinnerSuffix(ap, numUnits, eta.Update(ap.Fraction)))
	}
}

// formatSpinnerSuffix renders " 1/3 units [####----] ETA: 2s retries: 4".
func formatSpinnerSuffix(ap orchestration.AggregatedProgress, numUnits int, remaining time.Duration) string {
	return fmt.Sprintf(" %d/%d units %s ETA: %s retries: %d",
		ap.Completed+ap.Failed, numUnits,
		format.FormatProgressBar(ap.Fraction, ProgressBarWidth),
		format.FormatETA(remaining), ap.Retries)
}
