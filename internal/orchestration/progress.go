package orchestration

import "github.com/agbru/taskflow/internal/event"

// CompletionAggregator folds the event stream into run-level counters.
// Both the CLI spinner and the TUI use it to avoid duplicating the
// bookkeeping.
type CompletionAggregator struct {
	numUnits  int
	completed int
	failed    int
	retries   int
}

// NewCompletionAggregator creates a new aggregator for the given number
// of units. Returns nil if numUnits <= 0.
func NewCompletionAggregator(numUnits int) *CompletionAggregator {
	if numUnits <= 0 {
		return nil
	}
	return &CompletionAggregator{numUnits: numUnits}
}

// AggregatedProgress holds the result of processing a single event.
type AggregatedProgress struct {
	// Unit is the index of the unit that sent the event.
	Unit int
	// Kind is the kind of the processed event.
	Kind event.Kind
	// Completed is the number of units that returned a result so far.
	Completed int
	// Failed is the number of units that returned an error so far.
	Failed int
	// Retries is the total number of rejected draws so far.
	Retries int
	// Fraction is (Completed+Failed)/numUnits.
	Fraction float64
}

// Update processes a single event and returns the aggregated result.
func (a *CompletionAggregator) Update(e event.Event) AggregatedProgress {
	switch e.Kind {
	case event.Done:
		a.completed++
	case event.Fail:
		a.failed++
	case event.Retry:
		a.retries++
	}
	return AggregatedProgress{
		Unit:      e.Unit,
		Kind:      e.Kind,
		Completed: a.completed,
		Failed:    a.failed,
		Retries:   a.retries,
		Fraction:  a.Fraction(),
	}
}

// Fraction returns the share of units in a terminal state.
func (a *CompletionAggregator) Fraction() float64 {
	return float64(a.completed+a.failed) / float64(a.numUnits)
}

// NumUnits returns the number of units being tracked.
func (a *CompletionAggregator) NumUnits() int {
	return a.numUnits
}

// DrainChannel reads all events from the channel without processing.
func DrainChannel(events <-chan event.Event) {
	for range events {
	}
}
