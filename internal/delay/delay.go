//go:generate mockgen -source=delay.go -destination=../mocks/mock_delay.go -package=mocks

// Package delay provides the suspension primitive that stands in for
// latency-bound work. A Sleeper yields only the calling goroutine, so
// concurrently scheduled units are never blocked by each other's delays.
package delay

import (
	"context"
	"sync"
	"time"
)

// Sleeper suspends the caller for d or until ctx is done, whichever comes
// first. It returns ctx.Err() when the suspension was cut short.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Func adapts a function to the Sleeper interface.
type Func func(ctx context.Context, d time.Duration) error

// Sleep calls f.
func (f Func) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// Timer is the real, timer-backed Sleeper.
type Timer struct{}

// Sleep waits for d on a timer, returning early on cancellation.
func (Timer) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Instant is a zero-duration Sleeper for deterministic runs. It still
// reports a context that is already done.
type Instant struct{}

// Sleep returns immediately.
func (Instant) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// Recorder wraps a Sleeper and records every requested duration.
type Recorder struct {
	next Sleeper

	mu        sync.Mutex
	durations []time.Duration
}

// NewRecorder returns a Recorder delegating to next. A nil next records
// without sleeping.
func NewRecorder(next Sleeper) *Recorder {
	if next == nil {
		next = Instant{}
	}
	return &Recorder{next: next}
}

// Sleep records d and delegates.
func (r *Recorder) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.durations = append(r.durations, d)
	r.mu.Unlock()
	return r.next.Sleep(ctx, d)
}

// Durations returns a copy of the recorded durations in call order.
func (r *Recorder) Durations() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]time.Duration, len(r.durations))
	copy(out, r.durations)
	return out
}

// Total returns the sum of all recorded durations.
func (r *Recorder) Total() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total time.Duration
	for _, d := range r.durations {
		total += d
	}
	return total
}

// Units converts a count of abstract time units into a duration.
func Units(n int, unit time.Duration) time.Duration {
	return time.Duration(n) * unit
}
