// Package work bundles the collaborators a simulated, latency-bound task unit
// needs: a random source, a delay primitive, a lifecycle observer and the
// size of one abstract time unit.
package work

import (
	"context"
	"time"

	"github.com/agbru/taskflow/internal/delay"
	"github.com/agbru/taskflow/internal/event"
	"github.com/agbru/taskflow/internal/random"
)

const (
	// DefaultMaxDraw is the inclusive upper bound of every random draw.
	DefaultMaxDraw = 10
	// DefaultTimeUnit is the length of one abstract time unit.
	DefaultTimeUnit = time.Second
)

// Env carries the collaborators of a unit. The zero value is usable: missing
// fields are filled by WithDefaults.
type Env struct {
	// Rand is the source used when Streams is nil. It is shared by all units.
	Rand random.Source
	// Streams, when set, gives each unit its own source so a seeded run
	// draws the same values whatever the scheduling.
	Streams random.Factory
	// Sleeper suspends a unit while it "works".
	Sleeper delay.Sleeper
	// Observer receives lifecycle events. Nil discards them.
	Observer event.Observer
	// MaxDraw is the inclusive upper bound of draws; the lower bound is 0.
	MaxDraw int
	// TimeUnit is the length of one abstract time unit.
	TimeUnit time.Duration
}

// WithDefaults returns a copy of e with unset fields replaced by defaults:
// a source seeded with 0, the Timer sleeper, a no-op observer,
// DefaultMaxDraw and DefaultTimeUnit.
func (e Env) WithDefaults() Env {
	if e.Rand == nil {
		e.Rand = random.New(0)
	}
	if e.Sleeper == nil {
		e.Sleeper = delay.Timer{}
	}
	if e.Observer == nil {
		e.Observer = event.NoOpObserver{}
	}
	if e.MaxDraw == 0 {
		e.MaxDraw = DefaultMaxDraw
	}
	if e.TimeUnit == 0 {
		e.TimeUnit = DefaultTimeUnit
	}
	return e
}

// ForUnit returns the environment of unit idx: a copy whose Rand is the
// unit's own stream when Streams is set.
func (e Env) ForUnit(idx int) Env {
	if e.Streams != nil {
		e.Rand = e.Streams(idx)
	}
	return e
}

// Draw returns a value in [0, MaxDraw].
func (e Env) Draw() int {
	return e.Rand.IntRange(0, e.MaxDraw)
}

// Suspend sleeps for n time units.
func (e Env) Suspend(ctx context.Context, n int) error {
	return e.Sleeper.Sleep(ctx, delay.Units(n, e.TimeUnit))
}

// Emitter returns the event emitter bound to unit.
func (e Env) Emitter(unit int) event.Emitter {
	return event.Bind(e.Observer, unit)
}
