package work

import (
	"context"
	"testing"
	"time"

	"github.com/agbru/taskflow/internal/delay"
	"github.com/agbru/taskflow/internal/event"
	"github.com/agbru/taskflow/internal/random"
)

func TestWithDefaults(t *testing.T) {
	t.Parallel()
	e := Env{}.WithDefaults()
	if e.Rand == nil || e.Sleeper == nil || e.Observer == nil {
		t.Fatalf("collaborators not defaulted: %+v", e)
	}
	if e.MaxDraw != DefaultMaxDraw || e.TimeUnit != DefaultTimeUnit {
		t.Errorf("got MaxDraw=%d TimeUnit=%v", e.MaxDraw, e.TimeUnit)
	}

	custom := Env{MaxDraw: 3, TimeUnit: time.Millisecond}.WithDefaults()
	if custom.MaxDraw != 3 || custom.TimeUnit != time.Millisecond {
		t.Errorf("explicit values overwritten: %+v", custom)
	}
}

func TestDrawAndSuspend(t *testing.T) {
	t.Parallel()
	rec := delay.NewRecorder(nil)
	e := Env{Rand: random.NewSequence(42, 2), Sleeper: rec, TimeUnit: time.Millisecond}.WithDefaults()

	if got := e.Draw(); got != DefaultMaxDraw {
		t.Errorf("draw should be clamped to %d, got %d", DefaultMaxDraw, got)
	}
	if got := e.Draw(); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if err := e.Suspend(context.Background(), 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Total() != 3*time.Millisecond {
		t.Errorf("expected 3ms recorded, got %v", rec.Total())
	}
}

func TestEmitter(t *testing.T) {
	t.Parallel()
	var gotUnit int
	var gotKind event.Kind
	e := Env{Observer: event.ObserverFunc(func(unit int, kind event.Kind, _ string) {
		gotUnit, gotKind = unit, kind
	})}
	e.Emitter(4)(event.Start, "")
	if gotUnit != 4 || gotKind != event.Start {
		t.Errorf("got unit=%d kind=%v", gotUnit, gotKind)
	}
}

func TestForUnit(t *testing.T) {
	t.Parallel()
	shared := random.NewSequence(4)
	e := Env{Rand: shared}
	if got := e.ForUnit(3).Rand; got != random.Source(shared) {
		t.Errorf("without Streams the shared source should be kept, got %T", got)
	}

	e.Streams = random.Streams(7)
	a, b := e.ForUnit(2), e.ForUnit(2)
	for i := 0; i < 20; i++ {
		if x, y := a.Rand.IntRange(0, 100), b.Rand.IntRange(0, 100); x != y {
			t.Fatalf("draw %d: unit 2 streams differ: %d != %d", i, x, y)
		}
	}
}
