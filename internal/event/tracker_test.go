package event

import (
	"sync"
	"testing"
)

func TestStateNext(t *testing.T) {
	t.Parallel()
	tests := []struct {
		from State
		kind Kind
		want State
	}{
		{Pending, Start, Running},
		{Running, Retry, Retrying},
		{Retrying, Retry, Retrying},
		{Retrying, Accept, Completed},
		{Running, StageSleep, Running},
		{Running, StageDone, Running},
		{Running, Done, Completed},
		{Running, Fail, Failed},
		{Completed, Fail, Completed},
		{Failed, Start, Failed},
	}
	for _, tt := range tests {
		if got := tt.from.Next(tt.kind); got != tt.want {
			t.Errorf("%v.Next(%v) = %v, want %v", tt.from, tt.kind, got, tt.want)
		}
	}
}

func TestKindAndStateStrings(t *testing.T) {
	t.Parallel()
	if Retry.String() != "retry" {
		t.Errorf("Retry.String() = %q", Retry.String())
	}
	if Kind(99).String() != "kind(99)" {
		t.Errorf("unexpected out-of-range kind name %q", Kind(99).String())
	}
	if Retrying.String() != "retrying" {
		t.Errorf("Retrying.String() = %q", Retrying.String())
	}
	if State(-1).String() != "state(-1)" {
		t.Errorf("unexpected out-of-range state name %q", State(-1).String())
	}
}

func TestStateTracker(t *testing.T) {
	t.Parallel()
	tracker := NewStateTracker(2)

	if got := tracker.States(); got[0] != Pending || got[1] != Pending {
		t.Fatalf("expected all pending, got %v", got)
	}

	tracker.OnEvent(0, Start, "")
	tracker.OnEvent(0, Retry, "3")
	tracker.OnEvent(0, Retry, "5")
	tracker.OnEvent(0, Accept, "9")
	tracker.OnEvent(1, Start, "")
	tracker.OnEvent(1, Fail, "context canceled")
	tracker.OnEvent(3, Start, "")
	tracker.OnEvent(-1, Start, "")

	s0 := tracker.Status(0)
	if s0.State != Completed || s0.Retries != 2 || s0.LastPayload != "9" {
		t.Errorf("unit 0 status = %+v", s0)
	}
	if tracker.Status(1).State != Failed {
		t.Errorf("unit 1 should be failed, got %v", tracker.Status(1).State)
	}
	if snap := tracker.Snapshot(); len(snap) != 4 || snap[3].State != Running || snap[2].State != Pending {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if tracker.Status(10).State != Pending {
		t.Error("unknown unit should report pending")
	}
}

func TestStateTrackerConcurrent(t *testing.T) {
	t.Parallel()
	tracker := NewStateTracker(0)
	var wg sync.WaitGroup
	for unit := 0; unit < 20; unit++ {
		wg.Add(1)
		go func(unit int) {
			defer wg.Done()
			tracker.OnEvent(unit, Start, "")
			for i := 0; i < 50; i++ {
				tracker.OnEvent(unit, Retry, "0")
			}
			tracker.OnEvent(unit, Accept, "10")
		}(unit)
	}
	wg.Wait()

	for _, s := range tracker.Snapshot() {
		if s.State != Completed || s.Retries != 50 {
			t.Errorf("unit %d: %+v", s.Unit, s)
		}
	}
}
