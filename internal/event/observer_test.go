package event

import (
	"bytes"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/agbru/taskflow/internal/logging"
)

// countingObserver tracks the number of OnEvent calls using an atomic counter,
// making it safe for concurrent use.
type countingObserver struct {
	count atomic.Int64
}

func (o *countingObserver) OnEvent(int, Kind, string) {
	o.count.Add(1)
}

// TestFreezeSnapshotImmutability verifies that after Freeze(), adding new
// observers does NOT affect the frozen emitter.
func TestFreezeSnapshotImmutability(t *testing.T) {
	subject := NewSubject()
	obs1 := &countingObserver{}
	subject.Register(obs1)

	emit := subject.Freeze(0)

	obs2 := &countingObserver{}
	subject.Register(obs2)

	emit(Start, "")

	if obs1.count.Load() != 1 {
		t.Errorf("obs1 should have count 1, got %d", obs1.count.Load())
	}
	if obs2.count.Load() != 0 {
		t.Errorf("obs2 should have count 0, got %d", obs2.count.Load())
	}
}

// TestFreezeConcurrentRegister verifies that concurrent Freeze() and Register()
// calls do not cause data races. This test should be run with -race.
func TestFreezeConcurrentRegister(t *testing.T) {
	subject := NewSubject()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			subject.Register(&countingObserver{})
		}()
	}
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			emit := subject.Freeze(idx)
			emit(Retry, "3")
		}(i)
	}
	wg.Wait()

	if subject.Len() != 100 {
		t.Errorf("expected 100 observers, got %d", subject.Len())
	}
}

// TestSubjectConcurrentEvents verifies that concurrent units reach every
// observer without lost updates.
func TestSubjectConcurrentEvents(t *testing.T) {
	subject := NewSubject()
	obs := &countingObserver{}
	subject.Register(obs)
	subject.Register(nil)

	var wg sync.WaitGroup
	for unit := 0; unit < 10; unit++ {
		wg.Add(1)
		go func(unit int) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				subject.OnEvent(unit, Retry, "1")
			}
		}(unit)
	}
	wg.Wait()

	if got := obs.count.Load(); got != 10*1000 {
		t.Errorf("expected %d events, got %d", 10*1000, got)
	}
}

func TestBind(t *testing.T) {
	var gotUnit int
	var gotKind Kind
	var gotPayload string
	emit := Bind(ObserverFunc(func(unit int, kind Kind, payload string) {
		gotUnit, gotKind, gotPayload = unit, kind, payload
	}), 4)
	emit(Accept, "9")
	if gotUnit != 4 || gotKind != Accept || gotPayload != "9" {
		t.Errorf("Bind forwarded (%d, %v, %q)", gotUnit, gotKind, gotPayload)
	}

	// A nil observer must not panic.
	Bind(nil, 0)(Start, "")
}

func TestChannelObserver(t *testing.T) {
	ch := make(chan Event, 2)
	obs := NewChannelObserver(ch)
	obs.OnEvent(1, Start, "n=1")
	obs.OnEvent(1, StageDone, "result1-1")
	close(ch)

	var events []Event
	for e := range ch {
		events = append(events, e)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[1].Kind != StageDone || events[1].Payload != "result1-1" || events[1].At.IsZero() {
		t.Errorf("unexpected event: %+v", events[1])
	}
}

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, "test", "json", true)
	NewLoggingObserver(logger).OnEvent(2, Retry, "5")

	out := buf.String()
	for _, want := range []string{`"unit":2`, `"kind":"retry"`, `"payload":"5"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output should contain %s, got: %s", want, out)
		}
	}
}

func TestNoOpObserver(t *testing.T) {
	var o Observer = NewNoOpObserver()
	o.OnEvent(0, Start, "")
}
