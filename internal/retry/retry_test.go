package retry

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agbru/taskflow/internal/delay"
	apperrors "github.com/agbru/taskflow/internal/errors"
	"github.com/agbru/taskflow/internal/event"
	"github.com/agbru/taskflow/internal/mocks"
	"github.com/agbru/taskflow/internal/random"
	"github.com/agbru/taskflow/internal/work"
)

// eventLog collects events for a single run.
type eventLog struct {
	mu     sync.Mutex
	events []event.Event
}

func (l *eventLog) OnEvent(unit int, kind event.Kind, payload string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event.Event{Unit: unit, Kind: kind, Payload: payload})
}

func (l *eventLog) kinds(k event.Kind) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.events {
		if e.Kind == k {
			out = append(out, e.Payload)
		}
	}
	return out
}

func TestDefaultThreshold(t *testing.T) {
	t.Parallel()
	want := []int{9, 8, 7}
	got := DefaultThresholds(DefaultUnits)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DefaultThreshold(%d) = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		threshold int
		maxDraw   int
		wantErr   bool
	}{
		{"below max", 9, 10, false},
		{"negative threshold", -1, 10, false},
		{"equal to max", 10, 10, true},
		{"above max", 11, 10, true},
		{"zero max draw", -1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tt.threshold, tt.maxDraw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%d, %d) error = %v, wantErr %v", tt.threshold, tt.maxDraw, err, tt.wantErr)
			}
			if err != nil {
				var cfgErr apperrors.ConfigError
				if !errors.As(err, &cfgErr) {
					t.Errorf("expected ConfigError, got %T", err)
				}
			}
		})
	}
}

// TestMakeRandom_AcceptsAboveThreshold_PropertyBased verifies that the
// returned value exceeds the threshold and every rejected draw does not.
func TestMakeRandom_AcceptsAboveThreshold_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("accepted value > threshold >= every retried value", prop.ForAll(
		func(seed int64, idx, threshold int) bool {
			log := &eventLog{}
			env := work.Env{
				Rand:     random.New(seed),
				Sleeper:  delay.Instant{},
				Observer: log,
			}
			v, err := MakeRandom(context.Background(), idx, threshold, env)
			if err != nil || v <= threshold || v > work.DefaultMaxDraw {
				return false
			}
			for _, p := range log.kinds(event.Retry) {
				r, _ := strconv.Atoi(p)
				if r > threshold {
					return false
				}
			}
			accepted := log.kinds(event.Accept)
			return len(accepted) == 1 && accepted[0] == strconv.Itoa(v)
		},
		gen.Int64(),
		gen.IntRange(0, 5),
		gen.IntRange(-1, 9),
	))

	properties.TestingRun(t)
}

func TestMakeRandom_DeterministicForSeed(t *testing.T) {
	t.Parallel()
	run := func() (int, []string) {
		log := &eventLog{}
		env := work.Env{Rand: random.New(1), Sleeper: delay.Instant{}, Observer: log}
		v, err := MakeRandom(context.Background(), 0, 9, env)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return v, log.kinds(event.Retry)
	}

	v1, retries1 := run()
	v2, retries2 := run()
	if v1 != v2 || len(retries1) != len(retries2) {
		t.Fatalf("runs diverged: %d/%v vs %d/%v", v1, retries1, v2, retries2)
	}
	for i := range retries1 {
		if retries1[i] != retries2[i] {
			t.Errorf("draw %d diverged: %s vs %s", i, retries1[i], retries2[i])
		}
	}
}

func TestMakeRandom_BacksOffByIndex(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := mocks.NewMockSource(ctrl)
	sleeper := mocks.NewMockSleeper(ctrl)
	gomock.InOrder(
		src.EXPECT().IntRange(0, 10).Return(3),
		sleeper.EXPECT().Sleep(gomock.Any(), 3*time.Millisecond).Return(nil),
		src.EXPECT().IntRange(0, 10).Return(7),
		sleeper.EXPECT().Sleep(gomock.Any(), 3*time.Millisecond).Return(nil),
		src.EXPECT().IntRange(0, 10).Return(8),
	)

	env := work.Env{Rand: src, Sleeper: sleeper, TimeUnit: time.Millisecond}
	v, err := MakeRandom(context.Background(), 2, 7, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 8 {
		t.Errorf("expected 8, got %d", v)
	}
}

func TestMakeRandom_InvalidThresholdDoesNotDraw(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: any draw or sleep fails the test.
	env := work.Env{Rand: mocks.NewMockSource(ctrl), Sleeper: mocks.NewMockSleeper(ctrl)}
	_, err := MakeRandom(context.Background(), 0, 10, env)

	var cfgErr apperrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestMakeRandom_CancelledDelayPropagates(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := work.Env{Rand: random.NewSequence(0), Sleeper: delay.Timer{}, TimeUnit: time.Hour}
	_, err := MakeRandom(ctx, 0, 5, env)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
