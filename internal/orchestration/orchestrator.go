package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/taskflow/internal/errors"
	"github.com/agbru/taskflow/internal/event"
)

// UnitFunc is the body of one task unit. The coordinator calls it exactly
// once, passing a context that is cancelled as soon as any sibling fails.
type UnitFunc[T any] func(ctx context.Context) (T, error)

// EventBufferMultiplier defines the per-unit buffer size of the event
// channel. A larger buffer reduces the likelihood of blocking unit goroutines
// when the reporter is slow to consume events.
const EventBufferMultiplier = 8

var (
	tracer = otel.Tracer("github.com/agbru/taskflow/internal/orchestration")

	errNilUnit = errors.New("nil unit function")
)

type gatherOptions struct {
	limit int
}

// Option configures Gather.
type Option func(*gatherOptions)

// WithLimit caps the number of units running at the same time. Zero or a
// negative value means no cap.
func WithLimit(n int) Option {
	return func(o *gatherOptions) { o.limit = n }
}

// Gather launches every unit concurrently, waits for all of them and returns
// their results in launch order, regardless of completion order.
//
// If any unit fails, the shared context is cancelled so in-flight units stop
// at their next suspension, and Gather returns the first failure as an
// apperrors.UnitError with a nil result slice. No partial results are exposed.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - units: The unit bodies, in launch order.
//   - opts: Optional settings such as WithLimit.
//
// Returns:
//   - []T: One result per unit, index-aligned with units.
//   - error: The first unit failure, or nil.
func Gather[T any](ctx context.Context, units []UnitFunc[T], opts ...Option) ([]T, error) {
	var o gatherOptions
	for _, opt := range opts {
		opt(&o)
	}

	results := make([]T, len(units))
	if len(units) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if o.limit > 0 {
		g.SetLimit(o.limit)
	}

	for i, unit := range units {
		idx, run := i, unit
		g.Go(func() error {
			res, err := runUnit(gctx, idx, run)
			if err != nil {
				return asUnitError(idx, err)
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// runUnit executes one unit inside its own span and converts a panic into an
// ordinary unit failure.
func runUnit[T any](ctx context.Context, idx int, run UnitFunc[T]) (res T, err error) {
	ctx, span := tracer.Start(ctx, "taskflow.unit",
		trace.WithAttributes(attribute.Int("unit.index", idx)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if run == nil {
		return res, errNilUnit
	}
	return run(ctx)
}

func asUnitError(idx int, err error) error {
	var unitErr apperrors.UnitError
	if errors.As(err, &unitErr) {
		return err
	}
	return apperrors.UnitError{Unit: idx, Cause: err}
}

// Plan describes one orchestrated run: its name and how to build its units
// once the event subject exists.
type Plan[T any] struct {
	// Name identifies the demo (e.g., "random").
	Name string
	// Build creates the units, wiring obs as their lifecycle observer.
	Build func(obs event.Observer) []UnitFunc[T]
	// Limit caps concurrently running units; zero means unbounded.
	Limit int
}

// Outcome encapsulates the result of one Execute call.
type Outcome[T any] struct {
	// Results is index-aligned with the plan's units; nil when Err is set.
	Results []T
	// Err is the first unit failure, if any.
	Err error
	// Duration is the wall-clock time of the whole fan-out/fan-in.
	Duration time.Duration
	// Units is the final lifecycle status of every unit.
	Units []event.UnitStatus
}

// Execute runs a plan through Gather while streaming lifecycle events to the
// reporter and any extra observers.
//
// It manages the event channel, the reporter goroutine and the timing of the
// run; Gather itself is not timed internally. Every unit additionally emits a
// Done or Fail event when it returns.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - plan: The plan describing the units to run.
//   - reporter: The event reporter (use NullEventReporter for quiet mode).
//   - out: The io.Writer handed to the reporter.
//   - observers: Additional observers such as metrics or logging.
//
// Returns:
//   - Outcome[T]: Results, first error, duration and per-unit status.
func Execute[T any](ctx context.Context, plan Plan[T], reporter EventReporter, out io.Writer, observers ...event.Observer) Outcome[T] {
	if reporter == nil {
		reporter = NullEventReporter{}
	}

	subject := event.NewSubject()
	var units []UnitFunc[T]
	if plan.Build != nil {
		units = plan.Build(subject)
	}

	tracker := event.NewStateTracker(len(units))
	subject.Register(tracker)
	for _, o := range observers {
		subject.Register(o)
	}

	eventChan := make(chan event.Event, max(len(units), 1)*EventBufferMultiplier)
	subject.Register(event.NewChannelObserver(eventChan))

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayEvents(&displayWg, eventChan, len(units), out)

	wrapped := make([]UnitFunc[T], len(units))
	for i, u := range units {
		wrapped[i] = reportCompletion(subject, i, u)
	}

	start := time.Now()
	results, err := Gather(ctx, wrapped, WithLimit(plan.Limit))
	duration := time.Since(start)

	close(eventChan)
	displayWg.Wait()

	return Outcome[T]{
		Results:  results,
		Err:      err,
		Duration: duration,
		Units:    tracker.Snapshot(),
	}
}

// reportCompletion wraps a unit so its terminal state reaches the observers.
func reportCompletion[T any](obs event.Observer, idx int, run UnitFunc[T]) UnitFunc[T] {
	return func(ctx context.Context) (res T, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
			if err != nil {
				obs.OnEvent(idx, event.Fail, err.Error())
				return
			}
			obs.OnEvent(idx, event.Done, fmt.Sprint(res))
		}()
		if run == nil {
			return res, errNilUnit
		}
		return run(ctx)
	}
}
