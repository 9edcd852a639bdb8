package event

import (
	"sync"
	"time"

	"github.com/agbru/taskflow/internal/logging"
)

// Observer receives lifecycle events. Implementations must be safe for
// concurrent use: units call OnEvent from their own goroutines and no ordering
// is guaranteed between events of different units.
type Observer interface {
	OnEvent(unit int, kind Kind, payload string)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(unit int, kind Kind, payload string)

// OnEvent calls f.
func (f ObserverFunc) OnEvent(unit int, kind Kind, payload string) { f(unit, kind, payload) }

// Emitter is an observer bound to one unit.
type Emitter func(kind Kind, payload string)

// Bind returns an Emitter that forwards to o for the given unit.
// A nil observer yields a no-op emitter.
func Bind(o Observer, unit int) Emitter {
	if o == nil {
		return func(Kind, string) {}
	}
	return func(kind Kind, payload string) { o.OnEvent(unit, kind, payload) }
}

// Subject fans events out to every registered observer.
type Subject struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewSubject creates an empty subject.
func NewSubject() *Subject {
	return &Subject{}
}

// Register adds an observer. Nil observers are ignored.
func (s *Subject) Register(o Observer) {
	if o == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Len returns the number of registered observers.
func (s *Subject) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// OnEvent notifies all currently registered observers.
func (s *Subject) OnEvent(unit int, kind Kind, payload string) {
	s.mu.RLock()
	observers := s.observers
	s.mu.RUnlock()
	for _, o := range observers {
		o.OnEvent(unit, kind, payload)
	}
}

// Freeze returns an Emitter for unit bound to a snapshot of the observers
// registered at call time. Observers registered later are not notified.
func (s *Subject) Freeze(unit int) Emitter {
	s.mu.RLock()
	snapshot := make([]Observer, len(s.observers))
	copy(snapshot, s.observers)
	s.mu.RUnlock()
	return func(kind Kind, payload string) {
		for _, o := range snapshot {
			o.OnEvent(unit, kind, payload)
		}
	}
}

// ChannelObserver forwards events into a channel. Sends block while the
// buffer is full, so the consumer must drain the channel until it is closed.
type ChannelObserver struct {
	ch  chan<- Event
	now func() time.Time
}

// NewChannelObserver creates an observer sending to ch.
func NewChannelObserver(ch chan<- Event) *ChannelObserver {
	return &ChannelObserver{ch: ch, now: time.Now}
}

// OnEvent sends the event to the channel.
func (c *ChannelObserver) OnEvent(unit int, kind Kind, payload string) {
	c.ch <- Event{Unit: unit, Kind: kind, Payload: payload, At: c.now()}
}

// LoggingObserver writes every event as a debug log entry.
type LoggingObserver struct {
	logger logging.Logger
}

// NewLoggingObserver creates a logging observer.
func NewLoggingObserver(logger logging.Logger) *LoggingObserver {
	if logger == nil {
		logger = logging.Nop()
	}
	return &LoggingObserver{logger: logger}
}

// OnEvent logs the event.
func (l *LoggingObserver) OnEvent(unit int, kind Kind, payload string) {
	l.logger.Debug("unit event",
		logging.Unit(unit),
		logging.String("kind", kind.String()),
		logging.String("payload", payload))
}

// NoOpObserver discards all events.
type NoOpObserver struct{}

// NewNoOpObserver returns a NoOpObserver.
func NewNoOpObserver() NoOpObserver { return NoOpObserver{} }

// OnEvent does nothing.
func (NoOpObserver) OnEvent(int, Kind, string) {}
