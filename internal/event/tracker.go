package event

import "sync"

// UnitStatus is a point-in-time view of one unit, as derived by StateTracker.
type UnitStatus struct {
	Unit        int
	State       State
	Retries     int
	LastPayload string
}

// StateTracker derives per-unit lifecycle state from the event stream.
type StateTracker struct {
	mu    sync.Mutex
	units []UnitStatus
}

// NewStateTracker creates a tracker for n units, all Pending.
func NewStateTracker(n int) *StateTracker {
	if n < 0 {
		n = 0
	}
	t := &StateTracker{units: make([]UnitStatus, n)}
	for i := range t.units {
		t.units[i].Unit = i
	}
	return t
}

// OnEvent applies the event to the unit's status. Units beyond the initial
// size are added on demand.
func (t *StateTracker) OnEvent(unit int, kind Kind, payload string) {
	if unit < 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for len(t.units) <= unit {
		t.units = append(t.units, UnitStatus{Unit: len(t.units)})
	}
	u := &t.units[unit]
	u.State = u.State.Next(kind)
	if kind == Retry {
		u.Retries++
	}
	u.LastPayload = payload
}

// Status returns the status of a single unit.
func (t *StateTracker) Status(unit int) UnitStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	if unit < 0 || unit >= len(t.units) {
		return UnitStatus{Unit: unit}
	}
	return t.units[unit]
}

// Snapshot returns a copy of all unit statuses in launch order.
func (t *StateTracker) Snapshot() []UnitStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]UnitStatus, len(t.units))
	copy(out, t.units)
	return out
}

// States returns just the states, in launch order.
func (t *StateTracker) States() []State {
	snap := t.Snapshot()
	states := make([]State, len(snap))
	for i, s := range snap {
		states[i] = s.State
	}
	return states
}
