package event

import (
	"fmt"
	"time"
)

// Kind identifies a lifecycle event emitted by a task unit.
type Kind int

const (
	// Start is emitted once when a unit begins its body.
	Start Kind = iota
	// Retry is emitted for every rejected draw; the payload is the drawn value.
	Retry
	// Accept is emitted when a draw clears the threshold; the payload is the value.
	Accept
	// StageSleep is emitted before a pipeline stage suspends.
	StageSleep
	// StageDone is emitted when a stage (or a plain unit step) produced its output.
	StageDone
	// Done is emitted by the coordinator session when a unit returned a result.
	Done
	// Fail is emitted by the coordinator session when a unit returned an error.
	Fail
)

var kindNames = [...]string{"start", "retry", "accept", "stage_sleep", "stage_done", "done", "fail"}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Event is the value form of an OnEvent call, used when events cross a channel.
type Event struct {
	Unit    int
	Kind    Kind
	Payload string
	At      time.Time
}

// State is the lifecycle state of a task unit.
type State int

const (
	Pending State = iota
	Running
	Retrying
	Completed
	Failed
)

var stateNames = [...]string{"pending", "running", "retrying", "completed", "failed"}

// String returns the lowercase name of the state.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether the state is Completed or Failed.
func (s State) Terminal() bool {
	return s == Completed || s == Failed
}

// Next returns the state a unit moves to after an event of kind k.
// Terminal states are sticky.
func (s State) Next(k Kind) State {
	if s.Terminal() {
		return s
	}
	switch k {
	case Start, StageSleep, StageDone:
		return Running
	case Retry:
		return Retrying
	case Accept, Done:
		return Completed
	case Fail:
		return Failed
	}
	return s
}
