// Package event carries per-unit lifecycle events from the orchestration core
// to its observers. The core only ever calls Observer.OnEvent; presentation,
// logging, metrics and state tracking are all observers registered on a
// Subject.
package event
