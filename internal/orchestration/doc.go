// Package orchestration coordinates the concurrent execution of task units and
// aggregates their results in launch order. It decouples the core from
// presentation via the EventReporter and ResultPresenter interfaces.
package orchestration
