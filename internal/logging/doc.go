// Package logging is the structured logging layer of taskflow.
//
// Components depend on the Logger interface; ZerologAdapter implements it
// with zerolog in console or JSON form. Entries about a run carry the
// run_id, demo and unit keys so a JSON log can be filtered per run or unit.
package logging
