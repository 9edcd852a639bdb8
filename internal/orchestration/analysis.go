package orchestration

import (
	"fmt"
	"io"

	apperrors "github.com/agbru/taskflow/internal/errors"
)

// Summarize converts a typed Outcome into a Summary. describe renders one
// result; nil falls back to fmt.Sprint.
func Summarize[T any](demo string, outcome Outcome[T], describe func(T) string) Summary {
	if describe == nil {
		describe = func(v T) string { return fmt.Sprint(v) }
	}
	s := Summary{
		Demo:     demo,
		Duration: outcome.Duration,
		Err:      outcome.Err,
		Units:    outcome.Units,
	}
	if outcome.Err == nil {
		s.Results = make([]string, len(outcome.Results))
		for i, r := range outcome.Results {
			s.Results[i] = describe(r)
		}
	}
	return s
}

// AnalyzeOutcome presents a finished run and maps it to an exit code.
//
// A failed run is reported through the error handler, which names the failed
// unit; a successful run is handed to the presenter.
//
// Parameters:
//   - summary: The summary of the run.
//   - presenter: The result presenter for display formatting.
//   - errHandler: The handler mapping failures to exit codes.
//   - out: The io.Writer for the report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeOutcome(summary Summary, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	if summary.Err != nil {
		return errHandler.HandleError(summary.Err, summary.Duration, out)
	}
	presenter.PresentSummary(summary, out)
	return apperrors.ExitSuccess
}
