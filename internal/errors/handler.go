package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the escape sequences used when printing errors.
// A nil provider prints plain text.
type ColorProvider interface {
	Yellow() string
	Red() string
	Reset() string
}

// plainColors is used when the caller passes no ColorProvider.
type plainColors struct{}

func (plainColors) Yellow() string { return "" }
func (plainColors) Red() string    { return "" }
func (plainColors) Reset() string  { return "" }

// HandleRunError reports a failed run on out and maps it to an exit code.
// A nil error maps to ExitSuccess and prints nothing.
func HandleRunError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = plainColors{}
	}

	msgSuffix := ""
	if duration > 0 {
		msgSuffix = fmt.Sprintf(" after %s", duration)
	}
	unit, hasUnit := FailedUnit(err)
	unitPrefix := ""
	if hasUnit {
		unitPrefix = fmt.Sprintf("unit %d: ", unit)
	}

	var configErr ConfigError
	var timeoutErr TimeoutError
	switch {
	case errors.As(err, &configErr):
		fmt.Fprintf(out, "%sConfiguration error: %v%s\n", colors.Red(), configErr, colors.Reset())
		return ExitErrorConfig
	case errors.As(err, &timeoutErr):
		fmt.Fprintf(out, "%sStatus: Failure (Timeout). %s%s exceeded its %s timeout%s.%s\n",
			colors.Yellow(), unitPrefix, timeoutErr.Operation, timeoutErr.Limit, msgSuffix, colors.Reset())
		return ExitErrorTimeout
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "%sStatus: Failure (Timeout). %sthe run exceeded its deadline%s.%s\n",
			colors.Yellow(), unitPrefix, msgSuffix, colors.Reset())
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sStatus: Canceled. %sthe run was canceled%s.%s\n",
			colors.Yellow(), unitPrefix, msgSuffix, colors.Reset())
		return ExitErrorCanceled
	case hasUnit:
		fmt.Fprintf(out, "%sStatus: Failure. %v%s\n", colors.Red(), err, colors.Reset())
		return ExitErrorUnit
	default:
		fmt.Fprintf(out, "%sStatus: Failure. Unexpected error: %v%s\n", colors.Red(), err, colors.Reset())
		return ExitErrorGeneric
	}
}
