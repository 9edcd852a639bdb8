// Package retry implements the retry-until-threshold loop: a unit keeps
// drawing random values, backing off between draws, until one exceeds its
// threshold.
package retry

import (
	"context"
	"fmt"
	"strconv"

	apperrors "github.com/agbru/taskflow/internal/errors"
	"github.com/agbru/taskflow/internal/event"
	"github.com/agbru/taskflow/internal/work"
)

// DefaultUnits is the number of retry units in the default demo.
const DefaultUnits = 3

// DefaultThreshold returns the threshold used for unit idx when none is
// configured: 10 - idx - 1.
func DefaultThreshold(idx int) int {
	return work.DefaultMaxDraw - idx - 1
}

// DefaultThresholds returns the default thresholds for n units.
func DefaultThresholds(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = DefaultThreshold(i)
	}
	return out
}

// Validate reports whether threshold can ever be exceeded by a draw in
// [0, maxDraw]. A threshold at or above maxDraw would loop forever.
func Validate(threshold, maxDraw int) error {
	if maxDraw < 1 {
		return apperrors.NewConfigError("max draw must be at least 1, got %d", maxDraw)
	}
	if threshold >= maxDraw {
		return apperrors.NewConfigError("threshold %d can never be exceeded by draws in [0, %d]", threshold, maxDraw)
	}
	return nil
}

// MakeRandom runs the retry loop for unit idx. It draws from env.Rand until
// the value is strictly greater than threshold, suspending (idx+1) time units
// after every rejected draw, and returns the accepted value.
//
// Events: Start once, Retry with the drawn value for every rejection, Accept
// with the returned value. A cancelled suspension aborts the loop with the
// context's error.
func MakeRandom(ctx context.Context, idx, threshold int, env work.Env) (int, error) {
	env = env.WithDefaults()
	if err := Validate(threshold, env.MaxDraw); err != nil {
		return 0, err
	}
	emit := env.Emitter(idx)
	emit(event.Start, fmt.Sprintf("threshold %d", threshold))

	backoff := idx + 1
	i := env.Draw()
	for i <= threshold {
		emit(event.Retry, strconv.Itoa(i))
		if err := env.Suspend(ctx, backoff); err != nil {
			return 0, err
		}
		i = env.Draw()
	}
	emit(event.Accept, strconv.Itoa(i))
	return i, nil
}
