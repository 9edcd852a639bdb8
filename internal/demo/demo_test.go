package demo

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/taskflow/internal/delay"
	apperrors "github.com/agbru/taskflow/internal/errors"
	"github.com/agbru/taskflow/internal/event"
	"github.com/agbru/taskflow/internal/orchestration"
	"github.com/agbru/taskflow/internal/random"
	"github.com/agbru/taskflow/internal/work"
)

func seededEnv(seed int64) work.Env {
	return work.Env{Rand: random.New(seed), Sleeper: delay.Instant{}}
}

func TestRandom_SeedOneDefaultThresholds(t *testing.T) {
	t.Parallel()
	plan, err := Random(seededEnv(1), nil)
	require.NoError(t, err)

	outcome := orchestration.Execute(context.Background(), plan, nil, io.Discard)
	require.NoError(t, outcome.Err)
	require.Len(t, outcome.Results, 3)
	for idx, v := range outcome.Results {
		threshold := 10 - idx - 1
		assert.Greater(t, v, threshold, "unit %d", idx)
		assert.LessOrEqual(t, v, 10, "unit %d", idx)
	}
	for _, u := range outcome.Units {
		assert.Equal(t, event.Completed, u.State)
	}
}

func TestRandom_InvalidThreshold(t *testing.T) {
	t.Parallel()
	_, err := Random(seededEnv(1), []int{3, 10})
	var cfgErr apperrors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

// expectedDraw replays unit idx's own stream until a draw exceeds threshold.
func expectedDraw(seed int64, idx, threshold int) int {
	src := random.NewStream(seed, idx)
	for {
		if v := src.IntRange(0, work.DefaultMaxDraw); v > threshold {
			return v
		}
	}
}

func TestRandom_SameSeedSameResultsUnderRealTimers(t *testing.T) {
	t.Parallel()
	const seed = 1
	thresholds := []int{5, 5, 5, 5, 5, 5}
	want := make([]int, len(thresholds))
	for idx, th := range thresholds {
		want[idx] = expectedDraw(seed, idx, th)
	}

	for run := 0; run < 30; run++ {
		env := work.Env{
			Rand:     random.New(seed),
			Streams:  random.Streams(seed),
			Sleeper:  delay.Timer{},
			TimeUnit: time.Microsecond,
		}
		plan, err := Random(env, thresholds)
		require.NoError(t, err)
		outcome := orchestration.Execute(context.Background(), plan, nil, io.Discard)
		require.NoError(t, outcome.Err)
		require.Equal(t, want, outcome.Results, "run %d", run)
	}
}

func TestRandom_EmptyThresholdsBuildNothing(t *testing.T) {
	t.Parallel()
	plan, err := Random(seededEnv(1), []int{})
	require.NoError(t, err)
	outcome := orchestration.Execute(context.Background(), plan, nil, io.Discard)
	require.NoError(t, outcome.Err)
	assert.Empty(t, outcome.Results)
}

func TestChained_DefaultIDs(t *testing.T) {
	t.Parallel()
	outcome := orchestration.Execute(context.Background(), Chained(seededEnv(1), nil), nil, io.Discard)
	require.NoError(t, outcome.Err)
	require.Len(t, outcome.Results, 3)
	for i, r := range outcome.Results {
		n := i + 1
		assert.Equal(t, n, r.Result.N)
		assert.Equal(t, fmt.Sprintf("result%d-2 derived from result%d-1", n, n), r.Result.Stage2)
		assert.Contains(t, r.String(), "seconds)")
	}
}

func TestChained_EmptyIDsBuildNothing(t *testing.T) {
	t.Parallel()
	outcome := orchestration.Execute(context.Background(), Chained(seededEnv(1), []int{}), nil, io.Discard)
	require.NoError(t, outcome.Err)
	assert.Empty(t, outcome.Results)
	assert.Empty(t, outcome.Units)
}

func TestChained_KeepsGivenOrder(t *testing.T) {
	t.Parallel()
	outcome := orchestration.Execute(context.Background(), Chained(seededEnv(3), []int{9, 4, 7}), nil, io.Discard)
	require.NoError(t, outcome.Err)
	got := []int{outcome.Results[0].Result.N, outcome.Results[1].Result.N, outcome.Results[2].Result.N}
	assert.Equal(t, []int{9, 4, 7}, got)
}

func TestChained_ElapsedNotSummed(t *testing.T) {
	t.Parallel()
	env := work.Env{Rand: random.NewSequence(1), Sleeper: delay.Timer{}, TimeUnit: 10 * time.Millisecond}
	outcome := orchestration.Execute(context.Background(), Chained(env, []int{1, 2, 3, 4}), nil, io.Discard)
	require.NoError(t, outcome.Err)
	// Each chain sleeps 20ms; four chains in sequence would take 80ms.
	assert.Less(t, outcome.Duration, 70*time.Millisecond)
}

func TestCount(t *testing.T) {
	t.Parallel()
	rec := delay.NewRecorder(nil)
	env := work.Env{Sleeper: rec, TimeUnit: time.Second}
	outcome := orchestration.Execute(context.Background(), Count(env, 4), nil, io.Discard)
	require.NoError(t, outcome.Err)
	assert.Equal(t, []string{"Two", "Two", "Two", "Two"}, outcome.Results)
	assert.Equal(t, 4*time.Second, rec.Total())
}

func TestCount_Zero(t *testing.T) {
	t.Parallel()
	outcome := orchestration.Execute(context.Background(), Count(seededEnv(0), 0), nil, io.Discard)
	require.NoError(t, outcome.Err)
	assert.Empty(t, outcome.Results)
}

func TestPlans_ForwardToEnvObserver(t *testing.T) {
	t.Parallel()
	tracker := event.NewStateTracker(0)
	env := seededEnv(5)
	env.Observer = tracker

	outcome := orchestration.Execute(context.Background(), Count(env, 2), nil, io.Discard)
	require.NoError(t, outcome.Err)
	assert.Len(t, tracker.Snapshot(), 2)
}
