package pipeline

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/taskflow/internal/delay"
	"github.com/agbru/taskflow/internal/event"
	"github.com/agbru/taskflow/internal/random"
	"github.com/agbru/taskflow/internal/work"
)

func instantEnv(obs event.Observer) work.Env {
	return work.Env{Rand: random.New(7), Sleeper: delay.Instant{}, Observer: obs}
}

func TestChain_Format(t *testing.T) {
	t.Parallel()
	for _, n := range []int{1, 2, 3} {
		res, err := Chain(context.Background(), n-1, n, instantEnv(nil))
		require.NoError(t, err)
		assert.Equal(t, n, res.N)
		assert.Equal(t, fmt.Sprintf("result%d-1", n), res.Stage1)
		assert.Equal(t, fmt.Sprintf("result%d-2 derived from result%d-1", n, n), res.Stage2)
		assert.Equal(t, fmt.Sprintf("Chained result%d => result%d-2 derived from result%d-1", n, n, n), res.String())
	}
}

func TestChain_StageTwoFollowsStageOne(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	var done []string
	obs := event.ObserverFunc(func(_ int, kind event.Kind, payload string) {
		if kind == event.StageDone {
			mu.Lock()
			done = append(done, payload)
			mu.Unlock()
		}
	})

	res, err := Chain(context.Background(), 0, 5, instantEnv(obs))
	require.NoError(t, err)
	require.Len(t, done, 2)
	assert.Contains(t, done[0], "part1(5)")
	assert.Contains(t, done[1], "part2(5)")
	assert.Contains(t, res.Stage2, res.Stage1)
}

func TestChain_ConcurrentEqualsSequential(t *testing.T) {
	t.Parallel()
	ids := []int{1, 2, 3}

	sequential := make([]Result, len(ids))
	for i, n := range ids {
		r, err := Chain(context.Background(), i, n, instantEnv(nil))
		require.NoError(t, err)
		sequential[i] = r
	}

	concurrent := make([]Result, len(ids))
	var wg sync.WaitGroup
	src := random.New(99)
	for i, n := range ids {
		wg.Add(1)
		go func(i, n int) {
			defer wg.Done()
			r, err := Chain(context.Background(), i, n, work.Env{Rand: src, Sleeper: delay.Instant{}})
			assert.NoError(t, err)
			concurrent[i] = r
		}(i, n)
	}
	wg.Wait()

	assert.Equal(t, sequential, concurrent)
}

func TestChain_ElapsedBoundedByLongestChain(t *testing.T) {
	t.Parallel()
	// Each chain sleeps 2 draws of at most 2 units of 5ms: at most 20ms.
	env := work.Env{Rand: random.NewSequence(2), Sleeper: delay.Timer{}, TimeUnit: 5 * time.Millisecond}

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := Chain(context.Background(), i, i+1, env)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// Sum would be 100ms; concurrent execution stays near the max.
	assert.Less(t, time.Since(start), 80*time.Millisecond)
}

func TestChain_CancelledStageOne(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := work.Env{Rand: random.NewSequence(3), Sleeper: delay.Timer{}, TimeUnit: time.Hour}
	_, err := Chain(ctx, 0, 1, env)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPart2_UsesOnlyStageOneValue(t *testing.T) {
	t.Parallel()
	out, err := Part2(context.Background(), 0, 9, "custom-input", instantEnv(nil))
	require.NoError(t, err)
	assert.Equal(t, "result9-2 derived from custom-input", out)
}
