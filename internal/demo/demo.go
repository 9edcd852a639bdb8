// Package demo assembles the three orchestration demos as plans for the
// coordinator: uniform counting units, retry-until-threshold units and
// two-stage pipeline chains.
package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/agbru/taskflow/internal/event"
	"github.com/agbru/taskflow/internal/format"
	"github.com/agbru/taskflow/internal/orchestration"
	"github.com/agbru/taskflow/internal/pipeline"
	"github.com/agbru/taskflow/internal/retry"
	"github.com/agbru/taskflow/internal/work"
)

// Demo names, as used by the CLI subcommands and metric labels.
const (
	NameCount  = "count"
	NameRandom = "random"
	NameChain  = "chain"
)

// DefaultCountUnits is the number of units of the count demo.
const DefaultCountUnits = 3

// DefaultChainIDs returns the chain identifiers used when none are given.
func DefaultChainIDs() []int {
	return []int{1, 2, 3}
}

// Count builds n identical units. Each says "One", suspends for one time
// unit and says "Two".
func Count(env work.Env, n int) orchestration.Plan[string] {
	if n < 0 {
		n = 0
	}
	return orchestration.Plan[string]{
		Name: NameCount,
		Build: func(obs event.Observer) []orchestration.UnitFunc[string] {
			env := withObserver(env, obs)
			units := make([]orchestration.UnitFunc[string], n)
			for i := range units {
				idx := i
				units[i] = func(ctx context.Context) (string, error) {
					emit := env.Emitter(idx)
					emit(event.Start, "One")
					if err := env.Suspend(ctx, 1); err != nil {
						return "", err
					}
					emit(event.StageDone, "Two")
					return "Two", nil
				}
			}
			return units
		},
	}
}

// Random builds one retry unit per threshold. A nil list selects
// retry.DefaultThresholds; an empty one builds no units. Every threshold is validated before any unit
// exists, so an impossible threshold fails fast.
func Random(env work.Env, thresholds []int) (orchestration.Plan[int], error) {
	env = env.WithDefaults()
	if thresholds == nil {
		thresholds = retry.DefaultThresholds(retry.DefaultUnits)
	}
	for _, t := range thresholds {
		if err := retry.Validate(t, env.MaxDraw); err != nil {
			return orchestration.Plan[int]{}, err
		}
	}
	ts := make([]int, len(thresholds))
	copy(ts, thresholds)

	return orchestration.Plan[int]{
		Name: NameRandom,
		Build: func(obs event.Observer) []orchestration.UnitFunc[int] {
			env := withObserver(env, obs)
			units := make([]orchestration.UnitFunc[int], len(ts))
			for i := range units {
				idx, threshold := i, ts[i]
				uenv := env.ForUnit(idx)
				units[i] = func(ctx context.Context) (int, error) {
					return retry.MakeRandom(ctx, idx, threshold, uenv)
				}
			}
			return units
		},
	}, nil
}

// ChainReport is a chain result with the time its unit took.
type ChainReport struct {
	Result  pipeline.Result
	Elapsed time.Duration
}

// String renders the per-chain line of the timing report.
func (r ChainReport) String() string {
	return fmt.Sprintf("%s (took %s seconds)", r.Result, format.FormatSeconds(r.Elapsed))
}

// Chained builds one two-stage chain per id, in the given order. A nil list
// selects DefaultChainIDs; an empty one builds no chains.
func Chained(env work.Env, ids []int) orchestration.Plan[ChainReport] {
	if ids == nil {
		ids = DefaultChainIDs()
	}
	ns := make([]int, len(ids))
	copy(ns, ids)

	return orchestration.Plan[ChainReport]{
		Name: NameChain,
		Build: func(obs event.Observer) []orchestration.UnitFunc[ChainReport] {
			env := withObserver(env, obs)
			units := make([]orchestration.UnitFunc[ChainReport], len(ns))
			for i := range units {
				idx, n := i, ns[i]
				uenv := env.ForUnit(idx)
				units[i] = func(ctx context.Context) (ChainReport, error) {
					start := time.Now()
					res, err := pipeline.Chain(ctx, idx, n, uenv)
					if err != nil {
						return ChainReport{}, err
					}
					return ChainReport{Result: res, Elapsed: time.Since(start)}, nil
				}
			}
			return units
		},
	}
}

// withObserver fans events to both the plan's subject and any observer
// already configured on env.
func withObserver(env work.Env, obs event.Observer) work.Env {
	if env.Observer != nil && obs != nil {
		subject := event.NewSubject()
		subject.Register(env.Observer)
		subject.Register(obs)
		env.Observer = subject
	} else if obs != nil {
		env.Observer = obs
	}
	return env.WithDefaults()
}
