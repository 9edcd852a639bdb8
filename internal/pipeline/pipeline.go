// Package pipeline implements the two-stage chain: stage two consumes the
// output of stage one, so the stages of one chain always run in sequence
// while separate chains proceed independently.
package pipeline

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/taskflow/internal/event"
	"github.com/agbru/taskflow/internal/work"
)

var tracer = otel.Tracer("github.com/agbru/taskflow/internal/pipeline")

// Result is the output of one chain.
type Result struct {
	// N is the chain identifier.
	N int
	// Stage1 is the first stage's value, "result{N}-1".
	Stage1 string
	// Stage2 is derived from Stage1, "result{N}-2 derived from result{N}-1".
	Stage2 string
}

// String returns the combined form printed for a finished chain.
func (r Result) String() string {
	return fmt.Sprintf("Chained result%d => %s", r.N, r.Stage2)
}

// Part1 sleeps a random number of time units and returns "result{n}-1".
func Part1(ctx context.Context, unit, n int, env work.Env) (string, error) {
	env = env.WithDefaults()
	return stage(ctx, "pipeline.stage1", unit, n, env, func() string {
		return fmt.Sprintf("result%d-1", n)
	})
}

// Part2 sleeps a random number of time units and derives its value from p1.
func Part2(ctx context.Context, unit, n int, p1 string, env work.Env) (string, error) {
	env = env.WithDefaults()
	return stage(ctx, "pipeline.stage2", unit, n, env, func() string {
		return fmt.Sprintf("result%d-2 derived from %s", n, p1)
	})
}

// Chain runs Part1 then Part2 for chain n, reporting as unit. The caller
// measures elapsed time.
func Chain(ctx context.Context, unit, n int, env work.Env) (Result, error) {
	env = env.WithDefaults()
	env.Emitter(unit)(event.Start, fmt.Sprintf("chain %d", n))

	p1, err := Part1(ctx, unit, n, env)
	if err != nil {
		return Result{}, err
	}
	p2, err := Part2(ctx, unit, n, p1, env)
	if err != nil {
		return Result{}, err
	}
	return Result{N: n, Stage1: p1, Stage2: p2}, nil
}

func stage(ctx context.Context, name string, unit, n int, env work.Env, produce func() string) (string, error) {
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(
		attribute.Int("unit.index", unit),
		attribute.Int("chain.n", n),
	))
	defer span.End()

	emit := env.Emitter(unit)
	i := env.Draw()
	emit(event.StageSleep, fmt.Sprintf("%s(%d) sleeping for %d units", stageLabel(name), n, i))
	if err := env.Suspend(ctx, i); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	out := produce()
	emit(event.StageDone, fmt.Sprintf("%s(%d) returning %s", stageLabel(name), n, out))
	return out, nil
}

func stageLabel(span string) string {
	if span == "pipeline.stage1" {
		return "part1"
	}
	return "part2"
}
