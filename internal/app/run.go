package app

import (
	"context"
	"errors"
	"io"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/taskflow/internal/cli"
	"github.com/agbru/taskflow/internal/delay"
	apperrors "github.com/agbru/taskflow/internal/errors"
	"github.com/agbru/taskflow/internal/event"
	"github.com/agbru/taskflow/internal/logging"
	"github.com/agbru/taskflow/internal/metrics"
	"github.com/agbru/taskflow/internal/orchestration"
	"github.com/agbru/taskflow/internal/random"
	"github.com/agbru/taskflow/internal/tui"
	"github.com/agbru/taskflow/internal/work"
)

var tracer = otel.Tracer("github.com/agbru/taskflow/internal/app")

// metricsShutdownTimeout bounds the wait for in-flight scrapes at exit.
const metricsShutdownTimeout = 2 * time.Second

// env builds the unit environment from the configuration. Every unit draws
// from its own stream of the seed. In dry-run mode the sleeper records
// suspensions instead of waiting.
func (a *Application) env() work.Env {
	var sleeper delay.Sleeper = delay.Timer{}
	if a.Config.DryRun {
		a.recorder = delay.NewRecorder(nil)
		sleeper = a.recorder
	}
	return work.Env{
		Rand:     random.New(a.Config.Seed),
		Streams:  random.Streams(a.Config.Seed),
		Sleeper:  sleeper,
		MaxDraw:  a.Config.MaxDraw,
		TimeUnit: a.Config.TimeUnit,
	}
}

// reporter selects how lifecycle events are displayed.
func (a *Application) reporter() orchestration.EventReporter {
	switch {
	case a.Config.Quiet:
		return orchestration.NullEventReporter{}
	case a.Config.Compact:
		return cli.SpinnerReporter{}
	default:
		return cli.EventReporter{}
	}
}

// timeoutError attributes a deadline failure to --timeout.
func (a *Application) timeoutError(demo string, err error) error {
	if err == nil || a.Config.Timeout <= 0 || !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperrors.TimeoutError{Operation: demo, Limit: a.Config.Timeout, Cause: err}
}

// runPlan executes plan and presents its outcome, returning the exit code.
func runPlan[T any](ctx context.Context, a *Application, plan orchestration.Plan[T], numUnits int, describe func(T) string, out io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}
	if a.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Config.Timeout)
		defer cancel()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, span := tracer.Start(ctx, "taskflow.run", trace.WithAttributes(
		attribute.String(logging.KeyDemo, plan.Name),
		attribute.String(logging.KeyRunID, a.RunID),
		attribute.Int("units", numUnits),
	))
	defer span.End()

	logger := a.Logger.With(logging.RunID(a.RunID), logging.Demo(plan.Name))
	plan.Limit = a.Config.Limit

	var observers []event.Observer
	var m *metrics.Metrics
	if a.Config.Metrics || a.Config.MetricsAddr != "" {
		m = metrics.NewMetrics()
		observers = append(observers, m.Observer(plan.Name))
	}
	if a.Config.MetricsAddr != "" {
		srv, err := m.Listen(a.Config.MetricsAddr)
		if err != nil {
			logger.Error("starting metrics server", err)
			return apperrors.ExitErrorGeneric
		}
		logger.Info("serving metrics", logging.String("addr", srv.Addr()+metrics.MetricsPath))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("stopping metrics server", err)
			}
		}()
	}
	if a.Config.Verbose {
		observers = append(observers, event.NewLoggingObserver(logger))
	}

	if !a.Config.Quiet && !a.Config.TUI {
		cli.PrintRunConfig(a.Config, plan.Name, a.RunID, numUnits, out)
	}

	memory := metrics.NewMemoryCollector()
	before := memory.Snapshot()

	execute := func(ctx context.Context, reporter orchestration.EventReporter) orchestration.Summary {
		outcome := orchestration.Execute(ctx, plan, reporter, out, observers...)
		outcome.Err = a.timeoutError(plan.Name, outcome.Err)
		summary := orchestration.Summarize(plan.Name, outcome, describe)
		summary.RunID = a.RunID
		summary.Seed = a.Config.Seed
		return summary
	}

	var summary orchestration.Summary
	if a.Config.TUI {
		var err error
		summary, err = tui.Run(ctx, plan.Name, a.RunID, numUnits, execute, out)
		if err != nil {
			logger.Error("dashboard failed", err)
		}
	} else {
		summary = execute(ctx, a.reporter())
	}

	if m != nil {
		m.ObserveRun(plan.Name, summary.Duration)
	}
	finished := []logging.Field{
		logging.Int("units", numUnits),
		logging.Duration("duration", summary.Duration),
	}
	switch {
	case summary.Err == nil:
		logger.Debug("run finished", finished...)
	case apperrors.IsContextError(summary.Err):
		logger.Debug("run interrupted", append(finished, logging.Err(summary.Err))...)
	default:
		logger.Error("run failed", summary.Err, finished...)
	}

	if summary.Err != nil {
		span.RecordError(summary.Err)
	}
	presenter := &cli.ReportPresenter{
		Config: cli.OutputConfig{OutputFile: a.Config.OutputFile, Quiet: a.Config.Quiet},
	}
	if code := orchestration.AnalyzeOutcome(summary, presenter, presenter, out); code != apperrors.ExitSuccess {
		return code
	}
	if presenter.Err != nil {
		logger.Error("writing report", presenter.Err, logging.String("path", a.Config.OutputFile))
		return apperrors.ExitErrorGeneric
	}

	if a.recorder != nil && !a.Config.Quiet {
		cli.DisplaySimulatedTime(a.recorder.Total(), len(a.recorder.Durations()), out)
	}
	if a.Config.Verbose && !a.Config.Quiet {
		delta := memory.Snapshot().Since(before)
		cli.DisplayMemoryStats(delta.HeapAlloc, delta.TotalAlloc, delta.NumGC, delta.PauseTotalNs, out)
	}
	if a.Config.Metrics {
		if err := m.WriteText(out); err != nil {
			logger.Error("writing metrics", err)
			return apperrors.ExitErrorGeneric
		}
	}
	return apperrors.ExitSuccess
}
