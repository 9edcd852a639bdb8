// Package app wires configuration, demos, reporters and presentation into
// the taskflow command line application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agbru/taskflow/internal/config"
	"github.com/agbru/taskflow/internal/delay"
	"github.com/agbru/taskflow/internal/demo"
	apperrors "github.com/agbru/taskflow/internal/errors"
	"github.com/agbru/taskflow/internal/logging"
	"github.com/agbru/taskflow/internal/retry"
	"github.com/agbru/taskflow/internal/ui"
)

// Application represents one invocation of taskflow.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	Logger    logging.Logger
	RunID     string

	args     []string
	root     *cobra.Command
	exitCode int
	recorder *delay.Recorder
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithLogger replaces the logger built from the flags.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) AppOption {
	return func(a *Application) { a.RunID = id }
}

// New creates an Application for the given command line (args[0] is the
// program name). It fails when the first argument names no known command.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{
		Config:    config.Default(),
		ErrWriter: errWriter,
		exitCode:  apperrors.ExitSuccess,
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.RunID == "" {
		app.RunID = uuid.NewString()
	}
	if len(args) > 0 {
		app.args = args[1:]
	}

	app.root = app.newRootCommand()
	if _, _, err := app.root.Find(app.args); err != nil {
		return nil, apperrors.NewConfigError("%v", err)
	}
	return app, nil
}

// Run executes the selected command and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	a.root.SetArgs(a.args)
	a.root.SetOut(out)
	a.root.SetErr(a.ErrWriter)

	if err := a.root.ExecuteContext(ctx); err != nil {
		var cfgErr apperrors.ConfigError
		if errors.As(err, &cfgErr) {
			return apperrors.HandleRunError(err, 0, a.ErrWriter, nil)
		}
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return a.exitCode
}

func (a *Application) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "taskflow",
		Short: "Concurrency orchestration demos over latency-bound task units",
		Long: `taskflow runs three orchestration patterns over simulated, latency-bound
task units: a uniform fan-out/fan-in, units that retry until a random draw
clears their threshold, and independent two-stage pipeline chains.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.prepare,
	}
	root.SetVersionTemplate("taskflow {{.Version}}\n")
	a.Config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(a.newCountCommand(), a.newRandomCommand(), a.newChainCommand(), newVersionCommand())
	return root
}

// prepare applies environment overrides, validates the configuration and
// initializes logging and colors.
func (a *Application) prepare(cmd *cobra.Command, _ []string) error {
	a.Config.ApplyEnv(cmd.Flags())
	if err := a.Config.Validate(); err != nil {
		return err
	}

	if err := ui.InitTheme(a.Config.Theme, a.Config.NoColor); err != nil {
		return apperrors.NewConfigError("%v", err)
	}

	if a.Logger == nil {
		a.Logger = logging.New(a.ErrWriter, "taskflow", a.Config.LogFormat, a.Config.Verbose)
	}
	return nil
}

func (a *Application) newCountCommand() *cobra.Command {
	units := demo.DefaultCountUnits
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Run N identical units that each wait one time unit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if units < 0 {
				return apperrors.NewConfigError("--units must not be negative, got %d", units)
			}
			plan := demo.Count(a.env(), units)
			a.exitCode = runPlan(cmd.Context(), a, plan, units, nil, cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().IntVarP(&units, "units", "n", units, "Number of units")
	return cmd
}

func (a *Application) newRandomCommand() *cobra.Command {
	var thresholds []int
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Run units that retry until a random draw exceeds their threshold",
		Long: `Each unit draws from [0, max-draw] until the value is greater than its
threshold, backing off (index+1) time units after every rejected draw.
Default thresholds are 9, 8 and 7.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if thresholds == nil {
				thresholds = retry.DefaultThresholds(retry.DefaultUnits)
			}
			plan, err := demo.Random(a.env(), thresholds)
			if err != nil {
				return err
			}
			a.exitCode = runPlan(cmd.Context(), a, plan, len(thresholds), strconv.Itoa, cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().IntSliceVarP(&thresholds, "thresholds", "t", nil, "Comma-separated per-unit thresholds")
	return cmd
}

func (a *Application) newChainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chain [n ...]",
		Short: "Run independent two-stage pipelines, one per identifier",
		Long: `Each chain runs part1 then part2, where part2 derives its value from
part1's result. Chains run concurrently; identifiers default to 1 2 3.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseChainIDs(args)
			if err != nil {
				return err
			}
			plan := demo.Chained(a.env(), ids)
			a.exitCode = runPlan(cmd.Context(), a, plan, len(ids), demo.ChainReport.String, cmd.OutOrStdout())
			return nil
		},
	}
}

// parseChainIDs converts positional arguments to chain identifiers,
// defaulting to demo.DefaultChainIDs.
func parseChainIDs(args []string) ([]int, error) {
	if len(args) == 0 {
		return demo.DefaultChainIDs(), nil
	}
	ids := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, apperrors.NewConfigError("chain identifier %q is not an integer", arg)
		}
		ids[i] = n
	}
	return ids, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Skip the root's configuration checks.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			PrintVersion(cmd.OutOrStdout())
		},
	}
}
