package cli

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/agbru/taskflow/internal/config"
	apperrors "github.com/agbru/taskflow/internal/errors"
	"github.com/agbru/taskflow/internal/format"
	"github.com/agbru/taskflow/internal/orchestration"
	"github.com/agbru/taskflow/internal/ui"
)

// CLIColorProvider implements apperrors.ColorProvider with the active theme.
type CLIColorProvider struct{}

func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// CLIResultPresenter implements the orchestration presentation interfaces
// for terminal output.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
	_ apperrors.ColorProvider         = CLIColorProvider{}
)

// PresentSummary prints one "rN: value" line per unit, in launch order,
// followed by the timing report.
func (CLIResultPresenter) PresentSummary(summary orchestration.Summary, out io.Writer) {
	fmt.Fprintf(out, "\n--- Results (%s%s%s) ---\n", ui.ColorBold(), summary.Demo, ui.ColorReset())
	for i, r := range summary.Results {
		fmt.Fprintf(out, "%sr%d%s: %s\n", ui.UnitColor(i), i+1, ui.ColorReset(), r)
	}
	fmt.Fprintf(out, "%sProgram finished in %s seconds.%s\n",
		ui.ColorGreen(), format.FormatSeconds(summary.Duration), ui.ColorReset())
}

// FormatDuration formats a duration for display.
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError reports a failed run and returns its exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleRunError(err, duration, out, CLIColorProvider{})
}

// PrintRunConfig displays the configuration of the run about to start.
func PrintRunConfig(cfg config.AppConfig, demo, runID string, numUnits int, out io.Writer) {
	fmt.Fprintf(out, "--- Run Configuration ---\n")
	fmt.Fprintf(out, "Demo %s%s%s with %s%d%s units (run %s).\n",
		ui.ColorMagenta(), demo, ui.ColorReset(), ui.ColorCyan(), numUnits, ui.ColorReset(), runID)
	limit := "unbounded"
	if cfg.Limit > 0 {
		limit = fmt.Sprint(cfg.Limit)
	}
	fmt.Fprintf(out, "Seed %s%d%s, draws in [0, %d], time unit %s, concurrency %s.\n",
		ui.ColorYellow(), cfg.Seed, ui.ColorReset(), cfg.MaxDraw, cfg.TimeUnit, limit)
	if cfg.Timeout > 0 {
		fmt.Fprintf(out, "Timeout %s%s%s.\n", ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	}
	fmt.Fprintf(out, "Environment: %d logical processors, Go %s.\n", runtime.NumCPU(), runtime.Version())
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

// DisplaySimulatedTime reports the time a dry run would have slept.
func DisplaySimulatedTime(total time.Duration, sleeps int, out io.Writer) {
	fmt.Fprintf(out, "Dry run: %d suspensions totalling %s seconds of simulated time.\n",
		sleeps, format.FormatSeconds(total))
}

// DisplayMemoryStats shows memory statistics after a run.
func DisplayMemoryStats(heapAlloc, totalAlloc uint64, numGC uint32, pauseTotalNs uint64, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(heapAlloc))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(totalAlloc))
	fmt.Fprintf(out, "  GC cycles:       %d\n", numGC)
	fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(pauseTotalNs)/1e6)
}
