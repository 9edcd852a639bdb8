// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//   - Format* functions return a string without performing I/O.
//   - Write* functions write data to files on the filesystem.

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/agbru/taskflow/internal/errors"
	"github.com/agbru/taskflow/internal/format"
	"github.com/agbru/taskflow/internal/orchestration"
	"github.com/agbru/taskflow/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path of the run report (empty for none).
	OutputFile string
	// Quiet prints only the results, one per line.
	Quiet bool
}

// FormatReport renders the run report written by WriteReport.
func FormatReport(summary orchestration.Summary, generated time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# taskflow run report\n")
	fmt.Fprintf(&b, "# Generated: %s\n", generated.Format(time.RFC3339))
	fmt.Fprintf(&b, "# Run ID: %s\n", summary.RunID)
	fmt.Fprintf(&b, "# Demo: %s\n", summary.Demo)
	fmt.Fprintf(&b, "# Seed: %d\n", summary.Seed)
	fmt.Fprintf(&b, "# Duration: %s seconds\n", format.FormatSeconds(summary.Duration))
	for _, u := range summary.Units {
		fmt.Fprintf(&b, "# Unit %d: %s, %d retries\n", u.Unit, u.State, u.Retries)
	}
	b.WriteString("\n")
	for i, r := range summary.Results {
		fmt.Fprintf(&b, "r%d: %s\n", i+1, r)
	}
	return b.String()
}

// WriteReport writes the run report to config.OutputFile, creating parent
// directories as needed. An empty path is a no-op.
func WriteReport(summary orchestration.Summary, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.WrapError(err, "create report directory %s", dir)
		}
	}

	if err := os.WriteFile(config.OutputFile, []byte(FormatReport(summary, time.Now())), 0o644); err != nil {
		return apperrors.WrapError(err, "write report %s", config.OutputFile)
	}
	return nil
}

// DisplayQuietResults prints one result per line, suitable for scripts.
func DisplayQuietResults(out io.Writer, summary orchestration.Summary) {
	for _, r := range summary.Results {
		fmt.Fprintln(out, r)
	}
}

// DisplaySummaryWithConfig presents a successful run according to config and
// writes the report file if requested.
func DisplaySummaryWithConfig(out io.Writer, summary orchestration.Summary, presenter orchestration.ResultPresenter, config OutputConfig) error {
	if config.Quiet {
		DisplayQuietResults(out, summary)
	} else {
		presenter.PresentSummary(summary, out)
	}

	if config.OutputFile != "" {
		if err := WriteReport(summary, config); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "%sReport saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
		}
	}
	return nil
}

// ReportPresenter presents successful runs according to Config, so it can be
// handed to orchestration.AnalyzeOutcome. Err keeps the first report-writing
// failure.
type ReportPresenter struct {
	CLIResultPresenter
	Config OutputConfig
	Err    error
}

// PresentSummary displays the summary and writes the report file if
// configured.
func (p *ReportPresenter) PresentSummary(summary orchestration.Summary, out io.Writer) {
	if err := DisplaySummaryWithConfig(out, summary, p.CLIResultPresenter, p.Config); err != nil && p.Err == nil {
		p.Err = err
	}
}
