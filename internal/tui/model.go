package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/taskflow/internal/cli"
	"github.com/agbru/taskflow/internal/event"
	"github.com/agbru/taskflow/internal/format"
	"github.com/agbru/taskflow/internal/orchestration"
)

const (
	// maxLogLines bounds the event log kept in memory.
	maxLogLines = 500

	// heapSamples is the width of the heap sparkline.
	heapSamples      = 40
	progressBarWidth = 30
)

// RunFunc executes the orchestrated run, streaming events to reporter.
type RunFunc func(ctx context.Context, reporter orchestration.EventReporter) orchestration.Summary

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header HeaderModel
	keymap KeyMap

	numUnits int
	tracker  *event.StateTracker
	agg      *orchestration.CompletionAggregator
	progress orchestration.AggregatedProgress

	logs   []string
	scroll int
	paused bool

	heap       *RingBuffer
	goroutines int

	summary *orchestration.Summary
	cancel  context.CancelFunc

	width  int
	height int
}

// NewModel creates the dashboard for a run of numUnits units. cancel is
// invoked when the user quits.
func NewModel(demo, runID string, numUnits int, cancel context.CancelFunc) Model {
	return Model{
		header:   NewHeaderModel(demo, runID),
		keymap:   DefaultKeyMap(),
		numUnits: numUnits,
		tracker:  event.NewStateTracker(numUnits),
		agg:      orchestration.NewCompletionAggregator(numUnits),
		heap:     NewRingBuffer(heapSamples),
		cancel:   cancel,
	}
}

// Init starts the ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), sampleMemStatsCmd())
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(msg.Width)
		return m, nil

	case EventMsg:
		e := msg.Event
		m.tracker.OnEvent(e.Unit, e.Kind, e.Payload)
		if m.agg != nil {
			m.progress = m.agg.Update(e)
		}
		if !m.paused {
			m.appendLog(e)
		}
		return m, nil

	case EventsDoneMsg:
		return m, nil

	case RunDoneMsg:
		s := msg.Summary
		m.summary = &s
		m.header.SetDone()
		return m, nil

	case TickMsg:
		if m.summary != nil {
			return m, nil
		}
		return m, tea.Batch(sampleMemStatsCmd(), tickCmd())

	case MemStatsMsg:
		m.heap.Push(float64(msg.Snapshot.HeapAlloc))
		m.goroutines = msg.Snapshot.Goroutines
		return m, nil
	}
	return m, nil
}

func (m *Model) appendLog(e event.Event) {
	m.logs = append(m.logs, unitStyle(e.Unit).Render(cli.FormatEvent(e)))
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
	case key.Matches(msg, m.keymap.Up):
		m.scroll = min(m.scroll+1, max(len(m.logs)-1, 0))
	case key.Matches(msg, m.keymap.Down):
		m.scroll = max(m.scroll-1, 0)
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	units := panelStyle.Width(m.width - 2).Render(m.renderUnits())
	status := panelStyle.Width(m.width - 2).Render(m.renderStatus())
	used := lipgloss.Height(units) + lipgloss.Height(status) + 2
	logs := panelStyle.Width(m.width - 2).Render(m.renderLogs(max(m.height-used-2, 3)))
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), units, status, logs, m.renderFooter())
}

func (m Model) renderUnits() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Units") + "\n")
	for _, u := range m.tracker.Snapshot() {
		payload := u.LastPayload
		if limit := m.width - 40; limit > 3 && len(payload) > limit {
			payload = payload[:limit-3] + "..."
		}
		fmt.Fprintf(&b, "%s  %s  retries %s  %s\n",
			unitStyle(u.Unit).Render(fmt.Sprintf("unit %-3d", u.Unit)),
			stateStyles[u.State].Render(fmt.Sprintf("%-9s", u.State)),
			metricValueStyle.Render(fmt.Sprintf("%-4d", u.Retries)),
			dimStyle.Render(payload))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderStatus() string {
	line := fmt.Sprintf("%s %d/%d done, %d failed, %d retries",
		format.FormatProgressBar(m.progress.Fraction, progressBarWidth),
		m.progress.Completed, m.numUnits, m.progress.Failed, m.progress.Retries)
	mem := fmt.Sprintf("heap %s %s  goroutines %d",
		metricValueStyle.Render(format.FormatBytes(uint64(m.heap.Last()))),
		dimStyle.Render(RenderSparkline(m.heap.Slice())), m.goroutines)
	if m.summary != nil {
		if m.summary.Err != nil {
			line += "  " + stateStyles[event.Failed].Render("failed: "+m.summary.Err.Error())
		} else {
			line += "  " + stateStyles[event.Completed].Render(
				fmt.Sprintf("finished in %s seconds", format.FormatSeconds(m.summary.Duration)))
		}
	}
	return line + "\n" + mem
}

func (m Model) renderLogs(height int) string {
	end := len(m.logs) - m.scroll
	start := max(end-height, 0)
	return strings.Join(m.logs[start:end], "\n")
}

func (m Model) renderFooter() string {
	var parts []string
	for _, b := range m.keymap.ShortHelp() {
		parts = append(parts, footerKeyStyle.Render(b.Help().Key)+" "+footerDescStyle.Render(b.Help().Desc))
	}
	if m.paused {
		parts = append(parts, stateStyles[event.Retrying].Render("PAUSED"))
	}
	return strings.Join(parts, "  ")
}

// Run shows the dashboard while run executes. It returns the run's summary
// once both the run and the dashboard have finished; quitting the dashboard
// cancels the run.
func Run(ctx context.Context, demo, runID string, numUnits int, run RunFunc, out io.Writer) (orchestration.Summary, error) {
	initTUIStyles()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ref := &programRef{}
	model := NewModel(demo, runID, numUnits, cancel)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out))
	ref.SetProgram(p)

	results := make(chan orchestration.Summary, 1)
	go func() {
		summary := run(runCtx, &TUIEventReporter{ref: ref})
		results <- summary
		ref.Send(RunDoneMsg{Summary: summary})
	}()

	_, err := p.Run()
	cancel()
	summary := <-results
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return summary, fmt.Errorf("dashboard: %w", err)
	}
	return summary, nil
}
