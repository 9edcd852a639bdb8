package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/taskflow/internal/event"
	"github.com/agbru/taskflow/internal/metrics"
	"github.com/agbru/taskflow/internal/orchestration"
)

// programRef is a shared reference to the tea.Program. Bubbletea copies the
// model on every Update, so the bridge goroutines need a pointer that
// survives the copies.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference.
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program. It is a no-op before SetProgram.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// EventMsg carries one lifecycle event into the dashboard.
type EventMsg struct {
	Event event.Event
}

// EventsDoneMsg signals that the event channel was closed.
type EventsDoneMsg struct{}

// RunDoneMsg carries the summary of the finished run.
type RunDoneMsg struct {
	Summary orchestration.Summary
}

// TickMsg drives the elapsed timer and memory sampling.
type TickMsg time.Time

// MemStatsMsg carries a memory sample.
type MemStatsMsg struct {
	Snapshot metrics.MemorySnapshot
}

// TUIEventReporter implements orchestration.EventReporter by forwarding
// every event to the dashboard.
type TUIEventReporter struct {
	ref *programRef
}

var _ orchestration.EventReporter = (*TUIEventReporter)(nil)

// DisplayEvents forwards events until the channel is closed.
func (t *TUIEventReporter) DisplayEvents(wg *sync.WaitGroup, events <-chan event.Event, _ int, _ io.Writer) {
	defer wg.Done()
	for e := range events {
		t.ref.Send(EventMsg{Event: e})
	}
	t.ref.Send(EventsDoneMsg{})
}

const tickInterval = 250 * time.Millisecond

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

var memCollector = metrics.NewMemoryCollector()

func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		return MemStatsMsg{Snapshot: memCollector.Snapshot()}
	}
}
