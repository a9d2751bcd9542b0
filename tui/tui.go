package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/cargokit/cargokit/flamegraph"
	"github.com/cargokit/cargokit/log"
)

// tailSize is how many recent log lines stay visible under the stage list.
const tailSize = 6

// StageMsg reports a pipeline stage transition. The flamegraph CLI sends
// these into the program from the pipeline's observer callback.
type StageMsg struct {
	Stage  flamegraph.Stage
	Status flamegraph.Status
}

// DoneMsg signals that the pipeline finished. A nil Err indicates success.
type DoneMsg struct {
	Err error
}

// logMsg carries one log entry from the subscription.
type logMsg string

// logClosedMsg signals that the log subscription channel closed.
type logClosedMsg struct{}

// Model displays pipeline stages and a log tail.
//
// Create instances with [New].
type Model struct {
	sub     *log.Subscription
	status  map[flamegraph.Stage]flamegraph.Status
	started map[flamegraph.Stage]bool
	err     error
	target  string
	tail    []string
	stages  []flamegraph.Stage
	done    bool
	quit    bool
}

// New creates a [Model] for profiling target, tailing log entries from sub.
// sub may be nil to disable the log tail.
func New(target string, sub *log.Subscription) *Model {
	return &Model{
		sub:     sub,
		target:  target,
		stages:  flamegraph.Stages(),
		status:  make(map[flamegraph.Stage]flamegraph.Status),
		started: make(map[flamegraph.Stage]bool),
	}
}

// Init starts reading the log tail.
func (m *Model) Init() tea.Cmd {
	return m.readLog()
}

// Update handles stage transitions, log entries, completion, and quit keys.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quit = true

			return m, tea.Quit
		}

	case StageMsg:
		m.status[msg.Stage] = msg.Status
		m.started[msg.Stage] = true

	case logMsg:
		m.tail = append(m.tail, string(msg))
		if len(m.tail) > tailSize {
			m.tail = m.tail[len(m.tail)-tailSize:]
		}

		return m, m.readLog()

	case logClosedMsg:
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err

		return m, tea.Quit
	}

	return m, nil
}

// View renders the stage list and log tail.
func (m *Model) View() tea.View {
	return tea.NewView(m.Render())
}

// Render produces the current frame as plain text.
func (m *Model) Render() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "profiling %s\n\n", m.target)

	for _, stage := range m.stages {
		sb.WriteString("  ")
		sb.WriteString(m.marker(stage))
		sb.WriteString(" ")
		sb.WriteString(string(stage))
		sb.WriteString("\n")
	}

	if len(m.tail) > 0 {
		sb.WriteString("\n")

		for _, line := range m.tail {
			sb.WriteString("  ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	switch {
	case m.quit:
		sb.WriteString("\naborted\n")
	case m.done && m.err != nil:
		fmt.Fprintf(&sb, "\nerror: %v\n", m.err)
	case m.done:
		sb.WriteString("\ndone\n")
	}

	return sb.String()
}

// Aborted reports whether the user quit before the pipeline finished.
func (m *Model) Aborted() bool {
	return m.quit && !m.done
}

func (m *Model) marker(stage flamegraph.Stage) string {
	if !m.started[stage] {
		return "·"
	}

	switch m.status[stage] {
	case flamegraph.StatusRunning:
		return ">"
	case flamegraph.StatusDone:
		return "✓"
	case flamegraph.StatusFailed:
		return "✗"
	}

	return "·"
}

// readLog returns a command that waits for the next log entry.
func (m *Model) readLog() tea.Cmd {
	if m.sub == nil {
		return nil
	}

	return func() tea.Msg {
		entry, ok := <-m.sub.C()
		if !ok {
			return logClosedMsg{}
		}

		return logMsg(strings.TrimRight(string(entry), "\n"))
	}
}
