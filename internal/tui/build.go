// internal/tui/build.go
//
// Build-progress view for the manualforge pipeline, following The Elm
// Architecture: the pipeline goroutine posts step messages through
// Program.Send, Update folds them into the model, View renders the list.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StepStartedMsg marks a pipeline step as running.
type StepStartedMsg struct {
	Index int
}

// StepDoneMsg marks a pipeline step as completed, with an optional detail
// line (e.g. the number of derived locations).
type StepDoneMsg struct {
	Index  int
	Detail string
}

// StepFailedMsg marks a pipeline step as failed and ends the program.
type StepFailedMsg struct {
	Index int
	Err   error
}

// WarningMsg carries a non-fatal diagnostic to display.
type WarningMsg string

// FinishedMsg ends the program after a successful build.
type FinishedMsg struct {
	Output string
}

type stepState int

const (
	stepPending stepState = iota
	stepRunning
	stepDone
	stepFailed
)

type step struct {
	label  string
	state  stepState
	detail string
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Model is the bubbletea model for one build run.
type Model struct {
	title    string
	spinner  spinner.Model
	steps    []step
	warnings []string
	output   string
	err      error
	quitting bool
}

// NewBuild creates a progress model with one row per pipeline step.
func NewBuild(title string, labels []string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	steps := make([]step, len(labels))
	for i, label := range labels {
		steps[i] = step{label: label}
	}
	return Model{title: title, spinner: s, steps: steps}
}

// Err reports the failure that ended the run, if any. The caller inspects
// it after Program.Run returns to pick the process exit code.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.err = fmt.Errorf("build canceled")
			m.quitting = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case StepStartedMsg:
		if msg.Index >= 0 && msg.Index < len(m.steps) {
			m.steps[msg.Index].state = stepRunning
		}
		return m, nil
	case StepDoneMsg:
		if msg.Index >= 0 && msg.Index < len(m.steps) {
			m.steps[msg.Index].state = stepDone
			m.steps[msg.Index].detail = msg.Detail
		}
		return m, nil
	case StepFailedMsg:
		if msg.Index >= 0 && msg.Index < len(m.steps) {
			m.steps[msg.Index].state = stepFailed
		}
		m.err = msg.Err
		m.quitting = true
		return m, tea.Quit
	case WarningMsg:
		m.warnings = append(m.warnings, string(msg))
		return m, nil
	case FinishedMsg:
		m.output = msg.Output
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	for _, st := range m.steps {
		switch st.state {
		case stepRunning:
			b.WriteString(m.spinner.View() + " " + st.label)
		case stepDone:
			b.WriteString(doneStyle.Render("✓") + " " + st.label)
			if st.detail != "" {
				b.WriteString(detailStyle.Render(" — " + st.detail))
			}
		case stepFailed:
			b.WriteString(failStyle.Render("✗") + " " + st.label)
		default:
			b.WriteString(pendingStyle.Render("• " + st.label))
		}
		b.WriteString("\n")
	}
	for _, warning := range m.warnings {
		b.WriteString(warnStyle.Render("warning: "+warning) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + failStyle.Render(m.err.Error()) + "\n")
	} else if m.output != "" {
		b.WriteString("\n" + doneStyle.Render("Created "+m.output) + "\n")
	}
	return b.String()
}
