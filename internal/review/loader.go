package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobsift/internal/model"
)

// ErrCancelled is returned when the user interrupts a live collection.
var ErrCancelled = errors.New("cancelled")

type pollDoneMsg struct {
	summary model.RunSummary
	err     error
}

type loaderModel struct {
	label   string
	pollFn  func(ctx context.Context) (model.RunSummary, error)
	ctx     context.Context
	cancel  context.CancelFunc
	spinner spinner.Model
	result  model.RunSummary
	err     error
	done    bool
}

func newLoader(ctx context.Context, label string, pollFn func(ctx context.Context) (model.RunSummary, error)) loaderModel {
	ctx, cancel := context.WithCancel(ctx)
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	return loaderModel{label: label, pollFn: pollFn, ctx: ctx, cancel: cancel, spinner: s}
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doPoll(), m.spinner.Tick)
}

func (m loaderModel) doPoll() tea.Cmd {
	pollFn, ctx := m.pollFn, m.ctx
	return func() tea.Msg {
		summary, err := pollFn(ctx)
		return pollDoneMsg{summary: summary, err: err}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pollDoneMsg:
		m.result = msg.summary
		if m.err == nil {
			m.err = msg.err
		}
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s...\n", m.spinner.View(), m.label)
}

// RunLoader shows a spinner while pollFn runs a collection. It renders inline
// (no alt screen).
func RunLoader(ctx context.Context, label string, pollFn func(ctx context.Context) (model.RunSummary, error)) (model.RunSummary, error) {
	m := newLoader(ctx, label, pollFn)
	defer m.cancel()

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return model.RunSummary{}, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
