package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type fetchDoneMsg struct {
	err error
}

// fetchStepMsg replaces the label while the fetch is still running.
type fetchStepMsg string

type fetchSpinnerModel struct {
	spinner spinner.Model
	label   lipgloss.Style
	step    string
	fetch   tea.Cmd
	err     error
	done    bool
}

func newFetchSpinnerModel(step string, fetch tea.Cmd) fetchSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("39"))),
	)

	return fetchSpinnerModel{
		spinner: s,
		label:   lipgloss.NewStyle().Faint(true),
		step:    step,
		fetch:   fetch,
	}
}

func (m fetchSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch)
}

func (m fetchSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case fetchStepMsg:
		m.step = string(msg)
		return m, nil
	case fetchDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m fetchSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label.Render(m.step))
}

// runFetchSpinner keeps a spinner on output until fetch returns. fetch may
// call step to describe the query it is about to send.
func runFetchSpinner(ctx context.Context, output io.Writer, initial string, fetch func(ctx context.Context, step func(string)) error) error {
	var p *tea.Program
	fetchCmd := func() tea.Msg {
		return fetchDoneMsg{err: fetch(ctx, func(step string) { p.Send(fetchStepMsg(step)) })}
	}

	p = tea.NewProgram(
		newFetchSpinnerModel(initial, fetchCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(fetchSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
