package report

import (
	"errors"
	"io"

	"github.com/bnema/odoo-worksheet-cli/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

// model renders a single frame and quits, so reports share the styling
// pipeline of interactive views without owning the terminal.
type model struct {
	view   func(styles) string
	styles styles
	output string
}

func newModel(view func(styles) string) model {
	return model{
		view:   view,
		styles: newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = m.view(m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

func render(view func(styles) string) (string, error) {
	p := tea.NewProgram(
		newModel(view),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}

func RenderSync(result domain.SyncResult) (string, error) {
	return render(func(s styles) string {
		return syncView(result, s)
	})
}

func RenderDiscovery(report domain.DiscoveryReport) (string, error) {
	return render(func(s styles) string {
		return discoveryView(report, s)
	})
}

func RenderLayouts(layouts []domain.Layout) (string, error) {
	return render(func(s styles) string {
		return layoutsView(layouts, s)
	})
}
