package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type ErrorModel struct {
	err           error
	width, height int
}

func NewErrorModel(err error) *ErrorModel {
	return &ErrorModel{err: err}
}

func (m *ErrorModel) Init() tea.Cmd {
	return nil
}

func (m *ErrorModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	switch msg.(type) {
	case tea.KeyMsg:
		// Any key press dismisses the error
		return m, popView
	}
	return m, nil
}

func (m *ErrorModel) View() string {
	errorViewStyle := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder(), true).
		BorderForeground(CurrentTheme.Error).
		Padding(1, 2)
	if m.width > 8 {
		errorViewStyle = errorViewStyle.MaxWidth(m.width - 4)
	}
	body := fmt.Sprintf("Error: %s\n\n", m.err)
	body += lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).Render("Press any key to continue.")
	return errorViewStyle.Render(body)
}

func (m *ErrorModel) Resize(width, height int) {
	m.width, m.height = width, height
}

// IsConsumingInput returns whether the model is focused on a text input.
func (m *ErrorModel) IsConsumingInput() bool {
	return false
}
