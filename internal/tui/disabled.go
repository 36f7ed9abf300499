package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shazow/wifichan/wifi"
)

// WirelessDisabledModel is shown while the radio is off.
type WirelessDisabledModel struct {
	backend wifi.Backend
	onLeave func() tea.Cmd
}

// NewWirelessDisabledModel returns the view; onLeave runs once the radio is
// back on and the view is popped.
func NewWirelessDisabledModel(backend wifi.Backend, onLeave func() tea.Cmd) *WirelessDisabledModel {
	return &WirelessDisabledModel{
		backend: backend,
		onLeave: onLeave,
	}
}

func (m *WirelessDisabledModel) Init() tea.Cmd {
	return nil
}

func (m *WirelessDisabledModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "w", "r":
			return m, setWireless(m.backend, true)
		case "q", "esc":
			// We are quitting the program, so no need to pop the view.
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *WirelessDisabledModel) View() string {
	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render("Wi-Fi is disabled."))
	s.WriteString("\n\n")
	button := lipgloss.NewStyle().
		Foreground(CurrentTheme.Primary).
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Render("Enable WiFi (w)")

	s.WriteString(button)
	s.WriteString("\n\n")
	s.WriteString("Press 'q' to quit.\n")
	return s.String()
}

func (m *WirelessDisabledModel) Resize(width, height int) {}

func (m *WirelessDisabledModel) IsConsumingInput() bool {
	return false
}

func (m *WirelessDisabledModel) OnLeave() tea.Cmd {
	if m.onLeave == nil {
		return nil
	}
	return m.onLeave()
}
