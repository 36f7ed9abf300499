package tui

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	wifilog "github.com/shazow/wifichan/internal/log"
)

// LogViewModel is the model for the log view.
type LogViewModel struct {
	logs func() []slog.Record
}

// NewLogViewModel creates a new LogViewModel showing the default logger.
func NewLogViewModel() *LogViewModel {
	return &LogViewModel{logs: wifilog.Logs}
}

// Init is the first command that is run when the view is pushed.
func (m *LogViewModel) Init() tea.Cmd {
	return nil
}

// Update handles all incoming messages and updates the model accordingly.
func (m *LogViewModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "L":
			return m, popView
		}
	}
	return m, nil
}

// View renders the UI based on the current model state.
func (m *LogViewModel) View() string {
	var s strings.Builder
	s.WriteString("Latest logs (press 'q' to return):\n\n")

	for _, log := range m.logs() {
		var style lipgloss.Style
		switch {
		case log.Level >= slog.LevelError:
			style = lipgloss.NewStyle().Foreground(CurrentTheme.Error)
		case log.Level < slog.LevelInfo:
			style = lipgloss.NewStyle().Foreground(CurrentTheme.Subtle)
		default:
			style = lipgloss.NewStyle().Foreground(CurrentTheme.Normal)
		}
		s.WriteString(style.Render(fmt.Sprintf("%s [%s] %s", log.Time.Format("15:04:05"), log.Level, log.Message)))
		log.Attrs(func(a slog.Attr) bool {
			s.WriteString(style.Render(fmt.Sprintf(" %s=%v", a.Key, a.Value.Any())))
			return true
		})
		s.WriteString("\n")
	}

	return s.String()
}

func (m *LogViewModel) Resize(width, height int) {}

func (m *LogViewModel) IsConsumingInput() bool {
	return false
}
