package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/shazow/wifichan/internal/monitor"
	"github.com/shazow/wifichan/internal/settings"
	"github.com/shazow/wifichan/wifi"
	"github.com/shazow/wifichan/wifi/mock"
)

func newTestSettings(t *testing.T) *settings.Settings {
	t.Helper()
	repo, err := settings.Open(filepath.Join(t.TempDir(), "settings.toml"))
	require.NoError(t, err)
	return settings.New(repo)
}

func newTestBackend(t *testing.T) *mock.MockBackend {
	t.Helper()
	b, err := mock.New()
	require.NoError(t, err)
	backend := b.(*mock.MockBackend)
	backend.ActionSleep = 0
	backend.Jitter = false
	return backend
}

func newTestMonitor(backend wifi.Backend) *monitor.Monitor {
	return monitor.New(monitor.Config{Backend: backend, CountryCode: "US"})
}

// scanned runs a scan and returns the message the TUI receives for it.
func scanned(t *testing.T, s Scanner) tea.Msg {
	t.Helper()
	return scanAccessPoints(s)()
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}
