package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shazow/wifichan/internal/monitor"
	"github.com/shazow/wifichan/wifi"
)

// Component is the interface for a TUI component.
type Component interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Component, tea.Cmd)
	View() string
	Resize(width, height int)
	// IsConsumingInput reports whether key presses belong to the component,
	// e.g. while typing a filter.
	IsConsumingInput() bool
}

// Leavable is implemented by components that need to act when they are
// removed from the stack.
type Leavable interface {
	OnLeave() tea.Cmd
}

// Navigation lists the global actions a view allows.
type Navigation struct {
	// BandSwitch toggles the rated band and shows it in the header.
	BandSwitch bool
	Scanner    bool
	Filter     bool
	NextPrev   bool
}

var (
	NavigationAccessPoints = Navigation{Scanner: true, Filter: true, NextPrev: true}
	NavigationChannels     = Navigation{BandSwitch: true, Scanner: true, NextPrev: true}
	NavigationOff          = Navigation{}
)

// Navigable is implemented by components that allow global actions.
type Navigable interface {
	Navigation() Navigation
}

func navigationOf(c Component) Navigation {
	if n, ok := c.(Navigable); ok {
		return n.Navigation()
	}
	return NavigationOff
}

// Scanner runs scans and keeps the latest result.
type Scanner interface {
	Scan(ctx context.Context) error
	Snapshot() (monitor.Snapshot, bool)
}

// Bubbletea messages are used to communicate between the main loop and commands
type (
	// From backend
	scanFinishedMsg    monitor.Snapshot
	wirelessChangedMsg struct{ enabled bool }
	bandChangedMsg     struct{ band wifi.Band }
	errorMsg           struct{ err error }

	// To main model
	scanMsg     struct{}
	popViewMsg  struct{}
	pushViewMsg struct{ component Component }
)

// --- Commands that interact with the backend ---

func scanAccessPoints(s Scanner) tea.Cmd {
	return func() tea.Msg {
		if err := s.Scan(context.Background()); err != nil {
			return errorMsg{err}
		}
		snapshot, _ := s.Snapshot()
		return scanFinishedMsg(snapshot)
	}
}

func setWireless(b wifi.Backend, enabled bool) tea.Cmd {
	return func() tea.Msg {
		if err := b.SetWireless(enabled); err != nil {
			return errorMsg{fmt.Errorf("failed to switch wireless: %w", err)}
		}
		return wirelessChangedMsg{enabled: enabled}
	}
}

func pushView(c Component) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{component: c} }
}

func popView() tea.Msg {
	return popViewMsg{}
}
