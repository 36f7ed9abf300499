package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	wifilog "github.com/shazow/wifichan/internal/log"
	"github.com/shazow/wifichan/internal/settings"
	"github.com/shazow/wifichan/wifi"
)

var globalKeys = struct {
	Next, Prev, Scan, Pause, Band, Wireless, Logs, Quit key.Binding
}{
	Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous view")),
	Scan:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scan")),
	Pause:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume")),
	Band:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "band")),
	Wireless: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wifi off")),
	Logs:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logs")),
	Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
}

var pages = []struct {
	name string
	view settings.View
}{
	{"Access Points", settings.ViewAccessPoints},
	{"Channel Rating", settings.ViewChannels},
}

// Config wires the TUI to a backend.
type Config struct {
	Backend  wifi.Backend
	Scanner  Scanner
	Settings *settings.Settings
}

// The main model for our TUI application
type model struct {
	backend  wifi.Backend
	scanner  Scanner
	settings *settings.Settings

	// pages are the top level views cycled with tab, overlays are shown on
	// top of them.
	pages    []Component
	current  int
	overlays *ComponentStack
	schedule *ScanSchedule

	spinner       spinner.Model
	help          help.Model
	loading       bool
	statusMessage string
	width, height int
}

// NewModel creates the starting state of our application
func NewModel(cfg Config) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(CurrentTheme.Primary)

	m := &model{
		backend:  cfg.Backend,
		scanner:  cfg.Scanner,
		settings: cfg.Settings,
		pages: []Component{
			NewListModel(cfg.Settings),
			NewChannelModel(cfg.Settings),
		},
		overlays:      NewComponentStack(),
		spinner:       s,
		help:          help.New(),
		statusMessage: "Scanning...",
	}
	for i, p := range pages {
		if p.view == cfg.Settings.StartView() {
			m.current = i
		}
	}
	m.schedule = NewScanSchedule(func() tea.Msg { return scanMsg{} }, cfg.Settings.ScanInterval())
	return m
}

// Init is the first command that is run when the program starts
func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.schedule.Start()}
	for _, p := range m.pages {
		cmds = append(cmds, p.Init())
	}
	return tea.Batch(cmds...)
}

// Update handles all incoming messages and updates the model accordingly
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Global messages that are not passed to components
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := m.contentSize()
		for _, p := range m.pages {
			p.Resize(w, h)
		}
		m.overlays.Resize(w, h)
		return m, nil
	case popViewMsg:
		return m, m.overlays.Pop()
	case pushViewMsg:
		msg.component.Resize(m.contentSize())
		m.overlays.Push(msg.component)
		return m, msg.component.Init()
	case errorMsg:
		m.loading = false
		m.statusMessage = ""
		if errors.Is(msg.err, wifi.ErrWirelessDisabled) {
			return m, m.showWirelessDisabled()
		}
		slog.Error("operation failed", "error", msg.err)
		errorModel := NewErrorModel(msg.err)
		errorModel.Resize(m.contentSize())
		m.overlays.Push(errorModel)
		return m, nil
	case scanMsg:
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.statusMessage = "Scanning..."
		return m, scanAccessPoints(m.scanner)
	case scanFinishedMsg:
		m.loading = false
		m.statusMessage = ""
		if !msg.WirelessEnabled {
			return m, m.showWirelessDisabled()
		}
		for i, p := range m.pages {
			updated, cmd := p.Update(msg)
			m.pages[i] = updated
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	case wirelessChangedMsg:
		if !msg.enabled {
			return m, m.showWirelessDisabled()
		}
		if _, ok := m.overlays.Top().(*WirelessDisabledModel); ok {
			return m, m.overlays.Pop()
		}
		return m, nil
	case tickMsg:
		return m, m.schedule.Update(msg)
	case wifilog.LogMsg:
		// Only triggers a redraw of the log view.
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.overlays.Len() == 0 {
			page := m.pages[m.current]
			if !page.IsConsumingInput() {
				if cmd, ok := m.handleKey(msg, navigationOf(page)); ok {
					return m, cmd
				}
			}
		}
	}

	// Delegate to the component on top
	if m.overlays.Len() > 0 {
		cmds = append(cmds, m.overlays.Update(msg))
	} else {
		updated, cmd := m.pages[m.current].Update(msg)
		m.pages[m.current] = updated
		cmds = append(cmds, cmd)
	}

	// Spinner update
	var spinnerCmd tea.Cmd
	m.spinner, spinnerCmd = m.spinner.Update(msg)
	cmds = append(cmds, spinnerCmd)

	return m, tea.Batch(cmds...)
}

// handleKey runs the global action bound to msg if the current view allows
// it.
func (m *model) handleKey(msg tea.KeyMsg, nav Navigation) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, globalKeys.Quit):
		return tea.Quit, true
	case key.Matches(msg, globalKeys.Logs):
		return pushView(NewLogViewModel()), true
	case nav.NextPrev && key.Matches(msg, globalKeys.Next):
		m.switchPage(1)
		return nil, true
	case nav.NextPrev && key.Matches(msg, globalKeys.Prev):
		m.switchPage(-1)
		return nil, true
	case nav.Scanner && key.Matches(msg, globalKeys.Scan):
		return func() tea.Msg { return scanMsg{} }, true
	case nav.Scanner && key.Matches(msg, globalKeys.Pause):
		running, cmd := m.schedule.Toggle()
		if running {
			m.statusMessage = fmt.Sprintf("Scanning every %s", m.schedule.Interval())
		} else {
			m.statusMessage = "Scanning paused"
		}
		return cmd, true
	case nav.BandSwitch && key.Matches(msg, globalKeys.Band):
		return m.toggleBand(), true
	case key.Matches(msg, globalKeys.Wireless):
		return setWireless(m.backend, false), true
	case !nav.Filter && msg.String() == "/":
		return nil, true
	}
	return nil, false
}

func (m *model) switchPage(delta int) {
	m.current = (m.current + delta + len(m.pages)) % len(m.pages)
	if err := m.settings.SaveStartView(pages[m.current].view); err != nil {
		slog.Warn("failed to save view", "error", err)
	}
}

// toggleBand switches the rated band and tells every page about it.
func (m *model) toggleBand() tea.Cmd {
	band, err := m.settings.ToggleBand()
	if err != nil {
		slog.Warn("failed to save band", "error", err)
	}
	var cmds []tea.Cmd
	for i, p := range m.pages {
		updated, cmd := p.Update(bandChangedMsg{band: band})
		m.pages[i] = updated
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// showWirelessDisabled pauses scanning until the radio is switched back on.
func (m *model) showWirelessDisabled() tea.Cmd {
	if _, ok := m.overlays.Top().(*WirelessDisabledModel); ok {
		return nil
	}
	m.overlays.Push(NewWirelessDisabledModel(m.backend, m.schedule.Start))
	return m.schedule.Stop()
}

func (m *model) contentSize() (int, int) {
	// Margins, tabs, status and help lines.
	return max(m.width-4, 0), max(m.height-6, 0)
}

func (m *model) globalHelp(nav Navigation) []key.Binding {
	var kb []key.Binding
	if nav.NextPrev {
		kb = append(kb, globalKeys.Next)
	}
	if nav.Scanner {
		kb = append(kb, globalKeys.Scan, globalKeys.Pause)
	}
	if nav.BandSwitch {
		kb = append(kb, globalKeys.Band)
	}
	return append(kb, globalKeys.Wireless, globalKeys.Logs, globalKeys.Quit)
}

func (m *model) renderTabs(nav Navigation) string {
	var tabs []string
	for i, p := range pages {
		style := lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).Padding(0, 1)
		if i == m.current {
			style = lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).Underline(true).Padding(0, 1)
		}
		tabs = append(tabs, style.Render(p.name))
	}
	if nav.BandSwitch {
		tabs = append(tabs, lipgloss.NewStyle().Foreground(CurrentTheme.Success).Padding(0, 1).Render(m.settings.Band().String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// View renders the UI based on the current model state
func (m *model) View() string {
	var s strings.Builder

	if top := m.overlays.Top(); top != nil {
		s.WriteString(top.View())
	} else {
		page := m.pages[m.current]
		nav := navigationOf(page)
		s.WriteString(m.renderTabs(nav))
		s.WriteString("\n\n")
		s.WriteString(page.View())
		s.WriteString("\n")
		s.WriteString(m.help.ShortHelpView(m.globalHelp(nav)))
	}

	if m.loading {
		s.WriteString(fmt.Sprintf("\n\n%s %s", m.spinner.View(), lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(m.statusMessage)))
	} else if m.statusMessage != "" {
		s.WriteString(fmt.Sprintf("\n\n%s", lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(m.statusMessage)))
	}

	return lipgloss.NewStyle().Margin(1, 2).Render(s.String())
}
