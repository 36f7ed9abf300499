package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shazow/wifichan/internal/monitor"
	"github.com/shazow/wifichan/internal/settings"
	"github.com/shazow/wifichan/wifi"
)

// ChannelModel rates the channels of one band.
type ChannelModel struct {
	table    table.Model
	help     help.Model
	band     wifi.Band
	snapshot *monitor.Snapshot
}

func NewChannelModel(s *settings.Settings) *ChannelModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Channel", Width: 8},
			{Title: "MHz", Width: 6},
			{Title: "APs", Width: 4},
			{Title: "Rating", Width: 12},
			{Title: "", Width: 4},
		}),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(CurrentTheme.Border).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.Foreground(CurrentTheme.Primary).Bold(true)
	t.SetStyles(styles)

	m := &ChannelModel{
		table: t,
		help:  help.New(),
		band:  s.Band(),
	}
	return m
}

func (m *ChannelModel) Init() tea.Cmd {
	return nil
}

func (m *ChannelModel) Navigation() Navigation {
	return NavigationChannels
}

func (m *ChannelModel) IsConsumingInput() bool {
	return false
}

func (m *ChannelModel) Resize(width, height int) {
	// Title, best channels, help and the surrounding chrome.
	m.table.SetHeight(max(height-12, 3))
}

// Band returns the band being rated.
func (m *ChannelModel) Band() wifi.Band {
	return m.band
}

func (m *ChannelModel) SetSnapshot(s monitor.Snapshot) {
	m.snapshot = &s
	m.refresh()
}

func (m *ChannelModel) refresh() {
	br, ok := m.bandRating()
	if !ok {
		m.table.SetRows(nil)
		return
	}
	rows := make([]table.Row, 0, len(br.Ratings))
	for _, r := range br.Ratings {
		rows = append(rows, table.Row{
			strconv.Itoa(r.Channel.Number),
			strconv.Itoa(int(r.Channel.Frequency)),
			strconv.Itoa(r.Count),
			r.Strength.String(),
			strengthBar(r.Strength),
		})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(m.table.Cursor())
}

func (m *ChannelModel) bandRating() (monitor.BandRating, bool) {
	if m.snapshot == nil {
		return monitor.BandRating{}, false
	}
	return m.snapshot.Band(m.band)
}

func (m *ChannelModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	switch msg := msg.(type) {
	case scanFinishedMsg:
		m.SetSnapshot(monitor.Snapshot(msg))
		return m, nil
	case bandChangedMsg:
		m.band = msg.band
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *ChannelModel) View() string {
	var s strings.Builder
	title := CurrentTheme.TitleIcon + "Channel rating"
	s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).Render(title))
	s.WriteString("\n\n")

	br, ok := m.bandRating()
	if !ok {
		s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).Render(fmt.Sprintf("No access points scanned on %s.", m.band)))
		return s.String()
	}

	s.WriteString(lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(CurrentTheme.Border).Render(m.table.View()))
	s.WriteString("\n")
	s.WriteString(m.renderSelected(br))
	s.WriteString("\n\n")
	s.WriteString(renderBest(br))
	s.WriteString("\n\n")
	s.WriteString(m.help.ShortHelpView([]key.Binding{
		m.table.KeyMap.LineUp,
		m.table.KeyMap.LineDown,
	}))
	return s.String()
}

// renderSelected describes the selected channel, colored by congestion.
func (m *ChannelModel) renderSelected(br monitor.BandRating) string {
	i := m.table.Cursor()
	if i < 0 || i >= len(br.Ratings) {
		return ""
	}
	r := br.Ratings[i]
	text := fmt.Sprintf("Channel %d: %d access points, strongest neighbour %s", r.Channel.Number, r.Count, r.Strength)
	return lipgloss.NewStyle().Foreground(congestionColor(r.Strength)).Render(text)
}

func renderBest(br monitor.BandRating) string {
	label := lipgloss.NewStyle().Bold(true).Render("Best channels: ")
	if len(br.Best) == 0 {
		return label + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render("none, every channel is busy")
	}
	parts := make([]string, 0, len(br.Best))
	for _, b := range br.Best {
		parts = append(parts, fmt.Sprintf("%d (%d)", b.Channel.Number, b.Count))
	}
	return label + lipgloss.NewStyle().Foreground(CurrentTheme.Success).Render(strings.Join(parts, ", "))
}
