package tui

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shazow/wifichan/internal/settings"
	"github.com/shazow/wifichan/wifi"
)

const (
	ssidColumnWidth  = 30
	bssidColumnWidth = 18
)

// accessPointItem holds a single access point in our list
type accessPointItem struct {
	wifi.AccessPoint
}

func (i accessPointItem) Title() string {
	if i.SSID == "" {
		return wifi.HiddenSSID
	}
	return i.SSID
}

func (i accessPointItem) Description() string {
	var parts []string
	if c, ok := i.Channel(); ok {
		parts = append(parts, fmt.Sprintf("%s ch %d", c.Band, c.Number))
	} else {
		parts = append(parts, fmt.Sprintf("%d MHz", i.Frequency))
	}
	parts = append(parts, i.ChannelWidth().String(), i.Security.String())
	return strings.Join(parts, "  ")
}

func (i accessPointItem) FilterValue() string { return i.Title() + " " + i.BSSID }

// groupItem is a header line introducing a group of access points.
type groupItem struct {
	name  string
	count int
}

func (i groupItem) FilterValue() string { return i.name }

// itemDelegate is our custom list delegate
type itemDelegate struct {
	list.DefaultDelegate
}

func (d itemDelegate) Height() int  { return 1 }
func (d itemDelegate) Spacing() int { return 0 }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	switch i := listItem.(type) {
	case groupItem:
		header := fmt.Sprintf("%s (%d)", i.name, i.count)
		fmt.Fprint(w, lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).Render(header))
		return
	case accessPointItem:
		d.renderAccessPoint(w, m, index, i)
		return
	}
	// Fallback to default render for any other item types
	d.DefaultDelegate.Render(w, m, index, listItem)
}

func (d itemDelegate) renderAccessPoint(w io.Writer, m list.Model, index int, i accessPointItem) {
	title := truncate(securityIcon(i.Security)+i.Title(), ssidColumnWidth)
	title = pad(title, ssidColumnWidth)

	// Apply custom styling based on connection state
	titleStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Normal)
	if i.IsActive {
		titleStyle = lipgloss.NewStyle().Foreground(CurrentTheme.Success)
	} else if i.SSID == "" {
		titleStyle = lipgloss.NewStyle().Foreground(CurrentTheme.Subtle)
	}
	title = titleStyle.Render(title)

	bssid := lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).Render(pad(i.BSSID, bssidColumnWidth))

	// Style only the signal part with color
	level := fmt.Sprintf("%4d dBm", i.Signal())
	desc := lipgloss.NewStyle().Foreground(signalColor(i.Signal())).Render(level) + "  " + i.Description()
	if i.IsActive {
		desc += " " + CurrentTheme.ActiveIcon
	}

	var line string
	if index == m.Index() {
		line = lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render("▶ ") + title + " " + bssid + " " + desc
	} else {
		line = "  " + title + " " + bssid + " " + desc
	}
	fmt.Fprint(w, line)
}

// ListModel shows the access points of the last scan.
type ListModel struct {
	list     CustomHelpList
	settings *settings.Settings
	sortBy   wifi.SortBy
	groupBy  wifi.GroupBy
	aps      []wifi.AccessPoint
}

func NewListModel(s *settings.Settings) *ListModel {
	m := &ListModel{
		settings: s,
		sortBy:   s.SortBy(),
		groupBy:  s.GroupBy(),
	}
	l := list.New([]list.Item{}, itemDelegate{DefaultDelegate: list.NewDefaultDelegate()}, 0, 0)
	l.Title = fmt.Sprintf("%-*s %-*s %s", ssidColumnWidth-1, CurrentTheme.TitleIcon+"Access Point", bssidColumnWidth, "BSSID", "Signal")
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort: "+m.sortBy.String())),
			key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "group: "+m.groupBy.String())),
		}
	}
	l.KeyMap.Quit = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))

	// Enable the fuzzy finder
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true)
	l.Styles.FilterPrompt = lipgloss.NewStyle().Foreground(CurrentTheme.Normal)
	l.Styles.FilterCursor = lipgloss.NewStyle().Foreground(CurrentTheme.Primary)
	m.list = CustomHelpList{Model: l}
	return m
}

func (m *ListModel) Init() tea.Cmd {
	return nil
}

func (m *ListModel) Navigation() Navigation {
	return NavigationAccessPoints
}

// IsConsumingInput returns whether the model is focused on a text input.
func (m *ListModel) IsConsumingInput() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *ListModel) Resize(width, height int) {
	h, v := lipgloss.NewStyle().Margin(1, 2).GetFrameSize()
	listBorderStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(CurrentTheme.Border)
	bh, bv := listBorderStyle.GetFrameSize()
	extraVerticalSpace := 6
	m.list.SetSize(width-h-bh, height-v-bv-extraVerticalSpace)
}

// SetAccessPoints replaces the listed access points, keeping the selection.
func (m *ListModel) SetAccessPoints(aps []wifi.AccessPoint) {
	m.aps = aps
	m.refresh()
}

func (m *ListModel) refresh() {
	var selected string
	if i, ok := m.list.SelectedItem().(accessPointItem); ok {
		selected = i.BSSID
	}

	var items []list.Item
	for _, g := range wifi.GroupAccessPoints(m.aps, m.groupBy, m.sortBy) {
		if m.groupBy != wifi.GroupNone {
			items = append(items, groupItem{name: g.Name, count: len(g.AccessPoints)})
		}
		for _, ap := range g.AccessPoints {
			items = append(items, accessPointItem{AccessPoint: ap})
		}
	}
	m.list.SetItems(items)

	for i, item := range items {
		if ap, ok := item.(accessPointItem); ok && selected != "" && ap.BSSID == selected {
			m.list.Select(i)
			break
		}
	}
}

func (m *ListModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	switch msg := msg.(type) {
	case scanFinishedMsg:
		m.SetAccessPoints(msg.AccessPoints)
		return m, nil
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "o":
			m.sortBy = (m.sortBy + 1) % 3
			if err := m.settings.SaveSortBy(m.sortBy); err != nil {
				slog.Warn("failed to save sort order", "error", err)
			}
			m.refresh()
			return m, nil
		case "g":
			m.groupBy = (m.groupBy + 1) % 3
			if err := m.settings.SaveGroupBy(m.groupBy); err != nil {
				slog.Warn("failed to save grouping", "error", err)
			}
			m.refresh()
			return m, nil
		}
	}

	// The list bubble needs to be updated.
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *ListModel) View() string {
	var viewBuilder strings.Builder
	listBorderStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(CurrentTheme.Border)
	help := fmt.Sprintf("\n\n %s ", m.list.Help.View(m.list))
	viewBuilder.WriteString(listBorderStyle.Render(m.list.View() + help))

	// Custom status bar
	statusText := ""
	if n := len(m.aps); n > 0 {
		statusText = fmt.Sprintf("%d/%d  %d access points", m.list.Index()+1, len(m.list.Items()), n)
	}
	viewBuilder.WriteString("\n")
	viewBuilder.WriteString(statusText)
	return viewBuilder.String()
}
