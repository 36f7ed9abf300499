package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// CustomHelpList is a wrapper around list.Model that allows us to override
// the help text.
type CustomHelpList struct {
	list.Model
}

// Update is a wrapper for the embedded list.Model's Update method. It
// returns a CustomHelpList instead of a list.Model.
func (m CustomHelpList) Update(msg tea.Msg) (CustomHelpList, tea.Cmd) {
	var cmd tea.Cmd
	m.Model, cmd = m.Model.Update(msg)
	return m, cmd
}

// ShortHelp returns the keys worth showing below the list: pagination when
// there is more than one page, the filter keys and the list's own keys. Up,
// down and quit are left to the global help.
func (m CustomHelpList) ShortHelp() []key.Binding {
	kb := []key.Binding{}

	if m.Paginator.TotalPages > 1 {
		kb = append(kb, m.KeyMap.NextPage, m.KeyMap.PrevPage)
	}

	switch m.FilterState() {
	case list.Filtering:
		kb = append(kb, m.KeyMap.AcceptWhileFiltering, m.KeyMap.CancelWhileFiltering)
	case list.FilterApplied:
		kb = append(kb, m.KeyMap.ClearFilter)
	default:
		kb = append(kb, m.KeyMap.Filter)
	}

	if m.AdditionalShortHelpKeys != nil {
		kb = append(kb, m.AdditionalShortHelpKeys()...)
	}

	return kb
}

// FullHelp returns the full help for the list.
func (m CustomHelpList) FullHelp() [][]key.Binding {
	return m.Model.FullHelp()
}
