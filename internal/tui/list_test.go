package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/list"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shazow/wifichan/wifi"
	"github.com/shazow/wifichan/wifi/mock"
)

func newTestListModel(t *testing.T) *ListModel {
	t.Helper()
	m := NewListModel(newTestSettings(t))
	m.Resize(120, 40)
	return m
}

func accessPointItems(items []list.Item) []accessPointItem {
	var aps []accessPointItem
	for _, item := range items {
		if ap, ok := item.(accessPointItem); ok {
			aps = append(aps, ap)
		}
	}
	return aps
}

func TestListModel_SetAccessPoints(t *testing.T) {
	m := newTestListModel(t)
	m.SetAccessPoints(mock.Fixture())

	items := m.list.Items()
	require.Len(t, items, len(mock.Fixture()))
	first := items[0].(accessPointItem)
	assert.Equal(t, "TacoBoutAGoodSignal", first.SSID)
}

func TestListModel_HiddenTitle(t *testing.T) {
	item := accessPointItem{AccessPoint: wifi.AccessPoint{BSSID: "44:d9:e7:01:02:04", Frequency: 6055}}
	assert.Equal(t, wifi.HiddenSSID, item.Title())
	assert.Contains(t, item.Description(), "6GHz ch")
}

func TestListModel_GroupKeyCyclesAndSaves(t *testing.T) {
	s := newTestSettings(t)
	m := NewListModel(s)
	m.SetAccessPoints(mock.Fixture())

	m.Update(keyPress("g"))
	assert.Equal(t, wifi.GroupSSID, s.GroupBy())

	var headers []groupItem
	for _, item := range m.list.Items() {
		if g, ok := item.(groupItem); ok {
			headers = append(headers, g)
		}
	}
	require.NotEmpty(t, headers)
	assert.Len(t, accessPointItems(m.list.Items()), len(mock.Fixture()))

	for _, g := range headers {
		if g.name == "Police Surveillance 2" {
			assert.Equal(t, 2, g.count)
		}
	}

	m.Update(keyPress("g"))
	m.Update(keyPress("g"))
	assert.Equal(t, wifi.GroupNone, s.GroupBy())
}

func TestListModel_SortKeyCyclesAndSaves(t *testing.T) {
	s := newTestSettings(t)
	m := NewListModel(s)
	m.SetAccessPoints(mock.Fixture())

	m.Update(keyPress("o"))
	assert.Equal(t, wifi.SortBySSID, s.SortBy())

	aps := accessPointItems(m.list.Items())
	require.NotEmpty(t, aps)
	// Hidden networks sort first by name.
	assert.Equal(t, "", aps[0].SSID)

	m.Update(keyPress("o"))
	assert.Equal(t, wifi.SortByChannel, s.SortBy())
	aps = accessPointItems(m.list.Items())
	assert.Equal(t, 2412, int(aps[0].Frequency))
}

func TestListModel_KeepsSelection(t *testing.T) {
	m := newTestListModel(t)
	m.SetAccessPoints(mock.Fixture())

	m.list.Select(3)
	selected := m.list.SelectedItem().(accessPointItem).BSSID

	// The selected access point got much stronger.
	aps := mock.Fixture()
	for i := range aps {
		if aps[i].BSSID == selected {
			aps[i].Level = -30
		}
	}
	m.SetAccessPoints(aps)

	assert.Equal(t, 0, m.list.Index())
	assert.Equal(t, selected, m.list.SelectedItem().(accessPointItem).BSSID)
}

func TestListModel_View(t *testing.T) {
	m := newTestListModel(t)
	m.SetAccessPoints(mock.Fixture())

	view := m.View()
	assert.Contains(t, view, "TacoBoutAGoodSignal")
	assert.Contains(t, view, "12 access points")
	assert.Contains(t, view, "sort: strength")
}
