package wifi

import (
	"reflect"
	"testing"
)

func TestSortAccessPoints(t *testing.T) {
	tests := []struct {
		name     string
		by       SortBy
		aps      []AccessPoint
		expected []string
	}{
		{
			name: "Sort by strength",
			by:   SortByStrength,
			aps: []AccessPoint{
				{SSID: "Weak", Level: -80},
				{SSID: "Strong", Level: -40},
				{SSID: "Middle", Level: -60},
			},
			expected: []string{"Strong", "Middle", "Weak"},
		},
		{
			name: "Sort by strength falls back to SSID",
			by:   SortByStrength,
			aps: []AccessPoint{
				{SSID: "beta", Level: -50},
				{SSID: "Alpha", Level: -50},
			},
			expected: []string{"Alpha", "beta"},
		},
		{
			name: "Percent only strength",
			by:   SortByStrength,
			aps: []AccessPoint{
				{SSID: "Weak", Strength: 10},
				{SSID: "Strong", Strength: 90},
			},
			expected: []string{"Strong", "Weak"},
		},
		{
			name: "Sort by SSID",
			by:   SortBySSID,
			aps: []AccessPoint{
				{SSID: "B", Level: -40},
				{SSID: "a", Level: -90},
			},
			expected: []string{"a", "B"},
		},
		{
			name: "Sort by channel",
			by:   SortByChannel,
			aps: []AccessPoint{
				{SSID: "Eleven", Frequency: 2462, Level: -40},
				{SSID: "One", Frequency: 2412, Level: -90},
				{SSID: "Six", Frequency: 2437, Level: -70},
			},
			expected: []string{"One", "Six", "Eleven"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SortAccessPoints(tt.aps, tt.by)
			var got []string
			for _, ap := range tt.aps {
				got = append(got, ap.SSID)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("SortAccessPoints() got = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGroupAccessPoints(t *testing.T) {
	aps := []AccessPoint{
		{SSID: "Home", BSSID: "00:11:22:33:44:55", Frequency: 2412, Level: -70},
		{SSID: "Cafe", BSSID: "00:11:22:33:44:66", Frequency: 2437, Level: -40},
		{SSID: "Home", BSSID: "00:11:22:33:44:77", Frequency: 5180, Level: -60, IsActive: true},
		{SSID: "", BSSID: "00:11:22:33:44:88", Frequency: 2437, Level: -90},
	}

	tests := []struct {
		name     string
		group    GroupBy
		expected []string
	}{
		{name: "No grouping", group: GroupNone, expected: []string{""}},
		{name: "By SSID", group: GroupSSID, expected: []string{"Home", "Cafe", HiddenSSID}},
		{name: "By channel", group: GroupChannel, expected: []string{"5GHz ch 36", "2.4GHz ch 6", "2.4GHz ch 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := GroupAccessPoints(aps, tt.group, SortByStrength)
			var got []string
			for _, g := range groups {
				got = append(got, g.Name)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("GroupAccessPoints() got = %v, want %v", got, tt.expected)
			}
		})
	}

	groups := GroupAccessPoints(aps, GroupSSID, SortByStrength)
	if len(groups[0].AccessPoints) != 2 {
		t.Fatalf("expected 2 access points in Home, got %d", len(groups[0].AccessPoints))
	}
	if !groups[0].AccessPoints[0].IsActive {
		t.Errorf("expected the strongest Home access point first, got %v", groups[0].AccessPoints[0])
	}
	if aps[0].SSID != "Home" || aps[1].SSID != "Cafe" {
		t.Errorf("GroupAccessPoints() must not reorder its input, got %v", aps)
	}
}

func TestSortGroups(t *testing.T) {
	groups := []Group{
		{Name: "B", AccessPoints: []AccessPoint{{Strength: 50}}},
		{Name: "Active", AccessPoints: []AccessPoint{{Strength: 10, IsActive: true}}},
		{Name: "A", AccessPoints: []AccessPoint{{Strength: 50}}},
		{Name: "Strong", AccessPoints: []AccessPoint{{Strength: 90}}},
	}
	SortGroups(groups)
	var got []string
	for _, g := range groups {
		got = append(got, g.Name)
	}
	expected := []string{"Active", "Strong", "A", "B"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("SortGroups() got = %v, want %v", got, expected)
	}
}
