package wifi

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// SortBy selects the access point ordering.
type SortBy int

const (
	SortByStrength SortBy = iota
	SortBySSID
	SortByChannel
)

func (s SortBy) String() string {
	switch s {
	case SortBySSID:
		return "ssid"
	case SortByChannel:
		return "channel"
	}
	return "strength"
}

// ParseSortBy parses the names returned by SortBy.String.
func ParseSortBy(s string) (SortBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strength", "":
		return SortByStrength, nil
	case "ssid":
		return SortBySSID, nil
	case "channel":
		return SortByChannel, nil
	}
	return SortByStrength, fmt.Errorf("invalid sort order: %q", s)
}

// GroupBy selects how access points are grouped for display.
type GroupBy int

const (
	GroupNone GroupBy = iota
	GroupSSID
	GroupChannel
)

func (g GroupBy) String() string {
	switch g {
	case GroupSSID:
		return "ssid"
	case GroupChannel:
		return "channel"
	}
	return "none"
}

// ParseGroupBy parses the names returned by GroupBy.String.
func ParseGroupBy(s string) (GroupBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return GroupNone, nil
	case "ssid":
		return GroupSSID, nil
	case "channel":
		return GroupChannel, nil
	}
	return GroupNone, fmt.Errorf("invalid grouping: %q", s)
}

// HiddenSSID is the display name of access points that do not broadcast an SSID.
const HiddenSSID = "*hidden*"

func compareStrength(a, b AccessPoint) int {
	return cmp.Or(
		cmp.Compare(b.Signal(), a.Signal()),
		cmp.Compare(strings.ToUpper(a.SSID), strings.ToUpper(b.SSID)),
		cmp.Compare(strings.ToUpper(a.BSSID), strings.ToUpper(b.BSSID)),
	)
}

func compareSSID(a, b AccessPoint) int {
	return cmp.Or(
		cmp.Compare(strings.ToUpper(a.SSID), strings.ToUpper(b.SSID)),
		cmp.Compare(b.Signal(), a.Signal()),
		cmp.Compare(strings.ToUpper(a.BSSID), strings.ToUpper(b.BSSID)),
	)
}

func compareChannel(a, b AccessPoint) int {
	return cmp.Or(
		cmp.Compare(a.Frequency, b.Frequency),
		compareStrength(a, b),
	)
}

// SortAccessPoints sorts a slice of access points in place.
// The sorting orders are:
// - SortByStrength: strongest signal first, then SSID, then BSSID.
// - SortBySSID: SSID alphabetically, then strongest signal first.
// - SortByChannel: lowest primary frequency first, then strongest signal.
func SortAccessPoints(aps []AccessPoint, by SortBy) {
	switch by {
	case SortBySSID:
		slices.SortStableFunc(aps, compareSSID)
	case SortByChannel:
		slices.SortStableFunc(aps, compareChannel)
	default:
		slices.SortStableFunc(aps, compareStrength)
	}
}

// Group is a set of access points displayed together.
type Group struct {
	Name         string
	AccessPoints []AccessPoint
}

// IsActive reports whether we are associated with any access point of the group.
func (g Group) IsActive() bool {
	for _, ap := range g.AccessPoints {
		if ap.IsActive {
			return true
		}
	}
	return false
}

// Strength returns the strength of the strongest access point, or 0 if none.
func (g Group) Strength() uint8 {
	maxStrength := uint8(0)
	for _, ap := range g.AccessPoints {
		if p := PercentFromLevel(ap.Signal()); p > maxStrength {
			maxStrength = p
		}
	}
	return maxStrength
}

// GroupAccessPoints groups access points and sorts both the groups and the
// access points within each group. GroupNone returns a single unnamed group.
func GroupAccessPoints(aps []AccessPoint, group GroupBy, sortBy SortBy) []Group {
	aps = slices.Clone(aps)
	SortAccessPoints(aps, sortBy)
	if group == GroupNone {
		return []Group{{AccessPoints: aps}}
	}

	var groups []Group
	index := make(map[string]int)
	for _, ap := range aps {
		name := groupName(ap, group)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		groups[i].AccessPoints = append(groups[i].AccessPoints, ap)
	}
	SortGroups(groups)
	return groups
}

func groupName(ap AccessPoint, group GroupBy) string {
	switch group {
	case GroupChannel:
		if c, ok := ap.Channel(); ok {
			return c.Band.String() + " ch " + strconv.Itoa(c.Number)
		}
		return fmt.Sprintf("%d MHz", ap.Frequency)
	default:
		if ap.SSID == "" {
			return HiddenSSID
		}
		return ap.SSID
	}
}

// SortGroups sorts groups in place.
// The sorting order is:
// 1. Active group first.
// 2. By strength (strongest first).
// 3. Fallback to name alphabetically.
func SortGroups(groups []Group) {
	slices.SortStableFunc(groups, func(a, b Group) int {
		if a.IsActive() != b.IsActive() {
			if a.IsActive() {
				return -1
			}
			return 1
		}
		return cmp.Or(
			cmp.Compare(b.Strength(), a.Strength()),
			cmp.Compare(a.Name, b.Name),
		)
	})
}
