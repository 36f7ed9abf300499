package wifi

import (
	"slices"
	"strings"
)

// Filter selects access points. Empty fields match everything.
type Filter struct {
	// SSID matches a case-insensitive substring of the SSID or BSSID.
	SSID       string
	Bands      []Band
	Strengths  []Strength
	Securities []SecurityType
}

// IsEmpty reports whether the filter lets every access point through.
func (f Filter) IsEmpty() bool {
	return f.SSID == "" && len(f.Bands) == 0 && len(f.Strengths) == 0 && len(f.Securities) == 0
}

// Match reports whether the access point passes the filter.
func (f Filter) Match(ap AccessPoint) bool {
	if f.SSID != "" {
		needle := strings.ToLower(f.SSID)
		if !strings.Contains(strings.ToLower(ap.SSID), needle) && !strings.Contains(strings.ToLower(ap.BSSID), needle) {
			return false
		}
	}
	if len(f.Bands) > 0 {
		band, ok := ap.Band()
		if !ok || !slices.Contains(f.Bands, band) {
			return false
		}
	}
	if len(f.Strengths) > 0 && !slices.Contains(f.Strengths, ap.SignalStrength()) {
		return false
	}
	if len(f.Securities) > 0 && !slices.Contains(f.Securities, ap.Security) {
		return false
	}
	return true
}

// Apply returns the access points that pass the filter, in order.
func (f Filter) Apply(aps []AccessPoint) []AccessPoint {
	if f.IsEmpty() {
		return slices.Clone(aps)
	}
	var r []AccessPoint
	for _, ap := range aps {
		if f.Match(ap) {
			r = append(r, ap)
		}
	}
	return r
}
