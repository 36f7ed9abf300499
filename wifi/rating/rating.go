// Package rating scores WiFi channel congestion from a set of observed access
// points and recommends the least crowded channels.
package rating

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shazow/wifichan/wifi"
)

const (
	// LevelTolerance is the level difference in dB below which two
	// broadcasts from the same radio are considered the same device.
	LevelTolerance = 5

	bssidLength = 17
)

// ChannelCount is a channel and the number of access points overlapping it.
type ChannelCount struct {
	Channel wifi.Channel
	Count   int
}

// ChannelRating is the congestion of a single channel.
type ChannelRating struct {
	Channel  wifi.Channel
	Count    int
	Strength wifi.Strength
}

// Rating rates channels against a set of access points. Guest networks, the
// extra SSIDs a single radio broadcasts, are folded into their strongest
// variant so that one device is only counted once.
//
// A Rating is not safe for concurrent use.
type Rating struct {
	accessPoints []wifi.AccessPoint
}

// New returns a Rating for the given access points.
func New(aps []wifi.AccessPoint) *Rating {
	r := &Rating{}
	r.SetAccessPoints(aps)
	return r
}

// SetAccessPoints replaces the rated access points with a copy of aps that
// has guest duplicates removed. aps is not modified.
func (r *Rating) SetAccessPoints(aps []wifi.AccessPoint) {
	r.accessPoints = removeGuests(slices.Clone(aps))
}

// AccessPoints returns the access points being rated, strongest first.
func (r *Rating) AccessPoints() []wifi.AccessPoint {
	return slices.Clone(r.accessPoints)
}

// Count returns the number of access points whose spectrum overlaps the channel.
func (r *Rating) Count(c wifi.Channel) int {
	return len(r.overlapping(c))
}

// Strength returns the strongest signal overlapping the channel, ignoring the
// network we are connected to.
func (r *Rating) Strength(c wifi.Channel) wifi.Strength {
	strength := wifi.StrengthZero
	for _, ap := range r.overlapping(c) {
		if ap.IsActive {
			continue
		}
		strength = max(strength, ap.SignalStrength())
	}
	return strength
}

// Ratings rates every channel, preserving the order of channels.
func (r *Rating) Ratings(channels []wifi.Channel) []ChannelRating {
	ratings := make([]ChannelRating, 0, len(channels))
	for _, c := range channels {
		ratings = append(ratings, ChannelRating{
			Channel:  c,
			Count:    r.Count(c),
			Strength: r.Strength(c),
		})
	}
	return ratings
}

// BestChannels returns the channels where nothing stronger than a very weak
// signal is heard, least crowded first and then by channel number.
func (r *Rating) BestChannels(channels []wifi.Channel) []ChannelCount {
	var best []ChannelCount
	for _, c := range channels {
		switch r.Strength(c) {
		case wifi.StrengthZero, wifi.StrengthOne:
			best = append(best, ChannelCount{Channel: c, Count: r.Count(c)})
		}
	}
	slices.SortStableFunc(best, func(a, b ChannelCount) int {
		return cmp.Or(
			cmp.Compare(a.Count, b.Count),
			cmp.Compare(a.Channel.Number, b.Channel.Number),
		)
	})
	return best
}

func (r *Rating) overlapping(c wifi.Channel) []wifi.AccessPoint {
	var result []wifi.AccessPoint
	for _, ap := range r.accessPoints {
		if ap.InRange(c.Frequency) {
			result = append(result, ap)
		}
	}
	return result
}

// removeGuests sorts aps so that broadcasts of the same radio are adjacent
// with the strongest first, then keeps only the first of each run.
func removeGuests(aps []wifi.AccessPoint) []wifi.AccessPoint {
	slices.SortStableFunc(aps, compareGuest)

	var results []wifi.AccessPoint
	var last *wifi.AccessPoint
	for i := range aps {
		if last != nil && isGuest(aps[i], *last) {
			continue
		}
		results = append(results, aps[i])
		last = &aps[i]
	}
	wifi.SortAccessPoints(results, wifi.SortByStrength)
	return results
}

func compareGuest(a, b wifi.AccessPoint) int {
	return cmp.Or(
		cmp.Compare(guestKey(a.BSSID), guestKey(b.BSSID)),
		cmp.Compare(a.Frequency, b.Frequency),
		cmp.Compare(b.Signal(), a.Signal()),
		cmp.Compare(strings.ToUpper(a.SSID), strings.ToUpper(b.SSID)),
	)
}

// isGuest reports whether ap is another broadcast of the radio behind kept.
func isGuest(ap, kept wifi.AccessPoint) bool {
	if !isGuestBSSID(ap.BSSID, kept.BSSID) {
		return false
	}
	if ap.Frequency != kept.Frequency {
		return false
	}
	diff := kept.Signal() - ap.Signal()
	return diff > -LevelTolerance && diff < LevelTolerance
}

// guestKey is the part of a BSSID shared by every broadcast of one radio.
func guestKey(bssid string) string {
	if len(bssid) != bssidLength {
		return strings.ToUpper(bssid)
	}
	return strings.ToUpper(bssid[2 : bssidLength-1])
}

// isGuestBSSID compares two MAC addresses ignoring the first octet, where
// vendors flip the locally administered bit for extra SSIDs, and the last hex
// digit, which they increment per SSID.
func isGuestBSSID(a, b string) bool {
	if len(a) != bssidLength || len(b) != bssidLength {
		return false
	}
	return strings.EqualFold(a[2:bssidLength-1], b[2:bssidLength-1])
}
