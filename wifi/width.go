package wifi

import (
	"fmt"
	"strconv"
	"strings"
)

// ChannelWidth is the occupied bandwidth of an access point in MHz.
type ChannelWidth uint

const (
	Width20  ChannelWidth = 20
	Width40  ChannelWidth = 40
	Width80  ChannelWidth = 80
	Width160 ChannelWidth = 160
	Width320 ChannelWidth = 320
)

// HalfWidth returns half of the width in MHz.
func (w ChannelWidth) HalfWidth() uint {
	return uint(w) / 2
}

func (w ChannelWidth) String() string {
	return fmt.Sprintf("%dMHz", uint(w))
}

// ParseWidth parses values like "80", "80MHz" or "80 MHz".
func ParseWidth(s string) (ChannelWidth, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "mhz"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid channel width: %w", err)
	}
	switch w := ChannelWidth(n); w {
	case Width20, Width40, Width80, Width160, Width320:
		return w, nil
	}
	return 0, fmt.Errorf("invalid channel width: %d", n)
}

// CenterFrequency derives the center of the spectrum used by an access point
// from its primary frequency and width, following the standard bonding
// blocks. On 2.4GHz a 40MHz access point is assumed to bond upwards on
// channels 1-7 and downwards above.
func CenterFrequency(primary uint, width ChannelWidth) uint {
	if width <= Width20 {
		return primary
	}
	c, ok := ChannelForFrequency(primary)
	if !ok {
		return primary
	}

	switch c.Band {
	case Band2GHz:
		if c.Number <= 7 {
			return primary + 10
		}
		return primary - 10
	case Band5GHz:
		base := 36
		if c.Number >= 149 {
			base = 149
		}
		if c.Number < base {
			return primary
		}
		return c.Band.Frequency(bondedCenter(c.Number, base, width))
	case Band6GHz:
		if c.Number == 2 {
			return primary
		}
		return c.Band.Frequency(bondedCenter(c.Number, 1, width))
	}
	return primary
}

// bondedCenter returns the center channel number of the bonding block of the
// given width that contains channel n, with blocks starting at base.
func bondedCenter(n, base int, width ChannelWidth) int {
	k := int(width / Width20)
	i := (n - base) / 4
	start := base + (i/k)*k*4
	return start + (k-1)*2
}
