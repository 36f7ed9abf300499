package wifi

import (
	"fmt"
	"strconv"
	"strings"
)

// Band is a WiFi frequency band.
type Band int

const (
	Band2GHz Band = iota
	Band5GHz
	Band6GHz
)

// Bands lists every supported band.
var Bands = []Band{Band2GHz, Band5GHz, Band6GHz}

func (b Band) String() string {
	switch b {
	case Band2GHz:
		return "2.4GHz"
	case Band5GHz:
		return "5GHz"
	case Band6GHz:
		return "6GHz"
	}
	return fmt.Sprintf("band(%d)", int(b))
}

// ParseBand accepts "2.4", "5", "6", with or without a GHz suffix.
func ParseBand(s string) (Band, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "ghz") {
	case "2", "2.4":
		return Band2GHz, nil
	case "5":
		return Band5GHz, nil
	case "6":
		return Band6GHz, nil
	}
	return Band2GHz, fmt.Errorf("invalid band: %q", s)
}

// Toggle returns the next band, wrapping around.
func (b Band) Toggle() Band {
	return Bands[(int(b)+1)%len(Bands)]
}

// Contains reports whether frequency belongs to the band.
func (b Band) Contains(frequency uint) bool {
	switch b {
	case Band2GHz:
		return frequency >= 2400 && frequency <= 2500
	case Band5GHz:
		return frequency >= 5150 && frequency <= 5895
	case Band6GHz:
		return frequency >= 5925 && frequency <= 7125
	}
	return false
}

// Frequency returns the center frequency of a 20MHz channel in the band, or
// 0 if the channel number does not exist.
func (b Band) Frequency(number int) uint {
	var f int
	switch b {
	case Band2GHz:
		switch {
		case number == 14:
			f = 2484
		case number >= 1 && number <= 13:
			f = 2407 + 5*number
		}
	case Band5GHz:
		if number >= 32 && number <= 177 {
			f = 5000 + 5*number
		}
	case Band6GHz:
		switch {
		case number == 2:
			f = 5935
		case number >= 1 && number <= 233:
			f = 5950 + 5*number
		}
	}
	return uint(f)
}

// Channel returns the channel with the given number in the band.
func (b Band) Channel(number int) (Channel, bool) {
	f := b.Frequency(number)
	if f == 0 {
		return Channel{}, false
	}
	return Channel{Band: b, Number: number, Frequency: f}, true
}

// Channels returns the channels allowed in the band for an ISO 3166 country
// code. An empty code returns the widest common set.
func (b Band) Channels(countryCode string) []Channel {
	var numbers []int
	switch b {
	case Band2GHz:
		last := 13
		switch strings.ToUpper(countryCode) {
		case "US", "CA":
			last = 11
		case "JP":
			last = 14
		}
		numbers = seq(1, last, 1)
	case Band5GHz:
		numbers = append(numbers, seq(36, 64, 4)...)
		numbers = append(numbers, seq(100, 144, 4)...)
		numbers = append(numbers, seq(149, 165, 4)...)
	case Band6GHz:
		numbers = seq(1, 233, 4)
	}
	return b.channels(numbers)
}

// Preferred returns the channels worth recommending: the non-overlapping
// channels on 2.4GHz, the preferred scanning channels on 6GHz, and every
// channel on 5GHz.
func (b Band) Preferred(countryCode string) []Channel {
	switch b {
	case Band2GHz:
		return b.channels([]int{1, 6, 11})
	case Band6GHz:
		return b.channels(seq(5, 229, 16))
	}
	return b.Channels(countryCode)
}

func (b Band) channels(numbers []int) []Channel {
	channels := make([]Channel, 0, len(numbers))
	for _, n := range numbers {
		if c, ok := b.Channel(n); ok {
			channels = append(channels, c)
		}
	}
	return channels
}

func seq(first, last, step int) []int {
	var r []int
	for i := first; i <= last; i += step {
		r = append(r, i)
	}
	return r
}

// Channel is a 20MHz WiFi channel.
type Channel struct {
	Band      Band
	Number    int
	Frequency uint // MHz
}

func (c Channel) String() string {
	return strconv.Itoa(c.Number)
}

// BandForFrequency returns the band containing frequency.
func BandForFrequency(frequency uint) (Band, bool) {
	for _, b := range Bands {
		if b.Contains(frequency) {
			return b, true
		}
	}
	return Band2GHz, false
}

// ChannelForFrequency returns the 20MHz channel centered on frequency.
func ChannelForFrequency(frequency uint) (Channel, bool) {
	b, ok := BandForFrequency(frequency)
	if !ok {
		return Channel{}, false
	}
	f := int(frequency)
	var number int
	switch b {
	case Band2GHz:
		if f == 2484 {
			number = 14
		} else {
			number = (f - 2407) / 5
		}
	case Band5GHz:
		number = (f - 5000) / 5
	case Band6GHz:
		if f == 5935 {
			number = 2
		} else {
			number = (f - 5950) / 5
		}
	}
	c, ok := b.Channel(number)
	if !ok || c.Frequency != frequency {
		return Channel{}, false
	}
	return c, true
}
