package wifi

import (
	"fmt"
	"strings"
)

// Strength is a signal level bucket, 0 (none) to 4 (excellent).
type Strength int

const (
	StrengthZero Strength = iota
	StrengthOne
	StrengthTwo
	StrengthThree
	StrengthFour
)

// Strengths lists every strength bucket from weakest to strongest.
var Strengths = []Strength{StrengthZero, StrengthOne, StrengthTwo, StrengthThree, StrengthFour}

const (
	minLevel = -100
	maxLevel = -55
)

var strengthNames = []string{"none", "very weak", "weak", "good", "excellent"}

func (s Strength) String() string {
	if s < StrengthZero || int(s) >= len(strengthNames) {
		return fmt.Sprintf("strength(%d)", int(s))
	}
	return strengthNames[s]
}

// ParseStrength accepts a strength name or its number.
func ParseStrength(s string) (Strength, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range strengthNames {
		if s == name || s == fmt.Sprint(i) {
			return Strength(i), nil
		}
	}
	return StrengthZero, fmt.Errorf("invalid strength: %q", s)
}

// StrengthFromLevel buckets a dBm level into five strengths, linearly between
// -100 dBm and -55 dBm.
func StrengthFromLevel(level int) Strength {
	switch {
	case level <= minLevel:
		return StrengthZero
	case level >= maxLevel:
		return StrengthFour
	}
	n := len(Strengths) - 1
	return Strength((level - minLevel) * n / (maxLevel - minLevel))
}

// LevelFromPercent converts a 0-100 quality percentage into dBm, the inverse
// of PercentFromLevel.
func LevelFromPercent(p uint8) int {
	if p > 100 {
		p = 100
	}
	return int(p)/2 + minLevel
}

// PercentFromLevel converts a dBm level into a 0-100 quality percentage.
func PercentFromLevel(level int) uint8 {
	if level >= 0 || level <= minLevel {
		return 0
	}
	p := 2 * (level - minLevel)
	if p > 100 {
		p = 100
	}
	return uint8(p)
}
