package wifi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrengthFromLevel(t *testing.T) {
	tests := []struct {
		level int
		want  Strength
	}{
		{-120, StrengthZero},
		{-100, StrengthZero},
		{-90, StrengthZero},
		{-88, StrengthOne},
		{-77, StrengthTwo},
		{-66, StrengthThree},
		{-56, StrengthThree},
		{-55, StrengthFour},
		{-30, StrengthFour},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StrengthFromLevel(tt.level), "level %d", tt.level)
	}
}

func TestLevelPercentRoundTrip(t *testing.T) {
	for _, p := range []uint8{0, 10, 50, 90, 100} {
		assert.Equal(t, p, PercentFromLevel(LevelFromPercent(p)), "percent %d", p)
	}
	assert.Equal(t, uint8(0), PercentFromLevel(0))
	assert.Equal(t, uint8(100), PercentFromLevel(-20))
}

func TestAccessPointSignal(t *testing.T) {
	assert.Equal(t, -42, AccessPoint{Level: -42, Strength: 10}.Signal())
	assert.Equal(t, -60, AccessPoint{Strength: 80}.Signal())
	assert.Equal(t, StrengthThree, AccessPoint{Strength: 80}.SignalStrength())
}

func TestParseStrength(t *testing.T) {
	s, err := ParseStrength("very weak")
	require.NoError(t, err)
	assert.Equal(t, StrengthOne, s)

	s, err = ParseStrength("4")
	require.NoError(t, err)
	assert.Equal(t, StrengthFour, s)

	_, err = ParseStrength("loud")
	assert.Error(t, err)

	assert.Equal(t, "excellent", StrengthFour.String())
}
