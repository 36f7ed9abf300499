package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/shazow/wifichan/wifi"
)

// parseHex resolves a theme color to the variant for the current background.
func parseHex(c lipgloss.TerminalColor) (colorful.Color, bool) {
	var hex string
	switch c := c.(type) {
	case lipgloss.Color:
		hex = string(c)
	case lipgloss.AdaptiveColor:
		hex = c.Light
		if lipgloss.HasDarkBackground() {
			hex = c.Dark
		}
	}
	color, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, false
	}
	return color, true
}

// blend returns the color at p, between 0 and 1, of the gradient from low to
// high.
func blend(low, high lipgloss.TerminalColor, p float64) lipgloss.TerminalColor {
	start, ok1 := parseHex(low)
	end, ok2 := parseHex(high)
	if !ok1 || !ok2 {
		return high
	}
	p = min(max(p, 0), 1)
	return lipgloss.Color(start.BlendRgb(end, p).Clamped().Hex())
}

// signalColor colors a level from weak to strong.
func signalColor(level int) lipgloss.TerminalColor {
	return blend(CurrentTheme.SignalLow, CurrentTheme.SignalHigh, float64(wifi.PercentFromLevel(level))/100)
}

// congestionColor colors a channel strength from free to busy.
func congestionColor(s wifi.Strength) lipgloss.TerminalColor {
	return blend(CurrentTheme.Success, CurrentTheme.Error, float64(s)/float64(wifi.StrengthFour))
}

// strengthBar renders s as a bar of fixed width.
func strengthBar(s wifi.Strength) string {
	n := int(s)
	return strings.Repeat(CurrentTheme.StrengthBar, n) + strings.Repeat(" ", int(wifi.StrengthFour)-n)
}

func securityIcon(s wifi.SecurityType) string {
	switch s {
	case wifi.SecurityOpen:
		return CurrentTheme.NetworkOpenIcon
	case wifi.SecurityUnknown:
		return CurrentTheme.NetworkUnknownIcon
	}
	return CurrentTheme.NetworkSecureIcon
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
