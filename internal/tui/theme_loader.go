package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
)

// colorValue is a color in a theme file, either a single color or a
// [light, dark] pair.
type colorValue struct {
	lipgloss.TerminalColor
}

func (c *colorValue) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		c.TerminalColor = lipgloss.Color(v)
		return nil
	case []any:
		if len(v) != 2 {
			return fmt.Errorf("adaptive color needs a light and a dark value, got %d values", len(v))
		}
		light, ok1 := v[0].(string)
		dark, ok2 := v[1].(string)
		if !ok1 || !ok2 {
			return fmt.Errorf("adaptive color values must be strings")
		}
		c.TerminalColor = lipgloss.AdaptiveColor{Light: light, Dark: dark}
		return nil
	}
	return fmt.Errorf("invalid color: %v", v)
}

// themeFile represents the structure of the theme TOML file.
// We use pointers so we can distinguish between a missing value and an empty
// one. This allows users to override only the values they want.
type themeFile struct {
	Primary    *colorValue `toml:"Primary,omitempty"`
	Subtle     *colorValue `toml:"Subtle,omitempty"`
	Success    *colorValue `toml:"Success,omitempty"`
	Error      *colorValue `toml:"Error,omitempty"`
	Normal     *colorValue `toml:"Normal,omitempty"`
	Disabled   *colorValue `toml:"Disabled,omitempty"`
	Border     *colorValue `toml:"Border,omitempty"`
	SignalHigh *colorValue `toml:"SignalHigh,omitempty"`
	SignalLow  *colorValue `toml:"SignalLow,omitempty"`

	TitleIcon          *string `toml:"TitleIcon,omitempty"`
	NetworkOpenIcon    *string `toml:"NetworkOpenIcon,omitempty"`
	NetworkSecureIcon  *string `toml:"NetworkSecureIcon,omitempty"`
	NetworkUnknownIcon *string `toml:"NetworkUnknownIcon,omitempty"`
	ActiveIcon         *string `toml:"ActiveIcon,omitempty"`
	StrengthBar        *string `toml:"StrengthBar,omitempty"`
}

// LoadTheme reads a theme and overrides the default theme with it. A nil
// reader leaves the current theme untouched.
func LoadTheme(r io.Reader) error {
	if r == nil {
		return nil
	}

	var tf themeFile
	if _, err := toml.NewDecoder(r).Decode(&tf); err != nil {
		return fmt.Errorf("invalid theme: %w", err)
	}

	// Start with the default theme and override it with the loaded values.
	theme := NewDefaultTheme()

	setColor := func(dst *lipgloss.TerminalColor, v *colorValue) {
		if v != nil {
			*dst = v.TerminalColor
		}
	}
	setColor(&theme.Primary, tf.Primary)
	setColor(&theme.Subtle, tf.Subtle)
	setColor(&theme.Success, tf.Success)
	setColor(&theme.Error, tf.Error)
	setColor(&theme.Normal, tf.Normal)
	setColor(&theme.Disabled, tf.Disabled)
	setColor(&theme.Border, tf.Border)
	setColor(&theme.SignalHigh, tf.SignalHigh)
	setColor(&theme.SignalLow, tf.SignalLow)

	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setString(&theme.TitleIcon, tf.TitleIcon)
	setString(&theme.NetworkOpenIcon, tf.NetworkOpenIcon)
	setString(&theme.NetworkSecureIcon, tf.NetworkSecureIcon)
	setString(&theme.NetworkUnknownIcon, tf.NetworkUnknownIcon)
	setString(&theme.ActiveIcon, tf.ActiveIcon)
	setString(&theme.StrengthBar, tf.StrengthBar)

	CurrentTheme = theme
	return nil
}

// LoadThemeFile loads the theme at path. If the path is empty, it does nothing.
func LoadThemeFile(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return LoadTheme(f)
}
