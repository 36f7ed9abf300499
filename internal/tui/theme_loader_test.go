package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func restoreTheme(t *testing.T) {
	original := CurrentTheme
	t.Cleanup(func() { CurrentTheme = original })
}

func TestLoadTheme(t *testing.T) {
	restoreTheme(t)

	tomlData := `
		Primary = "#FF0000"
		Subtle = ["#00FF00", "#00EE00"]
		Success = "#0000FF"
		Error = "#FFFF00"
		Normal = "#FF00FF"
		Disabled = "#00FFFF"
		Border = "#800080"
		SignalHigh = "#008000"
		SignalLow = "#FFA500"
		NetworkSecureIcon = "S "
	`

	reader := strings.NewReader(tomlData)
	err := LoadTheme(reader)
	if err != nil {
		t.Fatalf("LoadTheme failed: %v", err)
	}

	// Verify a single color
	expectedColor := lipgloss.Color("#FF0000")
	if CurrentTheme.Primary != expectedColor {
		t.Errorf("Expected Primary color to be %v, but got %v", expectedColor, CurrentTheme.Primary)
	}

	// Verify an adaptive color
	adaptiveColor, ok := CurrentTheme.Subtle.(lipgloss.AdaptiveColor)
	if !ok {
		t.Fatalf("Expected Subtle color to be an AdaptiveColor, but it's not")
	}
	if adaptiveColor.Light != "#00FF00" {
		t.Errorf("Expected Subtle light color to be #00FF00, but got %s", adaptiveColor.Light)
	}
	if adaptiveColor.Dark != "#00EE00" {
		t.Errorf("Expected Subtle dark color to be #00EE00, but got %s", adaptiveColor.Dark)
	}

	if CurrentTheme.NetworkSecureIcon != "S " {
		t.Errorf("Expected NetworkSecureIcon to be overridden, got %q", CurrentTheme.NetworkSecureIcon)
	}
	if CurrentTheme.NetworkOpenIcon != NewDefaultTheme().NetworkOpenIcon {
		t.Errorf("Expected NetworkOpenIcon to keep its default, got %q", CurrentTheme.NetworkOpenIcon)
	}
}

func TestLoadTheme_NilReader(t *testing.T) {
	restoreTheme(t)
	originalTheme := CurrentTheme

	err := LoadTheme(nil)
	if err != nil {
		t.Fatalf("LoadTheme(nil) should not return an error, but got: %v", err)
	}

	// Verify that the theme has not changed
	if CurrentTheme.Primary != originalTheme.Primary {
		t.Errorf("Theme should not change when reader is nil")
	}
}

func TestLoadTheme_InvalidToml(t *testing.T) {
	restoreTheme(t)

	for _, data := range []string{
		`Primary = `,
		`Primary = ["#000000"]`,
		`Primary = 12`,
	} {
		if err := LoadTheme(strings.NewReader(data)); err == nil {
			t.Errorf("LoadTheme(%q) should have failed, but it didn't", data)
		}
	}
}

func TestLoadThemeFile(t *testing.T) {
	restoreTheme(t)

	if err := LoadThemeFile(""); err != nil {
		t.Fatalf("LoadThemeFile(\"\") should not return an error, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "theme.toml")
	if err := os.WriteFile(path, []byte(`Border = "#123456"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := LoadThemeFile(path); err != nil {
		t.Fatalf("LoadThemeFile failed: %v", err)
	}
	if CurrentTheme.Border != lipgloss.Color("#123456") {
		t.Errorf("Expected Border to be #123456, got %v", CurrentTheme.Border)
	}

	if err := LoadThemeFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("LoadThemeFile should fail for a missing file")
	}
}
