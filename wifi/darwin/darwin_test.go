package darwin

import (
	"testing"

	"github.com/shazow/wifichan/wifi"
)

func TestFindWifiDevice(t *testing.T) {
	mockedOutput := `Hardware Port: Wi-Fi
Device: en0
Ethernet Address: a1:b2:c3:d4:e5:f6

Hardware Port: Bluetooth PAN
Device: en8
Ethernet Address: a1:b2:c3:d4:e5:f7

Hardware Port: Thunderbolt Bridge
Device: bridge0
Ethernet Address: a1:b2:c3:d4:e5:f8`

	device, err := findWifiDevice(mockedOutput)
	if err != nil {
		t.Fatalf("findWifiDevice returned an error: %v", err)
	}
	if device != "en0" {
		t.Fatalf(`findWifiDevice returned "%s", want "en0"`, device)
	}

	if _, err := findWifiDevice("Hardware Port: Ethernet\nDevice: en1"); err == nil {
		t.Error("expected an error without a Wi-Fi port")
	}
}

const systemProfilerOutput = `Wi-Fi:

      Software Versions:
          CoreWLAN: 16.0 (1657)
      Interfaces:
        en0:
          Card Type: Wi-Fi
          Status: Connected
          Current Network Information:
            MyHomeNetwork:
              PHY Mode: 802.11ac
              Channel: 36 (5GHz, 80MHz)
              Network Type: Infrastructure
              Security: WPA2 Personal
              Signal / Noise: -55 dBm / -95 dBm
              Transmit Rate: 866
          Other Local Wi-Fi Networks:
            MyHomeNetwork:
              PHY Mode: 802.11ac
              Channel: 36 (5GHz, 80MHz)
              Security: WPA2 Personal
            MyHomeNetwork:
              PHY Mode: 802.11n
              Channel: 1 (2GHz, 20MHz)
              Security: WPA2 Personal
              Signal / Noise: -62 dBm / -90 dBm
            NeighborWiFi:
              PHY Mode: 802.11n
              Channel: 6 (2GHz, 40MHz)
              Network Type: Infrastructure
              Security: WPA2 Personal
              Signal / Noise: -75 dBm / -90 dBm
            Sixer:
              PHY Mode: 802.11ax
              Channel: 37 (6GHz, 160MHz)
              Security: WPA3 Personal
              Signal / Noise: -81 dBm / -92 dBm
            OpenCafe:
              PHY Mode: 802.11g
              Channel: 11
              Network Type: Infrastructure
              Security: Open
        awdl0:
          MAC Address: 00:11:22:33:44:55`

func TestParseSystemProfilerOutput(t *testing.T) {
	aps := parseSystemProfilerOutput(systemProfilerOutput)

	expected := []wifi.AccessPoint{
		{SSID: "MyHomeNetwork", Frequency: 5180, Width: wifi.Width80, Level: -55, Security: wifi.SecurityWPA, IsActive: true},
		{SSID: "MyHomeNetwork", Frequency: 2412, Width: wifi.Width20, Level: -62, Security: wifi.SecurityWPA},
		{SSID: "NeighborWiFi", Frequency: 2437, Width: wifi.Width40, Level: -75, Security: wifi.SecurityWPA},
		{SSID: "Sixer", Frequency: 6135, Width: wifi.Width160, Level: -81, Security: wifi.SecurityWPA},
		{SSID: "OpenCafe", Frequency: 2462, Security: wifi.SecurityOpen},
	}

	if len(aps) != len(expected) {
		t.Fatalf("expected %d access points, got %d: %+v", len(expected), len(aps), aps)
	}
	for i := range expected {
		if aps[i] != expected[i] {
			t.Errorf("access point %d: got %+v, want %+v", i, aps[i], expected[i])
		}
	}
}

func TestParseChannel(t *testing.T) {
	tests := []struct {
		number, ghz, mhz string
		frequency        uint
		width            wifi.ChannelWidth
	}{
		{"36", "5", "80", 5180, wifi.Width80},
		{"6", "2", "20", 2437, wifi.Width20},
		{"5", "6", "320", 5975, wifi.Width320},
		{"11", "", "", 2462, 0},
		{"149", "", "", 5745, 0},
		{"x", "5", "80", 0, 0},
	}
	for _, tt := range tests {
		frequency, width := parseChannel(tt.number, tt.ghz, tt.mhz)
		if frequency != tt.frequency || width != tt.width {
			t.Errorf("parseChannel(%q, %q, %q) = %d, %v, want %d, %v", tt.number, tt.ghz, tt.mhz, frequency, width, tt.frequency, tt.width)
		}
	}
}

func TestParseSecurityType(t *testing.T) {
	tests := map[string]wifi.SecurityType{
		"WPA2 Personal":     wifi.SecurityWPA,
		"WPA3 Personal":     wifi.SecurityWPA,
		"WEP":               wifi.SecurityWEP,
		"Open":              wifi.SecurityOpen,
		"None":              wifi.SecurityOpen,
		"WPA/WPA2 Personal": wifi.SecurityWPA,
	}
	for in, want := range tests {
		if got := parseSecurityType(in); got != want {
			t.Errorf("parseSecurityType(%q) = %v, want %v", in, got, want)
		}
	}
}
