package mock

import (
	"math/rand"
	"sync"
	"time"

	"github.com/shazow/wifichan/wifi"
)

var DefaultActionSleep = 500 * time.Millisecond

// MockBackend is a mock implementation of the wifi.Backend interface for testing.
type MockBackend struct {
	mu sync.Mutex

	AccessPoints           []wifi.AccessPoint
	ScanError              error
	WirelessEnabled        bool
	IsWirelessEnabledError error
	SetWirelessError       error

	// Jitter re-randomizes signal levels on every scan.
	Jitter bool

	// Scans counts calls to ScanAccessPoints that requested a scan.
	Scans int

	// ActionSleep is a delay before every action, to better emulate a real-world backend for the frontend. Set to 0 during testing.
	ActionSleep time.Duration
}

// Fixture returns a neighbourhood of access points across every band,
// including a radio broadcasting a guest network and the one we are
// connected to.
func Fixture() []wifi.AccessPoint {
	return []wifi.AccessPoint{
		{SSID: "HideYoKidsHideYoWiFi", BSSID: "20:cf:30:ce:1d:71", Frequency: 2437, Level: -52, Security: wifi.SecurityWPA, IsActive: true},
		{SSID: "HideYoKids-Guest", BSSID: "22:cf:30:ce:1d:72", Frequency: 2437, Level: -54, Security: wifi.SecurityOpen},
		{SSID: "GET off my LAN", BSSID: "b0:4e:26:1a:00:10", Frequency: 2412, Level: -71, Security: wifi.SecurityWPA},
		{SSID: "NeverGonnaGiveYouIP", BSSID: "c4:41:1e:00:2b:3a", Frequency: 2462, Level: -83, Security: wifi.SecurityWEP},
		{SSID: "Unencrypted_Honeypot", BSSID: "00:1a:2b:3c:4d:5e", Frequency: 2442, Level: -90, Security: wifi.SecurityOpen},
		{SSID: "Dunder MiffLAN", BSSID: "f0:9f:c2:11:22:33", Frequency: 2412, Width: wifi.Width40, Level: -66, Security: wifi.SecurityWPA},
		{SSID: "Police Surveillance 2", BSSID: "3c:37:86:aa:bb:cc", Frequency: 5180, Width: wifi.Width80, Level: -61, Security: wifi.SecurityWPA},
		{SSID: "Police Surveillance 2", BSSID: "3e:37:86:aa:bb:cd", Frequency: 5180, Width: wifi.Width80, Level: -63, Security: wifi.SecurityWPA},
		{SSID: "TacoBoutAGoodSignal", BSSID: "a4:2b:b0:de:ad:01", Frequency: 5745, Width: wifi.Width40, Level: -48, Security: wifi.SecurityWPA},
		{SSID: "I Believe Wi Can Fi", BSSID: "90:72:40:0f:0f:0f", Frequency: 5500, Width: wifi.Width160, Level: -77, Security: wifi.SecurityWPA},
		{SSID: "Wi-Fight the Feeling?", BSSID: "44:d9:e7:01:02:03", Frequency: 5975, Width: wifi.Width80, Level: -69, Security: wifi.SecurityWPA},
		{SSID: "", BSSID: "44:d9:e7:01:02:04", Frequency: 6055, Level: -88, Security: wifi.SecurityWPA},
	}
}

// New creates a new mock backend populated with Fixture.
func New() (wifi.Backend, error) {
	return &MockBackend{
		AccessPoints:    Fixture(),
		ActionSleep:     DefaultActionSleep,
		WirelessEnabled: true,
		Jitter:          true,
	}, nil
}

func (m *MockBackend) ScanAccessPoints(shouldScan bool) ([]wifi.AccessPoint, error) {
	time.Sleep(m.ActionSleep)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ScanError != nil {
		return nil, m.ScanError
	}
	if !m.WirelessEnabled {
		return nil, wifi.ErrWirelessDisabled
	}
	if shouldScan {
		m.Scans++
		if m.Jitter {
			r := rand.New(rand.NewSource(time.Now().UnixNano()))
			for i := range m.AccessPoints {
				m.AccessPoints[i].Level += r.Intn(5) - 2
				m.AccessPoints[i].Level = min(max(m.AccessPoints[i].Level, -95), -30)
			}
		}
	}

	result := make([]wifi.AccessPoint, len(m.AccessPoints))
	copy(result, m.AccessPoints)
	return result, nil
}

func (m *MockBackend) IsWirelessEnabled() (bool, error) {
	time.Sleep(m.ActionSleep)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.IsWirelessEnabledError != nil {
		return false, m.IsWirelessEnabledError
	}
	return m.WirelessEnabled, nil
}

func (m *MockBackend) SetWireless(enabled bool) error {
	time.Sleep(m.ActionSleep)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetWirelessError != nil {
		return m.SetWirelessError
	}
	m.WirelessEnabled = enabled
	return nil
}
