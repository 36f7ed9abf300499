package mock

import (
	"errors"
	"testing"

	"github.com/shazow/wifichan/wifi"
	"github.com/shazow/wifichan/wifi/rating"
)

func newTestBackend(t *testing.T) *MockBackend {
	t.Helper()
	b, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	mock := b.(*MockBackend)
	mock.ActionSleep = 0
	mock.Jitter = false
	return mock
}

func TestNew(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if b == nil {
		t.Fatal("New() returned nil backend")
	}
	mock := b.(*MockBackend)
	if len(mock.AccessPoints) == 0 {
		t.Fatal("New() returned no access points")
	}
	if !mock.WirelessEnabled {
		t.Error("expected wireless to be enabled")
	}
}

func TestFixtureCoversEveryBand(t *testing.T) {
	seen := map[wifi.Band]bool{}
	active := 0
	for _, ap := range Fixture() {
		b, ok := ap.Band()
		if !ok {
			t.Errorf("access point %q has an unknown frequency %d", ap.SSID, ap.Frequency)
		}
		seen[b] = true
		if ap.IsActive {
			active++
		}
	}
	for _, b := range wifi.Bands {
		if !seen[b] {
			t.Errorf("no access point on %s", b)
		}
	}
	if active != 1 {
		t.Errorf("expected exactly one active access point, got %d", active)
	}
}

func TestFixtureGuestsAreFolded(t *testing.T) {
	aps := Fixture()
	r := rating.New(aps)
	if got, want := len(r.AccessPoints()), len(aps)-2; got != want {
		t.Errorf("expected %d access points after removing guests, got %d", want, got)
	}
}

func TestScanAccessPoints(t *testing.T) {
	mock := newTestBackend(t)

	aps, err := mock.ScanAccessPoints(false)
	if err != nil {
		t.Fatalf("ScanAccessPoints() failed: %v", err)
	}
	if len(aps) != len(Fixture()) {
		t.Errorf("expected %d access points, got %d", len(Fixture()), len(aps))
	}
	if mock.Scans != 0 {
		t.Errorf("expected no scans, got %d", mock.Scans)
	}

	aps[0].SSID = "changed"
	if mock.AccessPoints[0].SSID == "changed" {
		t.Error("ScanAccessPoints() must return a copy")
	}

	if _, err := mock.ScanAccessPoints(true); err != nil {
		t.Fatalf("ScanAccessPoints(true) failed: %v", err)
	}
	if mock.Scans != 1 {
		t.Errorf("expected 1 scan, got %d", mock.Scans)
	}
}

func TestScanAccessPointsJitterStaysInRange(t *testing.T) {
	mock := newTestBackend(t)
	mock.Jitter = true
	for range 20 {
		aps, err := mock.ScanAccessPoints(true)
		if err != nil {
			t.Fatalf("ScanAccessPoints() failed: %v", err)
		}
		for _, ap := range aps {
			if ap.Level < -95 || ap.Level > -30 {
				t.Fatalf("level %d of %q out of range", ap.Level, ap.SSID)
			}
		}
	}
}

func TestScanAccessPoints_Errors(t *testing.T) {
	mock := newTestBackend(t)
	mock.WirelessEnabled = false
	if _, err := mock.ScanAccessPoints(true); !errors.Is(err, wifi.ErrWirelessDisabled) {
		t.Errorf("expected error %v, but got %v", wifi.ErrWirelessDisabled, err)
	}

	mock.WirelessEnabled = true
	mock.ScanError = wifi.ErrOperationFailed
	if _, err := mock.ScanAccessPoints(true); !errors.Is(err, wifi.ErrOperationFailed) {
		t.Errorf("expected error %v, but got %v", wifi.ErrOperationFailed, err)
	}
}

func TestSetWireless(t *testing.T) {
	mock := newTestBackend(t)

	if err := mock.SetWireless(false); err != nil {
		t.Fatalf("SetWireless(false) failed: %v", err)
	}
	enabled, err := mock.IsWirelessEnabled()
	if err != nil {
		t.Fatalf("IsWirelessEnabled() failed: %v", err)
	}
	if enabled {
		t.Error("expected wireless to be disabled")
	}

	mock.SetWirelessError = wifi.ErrNotSupported
	if err := mock.SetWireless(true); !errors.Is(err, wifi.ErrNotSupported) {
		t.Errorf("expected error %v, but got %v", wifi.ErrNotSupported, err)
	}

	mock.IsWirelessEnabledError = wifi.ErrNotAvailable
	if _, err := mock.IsWirelessEnabled(); !errors.Is(err, wifi.ErrNotAvailable) {
		t.Errorf("expected error %v, but got %v", wifi.ErrNotAvailable, err)
	}
}
