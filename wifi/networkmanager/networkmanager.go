//go:build linux

package networkmanager

import (
	"fmt"
	"log/slog"

	gonetworkmanager "github.com/Wifx/gonetworkmanager/v3"
	"github.com/godbus/dbus/v5"

	"github.com/shazow/wifichan/wifi"
)

const (
	busName           = "org.freedesktop.NetworkManager"
	bandwidthProperty = busName + ".AccessPoint.Bandwidth"
)

// Backend implements the wifi.Backend interface using D-Bus to communicate with NetworkManager.
type Backend struct {
	NM gonetworkmanager.NetworkManager

	// Bandwidth returns the channel width of an access point in MHz. It is
	// missing from gonetworkmanager so we read it from D-Bus directly.
	Bandwidth func(ap gonetworkmanager.AccessPoint) (uint32, error)

	wirelessDevice gonetworkmanager.DeviceWireless
}

// New creates a new networkmanager.Backend.
func New() (wifi.Backend, error) {
	nm, err := gonetworkmanager.NewNetworkManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create network manager client: %w", wifi.ErrNotAvailable)
	}

	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", wifi.ErrNotAvailable)
	}

	return &Backend{
		NM:        nm,
		Bandwidth: dbusBandwidth(conn),
	}, nil
}

func dbusBandwidth(conn *dbus.Conn) func(gonetworkmanager.AccessPoint) (uint32, error) {
	return func(ap gonetworkmanager.AccessPoint) (uint32, error) {
		v, err := conn.Object(busName, ap.GetPath()).GetProperty(bandwidthProperty)
		if err != nil {
			return 0, err
		}
		width, ok := v.Value().(uint32)
		if !ok {
			return 0, fmt.Errorf("unexpected bandwidth type %T: %w", v.Value(), wifi.ErrOperationFailed)
		}
		return width, nil
	}
}

func (b *Backend) getWirelessDevice() (gonetworkmanager.DeviceWireless, error) {
	if b.wirelessDevice != nil {
		return b.wirelessDevice, nil
	}

	devices, err := b.NM.GetDevices()
	if err != nil {
		return nil, err
	}
	for _, device := range devices {
		if dev, ok := device.(gonetworkmanager.DeviceWireless); ok {
			b.wirelessDevice = dev
			return dev, nil
		}
	}
	return nil, fmt.Errorf("no wireless device found: %w", wifi.ErrNotFound)
}

// ScanAccessPoints scans (if shouldScan is true) and returns every visible access point.
func (b *Backend) ScanAccessPoints(shouldScan bool) ([]wifi.AccessPoint, error) {
	enabled, err := b.IsWirelessEnabled()
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, wifi.ErrWirelessDisabled
	}

	device, err := b.getWirelessDevice()
	if err != nil {
		return nil, err
	}

	if shouldScan {
		if err := device.RequestScan(); err != nil {
			// NetworkManager rejects scans requested too frequently; the
			// cached results are still worth returning.
			slog.Debug("scan request rejected", "error", err)
		}
	}

	accessPoints, err := device.GetAccessPoints()
	if err != nil {
		return nil, fmt.Errorf("failed to list access points: %w", err)
	}

	var activePath dbus.ObjectPath
	if active, err := device.GetPropertyActiveAccessPoint(); err == nil && active != nil {
		activePath = active.GetPath()
	}

	result := make([]wifi.AccessPoint, 0, len(accessPoints))
	for _, ap := range accessPoints {
		info, err := b.accessPoint(ap)
		if err != nil {
			slog.Debug("skipping access point", "path", ap.GetPath(), "error", err)
			continue
		}
		info.IsActive = activePath != "" && ap.GetPath() == activePath
		result = append(result, info)
	}
	return result, nil
}

func (b *Backend) accessPoint(ap gonetworkmanager.AccessPoint) (wifi.AccessPoint, error) {
	bssid, err := ap.GetPropertyHWAddress()
	if err != nil {
		return wifi.AccessPoint{}, err
	}
	frequency, err := ap.GetPropertyFrequency()
	if err != nil {
		return wifi.AccessPoint{}, err
	}
	ssid, _ := ap.GetPropertySSID()
	strength, _ := ap.GetPropertyStrength()

	flags, _ := ap.GetPropertyFlags()
	wpaFlags, _ := ap.GetPropertyWPAFlags()
	rsnFlags, _ := ap.GetPropertyRSNFlags()

	info := wifi.AccessPoint{
		SSID:      ssid,
		BSSID:     bssid,
		Strength:  strength,
		Frequency: uint(frequency),
		Security:  security(uint32(flags), uint32(wpaFlags), uint32(rsnFlags)),
	}

	if b.Bandwidth != nil {
		// Older NetworkManager releases do not report a bandwidth.
		if width, err := b.Bandwidth(ap); err == nil {
			info.Width = wifi.ChannelWidth(width)
		}
	}
	return info, nil
}

func security(flags, wpaFlags, rsnFlags uint32) wifi.SecurityType {
	switch {
	case wpaFlags > 0 || rsnFlags > 0:
		return wifi.SecurityWPA
	case flags&uint32(gonetworkmanager.Nm80211APFlagsPrivacy) != 0:
		return wifi.SecurityWEP
	}
	return wifi.SecurityOpen
}

func (b *Backend) IsWirelessEnabled() (bool, error) {
	return b.NM.GetPropertyWirelessEnabled()
}

// SetWireless enables or disables the wireless radio.
func (b *Backend) SetWireless(enabled bool) error {
	// Not all versions of NetworkManager support subscribing to signals, so we
	// can't rely on it. We'll just have to assume the change was successful.
	// See: https://github.com/Wifx/gonetworkmanager/pull/14
	return b.NM.SetPropertyWirelessEnabled(enabled)
}
