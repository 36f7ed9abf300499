//go:build linux

// Package iwd observes access points through the iwd wireless daemon.
//
// iwd only reports the frequency of the BSS we are connected to, so every
// other access point is returned without one and is not counted against any
// channel.
package iwd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/shazow/wifichan/wifi"
)

const propertyChangeTimeout = 5 * time.Second

// IWD constants
const (
	iwdDest              = "net.connman.iwd"
	iwdPath              = "/"
	iwdIface             = "net.connman.iwd"
	iwdDeviceIface       = "net.connman.iwd.Device"
	iwdNetworkIface      = "net.connman.iwd.Network"
	iwdStationIface      = "net.connman.iwd.Station"
	iwdBSSIface          = "net.connman.iwd.BasicServiceSet"
	iwdDiagnosticIface   = "net.connman.iwd.StationDiagnostic"
	dbusPropertiesIface  = "org.freedesktop.DBus.Properties"
	propertiesChangedSig = dbusPropertiesIface + ".PropertiesChanged"
)

// Backend implements the wifi.Backend interface using iwd.
type Backend struct {
	conn *dbus.Conn
}

// orderedNetwork is one entry of Station.GetOrderedNetworks.
type orderedNetwork struct {
	Path   dbus.ObjectPath
	Signal int16 // 100 * dBm
}

// New creates a new iwd.Backend.
func New() (wifi.Backend, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", wifi.ErrNotAvailable)
	}
	b := &Backend{conn: conn}
	if _, err := b.getStationDevice(); err != nil {
		return nil, fmt.Errorf("iwd is not available: %w", wifi.ErrNotAvailable)
	}
	return b, nil
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

	station, err := b.getStationDevice()
	if err != nil {
		return nil, err
	}
	stationObj := b.conn.Object(iwdDest, station)

	if shouldScan {
		// iwd refuses to scan while a scan is already in progress.
		if err := stationObj.Call(iwdStationIface+".Scan", 0).Err; err != nil {
			slog.Debug("scan request rejected", "error", err)
		}
	}

	var networks []orderedNetwork
	if err := stationObj.Call(iwdStationIface+".GetOrderedNetworks", 0).Store(&networks); err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}

	var diagnostics map[string]dbus.Variant
	if err := stationObj.Call(iwdDiagnosticIface+".GetDiagnostics", 0).Store(&diagnostics); err != nil {
		// Only available while connected.
		diagnostics = nil
	}
	connectedBSS, connectedFrequency := connectedBSS(diagnostics)

	var result []wifi.AccessPoint
	for _, network := range networks {
		obj := b.conn.Object(iwdDest, network.Path)
		name, _ := stringProperty(obj, iwdNetworkIface+".Name")
		typ, _ := stringProperty(obj, iwdNetworkIface+".Type")

		ap := wifi.AccessPoint{
			SSID:     name,
			Level:    levelFromSignal(network.Signal),
			Security: security(typ),
		}

		addresses := b.bssAddresses(obj)
		if len(addresses) == 0 {
			result = append(result, ap)
			continue
		}
		for _, address := range addresses {
			bss := ap
			bss.BSSID = address
			if connectedBSS != "" && strings.EqualFold(address, connectedBSS) {
				bss.IsActive = true
				bss.Frequency = connectedFrequency
			}
			result = append(result, bss)
		}
	}
	return result, nil
}

// bssAddresses returns the BSSIDs advertising a network. Older iwd releases
// do not expose ExtendedServiceSet.
func (b *Backend) bssAddresses(network dbus.BusObject) []string {
	v, err := network.GetProperty(iwdNetworkIface + ".ExtendedServiceSet")
	if err != nil {
		return nil
	}
	paths, ok := v.Value().([]dbus.ObjectPath)
	if !ok {
		return nil
	}
	var addresses []string
	for _, path := range paths {
		address, err := stringProperty(b.conn.Object(iwdDest, path), iwdBSSIface+".Address")
		if err != nil {
			continue
		}
		addresses = append(addresses, address)
	}
	return addresses
}

func stringProperty(obj dbus.BusObject, name string) (string, error) {
	v, err := obj.GetProperty(name)
	if err != nil {
		return "", err
	}
	s, ok := v.Value().(string)
	if !ok {
		return "", fmt.Errorf("unexpected type %T for %s: %w", v.Value(), name, wifi.ErrOperationFailed)
	}
	return s, nil
}

func levelFromSignal(signal int16) int {
	return int(signal) / 100
}

func security(typ string) wifi.SecurityType {
	switch typ {
	case "psk", "8021x":
		return wifi.SecurityWPA
	case "wep":
		return wifi.SecurityWEP
	case "open":
		return wifi.SecurityOpen
	}
	return wifi.SecurityUnknown
}

// connectedBSS extracts the connected BSSID and its frequency from a
// StationDiagnostic.GetDiagnostics reply.
func connectedBSS(diagnostics map[string]dbus.Variant) (string, uint) {
	address, _ := diagnostics["ConnectedBss"].Value().(string)
	if address == "" {
		return "", 0
	}
	frequency, _ := diagnostics["Frequency"].Value().(uint32)
	return address, uint(frequency)
}

func (b *Backend) IsWirelessEnabled() (bool, error) {
	station, err := b.getStationDevice()
	if err != nil {
		return false, err
	}
	v, err := b.conn.Object(iwdDest, station).GetProperty(iwdDeviceIface + ".Powered")
	if err != nil {
		return false, err
	}
	powered, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("unexpected type %T for Powered: %w", v.Value(), wifi.ErrOperationFailed)
	}
	return powered, nil
}

// SetWireless enables or disables the wireless radio, waiting for iwd to
// confirm the change.
func (b *Backend) SetWireless(enabled bool) error {
	station, err := b.getStationDevice()
	if err != nil {
		return err
	}

	signals := make(chan *dbus.Signal, 10)
	matchPath := dbus.WithMatchObjectPath(station)
	matchInterface := dbus.WithMatchInterface(dbusPropertiesIface)
	b.conn.Signal(signals)
	defer b.conn.RemoveSignal(signals)
	if err := b.conn.AddMatchSignal(matchInterface, matchPath); err != nil {
		return err
	}
	defer b.conn.RemoveMatchSignal(matchInterface, matchPath)

	obj := b.conn.Object(iwdDest, station)
	err = obj.Call(dbusPropertiesIface+".Set", 0, iwdDeviceIface, "Powered", dbus.MakeVariant(enabled)).Err
	if err != nil {
		return err
	}

	timeout := time.After(propertyChangeTimeout)
	for {
		select {
		case signal := <-signals:
			if poweredChanged(signal, enabled) {
				return nil
			}
		case <-timeout:
			return fmt.Errorf("timed out waiting for wireless state change: %w", wifi.ErrOperationFailed)
		}
	}
}

func poweredChanged(signal *dbus.Signal, enabled bool) bool {
	if signal == nil || signal.Name != propertiesChangedSig || len(signal.Body) < 2 {
		return false
	}
	iface, ok := signal.Body[0].(string)
	if !ok || iface != iwdDeviceIface {
		return false
	}
	props, ok := signal.Body[1].(map[string]dbus.Variant)
	if !ok {
		return false
	}
	val, ok := props["Powered"]
	if !ok {
		return false
	}
	powered, ok := val.Value().(bool)
	return ok && powered == enabled
}

// --- iwd Helper Functions ---

func (b *Backend) getDevices() ([]dbus.ObjectPath, error) {
	var managed map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	obj := b.conn.Object(iwdDest, iwdPath)
	err := obj.Call("org.freedesktop.DBus.ObjectManager.GetManagedObjects", 0).Store(&managed)
	if err != nil {
		return nil, err
	}
	var devices []dbus.ObjectPath
	for path, ifaces := range managed {
		if _, ok := ifaces[iwdDeviceIface]; ok {
			devices = append(devices, path)
		}
	}
	return devices, nil
}

func (b *Backend) getStationDevice() (dbus.ObjectPath, error) {
	devices, err := b.getDevices()
	if err != nil {
		return "", err
	}
	for _, devicePath := range devices {
		mode, err := stringProperty(b.conn.Object(iwdDest, devicePath), iwdDeviceIface+".Mode")
		if err != nil {
			continue
		}
		if mode == "station" {
			return devicePath, nil
		}
	}
	return "", fmt.Errorf("no station device found: %w", wifi.ErrNotFound)
}
