package wifi

// SecurityType represents the security protocol of a network.
type SecurityType int

const (
	SecurityUnknown SecurityType = iota
	SecurityOpen
	SecurityWEP
	SecurityWPA
)

// AccessPoint represents a single observed access point (one BSSID).
type AccessPoint struct {
	SSID            string
	BSSID           string
	Strength        uint8        // 0-100
	Frequency       uint         // MHz, primary channel
	CenterFrequency uint         // MHz, 0 if the backend does not report it
	Width           ChannelWidth // MHz, 0 if unknown
	Level           int          // dBm, 0 if unknown
	Security        SecurityType
	IsActive        bool // we are associated with this BSSID
}

// Signal returns the signal level in dBm. Backends that only report a
// percentage get a level derived from it.
func (ap AccessPoint) Signal() int {
	if ap.Level != 0 {
		return ap.Level
	}
	return LevelFromPercent(ap.Strength)
}

// SignalStrength returns the bucketed strength of the access point.
func (ap AccessPoint) SignalStrength() Strength {
	return StrengthFromLevel(ap.Signal())
}

// ChannelWidth returns the width, defaulting to 20MHz.
func (ap AccessPoint) ChannelWidth() ChannelWidth {
	if ap.Width == 0 {
		return Width20
	}
	return ap.Width
}

// Center returns the center frequency of the occupied spectrum.
func (ap AccessPoint) Center() uint {
	if ap.CenterFrequency != 0 {
		return ap.CenterFrequency
	}
	return CenterFrequency(ap.Frequency, ap.ChannelWidth())
}

// InRange reports whether frequency falls inside the spectrum occupied by
// the access point, edges included.
func (ap AccessPoint) InRange(frequency uint) bool {
	center := ap.Center()
	half := ap.ChannelWidth().HalfWidth()
	return frequency+half >= center && frequency <= center+half
}

// Channel returns the primary channel of the access point.
func (ap AccessPoint) Channel() (Channel, bool) {
	return ChannelForFrequency(ap.Frequency)
}

// Band returns the band of the primary frequency.
func (ap AccessPoint) Band() (Band, bool) {
	return BandForFrequency(ap.Frequency)
}

// Backend defines the interface for observing nearby access points.
type Backend interface {
	// ScanAccessPoints scans (if shouldScan is true) and returns every visible access point.
	ScanAccessPoints(shouldScan bool) ([]AccessPoint, error)

	// IsWirelessEnabled checks if the wireless radio is enabled.
	IsWirelessEnabled() (bool, error)
	// SetWireless enables or disables the wireless radio.
	SetWireless(enabled bool) error
}
