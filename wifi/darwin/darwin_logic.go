package darwin

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shazow/wifichan/wifi"
)

var (
	signalRe   = regexp.MustCompile(`Signal / Noise:\s*(-?\d+)\s*dBm`)
	securityRe = regexp.MustCompile(`Security:\s*(.+)`)
	channelRe  = regexp.MustCompile(`Channel:\s*(\d+)(?:\s*\((\d)GHz(?:,\s*(\d+)MHz)?\))?`)
)

// parseSystemProfilerOutput parses the output of `system_profiler SPAirPortDataType`
// to extract visible access points. macOS redacts BSSIDs, so an SSID heard on
// several channels is reported once per channel.
func parseSystemProfilerOutput(output string) []wifi.AccessPoint {
	var aps []wifi.AccessPoint
	seen := make(map[string]int)

	scanner := bufio.NewScanner(strings.NewReader(output))

	inCurrentNetwork := false
	inOtherNetworks := false
	var current *wifi.AccessPoint

	flush := func() {
		if current == nil || current.SSID == "" {
			return
		}
		key := current.SSID + "@" + strconv.FormatUint(uint64(current.Frequency), 10)
		if i, ok := seen[key]; ok {
			// The current network is listed again among the others with
			// fewer details.
			if aps[i].Level == 0 {
				aps[i].Level = current.Level
			}
			return
		}
		seen[key] = len(aps)
		aps = append(aps, *current)
	}

	for scanner.Scan() {
		line := scanner.Text()

		// Detect section headers
		if strings.Contains(line, "Current Network Information:") {
			flush()
			current = nil
			inCurrentNetwork = true
			inOtherNetworks = false
			continue
		}
		if strings.Contains(line, "Other Local Wi-Fi Networks:") {
			flush()
			current = nil
			inCurrentNetwork = false
			inOtherNetworks = true
			continue
		}

		// Stop parsing if we hit another interface (like awdl0)
		if strings.HasPrefix(strings.TrimSpace(line), "awdl") {
			break
		}

		if !inCurrentNetwork && !inOtherNetworks {
			continue
		}

		trimmed := strings.TrimSpace(line)

		// Network names are at 12-space indent (under Current/Other sections)
		leadingSpaces := len(line) - len(strings.TrimLeft(line, " "))
		if leadingSpaces == 12 && strings.HasSuffix(trimmed, ":") && !strings.Contains(trimmed, ": ") {
			flush()
			current = &wifi.AccessPoint{
				SSID:     strings.TrimSuffix(trimmed, ":"),
				IsActive: inCurrentNetwork,
				Security: wifi.SecurityOpen,
			}
			continue
		}

		if current == nil {
			continue
		}
		if matches := signalRe.FindStringSubmatch(line); len(matches) > 1 {
			current.Level, _ = strconv.Atoi(matches[1])
		}
		if matches := securityRe.FindStringSubmatch(line); len(matches) > 1 {
			current.Security = parseSecurityType(strings.TrimSpace(matches[1]))
		}
		if matches := channelRe.FindStringSubmatch(line); len(matches) > 1 {
			current.Frequency, current.Width = parseChannel(matches[1], matches[2], matches[3])
		}
	}
	flush()

	return aps
}

// parseChannel converts the parts of a line such as "Channel: 36 (5GHz, 80MHz)"
// into a primary frequency and width. Without a band, channels up to 14 are
// assumed to be 2.4GHz.
func parseChannel(number, ghz, mhz string) (uint, wifi.ChannelWidth) {
	n, err := strconv.Atoi(number)
	if err != nil {
		return 0, 0
	}

	band := wifi.Band5GHz
	switch ghz {
	case "2":
		band = wifi.Band2GHz
	case "6":
		band = wifi.Band6GHz
	case "":
		if n <= 14 {
			band = wifi.Band2GHz
		}
	}

	var width wifi.ChannelWidth
	if mhz != "" {
		width, _ = wifi.ParseWidth(mhz)
	}
	return band.Frequency(n), width
}

func parseSecurityType(s string) wifi.SecurityType {
	s = strings.ToLower(s)
	if strings.Contains(s, "wpa") {
		return wifi.SecurityWPA
	}
	if strings.Contains(s, "wep") {
		return wifi.SecurityWEP
	}
	return wifi.SecurityOpen
}

// findWifiDevice parses the output of `networksetup -listallhardwareports` to find the Wi-Fi device.
func findWifiDevice(output string) (string, error) {
	// The output is a series of stanzas, separated by blank lines.
	// Each stanza describes a hardware port.
	stanzas := strings.Split(output, "\n\n")
	for _, stanza := range stanzas {
		var device string
		isWifiPort := false
		for _, line := range strings.Split(stanza, "\n") {
			if hardwarePort, ok := strings.CutPrefix(line, "Hardware Port: "); ok {
				isWifiPort = strings.Contains(hardwarePort, "Wi-Fi") || strings.Contains(hardwarePort, "AirPort")
			}
			if d, ok := strings.CutPrefix(line, "Device: "); ok {
				device = d
			}
		}
		if isWifiPort && device != "" {
			return device, nil
		}
	}
	return "", fmt.Errorf("no Wi-Fi interface found: %w", wifi.ErrNotFound)
}
