package wifi

import (
	"fmt"
	"strings"
)

// Securities lists every security type.
var Securities = []SecurityType{SecurityUnknown, SecurityOpen, SecurityWEP, SecurityWPA}

func (s SecurityType) String() string {
	switch s {
	case SecurityOpen:
		return "open"
	case SecurityWEP:
		return "wep"
	case SecurityWPA:
		return "wpa"
	}
	return "unknown"
}

// ParseSecurity parses the names returned by SecurityType.String.
func ParseSecurity(s string) (SecurityType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open", "none":
		return SecurityOpen, nil
	case "wep":
		return SecurityWEP, nil
	case "wpa", "wpa2", "wpa3":
		return SecurityWPA, nil
	case "unknown":
		return SecurityUnknown, nil
	}
	return SecurityUnknown, fmt.Errorf("invalid security type: %s", s)
}
