package wifi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	aps := []AccessPoint{
		{SSID: "HomeNet", BSSID: "AA:BB:CC:00:00:01", Frequency: 2412, Level: -50, Security: SecurityWPA},
		{SSID: "CoffeeShop", BSSID: "AA:BB:CC:00:00:02", Frequency: 5180, Level: -80, Security: SecurityOpen},
		{SSID: "Neighbor", BSSID: "DE:AD:BE:EF:00:03", Frequency: 2437, Level: -95, Security: SecurityWEP},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"empty", Filter{}, []string{"HomeNet", "CoffeeShop", "Neighbor"}},
		{"ssid substring", Filter{SSID: "home"}, []string{"HomeNet"}},
		{"bssid substring", Filter{SSID: "de:ad"}, []string{"Neighbor"}},
		{"band", Filter{Bands: []Band{Band5GHz}}, []string{"CoffeeShop"}},
		{"strength", Filter{Strengths: []Strength{StrengthZero, StrengthOne}}, []string{"CoffeeShop", "Neighbor"}},
		{"security", Filter{Securities: []SecurityType{SecurityWPA, SecurityWEP}}, []string{"HomeNet", "Neighbor"}},
		{"combined", Filter{Bands: []Band{Band2GHz}, Securities: []SecurityType{SecurityWEP}}, []string{"Neighbor"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, ap := range tt.filter.Apply(aps) {
				got = append(got, ap.SSID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
