// Package settings holds the user preferences of wifichan.
package settings

import (
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/shazow/wifichan/wifi"
)

const (
	keyScanInterval   = "scan_interval"
	keySortBy         = "sort_by"
	keyGroupBy        = "group_by"
	keyBand           = "band"
	keyBandFilter     = "band_filter"
	keyStrengthFilter = "strength_filter"
	keySecurityFilter = "security_filter"
	keyCountryCode    = "country_code"
	keyStartView      = "start_view"
	keyTheme          = "theme"
)

const (
	DefaultScanInterval = 5 * time.Second
	MinScanInterval     = 1 * time.Second
)

// View is a top level screen.
type View string

const (
	ViewAccessPoints View = "access-points"
	ViewChannels     View = "channels"
)

// Settings reads and writes preferences through a Repository. Values that
// are missing or cannot be parsed yield their defaults.
type Settings struct {
	repo   Repository
	getenv func(string) string
}

// New returns Settings backed by repo.
func New(repo Repository) *Settings {
	return &Settings{repo: repo, getenv: os.Getenv}
}

func (s *Settings) getString(key string) string {
	v, ok := s.repo.Get(key)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

func (s *Settings) getInt(key string) (int, bool) {
	v, ok := s.repo.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}

func (s *Settings) getStrings(key string) []string {
	v, ok := s.repo.Get(key)
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		var r []string
		for _, item := range list {
			if str, ok := item.(string); ok {
				r = append(r, str)
			}
		}
		return r
	}
	return nil
}

// ScanInterval returns the delay between scans.
func (s *Settings) ScanInterval() time.Duration {
	seconds, ok := s.getInt(keyScanInterval)
	if !ok {
		return DefaultScanInterval
	}
	return max(time.Duration(seconds)*time.Second, MinScanInterval)
}

// SaveScanInterval stores the delay between scans, in whole seconds.
func (s *Settings) SaveScanInterval(d time.Duration) error {
	return s.repo.Set(keyScanInterval, int64(max(d, MinScanInterval)/time.Second))
}

func (s *Settings) SortBy() wifi.SortBy {
	by, err := wifi.ParseSortBy(s.getString(keySortBy))
	if err != nil {
		slog.Debug("invalid setting", "key", keySortBy, "error", err)
	}
	return by
}

func (s *Settings) SaveSortBy(by wifi.SortBy) error {
	return s.repo.Set(keySortBy, by.String())
}

func (s *Settings) GroupBy() wifi.GroupBy {
	group, err := wifi.ParseGroupBy(s.getString(keyGroupBy))
	if err != nil {
		slog.Debug("invalid setting", "key", keyGroupBy, "error", err)
	}
	return group
}

func (s *Settings) SaveGroupBy(group wifi.GroupBy) error {
	return s.repo.Set(keyGroupBy, group.String())
}

// Band returns the band shown by the channel views.
func (s *Settings) Band() wifi.Band {
	band, err := wifi.ParseBand(s.getString(keyBand))
	if err != nil {
		return wifi.Band2GHz
	}
	return band
}

func (s *Settings) SaveBand(band wifi.Band) error {
	return s.repo.Set(keyBand, band.String())
}

// ToggleBand switches to the next band and persists it.
func (s *Settings) ToggleBand() (wifi.Band, error) {
	band := s.Band().Toggle()
	return band, s.SaveBand(band)
}

// BandFilter returns the bands to show, every band by default.
func (s *Settings) BandFilter() []wifi.Band {
	return parseList(s.getStrings(keyBandFilter), wifi.ParseBand, wifi.Bands)
}

func (s *Settings) SaveBandFilter(bands []wifi.Band) error {
	return s.repo.Set(keyBandFilter, formatList(bands))
}

// StrengthFilter returns the signal strengths to show, every strength by default.
func (s *Settings) StrengthFilter() []wifi.Strength {
	return parseList(s.getStrings(keyStrengthFilter), wifi.ParseStrength, wifi.Strengths)
}

func (s *Settings) SaveStrengthFilter(strengths []wifi.Strength) error {
	return s.repo.Set(keyStrengthFilter, formatList(strengths))
}

// SecurityFilter returns the security types to show, every type by default.
func (s *Settings) SecurityFilter() []wifi.SecurityType {
	return parseList(s.getStrings(keySecurityFilter), wifi.ParseSecurity, wifi.Securities)
}

func (s *Settings) SaveSecurityFilter(securities []wifi.SecurityType) error {
	return s.repo.Set(keySecurityFilter, formatList(securities))
}

// Filter returns the stored filters. Filters selecting every value are left
// empty so that they match access points on unknown bands too.
func (s *Settings) Filter() wifi.Filter {
	var f wifi.Filter
	if bands := s.BandFilter(); len(bands) < len(wifi.Bands) {
		f.Bands = bands
	}
	if strengths := s.StrengthFilter(); len(strengths) < len(wifi.Strengths) {
		f.Strengths = strengths
	}
	if securities := s.SecurityFilter(); len(securities) < len(wifi.Securities) {
		f.Securities = securities
	}
	return f
}

// CountryCode returns the ISO 3166 country used to pick the allowed
// channels. It defaults to the region of the locale, e.g. GB for en_GB.UTF-8.
func (s *Settings) CountryCode() string {
	if code := s.getString(keyCountryCode); code != "" {
		return strings.ToUpper(code)
	}
	for _, env := range []string{"LC_ALL", "LANG"} {
		if code := countryFromLocale(s.getenv(env)); code != "" {
			return code
		}
	}
	return ""
}

func (s *Settings) SaveCountryCode(code string) error {
	return s.repo.Set(keyCountryCode, strings.ToUpper(code))
}

func countryFromLocale(locale string) string {
	locale, _, _ = strings.Cut(locale, ".")
	locale, _, _ = strings.Cut(locale, "@")
	_, region, ok := strings.Cut(locale, "_")
	if !ok || len(region) != 2 {
		return ""
	}
	return strings.ToUpper(region)
}

// StartView returns the view shown on startup.
func (s *Settings) StartView() View {
	if View(s.getString(keyStartView)) == ViewChannels {
		return ViewChannels
	}
	return ViewAccessPoints
}

func (s *Settings) SaveStartView(v View) error {
	return s.repo.Set(keyStartView, string(v))
}

// Theme returns the path of the theme file, if any.
func (s *Settings) Theme() string {
	return s.getString(keyTheme)
}

func parseList[T comparable](values []string, parse func(string) (T, error), all []T) []T {
	var r []T
	for _, v := range values {
		item, err := parse(v)
		if err != nil {
			slog.Debug("ignoring invalid setting value", "value", v, "error", err)
			continue
		}
		if !slices.Contains(r, item) {
			r = append(r, item)
		}
	}
	if len(r) == 0 {
		return slices.Clone(all)
	}
	return r
}

func formatList[T interface{ String() string }](values []T) []string {
	r := make([]string, 0, len(values))
	for _, v := range values {
		r = append(r, v.String())
	}
	return r
}
