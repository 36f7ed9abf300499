package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shazow/wifichan/internal/history"
	wifilog "github.com/shazow/wifichan/internal/log"
	"github.com/shazow/wifichan/internal/metrics"
	"github.com/shazow/wifichan/internal/monitor"
	"github.com/shazow/wifichan/internal/server"
	"github.com/shazow/wifichan/internal/settings"
	"github.com/shazow/wifichan/internal/tui"
	"github.com/shazow/wifichan/wifi"
	"github.com/shazow/wifichan/wifi/rating"
)

const license = "GPL-3.0-or-later"

// scan runs a single scan through the rating pipeline.
func scan(ctx context.Context, b wifi.Backend, s *settings.Settings) (monitor.Snapshot, error) {
	m := monitor.New(monitor.Config{
		Backend:     b,
		Filter:      s.Filter(),
		CountryCode: s.CountryCode(),
	})
	if err := m.Scan(ctx); err != nil {
		return monitor.Snapshot{}, err
	}
	snapshot, _ := m.Snapshot()
	if !snapshot.WirelessEnabled {
		return snapshot, wifi.ErrWirelessDisabled
	}
	return snapshot, nil
}

func runTUI(b wifi.Backend, s *settings.Settings) error {
	m := tui.NewModel(tui.Config{
		Backend: b,
		Scanner: monitor.New(monitor.Config{
			Backend:     b,
			Filter:      s.Filter(),
			CountryCode: s.CountryCode(),
		}),
		Settings: s,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())

	// The channel is never closed: handlers may still hold it after Run.
	logs := make(chan tea.Msg, wifilog.MaxRecords)
	go func() {
		for msg := range logs {
			p.Send(msg)
		}
	}()
	wifilog.SetOutput(logs)
	defer wifilog.SetOutput(nil)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatAccessPoint(ap wifi.AccessPoint) string {
	parts := []string{fmt.Sprintf("%d dBm", ap.Signal())}
	if c, ok := ap.Channel(); ok {
		parts = append(parts, fmt.Sprintf("%s ch %d", c.Band, c.Number))
	} else {
		parts = append(parts, fmt.Sprintf("%d MHz", ap.Frequency))
	}
	parts = append(parts, ap.ChannelWidth().String(), ap.Security.String())
	if ap.IsActive {
		parts = append(parts, "active")
	}
	return strings.Join(parts, ", ")
}

type listOptions struct {
	JSON  bool
	Sort  wifi.SortBy
	Group wifi.GroupBy
	// SSID and Bands narrow the output, everything matches when empty.
	SSID  string
	Bands []wifi.Band
}

func runList(w io.Writer, snapshot monitor.Snapshot, opts listOptions) error {
	aps := wifi.Filter{SSID: opts.SSID, Bands: opts.Bands}.Apply(snapshot.AccessPoints)
	groups := wifi.GroupAccessPoints(aps, opts.Group, opts.Sort)

	if opts.JSON {
		resp := server.AccessPointsResponse{
			At:              snapshot.At,
			WirelessEnabled: snapshot.WirelessEnabled,
		}
		for _, g := range groups {
			var items []server.AccessPoint
			for _, ap := range g.AccessPoints {
				items = append(items, server.NewAccessPoint(ap))
			}
			if opts.Group == wifi.GroupNone {
				resp.AccessPoints = items
				continue
			}
			resp.Groups = append(resp.Groups, server.Group{Name: g.Name, AccessPoints: items})
		}
		return encodeJSON(w, resp)
	}

	for _, g := range groups {
		if opts.Group != wifi.GroupNone {
			fmt.Fprintf(w, "# %s\n", g.Name)
		}
		for _, ap := range g.AccessPoints {
			ssid := ap.SSID
			if ssid == "" {
				ssid = wifi.HiddenSSID
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", ssid, ap.BSSID, formatAccessPoint(ap))
		}
	}
	return nil
}

func bandRating(snapshot monitor.Snapshot, band wifi.Band) (monitor.BandRating, error) {
	br, ok := snapshot.Band(band)
	if !ok {
		return br, fmt.Errorf("band %s is filtered out: %w", band, wifi.ErrNotAvailable)
	}
	return br, nil
}

func formatBest(best []rating.ChannelCount) string {
	if len(best) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(best))
	for _, b := range best {
		parts = append(parts, fmt.Sprint(b.Channel.Number))
	}
	return strings.Join(parts, ", ")
}

func runChannels(w io.Writer, snapshot monitor.Snapshot, band wifi.Band, asJSON bool) error {
	br, err := bandRating(snapshot, band)
	if err != nil {
		return err
	}

	if asJSON {
		return encodeJSON(w, server.ChannelsResponse{
			At:       snapshot.At,
			Band:     br.Band.String(),
			Channels: server.NewChannelRatings(br.Ratings),
			Best:     server.NewChannelCounts(br.Best),
		})
	}

	for _, r := range br.Ratings {
		fmt.Fprintf(w, "%d\t%d MHz\t%d\t%s\n", r.Channel.Number, r.Channel.Frequency, r.Count, r.Strength)
	}
	fmt.Fprintf(w, "best: %s\n", formatBest(br.Best))
	return nil
}

type bestOptions struct {
	Band wifi.Band
	// All considers every allowed channel instead of the preferred ones.
	All         bool
	Limit       int
	JSON        bool
	CountryCode string
}

func runBest(w io.Writer, snapshot monitor.Snapshot, opts bestOptions) error {
	br, err := bandRating(snapshot, opts.Band)
	if err != nil {
		return err
	}
	best := br.Best
	if opts.All {
		best = rating.New(snapshot.AccessPoints).BestChannels(opts.Band.Channels(opts.CountryCode))
	}
	if opts.Limit > 0 && len(best) > opts.Limit {
		best = best[:opts.Limit]
	}

	if opts.JSON {
		return encodeJSON(w, server.BestChannelsResponse{
			At:       snapshot.At,
			Band:     opts.Band.String(),
			Channels: server.NewChannelCounts(best),
		})
	}

	if len(best) == 0 {
		fmt.Fprintf(w, "no free channel on %s\n", opts.Band)
		return nil
	}
	for _, b := range best {
		fmt.Fprintf(w, "%d\t%d MHz\t%d\n", b.Channel.Number, b.Channel.Frequency, b.Count)
	}
	return nil
}

// defaultHistoryPath keeps the history database next to the settings file.
func defaultHistoryPath() (string, error) {
	path, err := settings.DefaultPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(path), "history.db"), nil
}

type historyOptions struct {
	BSSID string
	Since time.Duration
	Limit int
}

func runHistory(ctx context.Context, w io.Writer, store *history.Store, opts historyOptions) error {
	if opts.Limit <= 0 {
		return fmt.Errorf("invalid limit: %d", opts.Limit)
	}

	if opts.BSSID == "" {
		scans, err := store.Recent(ctx, opts.Limit)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}
		if len(scans) == 0 {
			fmt.Fprintln(w, "no scans recorded")
			return nil
		}
		for _, s := range scans {
			fmt.Fprintf(w, "%s\t%s\t%d access points\n", s.At.Format(time.RFC3339), s.ID, s.AccessPoints)
		}
		return nil
	}

	samples, err := store.Series(ctx, opts.BSSID, time.Now().Add(-opts.Since))
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(samples) == 0 {
		return fmt.Errorf("no samples for %s: %w", opts.BSSID, wifi.ErrNotFound)
	}
	if len(samples) > opts.Limit {
		samples = samples[len(samples)-opts.Limit:]
	}
	for _, s := range samples {
		fmt.Fprintf(w, "%s\t%s\t%d MHz\t%s\t%d dBm\n", s.At.Format(time.RFC3339), s.SSID, s.Frequency, s.Width, s.Level)
	}
	return nil
}

type serveOptions struct {
	Listen    string
	DB        string
	Interval  time.Duration
	Retention time.Duration
}

func runServe(ctx context.Context, b wifi.Backend, s *settings.Settings, opts serveOptions) error {
	collector, err := metrics.NewCollector(nil)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	cfg := monitor.Config{
		Backend:     b,
		Interval:    opts.Interval,
		Filter:      s.Filter(),
		CountryCode: s.CountryCode(),
		Retention:   opts.Retention,
		Metrics:     collector,
	}
	if opts.DB != "" {
		db, err := history.Open(ctx, opts.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		cfg.History = history.NewStore(db)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mon := monitor.New(cfg)
	monitorErr := make(chan error, 1)
	go func() {
		monitorErr <- mon.Run(ctx)
	}()

	slog.Info("starting monitor", "interval", opts.Interval, "history", opts.DB)
	err = server.Serve(ctx, opts.Listen, server.SetupRouter(mon, collector))
	cancel()
	return errors.Join(err, <-monitorErr)
}

// configKeys are the settings that can be changed with `config set`, in
// the order `config show` prints them.
var configKeys = []string{"scan-interval", "sort", "group", "band", "band-filter", "strength-filter", "security-filter", "country"}

func joinValues[T fmt.Stringer](values []T) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, ",")
}

// parseValues splits a comma separated list. An empty value or "all" clears
// the filter.
func parseValues[T any](value string, parse func(string) (T, error)) ([]T, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "all") {
		return nil, nil
	}
	var r []T
	for _, v := range strings.Split(value, ",") {
		item, err := parse(strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
		r = append(r, item)
	}
	return r, nil
}

func runConfigShow(w io.Writer, s *settings.Settings) error {
	values := map[string]string{
		"scan-interval":   s.ScanInterval().String(),
		"sort":            s.SortBy().String(),
		"group":           s.GroupBy().String(),
		"band":            s.Band().String(),
		"band-filter":     joinValues(s.BandFilter()),
		"strength-filter": joinValues(s.StrengthFilter()),
		"security-filter": joinValues(s.SecurityFilter()),
		"country":         s.CountryCode(),
	}
	for _, k := range configKeys {
		fmt.Fprintf(w, "%s\t%s\n", k, values[k])
	}
	return nil
}

func runConfigSet(s *settings.Settings, name, value string) error {
	var err error
	switch name {
	case "scan-interval":
		var d time.Duration
		if d, err = time.ParseDuration(value); err != nil {
			return err
		}
		if d < settings.MinScanInterval {
			return fmt.Errorf("invalid interval %s: must be at least %s", d, settings.MinScanInterval)
		}
		return s.SaveScanInterval(d)
	case "sort":
		var by wifi.SortBy
		if by, err = wifi.ParseSortBy(value); err != nil {
			return err
		}
		return s.SaveSortBy(by)
	case "group":
		var group wifi.GroupBy
		if group, err = wifi.ParseGroupBy(value); err != nil {
			return err
		}
		return s.SaveGroupBy(group)
	case "band":
		var band wifi.Band
		if band, err = wifi.ParseBand(value); err != nil {
			return err
		}
		return s.SaveBand(band)
	case "band-filter":
		var bands []wifi.Band
		if bands, err = parseValues(value, wifi.ParseBand); err != nil {
			return err
		}
		return s.SaveBandFilter(bands)
	case "strength-filter":
		var strengths []wifi.Strength
		if strengths, err = parseValues(value, wifi.ParseStrength); err != nil {
			return err
		}
		return s.SaveStrengthFilter(strengths)
	case "security-filter":
		var securities []wifi.SecurityType
		if securities, err = parseValues(value, wifi.ParseSecurity); err != nil {
			return err
		}
		return s.SaveSecurityFilter(securities)
	case "country":
		if value != "" && len(value) != 2 {
			return fmt.Errorf("invalid country code: %q", value)
		}
		return s.SaveCountryCode(value)
	}
	return fmt.Errorf("unknown setting %q, expected one of: %s", name, strings.Join(configKeys, ", "))
}

func runAbout(w io.Writer, now time.Time) error {
	fmt.Fprintf(w, "wifichan %s\n", Version)
	fmt.Fprintf(w, "%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "Copyright (c) 2025-%d wifichan authors\n", now.Year())
	fmt.Fprintf(w, "License: %s\n", license)

	info, ok := debug.ReadBuildInfo()
	if !ok || len(info.Deps) == 0 {
		return nil
	}
	deps := slices.Clone(info.Deps)
	slices.SortFunc(deps, func(a, b *debug.Module) int { return strings.Compare(a.Path, b.Path) })
	fmt.Fprintln(w, "\nOpen source modules:")
	for _, d := range deps {
		fmt.Fprintf(w, "  %s %s\n", d.Path, d.Version)
	}
	return nil
}
