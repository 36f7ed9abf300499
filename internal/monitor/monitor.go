// Package monitor scans periodically and keeps the latest channel ratings.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/shazow/wifichan/internal/metrics"
	"github.com/shazow/wifichan/wifi"
	"github.com/shazow/wifichan/wifi/rating"
)

// Recorder persists scans.
type Recorder interface {
	Record(ctx context.Context, at time.Time, aps []wifi.AccessPoint) (string, error)
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// BandRating is the rating of every channel of one band.
type BandRating struct {
	Band    wifi.Band
	Ratings []rating.ChannelRating
	Best    []rating.ChannelCount
}

// Snapshot is the result of the last completed scan.
type Snapshot struct {
	At              time.Time
	WirelessEnabled bool
	AccessPoints    []wifi.AccessPoint
	Bands           []BandRating
}

// Band returns the rating of band, if it was rated.
func (s Snapshot) Band(band wifi.Band) (BandRating, bool) {
	for _, b := range s.Bands {
		if b.Band == band {
			return b, true
		}
	}
	return BandRating{}, false
}

type Config struct {
	Backend     wifi.Backend
	Interval    time.Duration
	Filter      wifi.Filter
	CountryCode string

	// History and Metrics are optional.
	History   Recorder
	Retention time.Duration
	Metrics   *metrics.Collector
}

type Monitor struct {
	cfg Config
	now func() time.Time

	mu       sync.RWMutex
	snapshot *Snapshot
}

func New(cfg Config) *Monitor {
	return &Monitor{cfg: cfg, now: time.Now}
}

// Run scans immediately and then every interval until ctx is done. Scan
// failures are logged and do not stop the loop.
func (m *Monitor) Run(ctx context.Context) error {
	if m.cfg.Interval <= 0 {
		return fmt.Errorf("invalid scan interval %s", m.cfg.Interval)
	}
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		if err := m.Scan(ctx); err != nil {
			slog.Warn("scan failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Scan performs a single scan and replaces the snapshot. A disabled radio
// yields an empty snapshot rather than an error.
func (m *Monitor) Scan(ctx context.Context) error {
	start := m.now()
	aps, err := m.cfg.Backend.ScanAccessPoints(true)
	duration := m.now().Sub(start)

	if errors.Is(err, wifi.ErrWirelessDisabled) {
		m.cfg.Metrics.ObserveScan(metrics.ResultDisabled, duration)
		m.setSnapshot(&Snapshot{At: start})
		return nil
	}
	if err != nil {
		m.cfg.Metrics.ObserveScan(metrics.ResultError, duration)
		return fmt.Errorf("scan: %w", err)
	}
	m.cfg.Metrics.ObserveScan(metrics.ResultOK, duration)

	aps = m.cfg.Filter.Apply(aps)
	wifi.SortAccessPoints(aps, wifi.SortByStrength)
	r := rating.New(aps)

	snapshot := &Snapshot{
		At:              start,
		WirelessEnabled: true,
		AccessPoints:    aps,
	}
	for _, band := range wifi.Bands {
		if len(m.cfg.Filter.Bands) > 0 && !slices.Contains(m.cfg.Filter.Bands, band) {
			continue
		}
		channels := band.Channels(m.cfg.CountryCode)
		br := BandRating{
			Band:    band,
			Ratings: r.Ratings(channels),
			Best:    r.BestChannels(band.Preferred(m.cfg.CountryCode)),
		}
		snapshot.Bands = append(snapshot.Bands, br)
		m.cfg.Metrics.SetRatings(band, br.Ratings, br.Best)
	}
	m.cfg.Metrics.SetAccessPoints(len(r.AccessPoints()))
	m.setSnapshot(snapshot)

	slog.Debug("scan complete", "access_points", len(aps), "duration", duration)

	if m.cfg.History != nil {
		m.record(ctx, start, aps)
	}
	return nil
}

func (m *Monitor) record(ctx context.Context, at time.Time, aps []wifi.AccessPoint) {
	if _, err := m.cfg.History.Record(ctx, at, aps); err != nil {
		slog.Warn("failed to record scan", "error", err)
		return
	}
	if m.cfg.Retention <= 0 {
		return
	}
	n, err := m.cfg.History.Prune(ctx, at.Add(-m.cfg.Retention))
	if err != nil {
		slog.Warn("failed to prune history", "error", err)
		return
	}
	if n > 0 {
		slog.Debug("pruned history", "scans", n)
	}
}

func (m *Monitor) setSnapshot(s *Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = s
}

// Snapshot returns the last scan result, or false before the first scan
// completed.
func (m *Monitor) Snapshot() (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snapshot == nil {
		return Snapshot{}, false
	}
	return *m.snapshot, true
}
