package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shazow/wifichan/wifi"
)

// Scan summarizes one recorded scan.
type Scan struct {
	ID           string
	At           time.Time
	AccessPoints int
}

// Sample is the level of one access point in one scan.
type Sample struct {
	At        time.Time
	SSID      string
	Frequency uint
	Width     wifi.ChannelWidth
	Level     int
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record stores a scan taken at the given time and returns its id.
func (s *Store) Record(ctx context.Context, at time.Time, aps []wifi.AccessPoint) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin record tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `INSERT INTO scans(scan_id, at) VALUES (?, ?)`, id, toUnixMillis(at)); err != nil {
		return "", fmt.Errorf("insert scan: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO samples(scan_id, bssid, ssid, frequency, width, level, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for _, ap := range aps {
		active := 0
		if ap.IsActive {
			active = 1
		}
		_, err := stmt.ExecContext(ctx, id, strings.ToLower(ap.BSSID), ap.SSID, int64(ap.Frequency), int64(ap.ChannelWidth()), ap.Signal(), active)
		if err != nil {
			return "", fmt.Errorf("insert sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit record tx: %w", err)
	}
	return id, nil
}

// Recent returns up to limit scans, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Scan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.scan_id, s.at, COUNT(p.scan_id)
		FROM scans s
		LEFT JOIN samples p ON p.scan_id = s.scan_id
		GROUP BY s.scan_id, s.at
		ORDER BY s.at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var out []Scan
	for rows.Next() {
		var (
			scan Scan
			atMs int64
		)
		if err := rows.Scan(&scan.ID, &atMs, &scan.AccessPoints); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		scan.At = fromUnixMillis(atMs)
		out = append(out, scan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scans: %w", err)
	}
	return out, nil
}

// Series returns the samples of one BSSID recorded since the given time,
// oldest first.
func (s *Store) Series(ctx context.Context, bssid string, since time.Time) ([]Sample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.at, p.ssid, p.frequency, p.width, p.level
		FROM samples p
		JOIN scans s ON s.scan_id = p.scan_id
		WHERE p.bssid = ? AND s.at >= ?
		ORDER BY s.at ASC
	`, strings.ToLower(bssid), toUnixMillis(since))
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		var (
			sample    Sample
			atMs      int64
			frequency int64
			width     int64
		)
		if err := rows.Scan(&atMs, &sample.SSID, &frequency, &width, &sample.Level); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		sample.At = fromUnixMillis(atMs)
		sample.Frequency = uint(frequency)
		sample.Width = wifi.ChannelWidth(width)
		out = append(out, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return out, nil
}

// Prune deletes scans older than before and returns how many were removed.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scans WHERE at < ?`, toUnixMillis(before))
	if err != nil {
		return 0, fmt.Errorf("prune scans: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune scans: %w", err)
	}
	return n, nil
}
