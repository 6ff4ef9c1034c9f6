// Package geocache keeps reverse geocoding results in a SQLite file so a
// restarted service does not pay for lookups it has already made.
package geocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/couchcryptid/storm-data-climo/internal/domain"
)

// Store is a Geocoder decorator backed by SQLite. Results are keyed by the
// coordinate rounded to 0.1° and only non-empty results are stored.
type Store struct {
	db     *sql.DB
	inner  domain.Geocoder
	logger *slog.Logger
}

// Open opens or creates the cache database at path.
func Open(path string, inner domain.Geocoder, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open geocode cache: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, inner: inner, logger: logger}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS reverse_geocodes (
		lat_tenths INTEGER NOT NULL,
		lon_tenths INTEGER NOT NULL,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		formatted_address TEXT NOT NULL,
		place_name TEXT NOT NULL,
		confidence REAL NOT NULL,
		fetched_at TEXT NOT NULL,
		PRIMARY KEY (lat_tenths, lon_tenths)
	)`)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func tenths(v float64) int64 {
	return int64(math.Round(v * 10))
}

// ReverseGeocode answers from the database when it can and otherwise asks the
// wrapped geocoder. Database failures are logged and bypassed.
func (s *Store) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	latKey, lonKey := tenths(lat), tenths(lon)

	var res domain.GeocodingResult
	err := s.db.QueryRowContext(ctx, `
		SELECT lat, lon, formatted_address, place_name, confidence
		FROM reverse_geocodes WHERE lat_tenths = ? AND lon_tenths = ?`,
		latKey, lonKey,
	).Scan(&res.Lat, &res.Lon, &res.FormattedAddress, &res.PlaceName, &res.Confidence)
	switch {
	case err == nil:
		return res, nil
	case !errors.Is(err, sql.ErrNoRows):
		s.logger.Warn("geocode cache read failed", "error", err)
	}

	res, err = s.inner.ReverseGeocode(ctx, lat, lon)
	if err != nil || res.FormattedAddress == "" {
		return res, err
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO reverse_geocodes
			(lat_tenths, lon_tenths, lat, lon, formatted_address, place_name, confidence, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		latKey, lonKey, res.Lat, res.Lon, res.FormattedAddress, res.PlaceName, res.Confidence,
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		s.logger.Warn("geocode cache write failed", "error", err)
	}
	return res, nil
}

// Len returns the number of stored results.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reverse_geocodes").Scan(&n); err != nil {
		return 0, fmt.Errorf("count geocodes: %w", err)
	}
	return n, nil
}
