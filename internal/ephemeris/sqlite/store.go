// Package sqlite provides a SQLite-backed ephemeris table.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/almuten/internal/ephemeris"
	"github.com/ppiankov/almuten/internal/model"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// Store persists tabulated positions in SQLite and serves them as an
// ephemeris.Source.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (or creates) a SQLite ephemeris store and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, model.ConfigErrorf("ephemeris.path", nil, "storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, model.ConfigErrorf("ephemeris.path", err, "open sqlite db")
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, model.ConfigErrorf("ephemeris.path", err, "ping sqlite db")
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, model.ConfigErrorf("ephemeris.path", err, "apply schema")
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Import upserts rows in a single transaction and returns how many were written.
func (s *Store) Import(ctx context.Context, rows []ephemeris.Row) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO positions (body, at, longitude, latitude, speed)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (body, at) DO UPDATE SET
		   longitude = excluded.longitude,
		   latitude = excluded.latitude,
		   speed = excluded.speed`)
	if err != nil {
		return 0, fmt.Errorf("prepare import: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range rows {
		if !r.Body.Valid() {
			return 0, model.InputErrorf("body", "row %d: unknown body %q", i, r.Body)
		}
		if _, err := stmt.ExecContext(ctx, string(r.Body), toMillis(r.Time), r.Longitude, r.Latitude, r.Speed); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(rows), nil
}

// Count returns the number of stored rows for a body
func (s *Store) Count(ctx context.Context, body model.Body) (int, error) {
	var n int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM positions WHERE body = ?`, string(body)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s rows: %w", body, err)
	}
	return n, nil
}

// Bracket implements ephemeris.Source
func (s *Store) Bracket(ctx context.Context, body model.Body, t time.Time) (ephemeris.Row, ephemeris.Row, error) {
	at := toMillis(t)
	before, err := s.row(ctx, body,
		`SELECT at, longitude, latitude, speed FROM positions
		 WHERE body = ? AND at <= ? ORDER BY at DESC LIMIT 1`, at)
	if err != nil {
		return ephemeris.Row{}, ephemeris.Row{}, err
	}
	if toMillis(before.Time) == at {
		return before, before, nil
	}
	after, err := s.row(ctx, body,
		`SELECT at, longitude, latitude, speed FROM positions
		 WHERE body = ? AND at > ? ORDER BY at ASC LIMIT 1`, at)
	if err != nil {
		return ephemeris.Row{}, ephemeris.Row{}, err
	}
	return before, after, nil
}

func (s *Store) row(ctx context.Context, body model.Body, query string, at int64) (ephemeris.Row, error) {
	var (
		r      = ephemeris.Row{Body: body}
		millis int64
	)
	err := s.sqlDB.QueryRowContext(ctx, query, string(body), at).Scan(&millis, &r.Longitude, &r.Latitude, &r.Speed)
	if errors.Is(err, sql.ErrNoRows) {
		return ephemeris.Row{}, ephemeris.CoverageError(body, fromMillis(at))
	}
	if err != nil {
		return ephemeris.Row{}, fmt.Errorf("query %s row: %w", body, err)
	}
	r.Time = fromMillis(millis)
	return r, nil
}

var _ ephemeris.Source = (*Store)(nil)
