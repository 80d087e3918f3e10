// Package storage provides SQLite-based persistence for finished runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/space-dodger/internal/scores"
)

// Retention decides what Record keeps.
type Retention string

const (
	RetainHistory Retention = "history" // Append-only log of every run
	RetainTopN    Retention = "top_n"   // Only the best Limit runs survive
)

// Options configures a Store.
type Options struct {
	Limit  int       // Entries returned by Load; defaults to scores.DefaultLimit
	Retain Retention // Defaults to RetainHistory
}

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db     *sql.DB
	limit  int
	retain Retention
}

const timeLayout = "2006-01-02 15:04:05"

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string, opts Options) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	if opts.Limit <= 0 {
		opts.Limit = scores.DefaultLimit
	}
	switch opts.Retain {
	case RetainHistory, RetainTopN:
	case "":
		opts.Retain = RetainHistory
	default:
		db.Close()
		return nil, fmt.Errorf("storage: unknown retention %q", opts.Retain)
	}

	store := &Store{db: db, limit: opts.Limit, retain: opts.Retain}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			mode TEXT NOT NULL DEFAULT '',
			lat REAL NOT NULL DEFAULT 0,
			lng REAL NOT NULL DEFAULT 0,
			has_location INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(score DESC, id ASC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record saves a finished run. With RetainTopN, runs that fall out of the
// best Limit are deleted in the same transaction.
func (s *Store) Record(ctx context.Context, e scores.Entry) error {
	if err := scores.Validate(e); err != nil {
		return err
	}

	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	if !e.HasLocation {
		e.Lat, e.Lng = 0, 0
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (name, score, mode, lat, lng, has_location, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Name, e.Score, e.Mode, e.Lat, e.Lng, e.HasLocation, created.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save run: %w", err)
	}

	if s.retain == RetainTopN {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM runs WHERE id NOT IN (
				SELECT id FROM runs ORDER BY score DESC, id ASC LIMIT ?
			)`,
			s.limit,
		)
		if err != nil {
			return fmt.Errorf("storage: cannot trim runs: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// Load retrieves the top runs, best first. Equal scores keep insertion order.
func (s *Store) Load(ctx context.Context) ([]scores.Entry, error) {
	return s.query(ctx,
		`SELECT name, score, mode, lat, lng, has_location, created_at
		 FROM runs
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		s.limit,
	)
}

// History retrieves every stored run in the order it was recorded.
func (s *Store) History(ctx context.Context) ([]scores.Entry, error) {
	return s.query(ctx,
		`SELECT name, score, mode, lat, lng, has_location, created_at
		 FROM runs
		 ORDER BY id ASC`,
	)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]scores.Entry, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []scores.Entry
	for rows.Next() {
		var e scores.Entry
		var createdAt any
		if err := rows.Scan(&e.Name, &e.Score, &e.Mode, &e.Lat, &e.Lng, &e.HasLocation, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the best score. Returns 0 if no runs exist.
func (s *Store) HighScore(ctx context.Context) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT MAX(score) FROM runs").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// Clear deletes all runs.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// Stats contains aggregated statistics over stored runs.
type Stats struct {
	Runs       int
	HighScore  int
	AvgScore   float64
	Located    int
	LastPlayed time.Time
}

// Stats returns aggregated statistics for the stored runs.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(CASE WHEN has_location != 0 AND lat != 0 THEN 1 ELSE 0 END), 0)
		 FROM runs`,
	).Scan(&stats.Runs, &stats.HighScore, &stats.AvgScore, &stats.Located)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRowContext(ctx,
		`SELECT created_at FROM runs ORDER BY id DESC LIMIT 1`,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// parseTime handles both time.Time and string datetime columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

var _ scores.Store = (*Store)(nil)
var _ scores.HistoryLoader = (*Store)(nil)
