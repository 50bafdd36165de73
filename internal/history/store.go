package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped when the schema changes; a mismatched database
// must be deleted (the history is an operational log, not primary data).
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match
// the expected version.
var ErrSchemaMismatch = errors.New("history schema version mismatch")

// Outcome classifies how a job ended.
type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeDeclined  Outcome = "declined"
	OutcomeFailed    Outcome = "failed"
)

// Record is one finished job.
type Record struct {
	ID          string
	URL         string
	Mode        string
	RequesterID int64
	Outcome     Outcome
	SizeBytes   int64
	Detail      string
	CreatedAt   time.Time
	FinishedAt  time.Time
}

// Store manages job history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database inside dir.
func Open(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("history directory required")
	}
	dbPath := filepath.Join(dir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// Record inserts a finished job.
func (s *Store) Record(ctx context.Context, rec Record) error {
	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("record id required")
	}
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now().UTC()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = rec.FinishedAt
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, url, mode, requester_id, outcome, size_bytes, detail, created_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.URL, rec.Mode, rec.RequesterID, string(rec.Outcome),
		rec.SizeBytes, rec.Detail, rec.CreatedAt.UTC(), rec.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert history record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, mode, requester_id, outcome, size_bytes, detail, created_at, finished_at
		 FROM jobs ORDER BY finished_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var outcome string
		if err := rows.Scan(&rec.ID, &rec.URL, &rec.Mode, &rec.RequesterID, &outcome,
			&rec.SizeBytes, &rec.Detail, &rec.CreatedAt, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}
		rec.Outcome = Outcome(outcome)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Summary aggregates outcome counts.
type Summary struct {
	Total     int
	Delivered int
	Declined  int
	Failed    int
}

// Summarize returns aggregate outcome counts for all recorded jobs.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(1) FROM jobs GROUP BY outcome`)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize history: %w", err)
	}
	defer rows.Close()

	var summary Summary
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return Summary{}, fmt.Errorf("scan summary row: %w", err)
		}
		summary.Total += count
		switch Outcome(outcome) {
		case OutcomeDelivered:
			summary.Delivered = count
		case OutcomeDeclined:
			summary.Declined = count
		case OutcomeFailed:
			summary.Failed = count
		}
	}
	return summary, rows.Err()
}
