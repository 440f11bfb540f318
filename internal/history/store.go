package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run statuses recorded in the ledger.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Record describes one caption-generation run.
type Record struct {
	ID                 int64
	RunID              string
	Source             string
	Output             string
	Format             string
	Model              string
	Language           string
	MonoCacheHit       bool
	TranscriptCacheHit bool
	Duration           time.Duration
	Status             string
	ErrorMessage       string
	CreatedAt          time.Time
}

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id               TEXT NOT NULL,
    source               TEXT NOT NULL,
    output               TEXT NOT NULL DEFAULT '',
    format               TEXT NOT NULL DEFAULT '',
    model                TEXT NOT NULL DEFAULT '',
    language             TEXT NOT NULL DEFAULT '',
    mono_cache_hit       INTEGER NOT NULL DEFAULT 0,
    transcript_cache_hit INTEGER NOT NULL DEFAULT 0,
    duration_ms          INTEGER NOT NULL DEFAULT 0,
    status               TEXT NOT NULL,
    error_message        TEXT NOT NULL DEFAULT '',
    created_at           TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Open initializes or connects to the history database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
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

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Append inserts a run record and returns its row ID.
func (s *Store) Append(ctx context.Context, rec Record) (int64, error) {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (
            run_id, source, output, format, model, language,
            mono_cache_hit, transcript_cache_hit, duration_ms,
            status, error_message, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.Source,
		rec.Output,
		rec.Format,
		rec.Model,
		rec.Language,
		boolToInt(rec.MonoCacheHit),
		boolToInt(rec.TranscriptCacheHit),
		rec.Duration.Milliseconds(),
		rec.Status,
		rec.ErrorMessage,
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// List returns the most recent runs, newest first. A non-positive limit
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, run_id, source, output, format, model, language,
        mono_cache_hit, transcript_cache_hit, duration_ms,
        status, error_message, created_at
        FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var monoHit, transcriptHit int
		var durationMS int64
		var createdAt string
		if err := rows.Scan(
			&rec.ID, &rec.RunID, &rec.Source, &rec.Output, &rec.Format,
			&rec.Model, &rec.Language, &monoHit, &transcriptHit,
			&durationMS, &rec.Status, &rec.ErrorMessage, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.MonoCacheHit = monoHit != 0
		rec.TranscriptCacheHit = transcriptHit != 0
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			rec.CreatedAt = parsed
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear removes all run records.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs`); err != nil {
		return fmt.Errorf("clear runs: %w", err)
	}
	return nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
