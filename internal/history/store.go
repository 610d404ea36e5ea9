package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Status is the outcome of a recorded job.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	// StatusRejected marks jobs refused before any work, such as bad input paths.
	StatusRejected Status = "rejected"
)

// timestampLayout is fixed width so stored values sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DefaultListLimit bounds List when the caller passes a non-positive limit.
const DefaultListLimit = 20

// Entry is one ledger row.
type Entry struct {
	ID                int64
	JobID             string
	VideoPath         string
	ImagePath         string
	Style             string
	IntroSeconds      float64
	TransitionSeconds float64
	Status            Status
	OutputPath        string
	ErrorMessage      string
	StartedAt         time.Time
	FinishedAt        time.Time
}

// Elapsed is the wall time between start and finish.
func (e Entry) Elapsed() time.Duration {
	if e.FinishedAt.Before(e.StartedAt) {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}

// Store manages the job ledger backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or connects to the ledger at path and applies migrations.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Connection pragmas apply per connection; one connection keeps them in
	// effect for every statement and serializes concurrent writers.
	db.SetMaxOpenConns(1)

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

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends an entry and returns it with its row id.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if strings.TrimSpace(entry.JobID) == "" {
		return Entry{}, errors.New("record job: job id is empty")
	}
	if entry.Status == "" {
		return Entry{}, errors.New("record job: status is empty")
	}
	if entry.FinishedAt.IsZero() {
		entry.FinishedAt = time.Now()
	}
	if entry.StartedAt.IsZero() {
		entry.StartedAt = entry.FinishedAt
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO jobs (
            job_id, video_path, image_path, style, intro_seconds, transition_seconds,
            status, output_path, error_message, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.JobID,
		entry.VideoPath,
		entry.ImagePath,
		entry.Style,
		entry.IntroSeconds,
		entry.TransitionSeconds,
		string(entry.Status),
		nullableString(entry.OutputPath),
		nullableString(entry.ErrorMessage),
		entry.StartedAt.UTC().Format(timestampLayout),
		entry.FinishedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	return entry, nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, job_id, video_path, image_path, style, intro_seconds, transition_seconds,
            status, output_path, error_message, started_at, finished_at
        FROM jobs ORDER BY started_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return entries, nil
}

// Counts returns the number of entries per status.
func (s *Store) Counts(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(1) FROM jobs GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan job count: %w", err)
		}
		counts[Status(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job counts: %w", err)
	}
	return counts, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		entry              Entry
		status             string
		output, errMessage sql.NullString
		started, finished  string
	)
	if err := rows.Scan(
		&entry.ID,
		&entry.JobID,
		&entry.VideoPath,
		&entry.ImagePath,
		&entry.Style,
		&entry.IntroSeconds,
		&entry.TransitionSeconds,
		&status,
		&output,
		&errMessage,
		&started,
		&finished,
	); err != nil {
		return Entry{}, fmt.Errorf("scan job: %w", err)
	}
	entry.Status = Status(status)
	entry.OutputPath = output.String
	entry.ErrorMessage = errMessage.String
	entry.StartedAt = parseTimestamp(started)
	entry.FinishedAt = parseTimestamp(finished)
	return entry, nil
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(timestampLayout, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
