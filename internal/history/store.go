// Package history keeps a persistent record of publish runs in SQLite.
package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/publish"
)

// Run is one recorded publish.
type Run struct {
	ID          int64
	RunID       string
	Outcome     publish.Outcome
	Artifact    string
	Destination string
	Bytes       int64
	Fingerprint string
	Title       string
	StartedAt   time.Time
	Duration    time.Duration
	Error       string
}

// RunFromResult converts a publish result into a history row.
func RunFromResult(res *publish.Result) Run {
	run := Run{
		RunID:       res.RunID,
		Outcome:     res.Outcome,
		Artifact:    res.ArtifactName,
		Bytes:       res.Bytes,
		Fingerprint: res.Fingerprint,
		Title:       res.Title,
		StartedAt:   res.StartedAt,
		Duration:    res.Duration,
	}
	if paths := res.Paths(); len(paths) > 0 {
		run.Destination = paths[0]
	}
	if res.Err != nil {
		run.Error = res.Err.Error()
	}
	return run
}

// Store is a SQLite-backed run history. Use ":memory:" for a throwaway store.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, errors.StoreError("create history directory").WithCause(err).
				WithContext("path", path).
				Build()
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.StoreError("open history database").WithCause(err).
			WithContext("path", path).
			Build()
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.StoreError("initialize history schema").WithCause(err).
			WithContext("path", path).
			Build()
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		outcome TEXT NOT NULL,
		artifact TEXT NOT NULL,
		destination TEXT NOT NULL DEFAULT '',
		bytes INTEGER NOT NULL DEFAULT 0,
		fingerprint TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		started_at INTEGER NOT NULL,
		duration_us INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_outcome ON runs(outcome);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record appends run and returns its row id.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, outcome, artifact, destination, bytes, fingerprint, title, started_at, duration_us, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, string(run.Outcome), run.Artifact, run.Destination, run.Bytes, run.Fingerprint, run.Title,
		run.StartedAt.UnixMicro(), run.Duration.Microseconds(), run.Error,
	)
	if err != nil {
		return 0, errors.StoreError("insert run").WithCause(err).Build()
	}
	id, err := out.LastInsertId()
	if err != nil {
		return 0, errors.StoreError("read run id").WithCause(err).Build()
	}
	return id, nil
}

// Recent returns up to limit runs, newest first. A non-positive limit returns all runs.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, outcome, artifact, destination, bytes, fingerprint, title, started_at, duration_us, error
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.StoreError("query runs").WithCause(err).Build()
	}
	defer func() { _ = rows.Close() }()
	return scanRuns(rows)
}

// LastPublished returns the newest run that copied the artifact, or nil.
func (s *Store) LastPublished(ctx context.Context) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, outcome, artifact, destination, bytes, fingerprint, title, started_at, duration_us, error
		 FROM runs WHERE outcome = ? ORDER BY id DESC LIMIT 1`, string(publish.OutcomePublished))
	if err != nil {
		return nil, errors.StoreError("query last published run").WithCause(err).Build()
	}
	defer func() { _ = rows.Close() }()

	runs, err := scanRuns(rows)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return &runs[0], nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	runs := make([]Run, 0)
	for rows.Next() {
		var r Run
		var outcome string
		var startedUS, durationUS int64
		if err := rows.Scan(&r.ID, &r.RunID, &outcome, &r.Artifact, &r.Destination, &r.Bytes,
			&r.Fingerprint, &r.Title, &startedUS, &durationUS, &r.Error); err != nil {
			return nil, errors.StoreError("scan run").WithCause(err).Build()
		}
		r.Outcome = publish.Outcome(outcome)
		r.StartedAt = time.UnixMicro(startedUS)
		r.Duration = time.Duration(durationUS) * time.Microsecond
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StoreError("iterate runs").WithCause(err).Build()
	}
	return runs, nil
}

// AfterPublish records res; it lets the store act as a publish hook.
func (s *Store) AfterPublish(ctx context.Context, res *publish.Result) error {
	_, err := s.Record(ctx, RunFromResult(res))
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
