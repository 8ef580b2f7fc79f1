// Package history remembers which companies earlier ingest runs have
// already written, so new ones can be flagged.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
  id         TEXT PRIMARY KEY,
  started_at TEXT NOT NULL,
  fetched    INTEGER NOT NULL DEFAULT 0,
  written    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS companies (
  slug       TEXT PRIMARY KEY,
  name       TEXT NOT NULL,
  first_seen TEXT NOT NULL,
  last_seen  TEXT NOT NULL,
  last_score INTEGER NOT NULL DEFAULT 0,
  first_run  TEXT NOT NULL,
  last_run   TEXT NOT NULL
);
`

// Store is a sqlite backed run history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history %q: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StartRun registers a new ingest run and returns its id.
func (s *Store) StartRun(ctx context.Context, fetched int) (string, error) {
	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs(id, started_at, fetched) VALUES(?,?,?);`,
		id, s.timestamp(), fetched,
	)
	if err != nil {
		return "", fmt.Errorf("start run: %w", err)
	}
	return id, nil
}

// FinishRun stores how many records the run wrote.
func (s *Store) FinishRun(ctx context.Context, runID string, written int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE runs SET written = ? WHERE id = ?;`, written, runID)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	return nil
}

// Record upserts a company seen in runID. It reports true when the company
// was first seen in this run.
func (s *Store) Record(ctx context.Context, runID, slug, name string, score int) (bool, error) {
	if slug == "" {
		return false, errors.New("empty slug")
	}

	now := s.timestamp()

	var firstRun string
	err := s.db.QueryRowContext(ctx, `SELECT first_run FROM companies WHERE slug = ?;`, slug).Scan(&firstRun)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.ExecContext(ctx, `
INSERT INTO companies(slug, name, first_seen, last_seen, last_score, first_run, last_run)
VALUES(?,?,?,?,?,?,?);`, slug, name, now, now, score, runID, runID)
		if err != nil {
			return false, fmt.Errorf("insert company %s: %w", slug, err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("lookup company %s: %w", slug, err)
	}

	_, err = s.db.ExecContext(ctx, `
UPDATE companies SET name = ?, last_seen = ?, last_score = ?, last_run = ?
WHERE slug = ?;`, name, now, score, runID, slug)
	if err != nil {
		return false, fmt.Errorf("update company %s: %w", slug, err)
	}

	return firstRun == runID, nil
}

// Runs returns the number of recorded runs.
func (s *Store) Runs(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
