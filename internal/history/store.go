// Package history persists gate run outcomes for trend reporting. It is an
// external collaborator of the engine: runs are recorded after the decision
// is made and read only by the history commands, never by a live gate run.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the SQLite database holding gate run history.
type Store struct {
	conn *sql.DB
	path string
}

// DefaultPath returns ~/.qualgate/history.db, creating the directory if
// needed.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	dir := filepath.Join(home, ".qualgate")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}
	return filepath.Join(dir, "history.db"), nil
}

// Open opens or creates the history database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping history db: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	return &Store{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (
    version    INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS gate_runs (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id        TEXT NOT NULL,
    repo          TEXT NOT NULL,
    outcome       TEXT NOT NULL CHECK(outcome IN ('PASS','WARN','BLOCK')),
    violations    INTEGER NOT NULL,
    critical      INTEGER NOT NULL DEFAULT 0,
    tool_failures INTEGER NOT NULL DEFAULT 0,
    coverage_pct  REAL,
    incomplete    BOOLEAN NOT NULL DEFAULT FALSE,
    duration_ms   INTEGER,
    timestamp     TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_gate_runs_repo ON gate_runs(repo, timestamp DESC);
`

// Migrate applies the schema. It is idempotent.
func (s *Store) Migrate() error {
	if _, err := s.conn.Exec(schemaV1); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if _, err := s.conn.Exec(
		`INSERT OR IGNORE INTO schema_version (version) VALUES (1)`,
	); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}

// Run is one recorded gate run.
type Run struct {
	ID           int
	RunID        string
	Repo         string
	Outcome      string
	Violations   int
	Critical     int
	ToolFailures int
	CoveragePct  sql.NullFloat64
	Incomplete   bool
	DurationMs   int64
	Timestamp    string
}

// Record inserts a gate run.
func (s *Store) Record(run Run) error {
	_, err := s.conn.Exec(
		`INSERT INTO gate_runs (run_id, repo, outcome, violations, critical, tool_failures, coverage_pct, incomplete, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Repo, run.Outcome, run.Violations, run.Critical,
		run.ToolFailures, run.CoveragePct, run.Incomplete, run.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("record gate run: %w", err)
	}
	return nil
}

// List returns the most recent runs for a repo, newest first.
func (s *Store) List(repo string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.conn.Query(
		`SELECT id, run_id, repo, outcome, violations, critical, tool_failures, coverage_pct, incomplete, duration_ms, timestamp
		 FROM gate_runs WHERE repo = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		repo, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list gate runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.Repo, &r.Outcome, &r.Violations, &r.Critical,
			&r.ToolFailures, &r.CoveragePct, &r.Incomplete, &r.DurationMs, &r.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan gate run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
