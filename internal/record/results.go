package record

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Results stores suite outcomes so regressions across simulator builds can be
// compared after the fact.
type Results struct {
	db *sql.DB
}

func OpenResults(path string) (*Results, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			endpoint TEXT NOT NULL,
			map TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS scenarios (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scenarios_run ON scenarios(run_id);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("schema: %w", err)
		}
	}

	return &Results{db: db}, nil
}

func (r *Results) Close() error { return r.db.Close() }

func (r *Results) BeginRun(startedAt time.Time, endpoint, mapName string) (int64, error) {
	res, err := r.db.Exec(
		`INSERT INTO runs (started_at, endpoint, map) VALUES (?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339), endpoint, mapName,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Results) RecordScenario(runID int64, name, status, message string, duration time.Duration) error {
	_, err := r.db.Exec(
		`INSERT INTO scenarios (run_id, name, status, message, duration_ms) VALUES (?, ?, ?, ?, ?)`,
		runID, name, status, message, duration.Milliseconds(),
	)
	return err
}

// Summary counts pass/fail scenarios for a run.
func (r *Results) Summary(runID int64) (passed, failed int, err error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM scenarios WHERE run_id = ? GROUP BY status`, runID)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return 0, 0, err
		}
		switch status {
		case "pass":
			passed = n
		case "fail":
			failed = n
		}
	}
	return passed, failed, rows.Err()
}
