package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"github.com/codewithboateng/purslint/internal/ir"
)

// DB is the concrete storage backed by SQLite.
type DB struct {
	conn *sql.DB
}

// OpenSQLite opens (and creates if missing) a SQLite DB at path.
func OpenSQLite(path string) (*DB, error) {
	// Pragmas via DSN keep it portable with the modernc driver.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	c, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &DB{conn: c}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// CreateSchema ensures tables (and convenience views) exist.
func (db *DB) CreateSchema() error {
	_, err := db.conn.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id         TEXT PRIMARY KEY,
  started_at TEXT,          -- RFC3339
  source     TEXT,
  ir_version TEXT,
  files      INTEGER,
  violations INTEGER,
  run_json   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS violations (
  id        TEXT,
  run_id    TEXT NOT NULL,
  file      TEXT,
  line      INTEGER,
  col       INTEGER,
  rule_id   TEXT,
  category  TEXT,
  severity  TEXT,
  message   TEXT,
  evidence  TEXT,
  PRIMARY KEY (id, run_id),
  FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_violations_run ON violations(run_id);
CREATE INDEX IF NOT EXISTS idx_violations_rule ON violations(rule_id);

CREATE TABLE IF NOT EXISTS waivers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  rule_id     TEXT NOT NULL,
  file        TEXT,              -- optional substring; NULL = any
  pattern_sub TEXT,              -- optional substring to match evidence/message
  reason      TEXT NOT NULL,
  expires_at  TEXT NOT NULL,     -- RFC3339Nano
  created_by  TEXT NOT NULL,
  created_at  TEXT NOT NULL,
  revoked_at  TEXT               -- NULL = active
);

-- ------------------------------------------------------------------
-- Convenience views for summary queries (db-summary tooling)
-- ------------------------------------------------------------------
CREATE VIEW IF NOT EXISTS checked_files AS
SELECT DISTINCT run_id, file
FROM violations
WHERE file IS NOT NULL;

CREATE VIEW IF NOT EXISTS rule_totals AS
SELECT run_id, rule_id, severity, COUNT(1) AS total
FROM violations
GROUP BY run_id, rule_id, severity;
`)
	if err != nil {
		return err
	}
	return nil
}

// SaveRun upserts a run JSON and (re)writes its violation rows.
func (db *DB) SaveRun(run *ir.Run) error {
	b, err := json.Marshal(run)
	if err != nil {
		return err
	}
	ts := run.StartedAt.UTC().Format(time.RFC3339Nano)

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, started_at, source, ir_version, files, violations, run_json)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET started_at=excluded.started_at, source=excluded.source,
           ir_version=excluded.ir_version, files=excluded.files, violations=excluded.violations,
           run_json=excluded.run_json`,
		run.ID, ts, run.Source, run.IRVersion, len(run.Files), len(run.Violations), string(b),
	); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM violations WHERE run_id = ?`, run.ID); err != nil {
		return err
	}
	if len(run.Violations) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO violations
			(id, run_id, file, line, col, rule_id, category, severity, message, evidence)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, v := range run.Violations {
			if _, err := stmt.Exec(
				v.ID,
				run.ID,
				v.File,
				v.Line,
				v.Column,
				v.RuleID,
				v.Category,
				v.Severity,
				v.Message,
				v.Evidence,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// LoadRun returns the full run (from stored JSON).
func (db *DB) LoadRun(id string) (ir.Run, error) {
	var s string
	row := db.conn.QueryRow(`SELECT run_json FROM runs WHERE id = ?`, id)
	if err := row.Scan(&s); err != nil {
		return ir.Run{}, err
	}
	var run ir.Run
	if err := json.Unmarshal([]byte(s), &run); err != nil {
		return ir.Run{}, err
	}
	return run, nil
}
