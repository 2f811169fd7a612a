package storage

import (
	"database/sql"
	"time"

	"github.com/codewithboateng/purslint/internal/ir"
)

// ListRuns returns a lightweight list of runs with counts.
func (db *DB) ListRuns(limit, offset int) ([]RunRow, error) {
	const q = `
		SELECT id, started_at, source, ir_version, files, violations
		  FROM runs
		 ORDER BY started_at DESC, id DESC
		 LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var rr RunRow
		var startedAtStr string
		if err := rows.Scan(&rr.ID, &startedAtStr, &rr.Source, &rr.IRVersion, &rr.Files, &rr.Violations); err != nil {
			return nil, err
		}
		// Parse RFC3339Nano first, fallback to RFC3339
		if t, err := time.Parse(time.RFC3339Nano, startedAtStr); err == nil {
			rr.StartedAt = t
		} else if t2, err2 := time.Parse(time.RFC3339, startedAtStr); err2 == nil {
			rr.StartedAt = t2
		} else {
			rr.StartedAt = time.Time{}
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// ListViolations returns a run's violations at or above a minimum severity,
// in the report output order.
func (db *DB) ListViolations(runID, minSeverity string) ([]ir.Violation, error) {
	const q = `
		SELECT id, file, line, col, rule_id, category, severity, message, evidence
		  FROM violations
		 WHERE run_id = ?
		   AND (CASE severity WHEN 'ERROR' THEN 3 WHEN 'WARNING' THEN 2 ELSE 1 END)
		       >= (CASE ? WHEN 'ERROR' THEN 3 WHEN 'WARNING' THEN 2 ELSE 1 END)
		 ORDER BY file, line, col, rule_id, id`
	rows, err := db.conn.Query(q, runID, minSeverity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ir.Violation
	for rows.Next() {
		var v ir.Violation
		if err := rows.Scan(&v.ID, &v.File, &v.Line, &v.Column, &v.RuleID, &v.Category, &v.Severity, &v.Message, &v.Evidence); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (db *DB) HasRun(id string) (bool, error) {
	const q = `SELECT 1 FROM runs WHERE id = ? LIMIT 1`
	var one int
	err := db.conn.QueryRow(q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
