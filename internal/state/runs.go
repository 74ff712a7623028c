package state

import (
	"fmt"
	"time"
)

// Run result values.
const (
	ResultPassed = "passed"
	ResultFailed = "failed"
)

// Run is one recorded harness execution.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Result     string
	Detail     string
}

// Outcome is one version's recorded check result within a run.
type Outcome struct {
	RunID         string
	Position      int
	VersionName   string
	VersionRoot   string
	VersionString string
	ExitCode      int
	Passed        bool
}

// RecordRun inserts a run and its per-version outcomes in one transaction.
func (db *DB) RecordRun(run Run, outcomes []Outcome) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO runs (id, started_at, finished_at, result, detail) VALUES (?, ?, ?, ?, ?)",
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		run.Result,
		run.Detail,
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, o := range outcomes {
		if _, err := tx.Exec(
			`INSERT INTO outcomes
			 (run_id, position, version_name, version_root, version_string, exit_code, passed)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, o.VersionName, o.VersionRoot, o.VersionString, o.ExitCode, o.Passed,
		); err != nil {
			return fmt.Errorf("failed to insert outcome %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. A limit of 0 means
// no limit.
func (db *DB) ListRuns(limit int) ([]*Run, error) {
	query := "SELECT id, started_at, finished_at, result, detail FROM runs ORDER BY started_at DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &started, &finished, &r.Result, &r.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("invalid started_at for run %s: %w", r.ID, err)
		}
		if r.FinishedAt, err = time.Parse(time.RFC3339, finished); err != nil {
			return nil, fmt.Errorf("invalid finished_at for run %s: %w", r.ID, err)
		}
		runs = append(runs, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

// RunOutcomes returns a run's per-version outcomes in loop order.
func (db *DB) RunOutcomes(runID string) ([]*Outcome, error) {
	rows, err := db.Query(
		`SELECT run_id, position, version_name, version_root, version_string, exit_code, passed
		 FROM outcomes WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []*Outcome
	for rows.Next() {
		var o Outcome
		if err := rows.Scan(
			&o.RunID, &o.Position, &o.VersionName, &o.VersionRoot,
			&o.VersionString, &o.ExitCode, &o.Passed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		outcomes = append(outcomes, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outcomes: %w", err)
	}
	return outcomes, nil
}
