package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned when no run matches the requested id.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `id, seq, input, condition, fields, line_limit, output,
	processed, kept, dropped, unique_count, limit_reached, query_hash, result_hash`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run        Run
		fieldsJSON string
		limit      sql.NullInt64
	)
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.Input,
		&run.Condition,
		&fieldsJSON,
		&limit,
		&run.Output,
		&run.Processed,
		&run.Kept,
		&run.Dropped,
		&run.Unique,
		&run.LimitReached,
		&run.QueryHash,
		&run.ResultHash,
	)
	if err != nil {
		return Run{}, err
	}

	if err := json.Unmarshal([]byte(fieldsJSON), &run.Fields); err != nil {
		return Run{}, fmt.Errorf("run %s: unmarshal fields: %w", run.ID, err)
	}
	if len(run.Fields) == 0 {
		run.Fields = nil
	}
	if limit.Valid {
		n := int(limit.Int64)
		run.Limit = &n
	}
	return run, nil
}

// ListRuns returns every run in write order.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	return collectRuns(rows)
}

func collectRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ListRunsByQuery returns the runs recorded with queryHash, in write order.
func (s *Store) ListRunsByQuery(ctx context.Context, queryHash string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE query_hash = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, queryHash)
	if err != nil {
		return nil, fmt.Errorf("list runs by query: %w", err)
	}
	defer rows.Close()
	return collectRuns(rows)
}

// ReadRun returns the run with the given id.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// LatestRun returns the most recently written run.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY seq DESC LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: ledger is empty", ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read latest run: %w", err)
	}
	return run, nil
}

// ReadResults returns a run's output lines in their stored order.
func (s *Store) ReadResults(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT record FROM run_results
		WHERE run_id = ?
		ORDER BY ordinal ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read results %s: %w", runID, err)
	}
	defer rows.Close()

	var records []string
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("read results %s: %w", runID, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read results %s: %w", runID, err)
	}
	return records, nil
}
