package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// WriteRun records run and its output lines in one transaction.
// run.Seq is ignored and assigned by the store; the stored value is returned.
// records are stored in the order given.
func (s *Store) WriteRun(ctx context.Context, run Run, records []string) (int64, error) {
	if run.ID == "" {
		return 0, fmt.Errorf("write run: empty run id")
	}

	fieldsJSON, err := marshalFields(run.Fields)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write run: next seq: %w", err)
	}

	var limit sql.NullInt64
	if run.Limit != nil {
		limit = sql.NullInt64{Int64: int64(*run.Limit), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, input, condition, fields, line_limit, output, processed, kept, dropped, unique_count, limit_reached,
		 query_hash, result_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		seq,
		run.Input,
		run.Condition,
		fieldsJSON,
		limit,
		run.Output,
		run.Processed,
		run.Kept,
		run.Dropped,
		run.Unique,
		run.LimitReached,
		run.QueryHash,
		run.ResultHash,
	)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_results (run_id, ordinal, record) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("write run: prepare results: %w", err)
	}
	defer stmt.Close()

	for i, record := range records {
		if _, err := stmt.ExecContext(ctx, run.ID, i, record); err != nil {
			return 0, fmt.Errorf("write run: result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write run: commit: %w", err)
	}
	return seq, nil
}

func marshalFields(fields []string) (string, error) {
	if fields == nil {
		fields = []string{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("marshal fields: %w", err)
	}
	return string(data), nil
}
