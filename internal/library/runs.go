package library

import (
	"context"
	"fmt"
)

// AddRun records a finished scan invocation.
func (s *Store) AddRun(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, series_count, failed_count, warning_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt, r.FinishedAt, r.Series, r.Failed, r.Warnings,
	)
	if err != nil {
		return fmt.Errorf("add run %s: %w", r.ID, mapSQLiteError(err))
	}
	return nil
}

// LastRun returns the most recently finished run.
func (s *Store) LastRun(ctx context.Context) (*Run, error) {
	r := &Run{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, series_count, failed_count, warning_count
		FROM runs ORDER BY finished_at DESC LIMIT 1`,
	).Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Series, &r.Failed, &r.Warnings)
	if err != nil {
		return nil, fmt.Errorf("last run: %w", mapSQLiteError(err))
	}
	return r, nil
}
