package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vmunix/tvrecon/internal/episode"
)

func seriesID(ctx context.Context, q querier, name, runID string) (int64, error) {
	_, err := q.ExecContext(ctx, `
		INSERT INTO series (name, last_run_id, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET last_run_id = excluded.last_run_id, updated_at = excluded.updated_at`,
		name, runID, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("upsert series: %w", mapSQLiteError(err))
	}
	var id int64
	if err := q.QueryRowContext(ctx, "SELECT id FROM series WHERE name = ?", name).Scan(&id); err != nil {
		return 0, fmt.Errorf("series %q: %w", name, mapSQLiteError(err))
	}
	return id, nil
}

func insertRecord(ctx context.Context, q querier, sid int64, r episode.Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	var canonical sql.NullString
	if r.Canonical != "" {
		canonical = sql.NullString{String: r.Canonical, Valid: true}
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO records (series_id, season, episode, subtitle, standard_name, matched, pass, canonical_path, watched, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sid, r.Season, r.Episode, r.Subtitle, r.StandardName, r.Matched, r.Pass, canonical, r.Watched, string(data),
	)
	if err != nil {
		return fmt.Errorf("insert record %s: %w", r.Key(), mapSQLiteError(err))
	}
	return nil
}

func saveSeries(ctx context.Context, q querier, doc *episode.Document, runID string) error {
	sid, err := seriesID(ctx, q, doc.SeriesName, runID)
	if err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, "DELETE FROM records WHERE series_id = ?", sid); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	for _, r := range doc.Records() {
		if err := insertRecord(ctx, q, sid, r); err != nil {
			return err
		}
	}
	return nil
}

// SaveSeries replaces every stored record of the document's series.
func (s *Store) SaveSeries(ctx context.Context, doc *episode.Document, runID string) error {
	return s.transact(ctx, func(q querier) error { return saveSeries(ctx, q, doc, runID) })
}

// SaveSeries replaces every stored record of the series within a transaction.
func (t *Tx) SaveSeries(ctx context.Context, doc *episode.Document, runID string) error {
	return saveSeries(ctx, t.tx, doc, runID)
}

func scanRecords(rows *sql.Rows) ([]episode.Record, error) {
	defer func() { _ = rows.Close() }()

	var results []episode.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		var r episode.Record
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return results, nil
}

func listRecords(ctx context.Context, q querier, f RecordFilter) ([]episode.Record, int, error) {
	var conditions []string
	var args []any

	if f.Series != nil {
		conditions = append(conditions, "s.name = ?")
		args = append(args, *f.Series)
	}
	if f.Season != nil {
		conditions = append(conditions, "r.season = ?")
		args = append(args, *f.Season)
	}
	if f.Matched != nil {
		conditions = append(conditions, "r.matched = ?")
		args = append(args, *f.Matched)
	}
	if f.Watched != nil {
		conditions = append(conditions, "r.watched = ?")
		args = append(args, *f.Watched)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}
	from := " FROM records r JOIN series s ON s.id = r.series_id "

	var total int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*)"+from+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count records: %w", err)
	}

	query := "SELECT r.data" + from + whereClause + " ORDER BY s.name, r.season, r.episode, r.id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	results, err := scanRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// ListRecords returns records matching the filter with pagination.
// Returns (results, totalCount, error).
func (s *Store) ListRecords(ctx context.Context, f RecordFilter) ([]episode.Record, int, error) {
	return listRecords(ctx, s.db, f)
}

// ListRecords returns records matching the filter within a transaction.
func (t *Tx) ListRecords(ctx context.Context, f RecordFilter) ([]episode.Record, int, error) {
	return listRecords(ctx, t.tx, f)
}

func getRecord(ctx context.Context, q querier, series string, season, ep int) (*episode.Record, error) {
	var data string
	err := q.QueryRowContext(ctx, `
		SELECT r.data FROM records r JOIN series s ON s.id = r.series_id
		WHERE s.name = ? AND r.season = ? AND r.episode = ?
		ORDER BY r.id LIMIT 1`,
		series, season, ep,
	).Scan(&data)
	if err != nil {
		return nil, fmt.Errorf("record %s S%02dE%02d: %w", series, season, ep, mapSQLiteError(err))
	}
	var r episode.Record
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &r, nil
}

// GetRecord returns the first record filed under the given episode slot.
func (s *Store) GetRecord(ctx context.Context, series string, season, ep int) (*episode.Record, error) {
	return getRecord(ctx, s.db, series, season, ep)
}

// GetRecord returns a record within a transaction.
func (t *Tx) GetRecord(ctx context.Context, series string, season, ep int) (*episode.Record, error) {
	return getRecord(ctx, t.tx, series, season, ep)
}

// ListSeries returns the names of every stored series.
func (s *Store) ListSeries(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM series ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series: %w", err)
	}
	return names, nil
}
