package library

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmunix/tvrecon/internal/episode"
	"github.com/vmunix/tvrecon/pkg/match"
	"github.com/vmunix/tvrecon/pkg/title"
)

// ManualProvider is the provider name recorded on manually assigned records.
const ManualProvider = "manual"

// applyAssignment files r under the assigned slot. The addon name changes
// with the slot, so watched status is looked up again when watch is set.
func applyAssignment(series string, r *episode.Record, a Assignment, watch episode.WatchLookup) {
	r.Season, r.Episode = a.Season, a.Episode
	r.Matched = true
	r.Pass, r.Score = 0, 0
	r.Providers = []match.Candidate{{
		Provider:        ManualProvider,
		Season:          a.Season,
		Episode:         a.Episode,
		Title:           a.Title,
		NormalizedTitle: title.Normalize(a.Title),
	}}
	r.StandardName = episode.StandardName(series, *r)
	if watch != nil && r.Canonical != "" && !r.Watched {
		r.Watched = watch.Watched(r.Canonical, episode.AddonName(series, *r))
	}
}

type storedRecord struct {
	id     int64
	record episode.Record
}

func unmatchedRecords(ctx context.Context, q querier, sid int64) ([]storedRecord, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, data FROM records WHERE series_id = ? AND matched = 0 ORDER BY id", sid)
	if err != nil {
		return nil, fmt.Errorf("list unmatched: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []storedRecord
	for rows.Next() {
		var sr storedRecord
		var data string
		if err := rows.Scan(&sr.id, &data); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &sr.record); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

func assign(ctx context.Context, q querier, a Assignment, watch episode.WatchLookup) (*episode.Record, error) {
	var sid int64
	if err := q.QueryRowContext(ctx, "SELECT id FROM series WHERE name = ?", a.Series).Scan(&sid); err != nil {
		return nil, fmt.Errorf("series %q: %w", a.Series, mapSQLiteError(err))
	}

	unmatched, err := unmatchedRecords(ctx, q, sid)
	if err != nil {
		return nil, err
	}
	var target *storedRecord
	for i := range unmatched {
		if title.Normalize(unmatched[i].record.Subtitle) == a.SubtitleKey {
			target = &unmatched[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("unmatched record %q: %w", a.SubtitleKey, ErrNotFound)
	}

	var taken int
	err = q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM records WHERE series_id = ? AND season = ? AND episode = ? AND matched = 1",
		sid, a.Season, a.Episode,
	).Scan(&taken)
	if err != nil {
		return nil, fmt.Errorf("check slot: %w", err)
	}
	if taken > 0 {
		return nil, fmt.Errorf("S%02dE%02d: %w", a.Season, a.Episode, ErrDuplicate)
	}

	r := target.record
	applyAssignment(a.Series, &r, a, watch)
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	_, err = q.ExecContext(ctx, `
		UPDATE records SET season = ?, episode = ?, standard_name = ?, matched = 1, pass = 0, data = ?
		WHERE id = ?`,
		r.Season, r.Episode, r.StandardName, string(data), target.id,
	)
	if err != nil {
		return nil, fmt.Errorf("update record: %w", mapSQLiteError(err))
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO assignments (series, subtitle_key, season, episode, title) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(series, subtitle_key) DO UPDATE SET
			season = excluded.season, episode = excluded.episode, title = excluded.title`,
		a.Series, a.SubtitleKey, a.Season, a.Episode, a.Title,
	)
	if err != nil {
		return nil, fmt.Errorf("save assignment: %w", mapSQLiteError(err))
	}
	return &r, nil
}

// Assign manually matches the unmatched record whose subtitle normalizes
// like subtitle. The assignment is kept and reapplied by ApplyAssignments
// after later runs. A non-nil watch refreshes the record's watched status.
func (s *Store) Assign(ctx context.Context, series, subtitle string, season, ep int, episodeTitle string, watch episode.WatchLookup) (*episode.Record, error) {
	if season < 0 || ep < 1 || strings.TrimSpace(episodeTitle) == "" {
		return nil, fmt.Errorf("S%02dE%02d %q: %w", season, ep, episodeTitle, ErrInvalidAssignment)
	}
	a := Assignment{
		Series:      series,
		SubtitleKey: title.Normalize(subtitle),
		Season:      season,
		Episode:     ep,
		Title:       strings.TrimSpace(episodeTitle),
	}
	var out *episode.Record
	err := s.transact(ctx, func(q querier) error {
		r, err := assign(ctx, q, a, watch)
		out = r
		return err
	})
	return out, err
}

// ListAssignments returns the stored assignments of a series.
func (s *Store) ListAssignments(ctx context.Context, series string) ([]Assignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT series, subtitle_key, season, episode, title, created_at
		FROM assignments WHERE series = ? ORDER BY season, episode`, series)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.Series, &a.SubtitleKey, &a.Season, &a.Episode, &a.Title, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return out, nil
}

// DeleteAssignment forgets a manual match. Idempotent.
func (s *Store) DeleteAssignment(ctx context.Context, series, subtitle string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM assignments WHERE series = ? AND subtitle_key = ?", series, title.Normalize(subtitle))
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

// ApplyAssignments matches the document's unmatched records against stored
// assignments and returns the refiled document with the count applied.
// An assignment whose slot a matched record already holds is skipped.
// A non-nil watch refreshes the watched status of assigned records.
func (s *Store) ApplyAssignments(ctx context.Context, doc *episode.Document, watch episode.WatchLookup) (*episode.Document, int, error) {
	assignments, err := s.ListAssignments(ctx, doc.SeriesName)
	if err != nil {
		return nil, 0, err
	}
	if len(assignments) == 0 {
		return doc, 0, nil
	}
	byKey := make(map[string]Assignment, len(assignments))
	for _, a := range assignments {
		byKey[a.SubtitleKey] = a
	}

	records := doc.Records()
	taken := make(map[match.EpisodeKey]bool)
	for _, r := range records {
		if r.Matched {
			taken[r.Key()] = true
		}
	}

	applied := 0
	for i := range records {
		r := &records[i]
		if r.Matched {
			continue
		}
		a, ok := byKey[title.Normalize(r.Subtitle)]
		if !ok {
			continue
		}
		key := match.EpisodeKey{Season: a.Season, Episode: a.Episode}
		if taken[key] {
			continue
		}
		applyAssignment(doc.SeriesName, r, a, watch)
		taken[key] = true
		applied++
	}
	return episode.NewDocument(doc.SeriesName, records), applied, nil
}
