package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/vmunix/tvrecon/pkg/match"
	"github.com/vmunix/tvrecon/pkg/title"
)

// Merged is the per-series metadata document that records every provider's
// title for each episode.
type Merged struct {
	SeriesName string         `json:"series_name"`
	Seasons    []MergedSeason `json:"seasons"`
}

// MergedSeason is one season of a Merged document.
type MergedSeason struct {
	Number   int             `json:"season_number"`
	Episodes []MergedEpisode `json:"episodes"`
}

// MergedEpisode maps provider name to that provider's title and overview.
type MergedEpisode struct {
	Number    int               `json:"episode_number"`
	Titles    map[string]string `json:"titles"`
	Overviews map[string]string `json:"overviews,omitempty"`
	AirDate   string            `json:"air_date,omitempty"`
}

// Merge folds candidates into a Merged document, seasons and episodes in
// ascending order. The first air date seen for an episode is kept.
func Merge(series string, cands []match.Candidate) *Merged {
	type entry struct {
		ep  MergedEpisode
		key match.EpisodeKey
	}
	byKey := make(map[match.EpisodeKey]*entry)
	for _, c := range cands {
		e, ok := byKey[c.Key()]
		if !ok {
			e = &entry{key: c.Key(), ep: MergedEpisode{Number: c.Episode, Titles: map[string]string{}}}
			byKey[c.Key()] = e
		}
		e.ep.Titles[c.Provider] = c.Title
		if c.Description != "" {
			if e.ep.Overviews == nil {
				e.ep.Overviews = map[string]string{}
			}
			e.ep.Overviews[c.Provider] = c.Description
		}
		if e.ep.AirDate == "" {
			e.ep.AirDate = c.AirDate
		}
	}

	entries := make([]*entry, 0, len(byKey))
	for _, e := range byKey {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].key.Season != entries[j].key.Season {
			return entries[i].key.Season < entries[j].key.Season
		}
		return entries[i].key.Episode < entries[j].key.Episode
	})

	m := &Merged{SeriesName: series, Seasons: []MergedSeason{}}
	for _, e := range entries {
		n := len(m.Seasons)
		if n == 0 || m.Seasons[n-1].Number != e.key.Season {
			m.Seasons = append(m.Seasons, MergedSeason{Number: e.key.Season})
			n++
		}
		m.Seasons[n-1].Episodes = append(m.Seasons[n-1].Episodes, e.ep)
	}
	return m
}

// MetadataPath is where the Merged document of series lives under dir.
func MetadataPath(dir, series string) string {
	return filepath.Join(dir, series+".json")
}

// WriteMerged writes m to MetadataPath(dir, m.SeriesName).
func WriteMerged(fsys afero.Fs, dir string, m *Merged) error {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create metadata dir: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := afero.WriteFile(fsys, MetadataPath(dir, m.SeriesName), data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// File serves episodes from Merged documents written by earlier fetches.
// Every distinct title of an episode becomes its own Episode.
type File struct {
	fs  afero.Fs
	dir string
}

// NewFile reads Merged documents from dir.
func NewFile(fsys afero.Fs, dir string) *File {
	return &File{fs: fsys, dir: dir}
}

func (p *File) Name() string { return "file" }

func (p *File) Episodes(_ context.Context, series string) ([]Episode, error) {
	data, err := afero.ReadFile(p.fs, MetadataPath(p.dir, series))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSeriesNotFound, series)
	}
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var m Merged
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}

	var out []Episode
	for _, s := range m.Seasons {
		for _, e := range s.Episodes {
			providers := make([]string, 0, len(e.Titles))
			for name := range e.Titles {
				providers = append(providers, name)
			}
			sort.Strings(providers)

			seen := make(map[string]bool)
			for _, name := range providers {
				t := e.Titles[name]
				norm := title.Normalize(t)
				if norm == "" || seen[norm] {
					continue
				}
				seen[norm] = true
				out = append(out, Episode{
					Season:   s.Number,
					Number:   e.Number,
					Title:    t,
					Overview: e.Overviews[name],
					AirDate:  e.AirDate,
				})
			}
		}
	}
	return out, nil
}
