package library

import (
	"database/sql"
	"testing"

	"github.com/vmunix/tvrecon/internal/episode"
	"github.com/vmunix/tvrecon/internal/migrations"
	"github.com/vmunix/tvrecon/pkg/match"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

// ptr is a helper to create pointer to value
func ptr[T any](v T) *T {
	return &v
}

func matched(season, ep int, t string) episode.Record {
	r := episode.Record{
		SeriesName: "Ax Men",
		Season:     season,
		Episode:    ep,
		Subtitle:   t,
		Providers: []match.Candidate{
			match.NewCandidate("tvmaze", 0, match.EpisodeKey{Season: season, Episode: ep}, t, ""),
		},
		Canonical: "/rec/" + t + ".ts",
		Files:     []episode.File{{Path: "/rec/" + t + ".ts", Size: 100, Kind: "video", Canonical: true}},
		Matched:   true,
		Pass:      1,
		Score:     1,
	}
	r.StandardName = episode.StandardName("Ax Men", r)
	return r
}

func unmatched(subtitle string) episode.Record {
	return episode.Record{
		SeriesName:   "Ax Men",
		Subtitle:     subtitle,
		Providers:    []match.Candidate{},
		StandardName: subtitle,
	}
}

func testDocument() *episode.Document {
	return episode.NewDocument("Ax Men", []episode.Record{
		matched(2, 5, "One More Time"),
		matched(2, 6, "Wood Is Good"),
		unmatched("Shock and Saw"),
	})
}
