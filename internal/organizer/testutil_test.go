package organizer

import (
	"github.com/vmunix/tvrecon/internal/episode"
	"github.com/vmunix/tvrecon/pkg/match"
)

func testDocument() *episode.Document {
	winner := match.NewCandidate("tvmaze", 0, match.EpisodeKey{Season: 2, Episode: 5}, "One More Time", "Logging resumes.")
	winner.AirDate = "2009-03-01"
	matched := episode.Record{
		SeriesName: "Ax Men",
		Season:     2,
		Episode:    5,
		Subtitle:   "One More Time",
		Providers:  []match.Candidate{winner},
		Canonical:  "/rec/Ax Men_20240101.ts",
		Files: []episode.File{
			{Path: "/rec/Ax Men_20240101.ts", Size: 300, Kind: "media", Canonical: true},
			{Path: "/rec/Ax Men_20240101.xml", Size: 2, Kind: "descriptor"},
			{Path: "/rec/Ax Men_20240101.edl", Size: 1, Kind: "skip_segment"},
			{Path: "/rec/Ax Men_20240108.ts", Size: 200, Kind: "media"},
			{Path: "/rec/Ax Men_20240115-1.ts", Size: 50, Kind: "media", Broken: true, Interruptions: 1},
		},
		Watched: true,
		Matched: true,
		Pass:    1,
		Score:   1,
	}
	matched.StandardName = episode.StandardName("Ax Men", matched)

	unmatched := episode.Record{
		SeriesName:   "Ax Men",
		Subtitle:     "Shock & Saw",
		Providers:    []match.Candidate{},
		Canonical:    "/rec/Ax Men_20240201.ts",
		Files:        []episode.File{{Path: "/rec/Ax Men_20240201.ts", Size: 400, Kind: "media", Canonical: true}},
		StandardName: "Shock & Saw",
	}

	broken := episode.Record{
		SeriesName:   "Ax Men",
		Subtitle:     "Timberrr",
		Providers:    []match.Candidate{},
		Files:        []episode.File{{Path: "/rec/Ax Men_20240301-1.ts", Size: 10, Kind: "media", Broken: true, Interruptions: 1}},
		FullyBroken:  true,
		StandardName: "Timberrr",
	}

	return episode.NewDocument("Ax Men", []episode.Record{matched, unmatched, broken})
}
