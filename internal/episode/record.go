// Package episode assembles the per-episode records a series run emits and
// the JSON document they are written in.
package episode

import (
	"github.com/vmunix/tvrecon/internal/descriptor"
	"github.com/vmunix/tvrecon/pkg/match"
	"github.com/vmunix/tvrecon/pkg/recording"
)

// File is one artifact of a recording group as written to the document.
type File struct {
	Path          string `json:"path"`
	Size          int64  `json:"size"`
	Kind          string `json:"kind"`
	Broken        bool   `json:"broken"`
	Interruptions int    `json:"interruptions,omitempty"`
	Canonical     bool   `json:"canonical,omitempty"`
}

// Record is the durable per-episode unit. Records are rebuilt on every run.
type Record struct {
	SeriesName   string              `json:"series_name"`
	Season       int                 `json:"season_number"`
	Episode      int                 `json:"episode_number"`
	Subtitle     string              `json:"subtitle"`
	Providers    []match.Candidate   `json:"providers"`
	Files        []File              `json:"files"`
	Canonical    string              `json:"canonical,omitempty"`
	FullyBroken  bool                `json:"fully_broken,omitempty"`
	Descriptor   descriptor.Metadata `json:"xml_metadata"`
	Watched      bool                `json:"watched_status"`
	StandardName string              `json:"standard_name"`
	Matched      bool                `json:"matched"`
	Pass         int                 `json:"pass,omitempty"`
	Score        float64             `json:"score,omitempty"`
}

// Key returns the season and episode the record is filed under.
func (r Record) Key() match.EpisodeKey {
	return match.EpisodeKey{Season: r.Season, Episode: r.Episode}
}

// Title is the display title: the highest-priority provider title, or the
// descriptor subtitle when unmatched.
func (r Record) Title() string {
	if len(r.Providers) > 0 && r.Providers[0].Title != "" {
		return r.Providers[0].Title
	}
	return r.Subtitle
}

// CanonicalFile returns the retained media file, if any.
func (r Record) CanonicalFile() (File, bool) {
	for _, f := range r.Files {
		if f.Canonical {
			return f, true
		}
	}
	return File{}, false
}

func filesOf(g *recording.Group) []File {
	files := make([]File, 0, len(g.Artifacts))
	for _, a := range g.Artifacts {
		files = append(files, File{
			Path:          a.Path,
			Size:          a.Size,
			Kind:          a.Kind.String(),
			Broken:        a.Broken(),
			Interruptions: a.Status.Interruptions(),
			Canonical:     g.Canonical != nil && a.Path == g.Canonical.Path,
		})
	}
	return files
}
