package episode

import (
	"fmt"
	"strings"

	"github.com/vmunix/tvrecon/internal/descriptor"
	"github.com/vmunix/tvrecon/pkg/match"
	"github.com/vmunix/tvrecon/pkg/recording"
)

// WatchLookup answers whether a recording has been watched, keyed by full
// path or by addon-style name.
type WatchLookup interface {
	Watched(path, addonName string) bool
}

// Input is everything the assembler folds into one record.
type Input struct {
	Series     string
	Group      *recording.Group
	Descriptor descriptor.Metadata
	// Result is nil when no pass accepted a candidate.
	Result *match.Result
	// Candidates is the full candidate list of the series.
	Candidates []match.Candidate
	Watch      WatchLookup
}

// Assemble builds the record for one group. Canonical selection must have
// run on in.Group already.
func Assemble(in Input) Record {
	r := Record{
		SeriesName:  in.Series,
		Subtitle:    in.Group.Subtitle,
		Providers:   []match.Candidate{},
		Files:       filesOf(in.Group),
		Descriptor:  in.Descriptor,
		FullyBroken: in.Group.Canonical == nil && len(in.Group.Media()) > 0,
	}
	if in.Group.Canonical != nil {
		r.Canonical = in.Group.Canonical.Path
	}

	if in.Result != nil {
		win := in.Result.Winner
		key := win.Candidate.Key()
		r.Season, r.Episode = key.Season, key.Episode
		r.Matched = true
		r.Pass = int(win.Pass)
		r.Score = win.Score.Value()

		r.Providers = match.ForEpisode(in.Candidates, key)
		if len(r.Providers) == 0 {
			r.Providers = []match.Candidate{win.Candidate}
		}
	}

	r.StandardName = StandardName(in.Series, r)
	if in.Watch != nil && r.Canonical != "" {
		r.Watched = in.Watch.Watched(r.Canonical, AddonName(in.Series, r))
	}
	return r
}

// StandardName formats "{series} - SxxEyy - {title}" for matched records.
// Unmatched records keep the raw descriptor subtitle.
func StandardName(series string, r Record) string {
	if !r.Matched {
		return r.Subtitle
	}
	return fmt.Sprintf("%s - S%02dE%02d - %s", series, r.Season, r.Episode, r.Title())
}

// AddonName formats the dotted name watch-history addons use, for example
// "Ax.Men.S02E05.One.More.Time". Unmatched records have no addon name.
func AddonName(series string, r Record) string {
	if !r.Matched {
		return ""
	}
	return dotted(series) + "." + r.Key().String() + "." + dotted(r.Title())
}

func dotted(s string) string {
	return strings.Join(strings.Fields(s), ".")
}
