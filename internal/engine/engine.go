// Package engine runs the reconciliation pipeline for one series directory
// and for many series concurrently.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/vmunix/tvrecon/internal/episode"
	"github.com/vmunix/tvrecon/internal/scan"
	"github.com/vmunix/tvrecon/pkg/match"
	"github.com/vmunix/tvrecon/pkg/recording"
)

// Series is the input for one series run.
type Series struct {
	Name       string
	Dir        string
	Thresholds match.Thresholds
	// Candidates are the provider titles of every known episode.
	Candidates []match.Candidate
}

// Report is the output of one series run. Warnings hold the non-fatal
// conditions: *scan.DescriptorError, *OrphanGroupError,
// *UnmatchedDescriptorWarning, *FullyBrokenGroupWarning and
// *MissingMediaWarning.
type Report struct {
	Series   string
	Document *episode.Document
	Warnings []error
}

// Option configures an Engine.
type Option func(*Engine)

// WithWatch sets the watched-status lookup.
func WithWatch(l episode.WatchLookup) Option {
	return func(e *Engine) { e.watch = l }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Engine runs series through scan, grouping, canonical selection, matching
// and assembly. It only reads the filesystem.
type Engine struct {
	fs    afero.Fs
	watch episode.WatchLookup
	log   *slog.Logger
}

// New creates an engine reading from fs.
func New(fs afero.Fs, opts ...Option) *Engine {
	e := &Engine{fs: fs}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

// RunSeries processes one series. A ConfigurationError or an unreadable
// directory fails the series; everything else is a warning in the report.
func (e *Engine) RunSeries(ctx context.Context, s Series) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.Thresholds.Validate(); err != nil {
		return nil, &ConfigurationError{Series: s.Name, Err: err}
	}
	log := e.log.With("series", s.Name)

	listing, err := scan.NewScanner(e.fs, log).Scan(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.Name, err)
	}

	rep := &Report{Series: s.Name}
	rep.Warnings = append(rep.Warnings, listing.Errors...)

	set := scan.BuildGroups(listing)
	for _, o := range set.Orphans {
		rep.Warnings = append(rep.Warnings, &OrphanGroupError{
			Series: s.Name,
			Stem:   o.Stem,
			Paths:  paths(o.Artifacts),
		})
	}

	subtitles := make([]string, len(set.Groups))
	for i, g := range set.Groups {
		subtitles[i] = g.Recording.Subtitle
		sel := recording.SelectCanonical(g.Recording)
		switch {
		case sel.NoMedia:
			rep.Warnings = append(rep.Warnings, &MissingMediaWarning{Series: s.Name, Subtitle: g.Recording.Subtitle})
		case sel.FullyBroken:
			rep.Warnings = append(rep.Warnings, &FullyBrokenGroupWarning{
				Series:   s.Name,
				Subtitle: g.Recording.Subtitle,
				Paths:    paths(g.Recording.Media()),
			})
		}
	}

	pool := match.NewPool(match.NewMatcher(s.Thresholds, log), s.Candidates)
	outcomes := pool.MatchAll(subtitles)

	records := make([]episode.Record, 0, len(set.Groups))
	for i, g := range set.Groups {
		in := episode.Input{
			Series:     s.Name,
			Group:      g.Recording,
			Descriptor: g.Descriptor,
			Candidates: s.Candidates,
			Watch:      e.watch,
		}
		if outcomes[i].Matched {
			in.Result = &outcomes[i].Result
		} else {
			rep.Warnings = append(rep.Warnings, &UnmatchedDescriptorWarning{Series: s.Name, Subtitle: g.Recording.Subtitle})
		}
		records = append(records, episode.Assemble(in))
	}

	rep.Document = episode.NewDocument(s.Name, records)
	log.Info("series processed",
		"groups", len(set.Groups),
		"orphans", len(set.Orphans),
		"unmatched", len(rep.Document.Unmatched()),
		"warnings", len(rep.Warnings))
	return rep, nil
}

func paths(artifacts []recording.Artifact) []string {
	out := make([]string, len(artifacts))
	for i, a := range artifacts {
		out[i] = a.Path
	}
	return out
}
