package provider

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/tvrecon/pkg/match"
	"github.com/vmunix/tvrecon/pkg/title"
)

// Ranked is a provider with its configured priority. Lower wins.
type Ranked struct {
	Provider Provider
	Priority int
}

// placeholder reports titles like "Episode 12" that carry no information.
func placeholder(t string) bool {
	return strings.Contains(strings.ToLower(t), "episode")
}

// Collect queries every provider concurrently and returns their episodes as
// candidates, in provider order. A failing provider is reported in the
// returned errors and the rest proceed. Placeholder titles are dropped, as
// are repeats of the same normalized title for the same provider and
// episode.
func Collect(ctx context.Context, providers []Ranked, series string, log *slog.Logger) ([]match.Candidate, []error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	results := make([][]Episode, len(providers))
	errs := make([]error, len(providers))

	var g errgroup.Group
	for i, r := range providers {
		g.Go(func() error {
			eps, err := r.Provider.Episodes(ctx, series)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", r.Provider.Name(), err)
				return nil
			}
			results[i] = eps
			return nil
		})
	}
	_ = g.Wait()

	type dedupKey struct {
		provider string
		key      match.EpisodeKey
		title    string
	}
	seen := make(map[dedupKey]bool)

	var cands []match.Candidate
	var failed []error
	for i, r := range providers {
		if errs[i] != nil {
			log.Warn("provider failed", "provider", r.Provider.Name(), "series", series, "error", errs[i])
			failed = append(failed, errs[i])
			continue
		}
		kept := 0
		for _, e := range results[i] {
			if e.Title == "" || placeholder(e.Title) {
				continue
			}
			key := match.EpisodeKey{Season: e.Season, Episode: e.Number}
			dk := dedupKey{provider: r.Provider.Name(), key: key, title: title.Normalize(e.Title)}
			if seen[dk] {
				continue
			}
			seen[dk] = true

			c := match.NewCandidate(r.Provider.Name(), r.Priority, key, e.Title, e.Overview)
			c.AirDate = e.AirDate
			cands = append(cands, c)
			kept++
		}
		log.Debug("provider episodes", "provider", r.Provider.Name(), "series", series, "candidates", kept)
	}
	return cands, failed
}
