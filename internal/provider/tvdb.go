package provider

import (
	"context"
	"fmt"

	"github.com/vmunix/tvrecon/pkg/title"
	"github.com/vmunix/tvrecon/pkg/tvdb"
)

// TVDB lists episodes from TheTVDB in the client's season ordering.
type TVDB struct {
	client *tvdb.Client
}

// NewTVDB wraps a TVDB client.
func NewTVDB(c *tvdb.Client) *TVDB {
	return &TVDB{client: c}
}

func (p *TVDB) Name() string { return "tvdb" }

func (p *TVDB) Episodes(ctx context.Context, series string) ([]Episode, error) {
	results, err := p.client.Search(ctx, series)
	if err != nil {
		return nil, fmt.Errorf("search series: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSeriesNotFound, series)
	}
	best := results[0]
	for _, r := range results {
		if title.Equal(r.Name, series) {
			best = r
			break
		}
	}

	eps, err := p.client.Episodes(ctx, best.ID)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	out := make([]Episode, 0, len(eps))
	for _, e := range eps {
		if e.Number == 0 {
			continue
		}
		out = append(out, Episode{
			Season:   e.Season,
			Number:   e.Number,
			Title:    title.Clean(e.Name),
			Overview: e.Overview,
			AirDate:  e.Aired,
		})
	}
	return out, nil
}
