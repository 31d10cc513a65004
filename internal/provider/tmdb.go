package provider

import (
	"context"
	"fmt"

	"github.com/vmunix/tvrecon/internal/tmdb"
	"github.com/vmunix/tvrecon/pkg/title"
)

// TMDB lists episodes season by season from The Movie Database.
type TMDB struct {
	client *tmdb.Client
}

// NewTMDB wraps a TMDB client.
func NewTMDB(c *tmdb.Client) *TMDB {
	return &TMDB{client: c}
}

func (p *TMDB) Name() string { return "tmdb" }

func (p *TMDB) Episodes(ctx context.Context, series string) ([]Episode, error) {
	shows, err := p.client.SearchTV(ctx, series)
	if err != nil {
		return nil, fmt.Errorf("search tv: %w", err)
	}
	if len(shows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSeriesNotFound, series)
	}
	best := shows[0]
	for _, s := range shows {
		if title.Equal(s.Name, series) {
			best = s
			break
		}
	}

	show, err := p.client.GetShow(ctx, best.ID)
	if err != nil {
		return nil, fmt.Errorf("get show %d: %w", best.ID, err)
	}

	var out []Episode
	for _, sh := range show.Seasons {
		season, err := p.client.GetSeason(ctx, show.ID, sh.SeasonNumber)
		if err != nil {
			return nil, fmt.Errorf("get season %d: %w", sh.SeasonNumber, err)
		}
		for _, e := range season.Episodes {
			if e.EpisodeNumber == 0 {
				continue
			}
			out = append(out, Episode{
				Season:   sh.SeasonNumber,
				Number:   e.EpisodeNumber,
				Title:    title.Clean(e.Name),
				Overview: e.Overview,
				AirDate:  e.AirDate,
			})
		}
	}
	return out, nil
}
