package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/vmunix/tvrecon/pkg/title"
	"github.com/vmunix/tvrecon/pkg/tvmaze"
)

// TVMaze lists episodes from TVmaze, specials included.
type TVMaze struct {
	client *tvmaze.Client
}

// NewTVMaze wraps a TVmaze client.
func NewTVMaze(c *tvmaze.Client) *TVMaze {
	return &TVMaze{client: c}
}

func (p *TVMaze) Name() string { return "tvmaze" }

func (p *TVMaze) Episodes(ctx context.Context, series string) ([]Episode, error) {
	show, err := p.client.SingleSearch(ctx, series)
	if errors.Is(err, tvmaze.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSeriesNotFound, series)
	}
	if err != nil {
		return nil, fmt.Errorf("search show: %w", err)
	}

	eps, err := p.client.Episodes(ctx, show.ID)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}

	out := make([]Episode, 0, len(eps))
	for _, e := range eps {
		if e.Number == nil || *e.Number == 0 {
			continue
		}
		out = append(out, Episode{
			Season:   e.Season,
			Number:   *e.Number,
			Title:    title.Clean(e.Name),
			Overview: stripHTML(e.Summary),
			AirDate:  e.Airdate,
		})
	}
	return out, nil
}

// stripHTML reduces an HTML fragment to its text with entities decoded.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
