// Package provider fetches episode titles from metadata services and turns
// them into match candidates.
package provider

//go:generate mockgen -destination=mocks/provider.go -package=mocks . Provider

import (
	"context"
	"errors"
)

// ErrSeriesNotFound indicates the service does not know the series.
var ErrSeriesNotFound = errors.New("series not found")

// Episode is one episode title as a provider reports it.
type Episode struct {
	Season   int    `json:"season_number"`
	Number   int    `json:"episode_number"`
	Title    string `json:"title"`
	Overview string `json:"overview,omitempty"`
	AirDate  string `json:"air_date,omitempty"`
}

// Provider lists the episodes of a series.
type Provider interface {
	Name() string
	Episodes(ctx context.Context, series string) ([]Episode, error)
}
