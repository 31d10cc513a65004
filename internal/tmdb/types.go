// Package tmdb provides a client for the TV endpoints of The Movie Database
// API.
package tmdb

// Show is a TMDB TV show. Seasons is only filled by GetShow.
type Show struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	FirstAirDate string         `json:"first_air_date"`
	Seasons      []SeasonHeader `json:"seasons,omitempty"`
}

// SeasonHeader lists one season of a show.
type SeasonHeader struct {
	SeasonNumber int `json:"season_number"`
	EpisodeCount int `json:"episode_count"`
}

// Season is a season with its episodes.
type Season struct {
	SeasonNumber int       `json:"season_number"`
	Episodes     []Episode `json:"episodes"`
}

// Episode is one TMDB episode.
type Episode struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Overview      string `json:"overview"`
	AirDate       string `json:"air_date"`
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
}

type searchResponse struct {
	Results []Show `json:"results"`
}
