// Package tvdb provides a client for the TVDB API v4, limited to what an
// episode-title provider needs.
package tvdb

// SeasonType selects the episode ordering TVDB returns.
type SeasonType string

// Orderings offered by TVDB.
const (
	SeasonDefault   SeasonType = "default"
	SeasonOfficial  SeasonType = "official"
	SeasonDVD       SeasonType = "dvd"
	SeasonAbsolute  SeasonType = "absolute"
	SeasonAlternate SeasonType = "alternate"
	SeasonRegional  SeasonType = "regional"
)

// SearchResult is one series search hit.
type SearchResult struct {
	ID      int    `json:"tvdb_id"`
	Name    string `json:"name"`
	Year    int    `json:"year"`
	Network string `json:"network"`
}

// Episode is one episode in the requested ordering. Aired is YYYY-MM-DD or
// empty.
type Episode struct {
	ID       int    `json:"id"`
	Season   int    `json:"seasonNumber"`
	Number   int    `json:"number"`
	Name     string `json:"name"`
	Overview string `json:"overview"`
	Aired    string `json:"aired"`
}

type loginResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

type searchItem struct {
	ObjectID string `json:"objectID"`
	Name     string `json:"name"`
	Year     string `json:"year"`
	Network  string `json:"network"`
	TVDBID   string `json:"tvdb_id"`
}

type searchResponse struct {
	Data []searchItem `json:"data"`
}

type episodesResponse struct {
	Data struct {
		Episodes []Episode `json:"episodes"`
	} `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}
