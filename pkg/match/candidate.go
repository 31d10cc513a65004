package match

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vmunix/tvrecon/pkg/title"
)

// ErrDuplicatePriority indicates two enabled providers share a priority.
var ErrDuplicatePriority = errors.New("duplicate provider priority")

// EpisodeKey identifies an episode within a series.
type EpisodeKey struct {
	Season  int
	Episode int
}

func (k EpisodeKey) String() string {
	return fmt.Sprintf("S%02dE%02d", k.Season, k.Episode)
}

// Candidate is one provider's title for one episode of the series.
// Lower Priority values take precedence.
type Candidate struct {
	Provider        string `json:"provider_name"`
	Priority        int    `json:"priority"`
	Season          int    `json:"season_number"`
	Episode         int    `json:"episode_number"`
	Title           string `json:"title"`
	NormalizedTitle string `json:"normalized_title"`
	Description     string `json:"description,omitempty"`
	AirDate         string `json:"air_date,omitempty"`
}

// NewCandidate builds a candidate and fills NormalizedTitle.
func NewCandidate(provider string, priority int, key EpisodeKey, rawTitle, description string) Candidate {
	return Candidate{
		Provider:        provider,
		Priority:        priority,
		Season:          key.Season,
		Episode:         key.Episode,
		Title:           rawTitle,
		NormalizedTitle: title.Normalize(rawTitle),
		Description:     description,
	}
}

// Key returns the episode the candidate describes.
func (c Candidate) Key() EpisodeKey {
	return EpisodeKey{Season: c.Season, Episode: c.Episode}
}

// normalized returns NormalizedTitle, computing it when a caller built the
// candidate by hand.
func (c Candidate) normalized() string {
	if c.NormalizedTitle != "" {
		return c.NormalizedTitle
	}
	return title.Normalize(c.Title)
}

// ForEpisode returns every candidate describing key, ordered by priority.
func ForEpisode(candidates []Candidate, key EpisodeKey) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		if c.Key() == key {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

// ValidatePriorities checks that provider priorities form a total order.
func ValidatePriorities(priorities map[string]int) error {
	seen := make(map[int]string, len(priorities))
	names := make([]string, 0, len(priorities))
	for name := range priorities {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := priorities[name]
		if other, ok := seen[p]; ok {
			return fmt.Errorf("%w: %s and %s both use %d", ErrDuplicatePriority, other, name, p)
		}
		seen[p] = name
	}
	return nil
}
