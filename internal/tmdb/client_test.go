package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SearchTV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/search/tv", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "Ax Men", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"results": [{"id": 8014, "name": "Ax Men", "first_air_date": "2008-03-09"}]}`))
	}))
	defer server.Close()

	shows, err := NewClient("test-key", WithBaseURL(server.URL)).SearchTV(context.Background(), "Ax Men")
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.Equal(t, int64(8014), shows[0].ID)
}

func TestClient_GetShowAndSeason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/3/tv/8014":
			_, _ = w.Write([]byte(`{"id": 8014, "name": "Ax Men", "seasons": [{"season_number": 0, "episode_count": 1}, {"season_number": 2, "episode_count": 2}]}`))
		case "/3/tv/8014/season/2":
			_, _ = w.Write([]byte(`{"season_number": 2, "episodes": [
				{"id": 1, "name": "One More Time!", "overview": "Logging resumes.", "air_date": "2009-03-01", "season_number": 2, "episode_number": 5}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	show, err := client.GetShow(context.Background(), 8014)
	require.NoError(t, err)
	require.Len(t, show.Seasons, 2)
	assert.Equal(t, 2, show.Seasons[1].SeasonNumber)

	season, err := client.GetSeason(context.Background(), 8014, 2)
	require.NoError(t, err)
	require.Len(t, season.Episodes, 1)
	assert.Equal(t, "One More Time!", season.Episodes[0].Name)
	assert.Equal(t, 5, season.Episodes[0].EpisodeNumber)

	_, err = client.GetSeason(context.Background(), 8014, 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Cached(t *testing.T) {
	callCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		_, _ = w.Write([]byte(`{"id": 8014, "name": "Ax Men"}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL), WithCacheTTL(time.Hour))

	first, err := client.GetShow(context.Background(), 8014)
	require.NoError(t, err)
	first.Name = "mutated"

	second, err := client.GetShow(context.Background(), 8014)
	require.NoError(t, err)
	assert.Equal(t, 1, callCount, "should use cache, not call API again")
	assert.Equal(t, "Ax Men", second.Name)
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient("k", WithBaseURL(server.URL)).SearchTV(context.Background(), "x")
	assert.ErrorContains(t, err, "TMDB API error")
}
