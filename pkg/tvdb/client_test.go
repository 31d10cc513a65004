package tvdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockTVDB(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.URL.Path]; ok {
			handler(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic("test: failed to encode JSON: " + err.Error())
	}
}

func loginHandler(validAPIKey, token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			APIKey string `json:"apikey"`
		}
		if r.Method != http.MethodPost || json.NewDecoder(r.Body).Decode(&body) != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body.APIKey != validAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var lr loginResponse
		lr.Data.Token = token
		writeJSON(w, lr)
	}
}

func requireAuth(validToken string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+validToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		handler(w, r)
	}
}

func TestNew(t *testing.T) {
	c := New("test-api-key")
	assert.Equal(t, defaultBaseURL, c.baseURL)
	assert.Equal(t, SeasonDefault, c.seasonType)

	c = New("k", WithBaseURL("https://custom.url"), WithSeasonType(SeasonDVD))
	assert.Equal(t, "https://custom.url", c.baseURL)
	assert.Equal(t, SeasonDVD, c.seasonType)
}

func TestLogin_InvalidAPIKey(t *testing.T) {
	srv := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("valid-key", "jwt"),
	})

	_, err := New("wrong-key", WithBaseURL(srv.URL)).Search(context.Background(), "Ax Men")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSearch(t *testing.T) {
	srv := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("api-key", "tok"),
		"/search": requireAuth("tok", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Ax Men", r.URL.Query().Get("query"))
			assert.Equal(t, "series", r.URL.Query().Get("type"))
			writeJSON(w, searchResponse{Data: []searchItem{
				{ObjectID: "series-81700", Name: "Ax Men", Year: "2008", Network: "History", TVDBID: "81700"},
				{ObjectID: "series-12345", Name: "Ax Men Revisited", Year: "2011"},
			}})
		}),
	})

	results, err := New("api-key", WithBaseURL(srv.URL)).Search(context.Background(), "Ax Men")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, SearchResult{ID: 81700, Name: "Ax Men", Year: 2008, Network: "History"}, results[0])
	assert.Equal(t, 12345, results[1].ID, "falls back to objectID")
}

func TestSearch_RateLimited(t *testing.T) {
	srv := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("api-key", "tok"),
		"/search": requireAuth("tok", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}),
	})

	_, err := New("api-key", WithBaseURL(srv.URL)).Search(context.Background(), "x")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestEpisodes_Paginates(t *testing.T) {
	srv := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("api-key", "tok"),
		"/series/81700/episodes/official": requireAuth("tok", func(w http.ResponseWriter, r *http.Request) {
			var er episodesResponse
			switch r.URL.Query().Get("page") {
			case "0":
				er.Data.Episodes = []Episode{
					{ID: 1, Season: 2, Number: 5, Name: "One More Time", Aired: "2009-03-01"},
					{ID: 2, Season: 2, Number: 6, Name: "Timber Falls"},
				}
				er.Links.Next = "/series/81700/episodes/official?page=1"
			case "1":
				er.Data.Episodes = []Episode{{ID: 3, Season: 2, Number: 7, Name: "Storm Warning"}}
			}
			writeJSON(w, er)
		}),
	})

	c := New("api-key", WithBaseURL(srv.URL), WithSeasonType(SeasonOfficial))
	eps, err := c.Episodes(context.Background(), 81700)
	require.NoError(t, err)
	require.Len(t, eps, 3)
	assert.Equal(t, "One More Time", eps[0].Name)
	assert.Equal(t, "2009-03-01", eps[0].Aired)
	assert.Equal(t, 7, eps[2].Number)
}

func TestEpisodes_NotFound(t *testing.T) {
	srv := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": loginHandler("api-key", "tok"),
	})

	_, err := New("api-key", WithBaseURL(srv.URL)).Episodes(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetJSON_RefreshesExpiredToken(t *testing.T) {
	var logins atomic.Int32
	tokens := []string{"old", "new"}
	srv := mockTVDB(t, map[string]http.HandlerFunc{
		"/login": func(w http.ResponseWriter, r *http.Request) {
			n := logins.Add(1)
			var lr loginResponse
			lr.Data.Token = tokens[min(int(n)-1, 1)]
			writeJSON(w, lr)
		},
		"/search": requireAuth("new", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, searchResponse{})
		}),
	})

	_, err := New("api-key", WithBaseURL(srv.URL)).Search(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, int32(2), logins.Load())
}
