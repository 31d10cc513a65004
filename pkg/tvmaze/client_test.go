package tvmaze

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SingleSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/singlesearch/shows", r.URL.Path)
		assert.Equal(t, "Ax Men", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"id": 1520, "name": "Ax Men", "premiered": "2008-03-09"}`))
	}))
	defer srv.Close()

	show, err := New(WithBaseURL(srv.URL)).SingleSearch(context.Background(), "Ax Men")
	require.NoError(t, err)
	assert.Equal(t, 1520, show.ID)
	assert.Equal(t, "Ax Men", show.Name)
}

func TestClient_SingleSearch_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := New(WithBaseURL(srv.URL)).SingleSearch(context.Background(), "nothing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Episodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shows/1520/episodes", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("specials"))
		_, _ = w.Write([]byte(`[
			{"id": 1, "name": "One More Time", "season": 2, "number": 5, "airdate": "2009-03-01", "summary": "<p>Logging resumes.</p>"},
			{"id": 2, "name": "Behind the Scenes", "season": 2, "number": null, "airdate": ""}
		]`))
	}))
	defer srv.Close()

	eps, err := New(WithBaseURL(srv.URL)).Episodes(context.Background(), 1520)
	require.NoError(t, err)
	require.Len(t, eps, 2)
	require.NotNil(t, eps[0].Number)
	assert.Equal(t, 5, *eps[0].Number)
	assert.Nil(t, eps[1].Number)
}

func TestClient_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := New(WithBaseURL(srv.URL)).Episodes(context.Background(), 1)
	assert.ErrorIs(t, err, ErrRateLimited)
}
