package provider

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/tvrecon/internal/migrations"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	db.SetMaxOpenConns(1)

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)
	return db
}

func TestCache_GetSet(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	c := NewCache(setupTestDB(t), clock)
	ctx := context.Background()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v1"), time.Hour))
	require.NoError(t, c.Set(ctx, "k", []byte("v2"), time.Hour))
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), got)

	clock.Advance(2 * time.Hour)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok, "expired entries miss")

	n, err := c.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCache_Delete(t *testing.T) {
	c := NewCache(setupTestDB(t), nil)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Hour))
	require.NoError(t, c.Delete(ctx, "k"))
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

type fakeProvider struct {
	calls int
	eps   []Episode
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Episodes(context.Context, string) ([]Episode, error) {
	f.calls++
	return f.eps, nil
}

func TestCached(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	inner := &fakeProvider{eps: []Episode{{Season: 1, Number: 1, Title: "Pilot"}}}
	c := NewCached(inner, NewCache(setupTestDB(t), clock), time.Hour, nil)
	ctx := context.Background()

	for range 2 {
		eps, err := c.Episodes(ctx, "Ax Men")
		require.NoError(t, err)
		assert.Equal(t, inner.eps, eps)
	}
	assert.Equal(t, 1, inner.calls)

	// Normalized-equal series names share an entry.
	_, err := c.Episodes(ctx, "ax men!")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)

	clock.Advance(2 * time.Hour)
	_, err = c.Episodes(ctx, "Ax Men")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)

	require.NoError(t, c.Invalidate(ctx, "Ax Men"))
	_, err = c.Episodes(ctx, "Ax Men")
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestCached_ErrorNotCached(t *testing.T) {
	inner := &failingProvider{}
	c := NewCached(inner, NewCache(setupTestDB(t), nil), 0, nil)

	_, err := c.Episodes(context.Background(), "x")
	assert.ErrorIs(t, err, ErrSeriesNotFound)
	_, err = c.Episodes(context.Background(), "x")
	assert.ErrorIs(t, err, ErrSeriesNotFound)
	assert.Equal(t, 2, inner.calls)
}

type failingProvider struct{ calls int }

func (f *failingProvider) Name() string { return "failing" }

func (f *failingProvider) Episodes(context.Context, string) ([]Episode, error) {
	f.calls++
	return nil, ErrSeriesNotFound
}
