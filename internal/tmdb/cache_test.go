package tmdb

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseCache(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := newResponseCache(time.Hour, clock)

	_, ok := c.lookup("/3/tv/1?")
	assert.False(t, ok)

	c.store("/3/tv/1?", []byte(`{"id":1}`))
	got, ok := c.lookup("/3/tv/1?")
	require.True(t, ok)
	assert.JSONEq(t, `{"id":1}`, string(got))

	_, ok = c.lookup("/3/tv/2?")
	assert.False(t, ok)

	clock.Advance(time.Hour)
	_, ok = c.lookup("/3/tv/1?")
	assert.False(t, ok, "entry lives for exactly one ttl")
	assert.Empty(t, c.body)
}

func TestResponseCache_ZeroTTLDisables(t *testing.T) {
	c := newResponseCache(0, clockwork.NewFakeClock())
	c.store("k", []byte("v"))
	_, ok := c.lookup("k")
	assert.False(t, ok)
}
