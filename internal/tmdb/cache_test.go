package tmdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenreCache_GetSet(t *testing.T) {
	c := newGenreCache(time.Hour)

	// Miss
	_, ok := c.get("en")
	assert.False(t, ok, "empty cache should miss")

	// Set and hit
	c.set("en", map[int]string{18: "Drama"})

	got, ok := c.get("en")
	require.True(t, ok, "should hit after set")
	assert.Equal(t, "Drama", got[18])

	// Different language should miss
	_, ok = c.get("fr")
	assert.False(t, ok, "different language should miss")

	// Set another language
	c.set("fr", map[int]string{18: "Drame"})

	got2, ok := c.get("fr")
	require.True(t, ok, "should hit second language")
	assert.Equal(t, "Drame", got2[18])

	// First table should still be there
	got, ok = c.get("en")
	require.True(t, ok, "first table should still exist")
	assert.Equal(t, "Drama", got[18])
}

func TestGenreCache_Expiry(t *testing.T) {
	c := newGenreCache(10 * time.Millisecond)

	c.set("en", map[int]string{18: "Drama"})

	// Should hit immediately
	_, ok := c.get("en")
	require.True(t, ok)

	// Wait for expiry
	time.Sleep(20 * time.Millisecond)

	// Should miss after expiry
	_, ok = c.get("en")
	assert.False(t, ok, "should miss after TTL")
}
