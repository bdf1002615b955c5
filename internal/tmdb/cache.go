package tmdb

import (
	"sync"
	"time"
)

type genreEntry struct {
	table   map[int]string
	expires time.Time
}

// genreCache holds one genre table per language.
type genreCache struct {
	mu      sync.RWMutex
	entries map[string]genreEntry
	ttl     time.Duration
}

func newGenreCache(ttl time.Duration) *genreCache {
	return &genreCache{
		entries: make(map[string]genreEntry),
		ttl:     ttl,
	}
}

func (c *genreCache) get(language string) (map[int]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[language]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.table, true
}

func (c *genreCache) set(language string, table map[int]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[language] = genreEntry{
		table:   table,
		expires: time.Now().Add(c.ttl),
	}
}
