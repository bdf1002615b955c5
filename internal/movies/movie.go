// Package movies implements the cache-first recommendation pipeline:
// a preference-scoped CSV cache, remote fetches over release windows,
// idempotent merging and rating-ranked selection.
package movies

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Movie is one cached or fetched movie entry.
type Movie struct {
	Title    string
	Released time.Time // theatrical release date
	Language string    // ISO 639-1 original language
	Country  string    // ISO 3166-1 release region
	Rating   float64   // vote average, 0-10
	Genres   []string
}

// Scope is the preference pair every cache query is keyed by.
type Scope struct {
	Language string
	Country  string
}

// key identifies a movie for merge purposes. Two entries with the same
// title, release date, language and country are the same movie; the same
// title in a different scope is not.
type key struct {
	title    string
	released string
	language string
	country  string
}

func (m Movie) key() key {
	return key{
		title:    strings.ToLower(strings.TrimSpace(m.Title)),
		released: m.Released.Format(dateLayout),
		language: strings.ToLower(m.Language),
		country:  strings.ToUpper(m.Country),
	}
}

// Merge appends entries from fetched that are not already present.
// Existing entries keep their order and are never replaced, so merging
// the same fetch result twice changes nothing.
func Merge(existing, fetched []Movie) []Movie {
	seen := make(map[key]struct{}, len(existing))
	for _, m := range existing {
		seen[m.key()] = struct{}{}
	}

	merged := make([]Movie, len(existing), len(existing)+len(fetched))
	copy(merged, existing)

	for _, m := range fetched {
		k := m.key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, m)
	}
	return merged
}

// FilterScope returns the entries matching the scope's language and country.
func FilterScope(entries []Movie, scope Scope) []Movie {
	var out []Movie
	for _, m := range entries {
		if strings.EqualFold(m.Language, scope.Language) && strings.EqualFold(m.Country, scope.Country) {
			out = append(out, m)
		}
	}
	return out
}
