package movies

import "errors"

var (
	// ErrInvalidPreference indicates a missing or unusable language/country pair.
	ErrInvalidPreference = errors.New("invalid preference")

	// ErrSourceUnavailable indicates the remote catalog failed, timed out or
	// returned a payload that could not be decoded.
	ErrSourceUnavailable = errors.New("movie source unavailable")

	// ErrNoMovies indicates both release windows produced zero matches.
	ErrNoMovies = errors.New("no movies found")

	// ErrCachePersist indicates the cache file could not be replaced.
	ErrCachePersist = errors.New("cache persist failed")
)
