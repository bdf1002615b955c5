package movies

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

const defaultThreshold = 4

// Service runs the cache-first recommendation pipeline: read the scoped
// cache, fetch from the source only when coverage is short, merge, persist
// and rank.
type Service struct {
	store     *Store
	source    Source
	windows   *Windows
	threshold int
	logger    *slog.Logger

	// One request owns the whole read-merge-write cycle; concurrent chats
	// would otherwise drop each other's entries on the final write.
	mu sync.Mutex
}

// NewService wires the pipeline. A threshold below 1 falls back to the
// default of 4.
func NewService(store *Store, source Source, windows *Windows, threshold int, logger *slog.Logger) *Service {
	if threshold < 1 {
		threshold = defaultThreshold
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		store:     store,
		source:    source,
		windows:   windows,
		threshold: threshold,
		logger:    logger.With("component", "movies"),
	}
}

// EnsureCoverage returns every cached entry for the scope, fetching from
// the source first when the cache holds fewer than threshold entries.
// The primary window is queried first; if coverage is still short the
// fallback window widens the search. onWiden, when non-nil, is invoked
// before the fallback query with the entries found so far.
//
// Fewer than threshold entries is a valid result. Zero entries after both
// windows is ErrNoMovies.
func (s *Service) EnsureCoverage(ctx context.Context, scope Scope, onWiden func(have []Movie, next Window)) ([]Movie, error) {
	if scope.Language == "" || scope.Country == "" {
		return nil, fmt.Errorf("%w: language and country are required", ErrInvalidPreference)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load()
	if err != nil {
		s.logger.Warn("cache load failed, starting empty", "error", err)
		all = nil
	}

	scoped := FilterScope(all, scope)
	if len(scoped) >= s.threshold {
		s.logger.Debug("cache satisfies scope",
			"language", scope.Language, "country", scope.Country, "cached", len(scoped))
		return scoped, nil
	}

	primary := s.windows.Primary()
	s.logger.Info("cache below threshold, querying primary window",
		"language", scope.Language, "country", scope.Country,
		"cached", len(scoped), "threshold", s.threshold)

	all, scoped, err = s.widen(ctx, scope, all, primary)
	if err != nil {
		return nil, err
	}

	if len(scoped) < s.threshold {
		fallback := s.windows.Fallback()
		s.logger.Info("primary window short, widening to fallback",
			"language", scope.Language, "country", scope.Country, "found", len(scoped))
		if onWiden != nil {
			onWiden(scoped, fallback)
		}
		all, scoped, err = s.widen(ctx, scope, all, fallback)
		if err != nil {
			return nil, err
		}
	}

	if len(scoped) == 0 {
		return nil, fmt.Errorf("%w: language %s, country %s", ErrNoMovies, scope.Language, scope.Country)
	}
	return scoped, nil
}

// widen fetches one window, merges the results into the full cache and
// persists it. A failed persist is logged and the in-memory entries stand;
// the next successful fetch retries the write.
func (s *Service) widen(ctx context.Context, scope Scope, all []Movie, window Window) ([]Movie, []Movie, error) {
	fetched, err := s.source.Discover(ctx, scope, window)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	merged := Merge(all, fetched)
	if len(merged) > len(all) {
		if err := s.store.Save(merged); err != nil {
			s.logger.Warn("cache persist failed, continuing with in-memory entries", "error", err)
		}
	}
	return merged, FilterScope(merged, scope), nil
}

// Recommend runs EnsureCoverage and returns the top rated entries, at most
// size of them.
func (s *Service) Recommend(ctx context.Context, scope Scope, size int, onWiden func(have []Movie, next Window)) ([]Movie, error) {
	entries, err := s.EnsureCoverage(ctx, scope, onWiden)
	if err != nil {
		return nil, err
	}
	return TopN(entries, size), nil
}
