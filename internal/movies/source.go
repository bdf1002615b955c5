package movies

//go:generate mockgen -source=source.go -destination=mocks/source.go -package=mocks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cinepoll/cinepoll/internal/tmdb"
)

// Source fetches movies matching a scope within a release window.
type Source interface {
	Discover(ctx context.Context, scope Scope, window Window) ([]Movie, error)
}

// TMDBSource adapts the TMDB client to the Source interface, turning wire
// results into cache entries stamped with the requested scope.
type TMDBSource struct {
	client *tmdb.Client
	logger *slog.Logger
}

// NewTMDBSource wraps a TMDB client.
func NewTMDBSource(client *tmdb.Client, logger *slog.Logger) *TMDBSource {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TMDBSource{
		client: client,
		logger: logger.With("component", "source"),
	}
}

// Discover queries TMDB for releases in the window and maps them to entries.
// Results without a parseable release date or outside the window are dropped.
func (s *TMDBSource) Discover(ctx context.Context, scope Scope, window Window) ([]Movie, error) {
	results, err := s.client.Discover(ctx, tmdb.DiscoverQuery{
		Language: scope.Language,
		Region:   scope.Country,
		From:     window.Start,
		To:       window.End,
	})
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}

	genres, err := s.client.Genres(ctx, scope.Language)
	if err != nil {
		// Entries are still usable without genre names.
		s.logger.Warn("genre lookup failed", "language", scope.Language, "error", err)
		genres = nil
	}

	var out []Movie
	for _, m := range results {
		released, err := time.Parse(dateLayout, m.ReleaseDate)
		if err != nil {
			s.logger.Debug("dropping result with bad release date",
				"title", m.Title, "release_date", m.ReleaseDate)
			continue
		}
		if !window.Contains(released) {
			continue
		}
		out = append(out, Movie{
			Title:    m.Title,
			Released: released,
			Language: scope.Language,
			Country:  scope.Country,
			Rating:   m.VoteAverage,
			Genres:   genreNames(genres, m.GenreIDs),
		})
	}

	s.logger.Debug("discover finished",
		"language", scope.Language, "country", scope.Country,
		"results", len(results), "kept", len(out))
	return out, nil
}

func genreNames(table map[int]string, ids []int) []string {
	var names []string
	for _, id := range ids {
		if name, ok := table[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
