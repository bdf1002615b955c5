package movies

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var csvHeader = []string{"title", "released", "language", "country", "rating", "genres"}

// Store persists movie entries as a flat CSV file shared by every scope.
// The file is read and rewritten whole; writes go through a temp file and
// rename so a crash cannot leave a half-written cache behind.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a store backed by the file at path.
// The file does not need to exist yet.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		path:   path,
		logger: logger.With("component", "store"),
	}
}

// Path returns the cache file location.
func (s *Store) Path() string { return s.path }

// Load reads every entry from the cache file.
// A missing or unparseable file is an empty cache, and rows that fail to
// parse are skipped, so a damaged cache degrades to refetching instead of
// blocking requests.
func (s *Store) Load() ([]Movie, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		s.logger.Warn("cache file unreadable, treating as empty", "path", s.path, "error", err)
		return nil, nil
	}

	var out []Movie
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && rec[0] == "title" {
			continue
		}
		m, err := parseRecord(rec)
		if err != nil {
			s.logger.Warn("skipping bad cache row", "path", s.path, "row", i+1, "error", err)
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// Save atomically replaces the cache file with the given entries.
// Failures wrap ErrCachePersist; the previous file contents survive them.
func (s *Store) Save(entries []Movie) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrCachePersist, err)
	}

	tmp, err := os.CreateTemp(dir, ".movies-*.csv")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCachePersist, err)
	}
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("%w: %v", ErrCachePersist, err)
	}
	for _, m := range entries {
		if err := w.Write(record(m)); err != nil {
			return fmt.Errorf("%w: %v", ErrCachePersist, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrCachePersist, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		tmp = nil
		return fmt.Errorf("%w: %v", ErrCachePersist, err)
	}

	name := tmp.Name()
	tmp = nil
	if err := os.Rename(name, s.path); err != nil {
		os.Remove(name)
		return fmt.Errorf("%w: %v", ErrCachePersist, err)
	}
	return nil
}

func record(m Movie) []string {
	return []string{
		m.Title,
		m.Released.Format(dateLayout),
		m.Language,
		m.Country,
		strconv.FormatFloat(m.Rating, 'f', -1, 64),
		strings.Join(m.Genres, "|"),
	}
}

func parseRecord(rec []string) (Movie, error) {
	if len(rec) < 5 {
		return Movie{}, fmt.Errorf("expected at least 5 fields, got %d", len(rec))
	}

	released, err := time.Parse(dateLayout, rec[1])
	if err != nil {
		return Movie{}, fmt.Errorf("release date: %w", err)
	}
	rating, err := strconv.ParseFloat(rec[4], 64)
	if err != nil {
		return Movie{}, fmt.Errorf("rating: %w", err)
	}

	m := Movie{
		Title:    rec[0],
		Released: released,
		Language: rec[2],
		Country:  rec[3],
		Rating:   rating,
	}
	if len(rec) > 5 && rec[5] != "" {
		m.Genres = strings.Split(rec[5], "|")
	}
	return m, nil
}
