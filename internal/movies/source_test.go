package movies_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cinepoll/cinepoll/internal/movies"
	"github.com/cinepoll/cinepoll/internal/tmdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTMDBSource_Discover(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/discover/movie":
			assert.Equal(t, "en", r.URL.Query().Get("with_original_language"))
			assert.Equal(t, "US", r.URL.Query().Get("region"))
			w.Write([]byte(`{
				"page": 1,
				"total_pages": 1,
				"results": [
					{"id": 1, "title": "In Window", "release_date": "2026-08-14", "vote_average": 7.5, "genre_ids": [28, 12]},
					{"id": 2, "title": "Unknown Genre", "release_date": "2026-09-02", "vote_average": 6.1, "genre_ids": [999]},
					{"id": 3, "title": "No Date Yet", "release_date": "", "vote_average": 8.0},
					{"id": 4, "title": "Out Of Window", "release_date": "2026-11-20", "vote_average": 9.0}
				]
			}`))
		case "/genre/movie/list":
			w.Write([]byte(`{"genres": [{"id": 28, "name": "Action"}, {"id": 12, "name": "Adventure"}]}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := tmdb.NewClient("test-key", tmdb.WithBaseURL(server.URL))
	source := movies.NewTMDBSource(client, testLogger())

	window := movies.Window{
		Start: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
	}
	got, err := source.Discover(context.Background(), movies.Scope{Language: "en", Country: "US"}, window)

	require.NoError(t, err)
	require.Len(t, got, 2, "dateless and out-of-window results are dropped")

	assert.Equal(t, movies.Movie{
		Title:    "In Window",
		Released: time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC),
		Language: "en",
		Country:  "US",
		Rating:   7.5,
		Genres:   []string{"Action", "Adventure"},
	}, got[0])

	assert.Equal(t, "Unknown Genre", got[1].Title)
	assert.Nil(t, got[1].Genres, "unmapped genre IDs are dropped, not invented")
}

func TestTMDBSource_OpenWindowKeepsFutureReleases(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/discover/movie":
			assert.Empty(t, r.URL.Query().Get("primary_release_date.lte"))
			w.Write([]byte(`{
				"page": 1,
				"total_pages": 1,
				"results": [
					{"id": 1, "title": "Far Future", "release_date": "2027-06-01", "vote_average": 7.0},
					{"id": 2, "title": "Too Old", "release_date": "2026-01-15", "vote_average": 7.0}
				]
			}`))
		case "/genre/movie/list":
			w.Write([]byte(`{"genres": []}`))
		}
	}))
	defer server.Close()

	client := tmdb.NewClient("test-key", tmdb.WithBaseURL(server.URL))
	source := movies.NewTMDBSource(client, testLogger())

	window := movies.Window{Start: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}
	got, err := source.Discover(context.Background(), movies.Scope{Language: "en", Country: "US"}, window)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Far Future", got[0].Title)
}

func TestTMDBSource_GenreLookupFailureIsNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/discover/movie":
			w.Write([]byte(`{
				"page": 1,
				"total_pages": 1,
				"results": [{"id": 1, "title": "Alpha", "release_date": "2026-08-14", "vote_average": 7.5, "genre_ids": [28]}]
			}`))
		case "/genre/movie/list":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"status_code": 11, "status_message": "Internal error"}`))
		}
	}))
	defer server.Close()

	client := tmdb.NewClient("test-key", tmdb.WithBaseURL(server.URL))
	source := movies.NewTMDBSource(client, testLogger())

	window := movies.Window{
		Start: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
	}
	got, err := source.Discover(context.Background(), movies.Scope{Language: "en", Country: "US"}, window)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Genres)
}

func TestTMDBSource_ClientErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status_code": 7, "status_message": "Invalid API key"}`))
	}))
	defer server.Close()

	client := tmdb.NewClient("bad-key", tmdb.WithBaseURL(server.URL))
	source := movies.NewTMDBSource(client, testLogger())

	_, err := source.Discover(context.Background(), movies.Scope{Language: "en", Country: "US"}, movies.Window{})
	assert.ErrorIs(t, err, tmdb.ErrUnauthorized)
}
