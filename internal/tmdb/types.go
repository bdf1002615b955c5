// Package tmdb provides a client for The Movie Database API.
package tmdb

import "strconv"

// Movie represents one result from the discover endpoint.
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalLanguage string  `json:"original_language"` // e.g., "en"
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"` // "2026-03-01"
	PosterPath       string  `json:"poster_path"`  // "/abc123.jpg"
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	GenreIDs         []int   `json:"genre_ids"`
}

// Genre represents a movie genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Year extracts the year from ReleaseDate.
func (m *Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// discoverPage is the envelope around one page of discover results.
type discoverPage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

type genreList struct {
	Genres []Genre `json:"genres"`
}

// apiStatus is TMDB's error envelope on non-200 responses.
type apiStatus struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
