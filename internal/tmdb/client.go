package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.themoviedb.org/3"
const defaultCacheTTL = 24 * time.Hour
const defaultMaxPages = 2

const dateLayout = "2006-01-02"

// ErrNotFound is returned when the requested resource doesn't exist in TMDB.
var ErrNotFound = errors.New("resource not found")

// ErrUnauthorized is returned when TMDB rejects the API key.
var ErrUnauthorized = errors.New("invalid API key")

// ErrRateLimited is returned when TMDB throttles the client.
var ErrRateLimited = errors.New("rate limited")

// Client is a TMDB API client.
type Client struct {
	apiKey     string
	baseURL    string
	maxPages   int
	httpClient *http.Client
	genres     *genreCache
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithCacheTTL sets the genre table cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.genres = newGenreCache(ttl)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMaxPages caps how many discover pages are fetched per query.
func WithMaxPages(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.With("component", "tmdb")
		}
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		maxPages: defaultMaxPages,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		genres: newGenreCache(defaultCacheTTL),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DiscoverQuery filters theatrical releases.
type DiscoverQuery struct {
	Language string    // ISO 639-1 original language, also used for localized titles
	Region   string    // ISO 3166-1 release region
	From     time.Time // primary release date lower bound
	To       time.Time // upper bound; zero leaves the range open
}

// Discover pages through /discover/movie and returns the concatenated
// results. Fetching stops at the server's last page or the client's
// page cap, whichever comes first.
func (c *Client) Discover(ctx context.Context, q DiscoverQuery) ([]Movie, error) {
	var all []Movie
	for page := 1; page <= c.maxPages; page++ {
		res, err := c.discoverPage(ctx, q, page)
		if err != nil {
			return nil, err
		}
		all = append(all, res.Results...)
		c.logger.Debug("discover page fetched",
			"page", page, "results", len(res.Results), "total_pages", res.TotalPages)
		if page >= res.TotalPages {
			break
		}
	}
	return all, nil
}

func (c *Client) discoverPage(ctx context.Context, q DiscoverQuery, page int) (*discoverPage, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("page", strconv.Itoa(page))
	if q.Language != "" {
		params.Set("language", q.Language)
		params.Set("with_original_language", q.Language)
	}
	if q.Region != "" {
		params.Set("region", q.Region)
	}
	if !q.From.IsZero() {
		params.Set("primary_release_date.gte", q.From.Format(dateLayout))
	}
	if !q.To.IsZero() {
		params.Set("primary_release_date.lte", q.To.Format(dateLayout))
	}

	var out discoverPage
	if err := c.getJSON(ctx, c.baseURL+"/discover/movie?"+params.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Genres returns the genre ID to name table for a language.
// The table is cached, so repeated lookups cost nothing.
func (c *Client) Genres(ctx context.Context, language string) (map[int]string, error) {
	if table, ok := c.genres.get(language); ok {
		return table, nil
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	if language != "" {
		params.Set("language", language)
	}

	var out genreList
	if err := c.getJSON(ctx, c.baseURL+"/genre/movie/list?"+params.Encode(), &out); err != nil {
		return nil, err
	}

	table := make(map[int]string, len(out.Genres))
	for _, g := range out.Genres {
		table[g.ID] = g.Name
	}
	c.genres.set(language, table)
	return table, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError maps a non-200 response to a sentinel, keeping TMDB's own
// status_message when one is present.
func statusError(resp *http.Response) error {
	var status apiStatus
	_ = json.NewDecoder(resp.Body).Decode(&status)
	msg := status.StatusMessage
	if msg == "" {
		msg = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, msg)
	default:
		return fmt.Errorf("TMDB API error: %s", msg)
	}
}
