// Package tmdb is a small client for the TMDB v3 API: multi search, popular
// listings and the genre taxonomy. Calls go through a circuit breaker.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/appdotbuilder/next-watch-recommender/internal/config"
	"github.com/appdotbuilder/next-watch-recommender/internal/models"

	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	mediaTypeMovie = "movie"
	mediaTypeTV    = "tv"
)

// Result is one entry of a TMDB listing. Movies carry Title/ReleaseDate,
// shows carry Name/FirstAirDate.
type Result struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	GenreIDs     []int   `json:"genre_ids"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
}

type Page struct {
	Page         int      `json:"page"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
	Results      []Result `json:"results"`
}

// Kind maps the TMDB media type; "" for people and unknown types.
func (r Result) Kind() models.MediaKind {
	switch r.MediaType {
	case mediaTypeMovie:
		return models.KindMovie
	case mediaTypeTV:
		return models.KindShow
	default:
		return ""
	}
}

func (r Result) ExternalID() string { return strconv.Itoa(r.ID) }

// ToUpsert converts the result using genre id to name mapping. Unknown ids
// are dropped; the TMDB order of genres is kept.
func (r Result) ToUpsert(genreNames map[int]string) models.MediaUpsert {
	title := r.Title
	if title == "" {
		title = r.Name
	}
	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}

	genres := make([]string, 0, len(r.GenreIDs))
	for _, id := range r.GenreIDs {
		if name, ok := genreNames[id]; ok {
			genres = append(genres, name)
		}
	}

	return models.MediaUpsert{
		Title:       title,
		Kind:        r.Kind(),
		Genres:      genres,
		Rating:      r.VoteAverage,
		Popularity:  r.Popularity,
		Overview:    r.Overview,
		PosterPath:  r.PosterPath,
		ReleaseDate: date,
	}
}

// StatusError is a non-2xx TMDB answer.
type StatusError struct {
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb %s: status %d: %s", e.Path, e.Status, e.Body)
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
}

func New(cfg *config.Config) *Client {
	return NewWithHTTPClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey, &http.Client{Timeout: 10 * time.Second})
}

func NewWithHTTPClient(baseURL, apiKey string, hc *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    hc,
		cb:      newBreaker("tmdb-api"),
	}
}

// SearchMulti searches movies and shows. People are filtered out.
func (c *Client) SearchMulti(ctx context.Context, query string, page int) (*Page, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}

	var p Page
	if err := c.get(ctx, "/search/multi", params, &p); err != nil {
		return nil, err
	}

	kept := p.Results[:0]
	for _, r := range p.Results {
		if r.Kind() != "" {
			kept = append(kept, r)
		}
	}
	p.Results = kept
	return &p, nil
}

// Popular lists one page of popular movies or shows. Results of the listing
// endpoints carry no media_type, so it is filled from kind.
func (c *Client) Popular(ctx context.Context, kind models.MediaKind, page int) (*Page, error) {
	mt, err := mediaType(kind)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}

	var p Page
	if err := c.get(ctx, "/"+mt+"/popular", params, &p); err != nil {
		return nil, err
	}
	for i := range p.Results {
		p.Results[i].MediaType = mt
	}
	return &p, nil
}

func (c *Client) Genres(ctx context.Context, kind models.MediaKind) ([]models.Genre, error) {
	mt, err := mediaType(kind)
	if err != nil {
		return nil, err
	}

	var body struct {
		Genres []models.Genre `json:"genres"`
	}
	if err := c.get(ctx, "/genre/"+mt+"/list", nil, &body); err != nil {
		return nil, err
	}
	if body.Genres == nil {
		body.Genres = []models.Genre{}
	}
	return body.Genres, nil
}

func mediaType(kind models.MediaKind) (string, error) {
	switch kind {
	case models.KindMovie:
		return mediaTypeMovie, nil
	case models.KindShow:
		return mediaTypeTV, nil
	default:
		return "", fmt.Errorf("tmdb: unsupported kind %q", kind)
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.fetch(ctx, path, reqURL)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("tmdb %s: decode: %w", path, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, path, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("tmdb %s: read: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return nil, &StatusError{Path: path, Status: resp.StatusCode, Body: snippet}
	}
	return body, nil
}

// IsUnavailable reports whether err means TMDB could not be reached or
// refused service, as opposed to rejecting the request itself.
func IsUnavailable(err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status >= 500 || se.Status == http.StatusTooManyRequests
	}
	return err != nil
}
