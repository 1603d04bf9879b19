// Package tmdb is a read-only client for the upstream movie/TV metadata API.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"streamhaven/internal/observability/metrics"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Get performs a bearer-authenticated GET of baseURL+path and decodes the
// JSON body into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("upstream get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequestsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("upstream get %s: status %d", path, resp.StatusCode)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues("success").Inc()

	return json.NewDecoder(resp.Body).Decode(out)
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type GenreList struct {
	Genres []Genre `json:"genres"`
}

type Season struct {
	SeasonNumber int    `json:"season_number"`
	Name         string `json:"name"`
	EpisodeCount int    `json:"episode_count"`
	PosterPath   string `json:"poster_path"`
}

type Episode struct {
	EpisodeNumber int    `json:"episode_number"`
	Name          string `json:"name"`
	Overview      string `json:"overview"`
	StillPath     string `json:"still_path"`
	AirDate       string `json:"air_date"`
}

// Item covers both list entries (genre_ids only) and detail payloads
// (embedded genres, runtime, seasons, recommendations).
type Item struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	Name            string   `json:"name"`
	Overview        string   `json:"overview"`
	PosterPath      string   `json:"poster_path"`
	BackdropPath    string   `json:"backdrop_path"`
	VoteAverage     float64  `json:"vote_average"`
	VoteCount       int      `json:"vote_count"`
	Popularity      float64  `json:"popularity"`
	ReleaseDate     string   `json:"release_date"`
	FirstAirDate    string   `json:"first_air_date"`
	MediaType       string   `json:"media_type"`
	GenreIDs        []int    `json:"genre_ids"`
	Genres          []Genre  `json:"genres"`
	Runtime         int      `json:"runtime"`
	Seasons         []Season `json:"seasons"`
	Recommendations *Page    `json:"recommendations"`
}

type Page struct {
	Page         int    `json:"page"`
	Results      []Item `json:"results"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
}

type SeasonDetail struct {
	SeasonNumber int       `json:"season_number"`
	Name         string    `json:"name"`
	Overview     string    `json:"overview"`
	PosterPath   string    `json:"poster_path"`
	AirDate      string    `json:"air_date"`
	Episodes     []Episode `json:"episodes"`
}

type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type KeywordPage struct {
	Results []Keyword `json:"results"`
}

type Language struct {
	ISO6391     string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

func (c *Client) MovieGenres(ctx context.Context) (*GenreList, error) {
	var out GenreList
	err := c.Get(ctx, "/genre/movie/list?language=en", &out)
	return &out, err
}

func (c *Client) TVGenres(ctx context.Context) (*GenreList, error) {
	var out GenreList
	err := c.Get(ctx, "/genre/tv/list?language=en", &out)
	return &out, err
}

func (c *Client) TrendingMovies(ctx context.Context) (*Page, error) {
	var out Page
	err := c.Get(ctx, "/trending/movie/day?language=en-US", &out)
	return &out, err
}

func (c *Client) TrendingTV(ctx context.Context) (*Page, error) {
	var out Page
	err := c.Get(ctx, "/trending/tv/day?language=en-US", &out)
	return &out, err
}

func (c *Client) MovieDetail(ctx context.Context, id int, withRecommendations bool) (*Item, error) {
	path := fmt.Sprintf("/movie/%d?language=en-US", id)
	if withRecommendations {
		path = fmt.Sprintf("/movie/%d?append_to_response=recommendations&language=en-US", id)
	}
	var out Item
	err := c.Get(ctx, path, &out)
	return &out, err
}

func (c *Client) TVDetail(ctx context.Context, id int, withRecommendations bool) (*Item, error) {
	path := fmt.Sprintf("/tv/%d?language=en-US", id)
	if withRecommendations {
		path = fmt.Sprintf("/tv/%d?append_to_response=recommendations&language=en-US", id)
	}
	var out Item
	err := c.Get(ctx, path, &out)
	return &out, err
}

func (c *Client) TVSeason(ctx context.Context, id, season int) (*SeasonDetail, error) {
	var out SeasonDetail
	err := c.Get(ctx, fmt.Sprintf("/tv/%d/season/%d?language=en-US", id, season), &out)
	return &out, err
}

// ListPage fetches one page of a fixed category endpoint such as
// /movie/popular or /tv/airing_today.
func (c *Client) ListPage(ctx context.Context, endpoint string, page int) (*Page, error) {
	var out Page
	err := c.Get(ctx, fmt.Sprintf("%s?language=en-US&page=%d", endpoint, page), &out)
	return &out, err
}

func (c *Client) SearchMulti(ctx context.Context, query string, page int) (*Page, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("include_adult", "false")
	q.Set("language", "en-US")
	q.Set("page", fmt.Sprint(page))
	var out Page
	err := c.Get(ctx, "/search/multi?"+q.Encode(), &out)
	return &out, err
}

func (c *Client) SearchKeywords(ctx context.Context, query string) (*KeywordPage, error) {
	q := url.Values{}
	q.Set("query", query)
	var out KeywordPage
	err := c.Get(ctx, "/search/keyword?"+q.Encode(), &out)
	return &out, err
}

func (c *Client) Languages(ctx context.Context) ([]Language, error) {
	var out []Language
	err := c.Get(ctx, "/configuration/languages", &out)
	return out, err
}

// Discover runs a filtered discovery query against the given endpoint,
// /discover/movie or /discover/tv, with the caller's filter params.
func (c *Client) Discover(ctx context.Context, endpoint string, params url.Values) (*Page, error) {
	var out Page
	err := c.Get(ctx, endpoint+"?"+params.Encode(), &out)
	return &out, err
}
