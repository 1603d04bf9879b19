package dto

import "streamhaven/internal/domain"

// FormattedItem is the normalized catalog record every media route returns:
// resolved title and release date, MV/SR type tag, absolute image URLs,
// resolved genre names and recursively formatted recommendations.
type FormattedItem struct {
	ID              int               `json:"id"`
	Title           string            `json:"title"`
	Overview        string            `json:"overview"`
	MediaType       string            `json:"media_type"`
	PosterPath      string            `json:"poster_path"`
	BackdropPath    string            `json:"backdrop_path"`
	VoteAverage     float64           `json:"vote_average"`
	VoteCount       int               `json:"vote_count"`
	Popularity      float64           `json:"popularity,omitempty"`
	ReleaseDate     string            `json:"release_date"`
	Runtime         int               `json:"runtime,omitempty"`
	Genres          []domain.GenreRef `json:"genres"`
	Seasons         []FormattedSeason `json:"seasons,omitempty"`
	Episodes        []EpisodeItem     `json:"episodes,omitempty"`
	Recommendations []FormattedItem   `json:"recommendations,omitempty"`
}

type FormattedSeason struct {
	SeasonNumber int    `json:"season_number"`
	Name         string `json:"name"`
	EpisodeCount int    `json:"episode_count"`
	PosterPath   string `json:"poster_path"`
}

type EpisodeItem struct {
	EpisodeNumber int    `json:"episode_number"`
	Name          string `json:"name"`
	Overview      string `json:"overview"`
	StillPath     string `json:"still_path"`
	AirDate       string `json:"air_date"`
}

type FormattedPage struct {
	Page         int             `json:"page,omitempty"`
	TotalPages   int             `json:"total_pages"`
	TotalResults int             `json:"total_results"`
	Results      []FormattedItem `json:"results"`
}

type TrendingResult struct {
	TrendingMovies []domain.Media `json:"trendingMovies"`
	TrendingSeries []domain.Media `json:"trendingSeries"`
}

type TrendingResponse struct {
	Response
	Result TrendingResult `json:"result"`
}

type DetailResponse struct {
	Response
	Result *FormattedItem `json:"result,omitempty"`
}

type PageResponse struct {
	Response
	Result *FormattedPage `json:"result,omitempty"`
}

// ListsResponse groups the default category lists returned when no category
// is requested (movies: now/popular/top/upcoming; series: popular/top/
// airing/nextSeven).
type ListsResponse struct {
	Response
	Result map[string][]FormattedItem `json:"result,omitempty"`
}

type GenresResponse struct {
	Condition bool           `json:"condition"`
	Genres    []domain.Genre `json:"genres"`
}

type KeywordRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type KeywordsResponse struct {
	Condition bool         `json:"condition"`
	Keywords  []KeywordRef `json:"keywords"`
}

type LanguageRef struct {
	ISO6391     string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

type LanguagesResponse struct {
	Condition bool          `json:"condition"`
	Languages []LanguageRef `json:"languages"`
}

type DiscoverRequest struct {
	Type           string   `json:"type"`
	Genres         []int    `json:"genres,omitempty"`
	Keywords       string   `json:"keywords,omitempty"`
	Language       string   `json:"language,omitempty"`
	ReleaseYear    int      `json:"releaseYear,omitempty"`
	VoteAverageGte float64  `json:"voteAverageGte,omitempty"`
	VoteAverageLte float64  `json:"voteAverageLte,omitempty"`
	RuntimeGte     int      `json:"runtimeGte,omitempty"`
	RuntimeLte     int      `json:"runtimeLte,omitempty"`
	IncludeAdult   bool     `json:"includeAdult,omitempty"`
	SortBy         string   `json:"sortBy,omitempty"`
	Page           int      `json:"page,omitempty"`
}
