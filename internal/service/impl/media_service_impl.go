package impl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"streamhaven/internal/domain"
	"streamhaven/internal/dto"
	"streamhaven/internal/store"
	"streamhaven/internal/tmdb"

	"golang.org/x/sync/errgroup"
)

// Fixed upstream list endpoints per catalog kind. The key is the public
// category name routes accept.
var movieCategories = map[string]string{
	"now-playing": "/movie/now_playing",
	"popular":     "/movie/popular",
	"top":         "/movie/top_rated",
	"upcoming":    "/movie/upcoming",
}

var seriesCategories = map[string]string{
	"popular":    "/tv/popular",
	"top":        "/tv/top_rated",
	"airing":     "/tv/airing_today",
	"next-seven": "/tv/on_the_air",
}

var ErrUnknownCategory = errors.New("unknown category")

type mediaCatalogStore interface {
	ListByType(ctx context.Context, mediaType string) ([]domain.Media, error)
}

type genreCatalogStore interface {
	List(ctx context.Context) ([]domain.Genre, error)
}

type MediaServiceImpl struct {
	media     mediaCatalogStore
	genres    genreCatalogStore
	client    *tmdb.Client
	imageBase string
}

func NewMediaServiceImpl(st *store.Store, client *tmdb.Client, imageBase string) *MediaServiceImpl {
	return &MediaServiceImpl{
		media:     st.Media(),
		genres:    st.Genres(),
		client:    client,
		imageBase: imageBase,
	}
}

// Trending serves from the local cache the sync job maintains; no upstream
// call happens on this path.
func (m *MediaServiceImpl) Trending(ctx context.Context) (*dto.TrendingResult, error) {
	movies, err := m.media.ListByType(ctx, domain.MediaTypeMovie)
	if err != nil {
		return nil, err
	}
	series, err := m.media.ListByType(ctx, domain.MediaTypeSeries)
	if err != nil {
		return nil, err
	}

	out := &dto.TrendingResult{
		TrendingMovies: make([]domain.Media, len(movies)),
		TrendingSeries: make([]domain.Media, len(series)),
	}
	for i, mv := range movies {
		out.TrendingMovies[i] = formatMedia(mv, m.imageBase)
	}
	for i, sr := range series {
		out.TrendingSeries[i] = formatMedia(sr, m.imageBase)
	}
	return out, nil
}

func (m *MediaServiceImpl) genreNames(ctx context.Context) map[int]string {
	genres, err := m.genres.List(ctx)
	if err != nil {
		return nil
	}
	names := make(map[int]string, len(genres))
	for _, g := range genres {
		names[g.TMDBID] = g.Name
	}
	return names
}

// Detail fetches one title with recommendations. For series a season number
// of one or higher also pulls that season's episode list onto the result.
func (m *MediaServiceImpl) Detail(ctx context.Context, id int, mediaType string, season int) (*dto.FormattedItem, error) {
	names := m.genreNames(ctx)

	if mediaType == domain.MediaTypeSeries {
		item, err := m.client.TVDetail(ctx, id, true)
		if err != nil {
			return nil, err
		}
		out := formatItem(*item, domain.MediaTypeSeries, m.imageBase, names)
		if season >= 1 {
			detail, err := m.client.TVSeason(ctx, id, season)
			if err != nil {
				return nil, err
			}
			out.Episodes = formatEpisodes(detail.Episodes, m.imageBase)
		}
		return &out, nil
	}

	item, err := m.client.MovieDetail(ctx, id, true)
	if err != nil {
		return nil, err
	}
	out := formatItem(*item, domain.MediaTypeMovie, m.imageBase, names)
	return &out, nil
}

// DefaultLists fans out to every category of the kind in parallel and keys
// the result by category name.
func (m *MediaServiceImpl) DefaultLists(ctx context.Context, mediaType string) (map[string][]dto.FormattedItem, error) {
	categories := movieCategories
	if mediaType == domain.MediaTypeSeries {
		categories = seriesCategories
	}
	names := m.genreNames(ctx)

	results := make(map[string][]dto.FormattedItem, len(categories))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for category, endpoint := range categories {
		category, endpoint := category, endpoint
		g.Go(func() error {
			page, err := m.client.ListPage(gctx, endpoint, 1)
			if err != nil {
				return err
			}
			formatted := formatPage(page, mediaType, m.imageBase, names)
			mu.Lock()
			results[category] = formatted.Results
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (m *MediaServiceImpl) CategoryPage(ctx context.Context, mediaType, category string, page int) (*dto.FormattedPage, error) {
	categories := movieCategories
	if mediaType == domain.MediaTypeSeries {
		categories = seriesCategories
	}
	endpoint, ok := categories[category]
	if !ok {
		return nil, ErrUnknownCategory
	}
	if page < 1 {
		page = 1
	}

	upstream, err := m.client.ListPage(ctx, endpoint, page)
	if err != nil {
		return nil, err
	}
	return formatPage(upstream, mediaType, m.imageBase, m.genreNames(ctx)), nil
}

func (m *MediaServiceImpl) Search(ctx context.Context, query string, page int) (*dto.FormattedPage, error) {
	if page < 1 {
		page = 1
	}
	upstream, err := m.client.SearchMulti(ctx, query, page)
	if err != nil {
		return nil, err
	}
	return formatPage(upstream, "", m.imageBase, m.genreNames(ctx)), nil
}

func (m *MediaServiceImpl) Keywords(ctx context.Context, query string) ([]dto.KeywordRef, error) {
	upstream, err := m.client.SearchKeywords(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]dto.KeywordRef, len(upstream.Results))
	for i, k := range upstream.Results {
		out[i] = dto.KeywordRef{ID: k.ID, Name: k.Name}
	}
	return out, nil
}

func (m *MediaServiceImpl) Genres(ctx context.Context) ([]domain.Genre, error) {
	return m.genres.List(ctx)
}

func (m *MediaServiceImpl) Languages(ctx context.Context) ([]dto.LanguageRef, error) {
	upstream, err := m.client.Languages(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LanguageRef, len(upstream))
	for i, l := range upstream {
		out[i] = dto.LanguageRef{ISO6391: l.ISO6391, EnglishName: l.EnglishName, Name: l.Name}
	}
	return out, nil
}

// Discover translates the typed filter body into upstream discovery query
// parameters for the movie or tv endpoint.
func (m *MediaServiceImpl) Discover(ctx context.Context, req dto.DiscoverRequest) (*dto.FormattedPage, error) {
	endpoint := "/discover/movie"
	typeTag := domain.MediaTypeMovie
	if req.Type == domain.MediaTypeSeries {
		endpoint = "/discover/tv"
		typeTag = domain.MediaTypeSeries
	}

	params := url.Values{}
	params.Set("language", "en-US")
	params.Set("include_adult", fmt.Sprint(req.IncludeAdult))
	page := req.Page
	if page < 1 {
		page = 1
	}
	params.Set("page", fmt.Sprint(page))

	if len(req.Genres) > 0 {
		ids := make([]string, len(req.Genres))
		for i, id := range req.Genres {
			ids[i] = fmt.Sprint(id)
		}
		params.Set("with_genres", strings.Join(ids, ","))
	}
	if req.Keywords != "" {
		params.Set("with_keywords", req.Keywords)
	}
	if req.Language != "" {
		params.Set("with_original_language", req.Language)
	}
	if req.ReleaseYear > 0 {
		if typeTag == domain.MediaTypeSeries {
			params.Set("first_air_date_year", fmt.Sprint(req.ReleaseYear))
		} else {
			params.Set("primary_release_year", fmt.Sprint(req.ReleaseYear))
		}
	}
	if req.VoteAverageGte > 0 {
		params.Set("vote_average.gte", fmt.Sprint(req.VoteAverageGte))
	}
	if req.VoteAverageLte > 0 {
		params.Set("vote_average.lte", fmt.Sprint(req.VoteAverageLte))
	}
	if req.RuntimeGte > 0 {
		params.Set("with_runtime.gte", fmt.Sprint(req.RuntimeGte))
	}
	if req.RuntimeLte > 0 {
		params.Set("with_runtime.lte", fmt.Sprint(req.RuntimeLte))
	}
	if req.SortBy != "" {
		params.Set("sort_by", req.SortBy)
	}

	upstream, err := m.client.Discover(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	return formatPage(upstream, typeTag, m.imageBase, m.genreNames(ctx)), nil
}
