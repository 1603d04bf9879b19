package service

import (
	"context"

	"streamhaven/internal/domain"
	"streamhaven/internal/dto"
)

// MediaService serves the public catalog surface: cached trending lists plus
// formatted pass-throughs to the upstream metadata API.
type MediaService interface {
	Trending(ctx context.Context) (*dto.TrendingResult, error)
	Detail(ctx context.Context, id int, mediaType string, season int) (*dto.FormattedItem, error)
	DefaultLists(ctx context.Context, mediaType string) (map[string][]dto.FormattedItem, error)
	CategoryPage(ctx context.Context, mediaType, category string, page int) (*dto.FormattedPage, error)
	Search(ctx context.Context, query string, page int) (*dto.FormattedPage, error)
	Keywords(ctx context.Context, query string) ([]dto.KeywordRef, error)
	Genres(ctx context.Context) ([]domain.Genre, error)
	Languages(ctx context.Context) ([]dto.LanguageRef, error)
	Discover(ctx context.Context, req dto.DiscoverRequest) (*dto.FormattedPage, error)
}
