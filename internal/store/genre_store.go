package store

import (
	"context"

	"streamhaven/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GenreStore struct{ db *gorm.DB }

func (s *Store) Genres() *GenreStore { return &GenreStore{db: s.DB} }

// Upsert inserts or updates names by upstream id; genres are never deleted.
func (g *GenreStore) Upsert(ctx context.Context, genres []domain.Genre) error {
	if len(genres) == 0 {
		return nil
	}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tmdb_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&genres).Error
}

func (g *GenreStore) List(ctx context.Context) ([]domain.Genre, error) {
	var out []domain.Genre
	err := g.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}
