package store

import (
	"context"

	"streamhaven/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MediaStore struct{ db *gorm.DB }

func (s *Store) Media() *MediaStore { return &MediaStore{db: s.DB} }

func (m *MediaStore) ListByType(ctx context.Context, mediaType string) ([]domain.Media, error) {
	var out []domain.Media
	err := m.db.WithContext(ctx).Where("media_type = ?", mediaType).Find(&out).Error
	return out, err
}

// Upsert inserts or replaces by upstream id.
func (m *MediaStore) Upsert(ctx context.Context, media *domain.Media) error {
	return m.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(media).Error
}

// DeleteNotIn drops every cached entry whose id is absent from keep. An empty
// keep set clears the whole cache.
func (m *MediaStore) DeleteNotIn(ctx context.Context, keep []int) (int64, error) {
	q := m.db.WithContext(ctx)
	if len(keep) == 0 {
		res := q.Where("1 = 1").Delete(&domain.Media{})
		return res.RowsAffected, res.Error
	}
	res := q.Where("id NOT IN ?", keep).Delete(&domain.Media{})
	return res.RowsAffected, res.Error
}
