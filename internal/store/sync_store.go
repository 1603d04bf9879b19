package store

import (
	"context"
	"time"

	"streamhaven/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SyncStore struct{ db *gorm.DB }

func (s *Store) Sync() *SyncStore { return &SyncStore{db: s.DB} }

const syncStateRow = 1

func (s *SyncStore) Get(ctx context.Context) (*domain.SyncState, error) {
	var st domain.SyncState
	err := s.db.WithContext(ctx).First(&st, "id = ?", syncStateRow).Error
	if err == gorm.ErrRecordNotFound {
		return &domain.SyncState{ID: syncStateRow}, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *SyncStore) MarkGenreSync(ctx context.Context, at time.Time) error {
	st := domain.SyncState{ID: syncStateRow, LastGenreSync: &at}
	return s.upsert(ctx, &st, map[string]any{"last_genre_sync": at})
}

func (s *SyncStore) MarkTrendingSync(ctx context.Context, at time.Time) error {
	st := domain.SyncState{ID: syncStateRow, LastTrendingSync: &at}
	return s.upsert(ctx, &st, map[string]any{"last_trending_sync": at})
}

func (s *SyncStore) upsert(ctx context.Context, st *domain.SyncState, assign map[string]any) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(assign),
	}).Create(st).Error
}
