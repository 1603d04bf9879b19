package store

import (
	"context"
	"time"

	"streamhaven/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.ID == uuid.Nil {
		usr.ID = uuid.New()
	}
	return u.db.WithContext(ctx).Create(usr).Error
}

// Save persists the whole user row, folders and history included. Concurrent
// saves to the same user are last-writer-wins.
func (u *UserStore) Save(ctx context.Context, usr *domain.User) error {
	return u.db.WithContext(ctx).Save(usr).Error
}

func (u *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername matches case-insensitively; the username column is citext.
func (u *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := u.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

func (u *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	return u.db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id).Error
}

// DeleteUnverifiedBefore removes unverified accounts created before the
// cutoff. Stands in for the TTL index the document store used to provide.
func (u *UserStore) DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := u.db.WithContext(ctx).
		Where("is_verified = ? AND created_at < ?", false, cutoff).
		Delete(&domain.User{})
	return res.RowsAffected, res.Error
}
