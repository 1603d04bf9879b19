package store

import (
	"context"
	"time"

	"streamhaven/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OTPStore struct{ db *gorm.DB }

func (s *Store) OTPs() *OTPStore { return &OTPStore{db: s.DB} }

func (o *OTPStore) Create(ctx context.Context, otp *domain.OTP) error {
	if otp.ID == uuid.Nil {
		otp.ID = uuid.New()
	}
	return o.db.WithContext(ctx).Create(otp).Error
}

// GetActiveByUser returns the newest unexpired code for the user.
func (o *OTPStore) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*domain.OTP, error) {
	var otp domain.OTP
	err := o.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, time.Now().UTC()).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &otp, nil
}

// GetByUserAndCode only returns unexpired matches; an expired code behaves
// exactly like a wrong one.
func (o *OTPStore) GetByUserAndCode(ctx context.Context, userID uuid.UUID, code string) (*domain.OTP, error) {
	var otp domain.OTP
	err := o.db.WithContext(ctx).
		Where("user_id = ? AND code = ? AND expires_at > ?", userID, code, time.Now().UTC()).
		First(&otp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &otp, nil
}

func (o *OTPStore) Delete(ctx context.Context, id uuid.UUID) error {
	return o.db.WithContext(ctx).Delete(&domain.OTP{}, "id = ?", id).Error
}

func (o *OTPStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := o.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.OTP{})
	return res.RowsAffected, res.Error
}
