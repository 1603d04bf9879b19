package domain

import (
	"time"

	"github.com/google/uuid"
)

// OTPTTL is the validity window of a verification or reset passcode.
const OTPTTL = 10 * time.Minute

type OTP struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index"`
	Code      string    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

func (OTP) TableName() string { return "otps" }
