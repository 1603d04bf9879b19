package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// FederatedPassword is the sentinel stored in place of a hash for accounts
// created through an external identity provider. It never matches bcrypt
// verification, so federated accounts cannot log in with a password.
const FederatedPassword = "GOOGLE_AUTH"

// UnverifiedTTL is how long an unverified account survives before the
// janitor removes it.
const UnverifiedTTL = 15 * 24 * time.Hour

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string         `gorm:"type:citext;uniqueIndex:ux_users_email" json:"email"`
	Username     string         `gorm:"type:citext;uniqueIndex:ux_users_username" json:"username"`
	PasswordHash string         `gorm:"not null" json:"-"`
	IsVerified   bool           `gorm:"not null;default:false" json:"isVerified"`
	IsBlocked    bool           `gorm:"not null;default:false" json:"isBlocked"`
	Role         string         `gorm:"not null;default:'User'" json:"role"`
	AvatarURL    string         `gorm:"default:''" json:"profile"`
	AvatarKey    string         `gorm:"default:''" json:"-"`
	Folders      []Folder       `gorm:"serializer:json" json:"folders"`
	History      []HistoryEntry `gorm:"serializer:json" json:"history"`
	CreatedAt    time.Time      `gorm:"not null" json:"joined"`
	UpdatedAt    time.Time      `gorm:"not null" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// FolderByID finds a folder on the user document. Returns nil when absent.
func (u *User) FolderByID(id uuid.UUID) *Folder {
	for i := range u.Folders {
		if u.Folders[i].ID == id {
			return &u.Folders[i]
		}
	}
	return nil
}
