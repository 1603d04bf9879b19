package service

import (
	"time"

	"github.com/google/uuid"
)

type TokenService interface {
	Issue(userID uuid.UUID, ttl time.Duration) (string, error)
	// Verify returns the user id carried by a valid token. Expired tokens
	// yield domain.ErrTokenExpired, anything else domain.ErrTokenInvalid.
	Verify(token string) (uuid.UUID, error)
}
