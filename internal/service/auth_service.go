package service

import (
	"context"

	"streamhaven/internal/domain"
	"streamhaven/internal/dto"
)

type AuthService interface {
	// Register validates, creates the user with any imported guest folders,
	// issues an OTP and sends the verification mail (fire-and-forget).
	Register(ctx context.Context, req dto.RegisterRequest) error
	// Login returns a signed token; TTL depends on remember-me.
	Login(ctx context.Context, req dto.LoginRequest) (string, error)
	// CheckAuth resolves a token back to its user.
	CheckAuth(ctx context.Context, token string) (*domain.User, error)
	SendVerification(ctx context.Context, email string) error
	// VerifyEmail consumes the OTP, marks the account verified and returns a
	// fresh 7-day token.
	VerifyEmail(ctx context.Context, email, code string) (string, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error
	// DeleteAccount removes the avatar object (best effort) then the user.
	DeleteAccount(ctx context.Context, user *domain.User) error
	// FederatedLogin creates-or-fetches a verified user keyed by email and
	// returns a 7-day token.
	FederatedLogin(ctx context.Context, email, displayName, avatarURL string) (string, error)
}
