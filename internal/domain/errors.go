package domain

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmailNotRegistered = errors.New("email not registered")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("account not verified")
	ErrAlreadyVerified    = errors.New("already verified")
	ErrUserBlocked        = errors.New("account blocked")
	ErrUserNotFound       = errors.New("user not found")
	ErrOTPInvalid         = errors.New("invalid or expired otp")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrFolderLimit        = errors.New("folder limit reached")
	ErrFolderNotFound     = errors.New("folder not found")
	ErrAlreadySaved       = errors.New("movie already saved")
	ErrItemNotFound       = errors.New("movie not found")
	ErrNoAvatar           = errors.New("no avatar to delete")
)
