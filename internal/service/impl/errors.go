package impl

import "errors"

// Validation errors returned before any storage is touched.
var (
	ErrMissingFields     = errors.New("all fields are required")
	ErrInvalidUsername   = errors.New("invalid username")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrPasswordTooShort  = errors.New("password too short")
	ErrInvalidFolderName = errors.New("invalid folder name")
	ErrAlreadyAdmin      = errors.New("user is already an admin")
	ErrUnsupportedImage  = errors.New("only jpg and png are allowed")
)
