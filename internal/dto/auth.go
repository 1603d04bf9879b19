package dto

import "streamhaven/internal/domain"

// ImportedFolder carries guest-mode folders submitted at registration. A
// folder named "History" seeds the watch history instead.
type ImportedFolder struct {
	FolderName string         `json:"folder_name"`
	Saved      []ImportedItem `json:"saved"`
}

type ImportedItem struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	MediaType   string  `json:"media_type"`
	WatchedAt   string  `json:"watchedAt,omitempty"`
}

type RegisterRequest struct {
	Username   string           `json:"username"`
	Email      string           `json:"email"`
	Password   string           `json:"password"`
	SavedMovie []ImportedFolder `json:"savedMovie,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type LoginResponse struct {
	Response
	Token string `json:"token,omitempty"`
}

type TokenRequest struct {
	Token string `json:"token"`
}

type CheckAuthResponse struct {
	Response
	Username string `json:"username,omitempty"`
	Profile  string `json:"profile,omitempty"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type VerifyResetRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type FoldersResponse struct {
	Response
	Folders []domain.Folder `json:"folders"`
}
