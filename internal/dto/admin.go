package dto

import (
	"time"

	"streamhaven/internal/domain"
)

type AdminUser struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
	IsBlocked  bool      `json:"isBlocked"`
	Role       string    `json:"role"`
	Profile    string    `json:"profile"`
	Joined     time.Time `json:"joined"`
}

type AdminUsersResponse struct {
	Response
	Users []AdminUser `json:"users"`
}

type BlockUserRequest struct {
	UserID string `json:"userId"`
	Block  *bool  `json:"block"`
}

type PromoteUserRequest struct {
	UserID string `json:"userId"`
}

type AdminResetPasswordRequest struct {
	UserID      string `json:"userId"`
	NewPassword string `json:"newPassword"`
}

type AdminChangeUsernameRequest struct {
	NewUsername string `json:"newUsername"`
}

type AdminHistoryResponse struct {
	Response
	History []domain.HistoryEntry `json:"history"`
}

type SyncResponse struct {
	Response
	Count int `json:"count"`
}
