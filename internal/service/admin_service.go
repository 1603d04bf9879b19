package service

import (
	"context"

	"streamhaven/internal/domain"
	"streamhaven/internal/dto"

	"github.com/google/uuid"
)

type AdminService interface {
	ListUsers(ctx context.Context) ([]dto.AdminUser, error)
	SetBlocked(ctx context.Context, userID uuid.UUID, blocked bool) error
	Promote(ctx context.Context, userID uuid.UUID) error
	ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error
	ChangeUsername(ctx context.Context, userID uuid.UUID, newUsername string) error
	UserHistory(ctx context.Context, userID uuid.UUID) ([]domain.HistoryEntry, error)
	ClearUserHistory(ctx context.Context, userID uuid.UUID) error
}
