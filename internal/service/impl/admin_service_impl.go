package impl

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"streamhaven/internal/domain"
	"streamhaven/internal/dto"
	"streamhaven/internal/store"

	"github.com/google/uuid"
)

type adminUserStore interface {
	Save(ctx context.Context, usr *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type AdminServiceImpl struct {
	users adminUserStore
}

func NewAdminServiceImpl(st *store.Store) *AdminServiceImpl {
	return &AdminServiceImpl{users: st.Users()}
}

func (a *AdminServiceImpl) ListUsers(ctx context.Context) ([]dto.AdminUser, error) {
	users, err := a.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AdminUser, len(users))
	for i, u := range users {
		out[i] = dto.AdminUser{
			ID:         u.ID.String(),
			Email:      u.Email,
			Username:   u.Username,
			IsVerified: u.IsVerified,
			IsBlocked:  u.IsBlocked,
			Role:       u.Role,
			Profile:    u.AvatarURL,
			Joined:     u.CreatedAt,
		}
	}
	return out, nil
}

func (a *AdminServiceImpl) getUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (a *AdminServiceImpl) SetBlocked(ctx context.Context, userID uuid.UUID, blocked bool) error {
	user, err := a.getUser(ctx, userID)
	if err != nil {
		return err
	}
	user.IsBlocked = blocked
	user.UpdatedAt = time.Now().UTC()
	if err := a.users.Save(ctx, user); err != nil {
		return err
	}
	slog.Info("user block flag changed", "user_id", userID, "blocked", blocked)
	return nil
}

func (a *AdminServiceImpl) Promote(ctx context.Context, userID uuid.UUID) error {
	user, err := a.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return ErrAlreadyAdmin
	}
	user.Role = domain.RoleAdmin
	user.UpdatedAt = time.Now().UTC()
	if err := a.users.Save(ctx, user); err != nil {
		return err
	}
	slog.Info("user promoted", "user_id", userID)
	return nil
}

func (a *AdminServiceImpl) ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if !validPassword(newPassword) {
		return ErrPasswordTooShort
	}
	user, err := a.getUser(ctx, userID)
	if err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	if err := a.users.Save(ctx, user); err != nil {
		return err
	}
	slog.Info("password reset by admin", "user_id", userID)
	return nil
}

func (a *AdminServiceImpl) ChangeUsername(ctx context.Context, userID uuid.UUID, newUsername string) error {
	if !validUsername(newUsername) {
		return ErrInvalidUsername
	}
	if existing, err := a.users.GetByUsername(ctx, newUsername); err == nil {
		if existing.ID != userID {
			return domain.ErrUsernameTaken
		}
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return err
	}

	user, err := a.getUser(ctx, userID)
	if err != nil {
		return err
	}
	user.Username = newUsername
	user.UpdatedAt = time.Now().UTC()
	return a.users.Save(ctx, user)
}

func (a *AdminServiceImpl) UserHistory(ctx context.Context, userID uuid.UUID) ([]domain.HistoryEntry, error) {
	user, err := a.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.History == nil {
		return []domain.HistoryEntry{}, nil
	}
	return user.History, nil
}

func (a *AdminServiceImpl) ClearUserHistory(ctx context.Context, userID uuid.UUID) error {
	user, err := a.getUser(ctx, userID)
	if err != nil {
		return err
	}
	user.History = []domain.HistoryEntry{}
	user.UpdatedAt = time.Now().UTC()
	return a.users.Save(ctx, user)
}
