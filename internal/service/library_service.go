package service

import (
	"context"
	"io"

	"streamhaven/internal/domain"
	"streamhaven/internal/dto"
)

// LibraryService owns everything scoped to one authenticated user: profile,
// folders, history and avatar. Every mutation persists the whole user row.
type LibraryService interface {
	CheckUsername(ctx context.Context, username string) error
	ChangeUsername(ctx context.Context, user *domain.User, username string) error

	Folders(user *domain.User) []domain.Folder
	FolderSummaries(user *domain.User) []dto.FolderSummary
	AddFolder(ctx context.Context, user *domain.User, name string) error
	DeleteFolder(ctx context.Context, user *domain.User, folderID string) error
	SaveItem(ctx context.Context, user *domain.User, folderID string, item domain.SavedItem) error
	UnsaveItem(ctx context.Context, user *domain.User, folderID string, mediaID int) (*domain.Folder, error)

	AddHistory(ctx context.Context, user *domain.User, entry domain.HistoryEntry) error
	History(user *domain.User) []domain.HistoryEntry
	DeleteHistoryItem(ctx context.Context, user *domain.User, mediaID int) error
	ClearHistory(ctx context.Context, user *domain.User) error

	UploadAvatar(ctx context.Context, user *domain.User, r io.Reader, size int64, contentType string) (string, error)
	DeleteAvatar(ctx context.Context, user *domain.User) error
}
