package impl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"streamhaven/internal/domain"
	"streamhaven/internal/dto"
	"streamhaven/internal/service"
	"streamhaven/internal/store"

	"github.com/google/uuid"
)

type libraryUserStore interface {
	Save(ctx context.Context, usr *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// LibraryServiceImpl mutates the caller's user row as a whole document;
// concurrent edits to the same account are last-writer-wins.
type LibraryServiceImpl struct {
	users     libraryUserStore
	avatars   service.AvatarStorage
	imageBase string
}

func NewLibraryServiceImpl(st *store.Store, avatars service.AvatarStorage, imageBase string) *LibraryServiceImpl {
	return &LibraryServiceImpl{
		users:     st.Users(),
		avatars:   avatars,
		imageBase: imageBase,
	}
}

func (l *LibraryServiceImpl) CheckUsername(ctx context.Context, username string) error {
	if !validUsername(username) {
		return ErrInvalidUsername
	}
	_, err := l.users.GetByUsername(ctx, username)
	if err == nil {
		return domain.ErrUsernameTaken
	}
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil
	}
	return err
}

func (l *LibraryServiceImpl) ChangeUsername(ctx context.Context, user *domain.User, username string) error {
	if err := l.CheckUsername(ctx, username); err != nil {
		return err
	}
	user.Username = username
	user.UpdatedAt = time.Now().UTC()
	return l.users.Save(ctx, user)
}

// Folders returns display-ready copies with absolute poster URLs; the stored
// rows keep raw upstream paths.
func (l *LibraryServiceImpl) Folders(user *domain.User) []domain.Folder {
	out := make([]domain.Folder, len(user.Folders))
	for i, f := range user.Folders {
		saved := make([]domain.SavedItem, len(f.Saved))
		for j, item := range f.Saved {
			item.PosterPath = imageURL(l.imageBase, posterSize, item.PosterPath)
			saved[j] = item
		}
		out[i] = domain.Folder{ID: f.ID, Name: f.Name, Saved: saved}
	}
	return out
}

func (l *LibraryServiceImpl) FolderSummaries(user *domain.User) []dto.FolderSummary {
	out := make([]dto.FolderSummary, len(user.Folders))
	for i, f := range user.Folders {
		ids := make([]dto.MediaIDRef, len(f.Saved))
		for j, item := range f.Saved {
			ids[j] = dto.MediaIDRef{ID: item.ID}
		}
		out[i] = dto.FolderSummary{ID: f.ID.String(), FolderName: f.Name, Saved: ids}
	}
	return out
}

func validFolderName(name string) bool {
	if name == "" || len(name) > domain.MaxFolderNameLen {
		return false
	}
	return !strings.ContainsAny(name, " \t\n")
}

func (l *LibraryServiceImpl) AddFolder(ctx context.Context, user *domain.User, name string) error {
	if !validFolderName(name) {
		return ErrInvalidFolderName
	}
	if len(user.Folders) >= domain.MaxFolders {
		return domain.ErrFolderLimit
	}
	user.Folders = append(user.Folders, domain.Folder{
		ID:    uuid.New(),
		Name:  name,
		Saved: []domain.SavedItem{},
	})
	user.UpdatedAt = time.Now().UTC()
	return l.users.Save(ctx, user)
}

func (l *LibraryServiceImpl) DeleteFolder(ctx context.Context, user *domain.User, folderID string) error {
	id, err := uuid.Parse(folderID)
	if err != nil {
		return domain.ErrFolderNotFound
	}
	for i := range user.Folders {
		if user.Folders[i].ID == id {
			user.Folders = append(user.Folders[:i], user.Folders[i+1:]...)
			user.UpdatedAt = time.Now().UTC()
			return l.users.Save(ctx, user)
		}
	}
	return domain.ErrFolderNotFound
}

func (l *LibraryServiceImpl) SaveItem(ctx context.Context, user *domain.User, folderID string, item domain.SavedItem) error {
	id, err := uuid.Parse(folderID)
	if err != nil {
		return domain.ErrFolderNotFound
	}
	folder := user.FolderByID(id)
	if folder == nil {
		return domain.ErrFolderNotFound
	}
	if folder.Contains(item.ID) {
		return domain.ErrAlreadySaved
	}
	folder.Saved = append(folder.Saved, item)
	user.UpdatedAt = time.Now().UTC()
	return l.users.Save(ctx, user)
}

func (l *LibraryServiceImpl) UnsaveItem(ctx context.Context, user *domain.User, folderID string, mediaID int) (*domain.Folder, error) {
	id, err := uuid.Parse(folderID)
	if err != nil {
		return nil, domain.ErrFolderNotFound
	}
	folder := user.FolderByID(id)
	if folder == nil {
		return nil, domain.ErrFolderNotFound
	}
	for i := range folder.Saved {
		if folder.Saved[i].ID == mediaID {
			folder.Saved = append(folder.Saved[:i], folder.Saved[i+1:]...)
			user.UpdatedAt = time.Now().UTC()
			if err := l.users.Save(ctx, user); err != nil {
				return nil, err
			}
			updated := l.formatFolder(*folder)
			return &updated, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (l *LibraryServiceImpl) formatFolder(f domain.Folder) domain.Folder {
	saved := make([]domain.SavedItem, len(f.Saved))
	for i, item := range f.Saved {
		item.PosterPath = imageURL(l.imageBase, posterSize, item.PosterPath)
		saved[i] = item
	}
	return domain.Folder{ID: f.ID, Name: f.Name, Saved: saved}
}

// AddHistory prunes stale entries, replaces any earlier watch of the same
// title and prepends the new one, newest first, capped at the history limit.
func (l *LibraryServiceImpl) AddHistory(ctx context.Context, user *domain.User, entry domain.HistoryEntry) error {
	now := time.Now().UTC()
	if entry.WatchedAt.IsZero() {
		entry.WatchedAt = now
	}

	kept := make([]domain.HistoryEntry, 0, len(user.History)+1)
	kept = append(kept, entry)
	cutoff := now.Add(-domain.HistoryRetention)
	for _, h := range user.History {
		if h.ID == entry.ID && h.MediaType == entry.MediaType {
			continue
		}
		if h.WatchedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, h)
	}
	if len(kept) > domain.MaxHistoryEntries {
		kept = kept[:domain.MaxHistoryEntries]
	}

	user.History = kept
	user.UpdatedAt = now
	return l.users.Save(ctx, user)
}

// History returns the still-fresh entries with absolute poster URLs. Stale
// rows are filtered from the view and swept on the next write.
func (l *LibraryServiceImpl) History(user *domain.User) []domain.HistoryEntry {
	cutoff := time.Now().UTC().Add(-domain.HistoryRetention)
	out := make([]domain.HistoryEntry, 0, len(user.History))
	for _, h := range user.History {
		if h.WatchedAt.Before(cutoff) {
			continue
		}
		h.PosterPath = imageURL(l.imageBase, posterSize, h.PosterPath)
		out = append(out, h)
	}
	return out
}

func (l *LibraryServiceImpl) DeleteHistoryItem(ctx context.Context, user *domain.User, mediaID int) error {
	for i := range user.History {
		if user.History[i].ID == mediaID {
			user.History = append(user.History[:i], user.History[i+1:]...)
			user.UpdatedAt = time.Now().UTC()
			return l.users.Save(ctx, user)
		}
	}
	return domain.ErrItemNotFound
}

func (l *LibraryServiceImpl) ClearHistory(ctx context.Context, user *domain.User) error {
	user.History = []domain.HistoryEntry{}
	user.UpdatedAt = time.Now().UTC()
	return l.users.Save(ctx, user)
}

func (l *LibraryServiceImpl) UploadAvatar(ctx context.Context, user *domain.User, r io.Reader, size int64, contentType string) (string, error) {
	if contentType != "image/jpeg" && contentType != "image/png" {
		return "", ErrUnsupportedImage
	}

	key := fmt.Sprintf("avatars/%s", user.ID)
	if user.AvatarKey != "" && user.AvatarKey != key {
		if err := l.avatars.Delete(ctx, user.AvatarKey); err != nil {
			slog.Warn("previous avatar not deleted", "user_id", user.ID, "error", err)
		}
	}

	url, err := l.avatars.Upload(ctx, key, r, size, contentType)
	if err != nil {
		return "", err
	}

	user.AvatarURL = url
	user.AvatarKey = key
	user.UpdatedAt = time.Now().UTC()
	if err := l.users.Save(ctx, user); err != nil {
		return "", err
	}
	return url, nil
}

func (l *LibraryServiceImpl) DeleteAvatar(ctx context.Context, user *domain.User) error {
	if user.AvatarKey == "" && user.AvatarURL == "" {
		return domain.ErrNoAvatar
	}
	if user.AvatarKey != "" {
		if err := l.avatars.Delete(ctx, user.AvatarKey); err != nil {
			slog.Warn("avatar object not deleted", "user_id", user.ID, "error", err)
		}
	}
	user.AvatarURL = ""
	user.AvatarKey = ""
	user.UpdatedAt = time.Now().UTC()
	return l.users.Save(ctx, user)
}
