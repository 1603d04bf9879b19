package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaxFolders        = 5
	MaxFolderNameLen  = 10
	MaxImportedSaves  = 10
	MaxHistoryEntries = 50
	HistoryRetention  = 7 * 24 * time.Hour
)

// SavedItem is one media reference inside a folder. The fields mirror what
// the client needs to render a card without another catalog lookup.
type SavedItem struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	MediaType   string  `json:"media_type"`
}

type Folder struct {
	ID    uuid.UUID   `json:"_id"`
	Name  string      `json:"folder_name"`
	Saved []SavedItem `json:"saved"`
}

// Contains reports whether the folder already holds the given media id.
func (f *Folder) Contains(mediaID int) bool {
	for _, s := range f.Saved {
		if s.ID == mediaID {
			return true
		}
	}
	return false
}

type HistoryEntry struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	PosterPath string    `json:"poster_path"`
	MediaType  string    `json:"media_type"`
	WatchedAt  time.Time `json:"watchedAt"`
}
