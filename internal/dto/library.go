package dto

import "streamhaven/internal/domain"

type AddFolderRequest struct {
	FolderName string `json:"folder_name"`
}

type FolderIDRequest struct {
	FolderID string `json:"folderId"`
}

type SaveMovieRequest struct {
	FolderID string           `json:"folderId"`
	Movie    domain.SavedItem `json:"movie"`
}

type UnsaveMovieRequest struct {
	FolderID string `json:"folderId"`
	MovieID  int    `json:"movieId"`
}

type UnsaveMovieResponse struct {
	Response
	UpdatedFolder *domain.Folder `json:"updatedFolder,omitempty"`
}

type AddHistoryRequest struct {
	Movie HistoryItem `json:"movie"`
}

type HistoryItem struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path"`
	MediaType  string `json:"media_type"`
	WatchedAt  string `json:"watchedAt,omitempty"`
}

type HistoryResponse struct {
	Response
	Result []domain.HistoryEntry `json:"result"`
}

type DeleteHistoryRequest struct {
	MovieID int `json:"movieId"`
}

type ChangeUsernameRequest struct {
	Username string `json:"username"`
}

type ChangeUsernameResponse struct {
	Response
	Username string `json:"username,omitempty"`
}

// FolderSummary lists folder ids/names plus just the saved media ids, enough
// for the client to mark save buttons without the full payload.
type FolderSummary struct {
	ID         string      `json:"_id"`
	FolderName string      `json:"folder_name"`
	Saved      []MediaIDRef `json:"saved"`
}

type MediaIDRef struct {
	ID int `json:"id"`
}

type FolderSummariesResponse struct {
	Response
	Folders []FolderSummary `json:"folders"`
}

type AvatarResponse struct {
	Response
	Profile string `json:"profile,omitempty"`
}
