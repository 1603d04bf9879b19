package http

import (
	"net/http"

	"streamhaven/internal/domain"
	"streamhaven/internal/dto"
)

// maxAvatarBytes caps profile image uploads at 5 MiB.
const maxAvatarBytes = 5 << 20

func (h *Handler) handleFolders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.FoldersResponse{
		Response: dto.OK("Folders fetched"),
		Folders:  h.library.Folders(userFrom(r)),
	})
}

func (h *Handler) handleFolderSummaries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.FolderSummariesResponse{
		Response: dto.OK("Folders fetched"),
		Folders:  h.library.FolderSummaries(userFrom(r)),
	})
}

func (h *Handler) handleAddFolder(w http.ResponseWriter, r *http.Request) {
	var req dto.AddFolderRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	user := userFrom(r)
	if err := h.library.AddFolder(r.Context(), user, req.FolderName); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FoldersResponse{
		Response: dto.OK("Folder created"),
		Folders:  h.library.Folders(user),
	})
}

func (h *Handler) handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	var req dto.FolderIDRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	user := userFrom(r)
	if err := h.library.DeleteFolder(r.Context(), user, req.FolderID); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FoldersResponse{
		Response: dto.OK("Folder deleted"),
		Folders:  h.library.Folders(user),
	})
}

func (h *Handler) handleSaveMovie(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveMovieRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	if err := h.library.SaveItem(r.Context(), userFrom(r), req.FolderID, req.Movie); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK("Movie saved"))
}

func (h *Handler) handleUnsaveMovie(w http.ResponseWriter, r *http.Request) {
	var req dto.UnsaveMovieRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	folder, err := h.library.UnsaveItem(r.Context(), userFrom(r), req.FolderID, req.MovieID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.UnsaveMovieResponse{
		Response:      dto.OK("Movie removed"),
		UpdatedFolder: folder,
	})
}

func (h *Handler) handleAddHistory(w http.ResponseWriter, r *http.Request) {
	var req dto.AddHistoryRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	entry := domain.HistoryEntry{
		ID:         req.Movie.ID,
		Title:      req.Movie.Title,
		PosterPath: req.Movie.PosterPath,
		MediaType:  req.Movie.MediaType,
	}
	if err := h.library.AddHistory(r.Context(), userFrom(r), entry); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK("History updated"))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.HistoryResponse{
		Response: dto.OK("History fetched"),
		Result:   h.library.History(userFrom(r)),
	})
}

func (h *Handler) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	var req dto.DeleteHistoryRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	if err := h.library.DeleteHistoryItem(r.Context(), userFrom(r), req.MovieID); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK("History entry removed"))
}

func (h *Handler) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.library.ClearHistory(r.Context(), userFrom(r)); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK("History cleared"))
}

func (h *Handler) handleCheckUsername(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangeUsernameRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	if err := h.library.CheckUsername(r.Context(), req.Username); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK("Username available"))
}

func (h *Handler) handleChangeUsername(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangeUsernameRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	user := userFrom(r)
	if err := h.library.ChangeUsername(r.Context(), user, req.Username); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ChangeUsernameResponse{
		Response: dto.OK("Username updated"),
		Username: user.Username,
	})
}

func (h *Handler) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		badRequest(w, "image too large or malformed upload")
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		badRequest(w, "missing avatar file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	url, err := h.library.UploadAvatar(r.Context(), userFrom(r), file, header.Size, contentType)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AvatarResponse{
		Response: dto.OK("Avatar updated"),
		Profile:  url,
	})
}

func (h *Handler) handleDeleteAvatar(w http.ResponseWriter, r *http.Request) {
	if err := h.library.DeleteAvatar(r.Context(), userFrom(r)); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK("Avatar removed"))
}
