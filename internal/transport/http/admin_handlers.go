package http

import (
	"net/http"

	"streamhaven/internal/dto"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AdminUsersResponse{
		Response: dto.OK("Users fetched"),
		Users:    users,
	})
}

func (h *Handler) handleBlockUser(w http.ResponseWriter, r *http.Request) {
	var req dto.BlockUserRequest
	if err := decode(r, &req); err != nil || req.Block == nil {
		badRequest(w, "malformed request body")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		badRequest(w, "invalid userId")
		return
	}
	if err := h.admin.SetBlocked(r.Context(), userID, *req.Block); err != nil {
		respondError(w, r, err)
		return
	}
	msg := "User unblocked"
	if *req.Block {
		msg = "User blocked"
	}
	writeJSON(w, http.StatusOK, dto.OK(msg))
}

func (h *Handler) handlePromoteUser(w http.ResponseWriter, r *http.Request) {
	var req dto.PromoteUserRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		badRequest(w, "invalid userId")
		return
	}
	if err := h.admin.Promote(r.Context(), userID); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK("User promoted"))
}

func (h *Handler) handleAdminResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminResetPasswordRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		badRequest(w, "invalid userId")
		return
	}
	if err := h.admin.ResetPassword(r.Context(), userID, req.NewPassword); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK("Password reset"))
}

func (h *Handler) handleAdminChangeUsername(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		badRequest(w, "invalid userId")
		return
	}
	var req dto.AdminChangeUsernameRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	if err := h.admin.ChangeUsername(r.Context(), userID, req.NewUsername); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK("Username updated"))
}

func (h *Handler) handleAdminUserHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		badRequest(w, "invalid userId")
		return
	}
	history, err := h.admin.UserHistory(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AdminHistoryResponse{
		Response: dto.OK("History fetched"),
		History:  history,
	})
}

func (h *Handler) handleAdminClearHistory(w http.ResponseWriter, r *http.Request) {
	var req dto.PromoteUserRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		badRequest(w, "invalid userId")
		return
	}
	if err := h.admin.ClearUserHistory(r.Context(), userID); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK("History cleared"))
}

func (h *Handler) handleSyncGenres(w http.ResponseWriter, r *http.Request) {
	count, err := h.syncs.SyncGenres(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SyncResponse{
		Response: dto.OK("Genres synced"),
		Count:    count,
	})
}

func (h *Handler) handleSyncTrending(w http.ResponseWriter, r *http.Request) {
	count, err := h.syncs.SyncTrending(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SyncResponse{
		Response: dto.OK("Trending synced"),
		Count:    count,
	})
}
