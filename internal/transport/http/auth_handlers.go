package http

import (
	"net/http"

	"streamhaven/internal/dto"
)

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	if err := h.auth.Register(r.Context(), req); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK("Verification email sent"))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	token, err := h.auth.Login(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.LoginResponse{Response: dto.OK("Logged in"), Token: token})
}

func (h *Handler) handleCheckAuth(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		var req dto.TokenRequest
		if err := decode(r, &req); err == nil {
			token = req.Token
		}
	}
	user, err := h.auth.CheckAuth(r.Context(), token)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CheckAuthResponse{
		Response: dto.OK("Authenticated"),
		Username: user.Username,
		Profile:  user.AvatarURL,
	})
}

func (h *Handler) handleSendVerification(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	if err := h.auth.SendVerification(r.Context(), req.Email); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK("Verification email sent"))
}

func (h *Handler) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyEmailRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	token, err := h.auth.VerifyEmail(r.Context(), req.Email, req.OTP)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.LoginResponse{Response: dto.OK("Account verified"), Token: token})
}

func (h *Handler) handleRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	if err := h.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK("Password reset email sent"))
}

func (h *Handler) handleConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyResetRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	if err := h.auth.ConfirmPasswordReset(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK("Password updated"))
}

func (h *Handler) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.DeleteAccount(r.Context(), userFrom(r)); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OK("Account deleted"))
}

func (h *Handler) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decode(r, &req); err != nil || req.Code == "" {
		badRequest(w, "missing authorization code")
		return
	}
	profile, err := h.google.Profile(r.Context(), req.Code)
	if err != nil {
		respondError(w, r, err)
		return
	}
	token, err := h.auth.FederatedLogin(r.Context(), profile.Email, profile.Name, profile.Picture)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.LoginResponse{Response: dto.OK("Logged in"), Token: token})
}
