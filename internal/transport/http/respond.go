package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"streamhaven/internal/domain"
	"streamhaven/internal/dto"
	"streamhaven/internal/observability/middleware"
	"streamhaven/internal/service/impl"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// businessErrors are expected rule rejections: the client gets HTTP 200 with
// condition=false and the message, mirroring how the frontend branches on the
// envelope rather than the status code.
var businessErrors = []error{
	domain.ErrEmailTaken,
	domain.ErrEmailNotRegistered,
	domain.ErrUsernameTaken,
	domain.ErrInvalidCredentials,
	domain.ErrNotVerified,
	domain.ErrAlreadyVerified,
	domain.ErrUserBlocked,
	domain.ErrUserNotFound,
	domain.ErrOTPInvalid,
	domain.ErrFolderLimit,
	domain.ErrFolderNotFound,
	domain.ErrAlreadySaved,
	domain.ErrItemNotFound,
	domain.ErrNoAvatar,
	impl.ErrMissingFields,
	impl.ErrInvalidUsername,
	impl.ErrInvalidEmail,
	impl.ErrPasswordTooShort,
	impl.ErrInvalidFolderName,
	impl.ErrAlreadyAdmin,
	impl.ErrUnsupportedImage,
}

// respondError maps a service error onto the wire. Known rejections become a
// condition=false envelope, token problems 401, anything else a logged 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	for _, known := range businessErrors {
		if errors.Is(err, known) {
			writeJSON(w, http.StatusOK, dto.Fail(known.Error()))
			return
		}
	}
	if errors.Is(err, impl.ErrUnknownCategory) {
		badRequest(w, "Invalid movie category")
		return
	}
	if errors.Is(err, domain.ErrTokenExpired) || errors.Is(err, domain.ErrTokenInvalid) {
		writeJSON(w, http.StatusUnauthorized, dto.Fail(err.Error()))
		return
	}
	slog.Error("request failed",
		"request_id", middleware.RequestIDFromContext(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeJSON(w, http.StatusInternalServerError, dto.Fail("something went wrong"))
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, dto.Fail(msg))
}
