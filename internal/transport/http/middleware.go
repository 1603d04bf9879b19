package http

import (
	"context"
	"net/http"
	"strings"

	"streamhaven/internal/domain"
	"streamhaven/internal/dto"
	"streamhaven/internal/service"
)

type ctxKey int

const userKey ctxKey = iota

// bearerToken pulls the token from the Authorization header, falling back to
// the "token" query parameter for link-style clients.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// requireUser resolves the request token to its account and stores it on the
// context. Blocked accounts are rejected here so no authenticated route sees
// them.
func requireUser(auth service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeJSON(w, http.StatusUnauthorized, dto.Fail("missing token"))
				return
			}
			user, err := auth.CheckAuth(r.Context(), token)
			if err != nil {
				respondError(w, r, err)
				return
			}
			if user.IsBlocked {
				writeJSON(w, http.StatusForbidden, dto.Fail(domain.ErrUserBlocked.Error()))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)
		if user == nil || !user.IsAdmin() {
			writeJSON(w, http.StatusForbidden, dto.Fail("admin only"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userFrom(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userKey).(*domain.User)
	return user
}
