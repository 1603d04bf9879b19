// Package http mounts the public API: auth, per-user library, catalog
// pass-through and admin routes, all returning the condition/message
// envelope.
package http

import (
	"net/http"
	"time"

	"streamhaven/internal/domain"
	"streamhaven/internal/observability/middleware"
	"streamhaven/internal/service"
	"streamhaven/internal/service/impl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	rateLimitRequests = 20
	rateLimitWindow   = 10 * time.Second
)

type Handler struct {
	auth    service.AuthService
	library service.LibraryService
	media   service.MediaService
	syncs   service.SyncService
	admin   service.AdminService
	google  *impl.GoogleVerifier
}

func NewHandler(
	auth service.AuthService,
	library service.LibraryService,
	media service.MediaService,
	syncs service.SyncService,
	admin service.AdminService,
	google *impl.GoogleVerifier,
) *Handler {
	return &Handler{
		auth:    auth,
		library: library,
		media:   media,
		syncs:   syncs,
		admin:   admin,
		google:  google,
	}
}

func NewRouter(h *Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithRequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.Limit(
		rateLimitRequests,
		rateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"message": "Too many requests, slow down!",
			})
		}),
	))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)
		r.Post("/checkauth", h.handleCheckAuth)
		r.Post("/sendverification", h.handleSendVerification)
		r.Post("/verifyemail", h.handleVerifyEmail)
		r.Post("/sendpasswordreset", h.handleRequestPasswordReset)
		r.Post("/resetpassword", h.handleConfirmPasswordReset)
		r.Post("/google", h.handleGoogleLogin)

		r.Group(func(r chi.Router) {
			r.Use(requireUser(h.auth))
			r.Delete("/delete", h.handleDeleteAccount)
		})
	})

	r.Route("/user", func(r chi.Router) {
		r.Use(requireUser(h.auth))

		r.Get("/folders", h.handleFolders)
		r.Get("/folderlist", h.handleFolderSummaries)
		r.Post("/addfolder", h.handleAddFolder)
		r.Post("/deletefolder", h.handleDeleteFolder)
		r.Post("/savemovie", h.handleSaveMovie)
		r.Post("/unsavemovie", h.handleUnsaveMovie)

		r.Get("/history", h.handleHistory)
		r.Post("/addhistory", h.handleAddHistory)
		r.Post("/deletehistory", h.handleDeleteHistory)
		r.Post("/clearhistory", h.handleClearHistory)

		r.Post("/checkusername", h.handleCheckUsername)
		r.Post("/changeusername", h.handleChangeUsername)

		r.Post("/avatar", h.handleUploadAvatar)
		r.Delete("/avatar", h.handleDeleteAvatar)
	})

	r.Route("/media", func(r chi.Router) {
		r.Get("/trending", h.handleTrending)
		r.Get("/movies", h.handleDefaultLists(domain.MediaTypeMovie))
		r.Get("/movies/{category}", h.handleCategoryPage(domain.MediaTypeMovie))
		r.Get("/series", h.handleDefaultLists(domain.MediaTypeSeries))
		r.Get("/series/{category}", h.handleCategoryPage(domain.MediaTypeSeries))
		r.Get("/search", h.handleSearch)
		r.Get("/keywords", h.handleKeywords)
		r.Get("/genres", h.handleGenres)
		r.Get("/languages", h.handleLanguages)
		r.Post("/discover", h.handleDiscover)
		r.Get("/{type}/{id}", h.handleDetail)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(requireUser(h.auth), requireAdmin)

		r.Get("/users", h.handleListUsers)
		r.Post("/block", h.handleBlockUser)
		r.Post("/promote", h.handlePromoteUser)
		r.Post("/resetpassword", h.handleAdminResetPassword)
		r.Post("/changeusername/{userId}", h.handleAdminChangeUsername)
		r.Get("/history/{userId}", h.handleAdminUserHistory)
		r.Post("/clearhistory", h.handleAdminClearHistory)
	})

	r.Route("/sync", func(r chi.Router) {
		r.Use(requireUser(h.auth), requireAdmin)

		r.Post("/genres", h.handleSyncGenres)
		r.Post("/trending", h.handleSyncTrending)
	})

	return r
}
