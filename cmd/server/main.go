package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"streamhaven/internal/config"
	"streamhaven/internal/domain"
	"streamhaven/internal/observability/logging"
	"streamhaven/internal/observability/metrics"
	"streamhaven/internal/service/impl"
	"streamhaven/internal/store"
	"streamhaven/internal/tmdb"
	httpx "streamhaven/internal/transport/http"
)

const (
	janitorInterval = time.Hour
	syncInterval    = time.Hour
)

func main() {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "streamhaven",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	logger.Info("starting service")

	cfg := config.Load()
	metrics.MustRegister("streamhaven")

	st, err := store.Open(store.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("store open", "error", err)
		os.Exit(1)
	}
	if err := st.Migrate(); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	avatars, err := impl.NewMinioAvatarStorage(impl.AvatarConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		PublicURL: cfg.MinioPublicURL,
		Secure:    cfg.MinioSecure,
	})
	if err != nil {
		logger.Error("avatar storage", "error", err)
		os.Exit(1)
	}
	if err := avatars.EnsureBucket(context.Background()); err != nil {
		logger.Error("avatar bucket", "error", err)
		os.Exit(1)
	}

	tokens := impl.NewTokenServiceHS256([]byte(cfg.SigningKey), cfg.Issuer)
	mail := impl.NewGomailSender(impl.MailConfig{
		Host:          cfg.SMTPHost,
		Port:          cfg.SMTPPort,
		User:          cfg.EmailUser,
		Pass:          cfg.EmailPass,
		ServerAddress: cfg.FrontendURL,
	})
	catalog := tmdb.New(cfg.TMDBBaseURL, cfg.TMDBAPIKey)
	google := impl.NewGoogleVerifier(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.FrontendURL)

	auth := impl.NewAuthServiceImpl(st, tokens, mail, avatars, impl.TokenTTLs{
		Session:  cfg.SessionTTL,
		Remember: cfg.RememberTTL,
		Verify:   cfg.VerifyTTL,
	})
	library := impl.NewLibraryServiceImpl(st, avatars, cfg.TMDBImageBase)
	media := impl.NewMediaServiceImpl(st, catalog, cfg.TMDBImageBase)
	syncs := impl.NewSyncServiceImpl(st, catalog)
	admin := impl.NewAdminServiceImpl(st)

	go runJanitor(st)
	go runSyncLoop(syncs)

	handler := httpx.NewHandler(auth, library, media, syncs, admin, google)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpx.NewRouter(handler, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// runJanitor sweeps expired passcodes and unverified accounts that outlived
// their grace period.
func runJanitor(st *store.Store) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)

		now := time.Now().UTC()
		if _, err := st.OTPs().DeleteExpired(ctx, now); err != nil {
			slog.Error("otp sweep failed", "error", err)
		}
		cutoff := now.Add(-domain.UnverifiedTTL)
		if removed, err := st.Users().DeleteUnverifiedBefore(ctx, cutoff); err != nil {
			slog.Error("unverified sweep failed", "error", err)
		} else if removed > 0 {
			slog.Info("unverified accounts removed", "count", removed)
		}

		cancel()
	}
}

// runSyncLoop refreshes the catalog caches when stale, once at boot and then
// hourly.
func runSyncLoop(syncs *impl.SyncServiceImpl) {
	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		syncs.SyncIfStale(ctx)
	}

	run()
	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()
	for range ticker.C {
		run()
	}
}
