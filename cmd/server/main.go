package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"

	"Glimpse/internal/api"
	"Glimpse/internal/api/middleware"
	"Glimpse/internal/api/routes"
	"Glimpse/internal/blobstore"
	"Glimpse/internal/config"
	"Glimpse/internal/core/store"
	"Glimpse/internal/identity"
	"Glimpse/internal/records"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// Record service client: direct Postgres when a DSN is configured,
	// otherwise the REST surface.
	var recordsClient records.Client
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, db, err := records.OpenPostgres(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			logger.Error("failed to connect to record service database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		recordsClient = client
		logger.Info("record service: direct postgres")
	} else {
		recordsClient = records.NewHTTPClient(cfg.RecordServiceURL, cfg.RecordServiceKey,
			records.WithTokenSource(identity.AccessTokenFromContext))
		logger.Info("record service: REST", "url", cfg.RecordServiceURL)
	}

	blobsClient := blobstore.NewHTTPClient(cfg.StorageURL, cfg.StorageBucket, cfg.RecordServiceKey, logger)
	verifier := identity.NewVerifier(cfg.JWTSecret)
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET unset, access tokens are not signature-checked")
	}

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	registry := api.NewRegistry(func() (*store.Store, error) {
		return store.New(store.Collaborators{
			Records:  recordsClient,
			Blobs:    blobsClient,
			Identity: identity.NewContextProvider(),
			Logger:   logger,
		}, store.WithCapacity(cfg.ImageCapacity))
	})

	r := chi.NewRouter()
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	// Rate limiting: 100 requests per minute per user (per IP before auth)
	rateLimiter := middleware.NewRateLimiter(100, 1*time.Minute)

	auth := middleware.NewSessionAuth(sessionStore, verifier, logger)

	routes.RegisterSessionRoutes(r, sessionStore, verifier, registry, rateLimiter, logger)
	routes.RegisterFeedRoutes(r, registry, auth, rateLimiter)
	routes.RegisterComposerRoutes(r, registry, auth, rateLimiter)
	routes.RegisterReactionRoutes(r, registry, auth, rateLimiter)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	logger.Info("glimpse server starting", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
