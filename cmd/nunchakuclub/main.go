// Package main is the entry point for the Nunchaku club API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"nunchakuclub/internal/auth"
	"nunchakuclub/internal/cache"
	"nunchakuclub/internal/config"
	"nunchakuclub/internal/database"
	"nunchakuclub/internal/features"
	"nunchakuclub/internal/handlers"
	"nunchakuclub/internal/middleware"
	"nunchakuclub/internal/router"
	"nunchakuclub/internal/storage"
	"nunchakuclub/internal/store"
)

func main() {
	// Load configuration from the environment (and .env in development).
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var logHandler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		logHandler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(logHandler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	ctx := context.Background()

	// Connect to PostgreSQL.
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed reference data (no-op if it already exists).
	if err := database.Seed(ctx, db); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey. The API works without it, just uncached.
	var valkeyClient *redis.Client
	var responseCache *cache.ResponseCache
	valkeyClient, err = cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, response cache disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		responseCache = cache.NewResponseCache(valkeyClient, cache.DefaultTTL)
	}

	// Connect to S3-compatible object storage (optional, media is disabled without it).
	var objects features.ObjectStore
	if cfg.StorageEnabled() {
		storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		objects = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, media uploads disabled")
	}

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessTTL)
	if err != nil {
		slog.Error("failed to create token issuer", "error", err)
		os.Exit(1)
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	postStore := store.NewPostStore(db)
	categoryStore := store.NewCategoryStore(db)
	commentStore := store.NewCommentStore(db)
	courseStore := store.NewCourseStore(db)
	contactStore := store.NewContactStore(db)
	sectionTypeStore := store.NewSectionTypeStore(db)
	layoutTemplateStore := store.NewLayoutTemplateStore(db)
	pageStore := store.NewPageStore(db)
	mediaStore := store.NewMediaStore(db)

	// Feature services.
	authService := features.NewAuth(userStore, issuer)
	postService := features.NewPosts(postStore, categoryStore)
	commentService := features.NewComments(commentStore, postStore, userStore)
	categoryService := features.NewCategories(categoryStore)
	courseService := features.NewCourses(courseStore)
	contactService := features.NewContact(contactStore, courseStore)
	layoutService := features.NewLayouts(sectionTypeStore, layoutTemplateStore, pageStore)
	mediaService := features.NewMedia(objects, mediaStore)

	// Health checks for the dependencies that are actually in use.
	checks := map[string]handlers.Check{"database": db.PingContext}
	if valkeyClient != nil {
		checks["valkey"] = func(ctx context.Context) error { return valkeyClient.Ping(ctx).Err() }
	}

	proxies, err := middleware.ParseProxies(cfg.TrustedProxies)
	if err != nil {
		slog.Error("invalid TRUSTED_PROXIES", "error", err)
		os.Exit(1)
	}

	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, time.Minute)
	defer authLimiter.Stop()
	contactLimiter := middleware.NewRateLimiter(cfg.ContactRateLimit, time.Minute)
	defer contactLimiter.Stop()

	r := router.New(router.Deps{
		Tokens:         issuer,
		Metrics:        middleware.NewMetrics(),
		AuthLimiter:    authLimiter,
		ContactLimiter: contactLimiter,
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: proxies,
		Health:         handlers.NewHealth(checks),
		Auth:           handlers.NewAuth(authService),
		Posts:          handlers.NewPosts(postService, commentService),
		Catalog:        handlers.NewCatalog(categoryService, courseService, responseCache),
		Contact:        handlers.NewContact(contactService),
		Layouts:        handlers.NewLayouts(layoutService, responseCache),
		Media:          handlers.NewMedia(mediaService),
	})

	// WriteTimeout must accommodate multi-file uploads to object storage.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
