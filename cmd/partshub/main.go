// Package main is the entry point for the PartsHub API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"partshub/internal/auth"
	"partshub/internal/cache"
	"partshub/internal/cart"
	"partshub/internal/config"
	"partshub/internal/database"
	"partshub/internal/email"
	"partshub/internal/handlers"
	"partshub/internal/router"
	"partshub/internal/storage"
	"partshub/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
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

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Redis (catalog cache + carts).
	redisClient, err := cache.Connect(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Connect to S3-compatible object storage (optional, the app works
	// without it, photo uploads are just disabled).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, photo uploads disabled")
	}

	// Transactional email (optional, a nil sender drops all mail).
	sender := email.NewSender(cfg.ResendAPIKey, cfg.EmailFrom)
	if sender == nil {
		slog.Warn("resend not configured, order emails disabled")
	}

	issuer := auth.NewTokenIssuer(cfg.JWTSecret)

	h := &handlers.Handlers{
		Tenants:    store.NewTenantStore(db),
		Categories: store.NewCategoryStore(db),
		Fields:     store.NewFieldStore(db),
		Products:   store.NewProductStore(db),
		Orders:     store.NewOrderStore(db),
		Users:      store.NewUserStore(db),
		Settings:   store.NewSiteSettingStore(db),
		Carts:      cart.NewStore(redisClient),
		Catalog:    cache.NewCatalogCache(redisClient, cache.DefaultCatalogTTL),
		Issuer:     issuer,
		Storage:    storageClient,
		Email:      sender,
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(h, issuer, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
