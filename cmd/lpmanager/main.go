// Package main is the entry point for the landing page template manager
// server. It loads configuration, connects to the optional backends, sets
// up routing, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"lpmanager/internal/ai"
	"lpmanager/internal/cache"
	"lpmanager/internal/config"
	"lpmanager/internal/database"
	"lpmanager/internal/engine"
	"lpmanager/internal/handlers"
	"lpmanager/internal/middleware"
	"lpmanager/internal/render"
	"lpmanager/internal/router"
	"lpmanager/internal/session"
	"lpmanager/internal/storage"
	"lpmanager/internal/store"
	"lpmanager/internal/workspace"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from environment variables and .env.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Structured logger: text in development, JSON everywhere else.
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// PostgreSQL backs the snapshot library (optional).
	var (
		db        *sql.DB
		snapshots *store.SnapshotStore
	)
	if cfg.DBEnabled() {
		db, err = database.Connect(context.Background(), cfg.DSN())
		if err != nil {
			return err
		}
		defer db.Close()

		if _, err := database.Migrate(db); err != nil {
			return err
		}
		if cfg.IsDev() {
			if err := seedLibrary(db); err != nil {
				return err
			}
		}
		snapshots = store.NewSnapshotStore(db)
	} else {
		slog.Warn("postgres not configured, snapshot library disabled")
	}

	// Valkey keeps workspaces across restarts (optional).
	var (
		valkeyClient *redis.Client
		persister    workspace.Persister
	)
	if cfg.ValkeyEnabled() {
		valkeyClient, err = cache.Open(context.Background(), cache.Options{
			Host:     cfg.ValkeyHost,
			Port:     cfg.ValkeyPort,
			Password: cfg.ValkeyPassword,
			DB:       cfg.ValkeyDB,
		})
		if err != nil {
			return err
		}
		defer valkeyClient.Close()
		persister = cache.NewWorkspaceCache(valkeyClient, cfg.SessionTTL)
	} else {
		slog.Warn("valkey not configured, workspaces live in memory only")
	}

	// S3-compatible object storage for published pages (optional).
	storageClient, err := storage.New(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		return err
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, page publishing disabled")
	}

	// LLM providers for direct draft generation.
	providers := make(map[string]ai.ProviderConfig, len(cfg.AIProviders))
	for name, p := range cfg.AIProviders {
		providers[name] = ai.ProviderConfig{APIKey: p.APIKey, Model: p.Model, BaseURL: p.BaseURL}
	}
	aiRegistry := ai.NewRegistry(cfg.AIProvider, providers)
	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	eng, err := engine.New()
	if err != nil {
		return err
	}
	renderer, err := render.New()
	if err != nil {
		return err
	}

	workspaces := workspace.NewManager(workspace.Options{
		Persister:   persister,
		Seed:        cfg.SeedSamples,
		IdleTimeout: cfg.WorkspaceIdleTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go workspaces.Run(ctx, time.Minute)

	limiter := middleware.NewRateLimiter(cfg.AIRatePerMinute, 2)
	defer limiter.Stop()

	handlerOpts := handlers.Options{BrandColor: cfg.BrandColor, MaxHTMLBytes: cfg.MaxHTMLBytes}
	secureCookies := !cfg.IsDev()

	r := router.New(router.Deps{
		Sessions:      session.NewManager(cfg.SessionTTL, secureCookies),
		API:           handlers.NewAPI(workspaces, eng, aiRegistry, storageClient, snapshots, handlerOpts),
		Preview:       handlers.NewPreview(renderer, eng, workspaces, handlerOpts),
		Health:        handlers.NewHealth(db, valkeyClient, workspaces),
		Limiter:       limiter,
		SecureCookies: secureCookies,
	})

	// WriteTimeout must accommodate draft generation waiting on an LLM.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}

// seedLibrary stores the sample templates as the first snapshot of an
// empty library.
func seedLibrary(db *sql.DB) error {
	samples := store.NewTemplateStore()
	if err := store.Seed(samples); err != nil {
		return err
	}
	doc, err := samples.Export()
	if err != nil {
		return err
	}
	return database.Seed(db, "Sample templates", doc, samples.Count())
}
