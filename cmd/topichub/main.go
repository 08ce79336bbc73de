// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the topichub server.
// It loads configuration, connects to services, sets up routing, and runs
// the HTTP server and the draft reaper until a shutdown signal arrives.
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

	"golang.org/x/sync/errgroup"

	"topichub/internal/auth"
	"topichub/internal/cache"
	"topichub/internal/config"
	"topichub/internal/database"
	"topichub/internal/handlers"
	"topichub/internal/middleware"
	"topichub/internal/router"
	"topichub/internal/session"
	"topichub/internal/storage"
	"topichub/internal/store"
	"topichub/internal/topic"
)

const (
	readTimeout   = 15 * time.Second // thumbnail uploads
	writeTimeout  = 30 * time.Second
	idleTimeout   = 120 * time.Second
	shutdownGrace = 30 * time.Second

	authAttempts = 10
	authWindow   = time.Minute
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from the environment (and CONFIG_PATH if set).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogger(cfg)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL and run pending migrations.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			return err
		}
	}

	// Connect to Valkey (sessions + feed cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return err
	}
	defer valkeyClient.Close()

	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, cfg.SessionTTL, secureCookies)
	feedCache := cache.NewFeedCache(valkeyClient, cfg.FeedCacheTTL)

	userStore := store.NewUserStore(db)
	topicStore := store.NewTopicStore(db)

	// S3-compatible object storage is optional; without it thumbnail
	// uploads fail with a notice and everything else works.
	var files topic.FileStore
	if cfg.StorageEnabled() {
		client, err := storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			return err
		}
		files = client
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", client.Bucket())
	} else {
		slog.Warn("s3 storage not configured, thumbnail uploads disabled")
	}

	var google *auth.Google
	if cfg.GoogleEnabled() {
		google = auth.NewGoogle(auth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.OAuthCallbackURL(),
			StateSecret:  cfg.OAuthStateSecret,
		})
		slog.Info("google sign-in enabled", "redirect_url", cfg.OAuthCallbackURL())
	}

	authService := auth.NewService(userStore, google)
	topicService := topic.NewService(topicStore, files, feedCache, topic.Config{
		CaseInsensitiveSearch: cfg.FeedSearchCaseInsensitive,
	})
	reaper := topic.NewReaper(topicStore, cfg.DraftAbandonAfter, cfg.DraftReapInterval)

	authLimiter := middleware.NewRateLimiter(authAttempts, authWindow, cfg.TrustProxy)

	public := handlers.NewPublic(map[string]handlers.Check{
		"postgres": db.PingContext,
		"valkey":   func(ctx context.Context) error { return valkeyClient.Ping(ctx).Err() },
	}, cfg.WebRoot)

	r := router.New(sessionStore, userStore, router.Options{
		Secure:            secureCookies,
		ReconcileInterval: cfg.SessionReconcileInterval,
		AuthLimiter:       authLimiter,
	}, router.Handlers{
		Topics: handlers.NewTopics(topicService),
		Auth:   handlers.NewAuth(authService, sessionStore, cfg.BaseURL, secureCookies),
		Users:  handlers.NewUsers(userStore, topicService),
		Public: public,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return reaper.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		// Give active requests time to complete.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped gracefully")
	return nil
}

// setupLogger installs the process-wide logger: text in development, JSON
// otherwise, at the configured level.
func setupLogger(cfg *config.Config) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
