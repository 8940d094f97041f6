// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"storyboarder/internal/ai"
	"storyboarder/internal/cache"
	"storyboarder/internal/config"
	"storyboarder/internal/database"
	"storyboarder/internal/editor"
	"storyboarder/internal/googleauth"
	"storyboarder/internal/handlers"
	"storyboarder/internal/middleware"
	"storyboarder/internal/router"
	"storyboarder/internal/session"
	"storyboarder/internal/slides"
	"storyboarder/internal/storage"
	"storyboarder/internal/store"
	"storyboarder/internal/storyboard"
)

// Generation endpoints allow this many requests per client IP and window.
const (
	generateLimit  = 20
	generateWindow = time.Minute
)

func newServeCommand(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(*verbose)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	// Valkey holds sessions and drafts.
	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyAddr(), cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		return fmt.Errorf("connect to valkey: %w", err)
	}
	defer valkeyClient.Close()

	// In non-development environments, cookies are Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	userStore := store.NewUserStore(db)
	clientStore := store.NewClientStore(db)
	creatorStore := store.NewCreatorStore(db)
	templateStore := store.NewTemplateStore(db)
	storyboardStore := store.NewStoryboardStore(db)
	contentStore := store.NewStoryboardContentStore(db)

	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL},
	})
	slog.Info("ai providers initialized", "active", aiRegistry.ActiveName(), "available", aiRegistry.Available())
	if !aiRegistry.HasProvider(cfg.AIProvider) {
		slog.Warn("active ai provider has no api key, drafts will fail until one is selected", "provider", cfg.AIProvider)
	}

	google := googleauth.New(googleauth.Options{
		ClientID:      cfg.GoogleClientID,
		ClientSecret:  cfg.GoogleClientSecret,
		RedirectURL:   cfg.GoogleRedirectURL,
		AllowedDomain: cfg.GoogleAllowedDomain,
	})

	if cfg.SlidesTemplateID == "" {
		slog.Warn("SLIDES_TEMPLATE_ID not set, finalizing drafts will fail")
	}
	decks := slides.NewGenerator(slides.NewGooglePlatform(), cfg.SlidesTemplateID,
		slides.WithBatchSize(cfg.SlidesBatchSize),
		slides.WithStrictBatches(cfg.SlidesStrictBatches),
	)

	codec := editor.DefaultCodec
	if cfg.EditorLegacyLabels {
		codec = editor.LegacyCodec
	}

	deps := storyboard.Deps{
		Templates:   templateStore,
		Storyboards: storyboardStore,
		Contents:    contentStore,
		Clients:     clientStore,
		Creators:    creatorStore,
		Drafts:      cache.NewDraftCache(valkeyClient, cache.DefaultDraftTTL),
		Generator:   ai.NewGenerator(aiRegistry, cfg.AITemperature, cfg.AIMaxTokens),
		Decks:       decks,
		Moderator:   aiRegistry,
		Codec:       codec,
	}

	// Object storage is optional; without it PDF exports are skipped.
	archive, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
	if err != nil {
		return fmt.Errorf("initialize s3 storage: %w", err)
	}
	if archive != nil {
		deps.Archive = archive
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", archive.Bucket())
	} else {
		slog.Warn("s3 storage not configured, pdf exports disabled")
	}

	service := storyboard.New(deps)

	providers := providerInfo(cfg)

	// The dev dashboard runs on its own port, so origins are only pinned
	// outside development.
	trustedOrigin := cfg.BaseURL
	if cfg.IsDev() {
		trustedOrigin = ""
	}

	limiter := middleware.NewRateLimiter(valkeyClient, "generate", generateLimit, generateWindow)

	r := router.New(router.Options{
		Sessions:  sessionStore,
		Refresher: google,
		Auth:      handlers.NewAuth(google, sessionStore, userStore, secureCookies, "/"),
		API:       handlers.NewAPI(clientStore, creatorStore, templateStore, storyboardStore, contentStore, service, aiRegistry, providers),
		Limiter:   limiter,
		Secure:    secureCookies,
		Origin:    trustedOrigin,
	})

	// WriteTimeout must accommodate LLM calls on draft creation and the
	// slides copy, updates and PDF export on finalize.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
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
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
