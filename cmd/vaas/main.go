// Package main is the entry point for the VaaS server.
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

	"vaas/internal/ai"
	"vaas/internal/cache"
	"vaas/internal/config"
	"vaas/internal/describe"
	"vaas/internal/engine"
	"vaas/internal/fetch"
	"vaas/internal/handlers"
	"vaas/internal/router"
	"vaas/internal/store"
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
		"data_file", cfg.DataFile,
	)

	// Open the JSON-backed aesthetic store. A missing file starts empty.
	aesthetics := store.Open(cfg.DataFile)
	slog.Info("aesthetic store opened", "count", aesthetics.Len())

	// Transform cache backed by Valkey. Optional — the server runs without
	// it when no host is configured or the connection fails.
	var transformCache *cache.TransformCache
	if cfg.ValkeyHost != "" {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("valkey unavailable, transform caching disabled", "error", err)
		} else {
			defer valkeyClient.Close()
			transformCache = cache.NewTransformCache(valkeyClient, cache.DefaultTransformTTL)
			slog.Info("transform cache connected", "host", cfg.ValkeyHost)
		}
	}

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, VisionModel: cfg.OpenAIVisionModel, BaseURL: cfg.OpenAIBaseURL},
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, VisionModel: cfg.GeminiVisionModel, BaseURL: cfg.GeminiBaseURL},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, VisionModel: cfg.ClaudeVisionModel, BaseURL: cfg.ClaudeBaseURL},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, VisionModel: cfg.MistralVisionModel, BaseURL: cfg.MistralBaseURL},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	// Wire the description service and the pipeline engine.
	fetcher := fetch.NewClient()
	descriptions := describe.New(aiRegistry, fetcher)
	eng := engine.New(descriptions, fetcher, aesthetics, transformCache, cfg.FanoutLimit)

	api := handlers.NewAPI(eng, aesthetics)

	// Set up the Chi router with all middleware and routes.
	r := router.New(api, cfg.PublicBaseURL)

	// WriteTimeout must accommodate mood pipelines that wait on several
	// sequential LLM batches (up to the 75s pipeline deadline).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
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
