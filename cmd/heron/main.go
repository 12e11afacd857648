// Heron - LLM-assisted money laundering case analysis.
// Copyright (c) 2025 opensource.finance
// Licensed under the Apache License 2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/opensource-finance/heron/internal/api"
	"github.com/opensource-finance/heron/internal/batch"
	"github.com/opensource-finance/heron/internal/bus"
	"github.com/opensource-finance/heron/internal/cache"
	"github.com/opensource-finance/heron/internal/domain"
	"github.com/opensource-finance/heron/internal/dossier"
	"github.com/opensource-finance/heron/internal/export"
	"github.com/opensource-finance/heron/internal/feed"
	"github.com/opensource-finance/heron/internal/llm"
	"github.com/opensource-finance/heron/internal/prompt"
	"github.com/opensource-finance/heron/internal/warehouse"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	// Initialize structured logger
	logLevel := slog.LevelInfo
	if os.Getenv("HERON_DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Log startup
	slog.Info("starting heron",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	// Load configuration
	cfg := domain.DefaultConfig()
	if os.Getenv("HERON_MODE") == "distributed" {
		cfg = domain.DistributedConfig()
		slog.Info("running in distributed mode")
	}
	applyEnvOverrides(cfg)

	slog.Info("configuration loaded",
		"warehouse", cfg.Warehouse.Driver,
		"cache", cfg.Cache.Type,
		"eventbus", cfg.EventBus.Type,
		"model", cfg.LLM.Model,
		"dry_run", cfg.Export.DryRun,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Initialize Warehouse
	wh, err := warehouse.New(cfg.Warehouse)
	if err != nil {
		slog.Error("failed to initialize warehouse", "error", err)
		os.Exit(1)
	}
	defer wh.Close()
	slog.Info("warehouse initialized", "driver", cfg.Warehouse.Driver)

	// Initialize Cache
	cacheImpl, err := cache.New(cfg.Cache)
	if err != nil {
		slog.Error("failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer cacheImpl.Close()
	slog.Info("cache initialized", "type", cfg.Cache.Type)

	// Initialize EventBus
	busImpl, err := bus.New(cfg.EventBus)
	if err != nil {
		slog.Error("failed to initialize event bus", "error", err)
		os.Exit(1)
	}
	defer busImpl.Close()
	slog.Info("event bus initialized", "type", cfg.EventBus.Type)

	// Initialize the model client
	llmClient := llm.NewOpenAIClient(cfg.LLM)
	requester := llm.NewRequester(llmClient, prompt.SystemPrompt)
	slog.Info("model client initialized", "model", cfg.LLM.Model)

	// Initialize case delivery
	exporter := export.NewClient(cfg.Export, logger)

	// Compile the optional case filter
	filter, err := feed.CompileFilter(cfg.Batch.Filter)
	if err != nil {
		slog.Error("invalid case filter", "error", err)
		os.Exit(1)
	}
	if filter != nil {
		slog.Info("case filter compiled", "expression", filter.Source())
	}

	// Wire the pipeline
	alertFeed := feed.New(wh, filter, logger)
	assembler := dossier.NewAssembler(wh, logger)
	orchestrator := batch.New(
		wh, alertFeed, assembler, requester, exporter,
		cacheImpl, busImpl, cfg.Batch, cfg.Cache.PayloadTTL, logger,
	)

	// One-shot mode: run a single batch and exit.
	if os.Getenv("HERON_RUN_ONCE") == "true" {
		result, err := orchestrator.Run(ctx)
		if err != nil {
			slog.Error("run failed", "error", err)
			os.Exit(1)
		}
		slog.Info("one-shot run complete",
			"run_id", result.RunID,
			"analyzed", result.Analyzed,
			"suspicious", result.Suspicious,
			"failed", result.Failed,
		)
		return
	}

	// Initialize Server
	srv := api.NewServer(cfg.Server, orchestrator, wh, cacheImpl, busImpl, Version)

	// Start Server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("heron is ready",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	printBanner(cfg, Version)

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("heron shutdown complete")
}

// applyEnvOverrides maps deployment environment variables onto the config.
func applyEnvOverrides(cfg *domain.Config) {
	if v := os.Getenv("HERON_OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	} else if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("HERON_OPENAI_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("HERON_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("HERON_EXPORT_URL"); v != "" {
		cfg.Export.URL = v
		cfg.Export.DryRun = false
	}
	if v := os.Getenv("HERON_EXPORT_TOKEN"); v != "" {
		cfg.Export.AuthToken = v
	}
	if os.Getenv("HERON_DRY_RUN") == "true" {
		cfg.Export.DryRun = true
	}
	if v := os.Getenv("HERON_FILTER"); v != "" {
		cfg.Batch.Filter = v
	}
	if v, err := strconv.Atoi(os.Getenv("HERON_DAYS")); err == nil && v > 0 {
		cfg.Batch.Days = v
	}
	if v, err := strconv.Atoi(os.Getenv("HERON_WORKERS")); err == nil && v > 0 {
		cfg.Batch.Workers = v
	}
	if v, err := strconv.ParseInt(os.Getenv("HERON_USER_ID"), 10, 64); err == nil && v > 0 {
		cfg.Batch.UserID = v
	}
	if v := os.Getenv("HERON_SQLITE_PATH"); v != "" {
		cfg.Warehouse.SQLitePath = v
	}
	if v := os.Getenv("HERON_POSTGRES_PASSWORD"); v != "" {
		cfg.Warehouse.PostgresPassword = v
	}
}

func printBanner(cfg *domain.Config, version string) {
	fmt.Println()
	fmt.Println("  HERON - Case Analysis Pipeline")
	fmt.Println()
	fmt.Printf("  Version:  %s\n", version)
	fmt.Printf("  Server:   http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()
	fmt.Println("  Endpoints:")
	fmt.Println("    POST /runs     - Trigger an analysis run")
	fmt.Println("    POST /analyze  - Analyze a single user")
	fmt.Println("    GET  /stats    - Last run summary")
	fmt.Println("    GET  /health   - Health check")
	fmt.Println("    GET  /ready    - Readiness probe")
	fmt.Println()
}
