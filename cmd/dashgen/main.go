package main

import (
	"context"
	"os"
	"time"

	"dashgen/internal/aggregate"
	"dashgen/internal/amqp"
	"dashgen/internal/cli"
	"dashgen/internal/report"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitStorage(logger, cfg.SQLiteDBPath)
	defer store.Close()

	cacheStore := cli.InitCache(cfg, store, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	source, err := cli.InitLedgerSource(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize ledger source", "error", err, "backend", cfg.LedgerBackend)
		os.Exit(1)
	}

	renderer, err := cli.InitRenderer(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize renderer", "error", err, "backend", cfg.RenderBackend)
		os.Exit(1)
	}

	// Build notifications are optional for the one-shot CLI; AMQP being down
	// must not block a user-initiated generate.
	var notifier report.Notifier
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without build events", "error", err)
		} else {
			defer amqpClient.Close()
			notifier = amqpClient
		}
	}

	orchestrator := report.NewOrchestrator(
		cfg,
		cacheStore,
		source,
		aggregate.New(cacheStore, cfg.CacheTTL),
		renderer,
		store,
		notifier,
		nil,
		logger,
	)

	logger.Info("Starting overview build",
		"ledger_backend", cfg.LedgerBackend,
		"render_backend", cfg.RenderBackend,
		"year", cfg.Year)

	if err := orchestrator.Build(ctx); err != nil {
		logger.Error("Overview build failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Overview build succeeded")
}
