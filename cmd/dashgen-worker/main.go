package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"dashgen/internal/aggregate"
	"dashgen/internal/amqp"
	"dashgen/internal/cache"
	"dashgen/internal/cli"
	"dashgen/internal/report"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting dashgen-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitStorage(logger, cfg.SQLiteDBPath)
	defer store.Close()

	cacheStore := cli.InitCache(cfg, store, logger)

	// The memory tier drops expired entries lazily on reads; the manager
	// sweeps whatever reads never touch.
	cacheManager := cache.NewManager()
	cacheManager.Register(cacheStore)
	cacheManager.StartCleanup(cfg.CacheTTL)
	defer cacheManager.Stop()

	ctx, cancel := context.WithCancel(context.Background())
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

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	orchestrator := report.NewOrchestrator(
		cfg,
		cacheStore,
		source,
		aggregate.New(cacheStore, cfg.CacheTTL),
		renderer,
		store,
		amqpClient,
		nil,
		logger,
	)

	g, gctx := errgroup.WithContext(ctx)

	// Consume rebuild requests. A request with a preference value is a
	// toggle; a bare request is a plain regenerate.
	g.Go(func() error {
		return amqpClient.ConsumeRebuildRequests(gctx, func(req *amqp.RebuildRequest) error {
			if req.ShowSubCategories != nil {
				return orchestrator.OnPreferenceToggled(gctx, *req.ShowSubCategories)
			}
			return orchestrator.Build(gctx)
		})
	})

	// Periodic durable-tier cleanup of expired cache entries.
	g.Go(func() error {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if n, err := store.CleanExpiredEntries(gctx); err != nil {
					logger.Warn("Cache cleanup failed", "error", err)
				} else if n > 0 {
					logger.Info("Expired cache entries removed", "count", n)
				}
			}
		}
	})

	// Shutdown watcher.
	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
			return context.Canceled
		case <-gctx.Done():
			return gctx.Err()
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
