// Package cli provides common initialization shared by cmd/dashgen and
// cmd/dashgen-worker.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"dashgen/internal/aggregate"
	"dashgen/internal/cache"
	"dashgen/internal/config"
	lgoogle "dashgen/internal/ledger/google"
	lmemory "dashgen/internal/ledger/memory"
	"dashgen/internal/log"
	rgoogle "dashgen/internal/render/google"
	rmemory "dashgen/internal/render/memory"

	"dashgen/internal/ledger"
	"dashgen/internal/render"
	"dashgen/internal/storage"
)

// SetupLogger initializes structured logging with default settings and sets
// it as the process default.
func SetupLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitStorage initializes the sqlite store backing the durable cache tier
// and the settings store, or exits the process on failure.
func InitStorage(logger *log.Logger, dbPath string) *storage.Store {
	store, err := storage.NewStore(dbPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return store
}

// InitCache composes the two-tier cache over the sqlite durable tier.
func InitCache(cfg *config.Config, durable *storage.Store, logger *log.Logger) *cache.Store {
	return cache.NewStore(cfg.CacheEnabled, cfg.CacheTTL, durable, aggregate.KnownCacheKeys(), logger)
}

// InitLedgerSource builds the configured ledger source backend.
func InitLedgerSource(ctx context.Context, cfg *config.Config) (ledger.Source, error) {
	switch cfg.LedgerBackend {
	case "sheets":
		return lgoogle.New(ctx, cfg.GoogleSpreadsheetID, cfg.LedgerSheetName)
	default:
		path := os.Getenv("LEDGER_CSV_PATH")
		if path == "" {
			return nil, fmt.Errorf("memory ledger backend requires LEDGER_CSV_PATH")
		}
		return lmemory.NewFromCSV(path)
	}
}

// InitRenderer builds the configured renderer backend.
func InitRenderer(ctx context.Context, cfg *config.Config) (render.Renderer, error) {
	switch cfg.RenderBackend {
	case "sheets":
		return rgoogle.New(ctx, cfg.GoogleSpreadsheetID, cfg.OverviewSheetName, cfg.SharedFlagColumn)
	default:
		return rmemory.New(), nil
	}
}
