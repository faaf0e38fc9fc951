// Package di provides dependency injection for database connections.
package di

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/aristath/finwell/internal/config"
	"github.com/aristath/finwell/internal/database"
)

// InitializeDatabases opens both databases and applies schemas
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// 1. marketdata.db - Ingested bars, fundamentals, articles and market snapshot
	marketDataDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "marketdata.db"),
		Profile: database.ProfileStandard,
		Name:    database.MarketData,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize marketdata database: %w", err)
	}
	container.MarketDataDB = marketDataDB

	// 2. reports.db - Persisted analysis reports, pruned by the retention job
	reportsDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "reports.db"),
		Profile: database.ProfileCache,
		Name:    database.Reports,
	})
	if err != nil {
		marketDataDB.Close()
		return nil, fmt.Errorf("failed to initialize reports database: %w", err)
	}
	container.ReportsDB = reportsDB

	for _, db := range container.Databases() {
		if err := db.Migrate(); err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to apply schema to %s: %w", db.Name(), err)
		}
	}

	log.Info().Msg("All databases initialized and schemas applied")

	return container, nil
}
