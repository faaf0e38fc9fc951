/**
 * Package di provides dependency injection type definitions.
 *
 * Container is the single source of truth for all service instances and is
 * passed to the server for access to handlers' dependencies.
 */
package di

import (
	"github.com/aristath/finwell/internal/database"
	"github.com/aristath/finwell/internal/modules/analysis"
	"github.com/aristath/finwell/internal/modules/fundamentals"
	"github.com/aristath/finwell/internal/modules/market"
	"github.com/aristath/finwell/internal/modules/marketdata"
	"github.com/aristath/finwell/internal/modules/recommendation"
	"github.com/aristath/finwell/internal/modules/reports"
	"github.com/aristath/finwell/internal/modules/risk"
	"github.com/aristath/finwell/internal/modules/technical"
	"github.com/aristath/finwell/internal/scheduler"
)

/**
 * Container holds all dependencies for the application.
 *
 * Architecture:
 * - Databases: marketdata (ingested inputs) and reports (persisted results)
 * - Repositories: data access over the two databases
 * - Services: the analysis modules and the pipeline orchestrator
 */
type Container struct {
	// Databases
	MarketDataDB *database.DB
	ReportsDB    *database.DB

	// Repositories
	MarketDataRepo *marketdata.Repository
	ReportRepo     *reports.Repository

	// Services
	DataSource        *marketdata.Source
	TechnicalEngine   *technical.Engine
	FundamentalScorer *fundamentals.Scorer
	MarketAggregator  *market.Aggregator
	RiskEngine        *risk.Engine
	Synthesizer       *recommendation.Synthesizer
	Orchestrator      *analysis.Orchestrator
}

// Databases returns every open database
func (c *Container) Databases() []*database.DB {
	var dbs []*database.DB
	for _, db := range []*database.DB{c.MarketDataDB, c.ReportsDB} {
		if db != nil {
			dbs = append(dbs, db)
		}
	}
	return dbs
}

// Close closes every open database
func (c *Container) Close() {
	for _, db := range c.Databases() {
		db.Close()
	}
}

// JobInstances holds the background jobs registered with the scheduler
type JobInstances struct {
	ReportRetention *scheduler.ReportRetentionJob
	CheckDatabases  *scheduler.CheckDatabasesJob
}
