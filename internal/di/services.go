package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/finwell/internal/config"
	"github.com/aristath/finwell/internal/modules/analysis"
	"github.com/aristath/finwell/internal/modules/fundamentals"
	"github.com/aristath/finwell/internal/modules/market"
	"github.com/aristath/finwell/internal/modules/marketdata"
	"github.com/aristath/finwell/internal/modules/recommendation"
	"github.com/aristath/finwell/internal/modules/risk"
	"github.com/aristath/finwell/internal/modules/technical"
)

// InitializeServices creates the analysis modules and the orchestrator.
// Repositories must be initialized first.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container.MarketDataRepo == nil {
		return fmt.Errorf("market data repository not initialized")
	}

	container.DataSource = marketdata.NewSource(container.MarketDataRepo)
	container.TechnicalEngine = technical.NewEngine(log)
	container.FundamentalScorer = fundamentals.NewScorer(log)
	container.MarketAggregator = market.NewAggregator(log)
	container.RiskEngine = risk.NewEngine(risk.Config{
		RiskFreeRate:     cfg.Risk.RiskFreeRate,
		MarketVolatility: cfg.Risk.MarketVolatility,
	}, log)
	container.Synthesizer = recommendation.NewSynthesizer(log)

	container.Orchestrator = analysis.NewOrchestrator(
		container.DataSource,
		container.TechnicalEngine,
		container.FundamentalScorer,
		container.MarketAggregator,
		container.RiskEngine,
		container.Synthesizer,
		analysis.Config{
			Workers:      cfg.Analysis.Workers,
			FetchTimeout: cfg.Analysis.FetchTimeout,
		},
		log,
	)

	log.Info().Int("workers", cfg.Analysis.Workers).Msg("Services initialized")
	return nil
}
