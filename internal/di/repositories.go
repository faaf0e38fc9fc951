package di

import (
	"github.com/rs/zerolog"

	"github.com/aristath/finwell/internal/modules/marketdata"
	"github.com/aristath/finwell/internal/modules/reports"
)

// InitializeRepositories creates the repositories over the open databases
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	container.MarketDataRepo = marketdata.NewRepository(container.MarketDataDB.Conn(), log)
	container.ReportRepo = reports.NewRepository(container.ReportsDB.Conn(), log)

	log.Info().Msg("Repositories initialized")
	return nil
}
