package marketdata

import (
	"context"
	"fmt"

	"github.com/aristath/finwell/internal/domain"
)

// Source serves stored market data to the orchestrator
type Source struct {
	repo *Repository
}

// NewSource creates a data source over the repository
func NewSource(repo *Repository) *Source {
	return &Source{repo: repo}
}

// FetchSymbol loads the bars inside period, counted back from the newest
// stored bar, along with fundamentals and articles. A symbol with neither
// bars nor fundamentals is ErrNotFound.
func (s *Source) FetchSymbol(ctx context.Context, symbol, period string) (*domain.SymbolData, error) {
	data := &domain.SymbolData{Symbol: symbol}

	latest, err := s.repo.LatestBarDate(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		since, err := domain.PeriodStart(period, *latest)
		if err != nil {
			return nil, err
		}
		if data.Bars, err = s.repo.GetBars(ctx, symbol, since); err != nil {
			return nil, err
		}
	}

	if data.Fundamentals, err = s.repo.GetFundamentals(ctx, symbol); err != nil {
		return nil, err
	}

	if latest == nil && data.Fundamentals == nil {
		return nil, fmt.Errorf("no market data for %s: %w", symbol, domain.ErrNotFound)
	}

	if data.Articles, err = s.repo.GetArticles(ctx, symbol, DefaultArticleLimit); err != nil {
		return nil, err
	}

	return data, nil
}

// FetchMarket returns the stored market snapshot
func (s *Source) FetchMarket(ctx context.Context) (*domain.MarketSnapshot, error) {
	return s.repo.Snapshot(ctx)
}
