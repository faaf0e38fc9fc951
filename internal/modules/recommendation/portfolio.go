package recommendation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/aristath/finwell/internal/domain"
)

// allocationUnit is the allocation grain, 1/2^24 of a percentage point.
// Every multiple of it up to 100 is exact in float64, so any sum of
// allocations is exact too.
const allocationUnit = 1 << 24

var (
	unitsPerPercent = decimal.NewFromInt(allocationUnit)
	hundredUnits    = decimal.NewFromInt(100 * allocationUnit)
)

// BuildPortfolio allocates to BUY and STRONG_BUY symbols at their position
// size. When sizes exceed 100 they are rescaled to sum to exactly 100.
// Cash takes the remainder, so stocks plus cash is always 100 with no
// float rounding in either sum.
func BuildPortfolio(recommendations map[string]*domain.Recommendation) domain.PortfolioAllocation {
	symbols := make([]string, 0, len(recommendations))
	for symbol, rec := range recommendations {
		if rec != nil && rec.Action.IsBuy() {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)

	units := make([]decimal.Decimal, len(symbols))
	total := decimal.Zero
	for i, symbol := range symbols {
		units[i] = decimal.NewFromFloat(recommendations[symbol].PositionSizePct).Mul(unitsPerPercent).Round(0)
		total = total.Add(units[i])
	}

	if total.GreaterThan(hundredUnits) {
		assigned := decimal.Zero
		for i := range units {
			if i == len(units)-1 {
				units[i] = hundredUnits.Sub(assigned)
				break
			}
			units[i] = units[i].Mul(hundredUnits).Div(total).Round(0)
			assigned = assigned.Add(units[i])
		}
		total = hundredUnits
	}

	allocations := make(map[string]float64, len(symbols))
	for i, symbol := range symbols {
		allocations[symbol] = toPercent(units[i])
	}

	cash := decimal.Max(decimal.Zero, hundredUnits.Sub(total))

	return domain.PortfolioAllocation{
		StockAllocations:  allocations,
		CashAllocationPct: toPercent(cash),
		TotalInvestedPct:  toPercent(total),
	}
}

// toPercent converts whole allocation units to an exactly representable
// percentage.
func toPercent(units decimal.Decimal) float64 {
	return float64(units.IntPart()) / allocationUnit
}

// OverallStrategy labels the portfolio by its buy/sell balance.
// INSUFFICIENT_DATA recommendations are not counted.
func OverallStrategy(recommendations map[string]*domain.Recommendation) domain.OverallStrategy {
	var s domain.OverallStrategy
	for _, rec := range recommendations {
		if rec == nil {
			continue
		}
		switch {
		case rec.Action.IsBuy():
			s.BuySignals++
		case rec.Action.IsSell():
			s.SellSignals++
		case rec.Action == domain.ActionHold:
			s.HoldSignals++
		}
	}

	switch {
	case s.BuySignals > s.SellSignals:
		s.Strategy = domain.StrategyAggressiveGrowth
		s.MarketOutlook = domain.SignalBullish
	case s.SellSignals > s.BuySignals:
		s.Strategy = domain.StrategyDefensive
		s.MarketOutlook = domain.SignalBearish
	default:
		s.Strategy = domain.StrategyBalanced
		s.MarketOutlook = domain.SignalNeutral
	}

	return s
}
