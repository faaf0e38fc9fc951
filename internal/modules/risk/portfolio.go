package risk

import (
	"fmt"

	"github.com/aristath/finwell/internal/domain"
	"github.com/aristath/finwell/pkg/formulas"
)

const (
	diversificationBenefit = 0.8
	lowDiversification     = 50.0
	highConcentration      = 20.0
)

// Portfolio aggregates per-symbol risk. Nil entries are skipped; an empty
// result is ErrInsufficientData.
func (e *Engine) Portfolio(metrics []*domain.RiskMetrics) (*domain.PortfolioRisk, error) {
	var symbols []string
	var scores, vols []float64
	for _, m := range metrics {
		if m == nil {
			continue
		}
		symbols = append(symbols, m.Symbol)
		scores = append(scores, m.RiskScore)
		vols = append(vols, m.Volatility.Annualized)
	}

	if len(scores) == 0 {
		return nil, fmt.Errorf("no valid risk data for portfolio assessment: %w", domain.ErrInsufficientData)
	}

	avg := formulas.Mean(scores)
	pr := &domain.PortfolioRisk{
		Symbols:              symbols,
		AverageRiskScore:     avg,
		RiskConcentration:    formulas.PopStdDev(scores),
		DiversificationScore: DiversificationScore(len(symbols)),
		PortfolioVolatility:  PortfolioVolatility(vols),
		RiskLevel:            ClassifyLevel(avg),
	}
	pr.Recommendations = PortfolioRecommendations(pr)

	e.log.Debug().
		Int("symbols", len(symbols)).
		Float64("average_risk_score", avg).
		Str("risk_level", string(pr.RiskLevel)).
		Msg("Portfolio risk assessed")

	return pr, nil
}

// DiversificationScore tiers on the number of holdings
func DiversificationScore(n int) float64 {
	switch {
	case n >= 10:
		return 90
	case n >= 5:
		return 70
	case n >= 3:
		return 50
	}
	return 20
}

// PortfolioVolatility is the mean annualized volatility, discounted for
// more than one holding
func PortfolioVolatility(vols []float64) float64 {
	if len(vols) == 0 {
		return 0
	}
	avg := formulas.Mean(vols)
	if len(vols) > 1 {
		return avg * diversificationBenefit
	}
	return avg
}

// PortfolioRecommendations lists risk actions for the portfolio
func PortfolioRecommendations(pr *domain.PortfolioRisk) []string {
	recs := []string{}

	if pr.RiskLevel.IsElevated() {
		recs = append(recs,
			"Consider reducing position sizes due to high portfolio risk",
			"Implement strict stop-loss orders",
		)
	}
	if pr.DiversificationScore < lowDiversification {
		recs = append(recs, "Increase diversification across sectors and asset classes")
	}
	if pr.RiskConcentration > highConcentration {
		recs = append(recs, "Reduce concentration risk by rebalancing positions")
	}

	return recs
}

// ManagementPlan builds the risk management plan. A nil portfolio risk
// yields the standing plan without immediate actions.
func ManagementPlan(pr *domain.PortfolioRisk) domain.RiskManagementPlan {
	plan := domain.RiskManagementPlan{
		PositionLimits: domain.PositionLimits{
			MaxSinglePosition: "25%",
			MaxSectorExposure: "40%",
			CashReserve:       "10-20%",
		},
		StopLossStrategy:     "Implement trailing stops for all positions",
		RebalancingFrequency: "Monthly review, quarterly rebalancing",
		RiskMonitoring: []string{
			"Daily P&L monitoring",
			"Weekly portfolio risk assessment",
			"Monthly correlation analysis",
		},
	}

	if pr != nil && pr.RiskLevel.IsElevated() {
		plan.ImmediateActions = []string{
			"Reduce position sizes",
			"Implement tighter stop losses",
			"Consider hedging strategies",
		}
	}

	return plan
}
