// Package recommendation blends technical, fundamental and risk scores
// into per-symbol actions and a portfolio allocation.
package recommendation

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aristath/finwell/internal/domain"
	"github.com/aristath/finwell/internal/modules/risk"
)

// Blend weights for the combined score
const (
	TechnicalWeight   = 0.4
	FundamentalWeight = 0.4
	RiskWeight        = 0.2
)

// Position sizing
const (
	BasePositionSize  = 10.0
	MinPositionSize   = 1.0
	MaxPositionSize   = 25.0
	minRiskMultiplier = 0.2
	confidenceUplift  = 0.2
	weakFundamentals  = 40.0
	highRiskScore     = 70.0
	extremeVolatility = 0.4
)

// Synthesizer turns stage outputs into Recommendations. It holds no state.
type Synthesizer struct {
	log zerolog.Logger
}

// NewSynthesizer creates a new recommendation synthesizer
func NewSynthesizer(log zerolog.Logger) *Synthesizer {
	return &Synthesizer{
		log: log.With().Str("component", "recommendation_synthesizer").Logger(),
	}
}

// Synthesize builds the recommendation for one symbol. Any missing input
// yields the INSUFFICIENT_DATA sentinel.
func (s *Synthesizer) Synthesize(
	symbol string,
	signal *domain.TradingSignal,
	fundamental *domain.FundamentalScore,
	riskMetrics *domain.RiskMetrics,
	currentPrice *float64,
) *domain.Recommendation {
	switch {
	case signal == nil:
		return domain.InsufficientData(symbol, "Incomplete analysis data: technical signal unavailable")
	case fundamental == nil:
		return domain.InsufficientData(symbol, "Incomplete analysis data: fundamental score unavailable")
	case riskMetrics == nil:
		return domain.InsufficientData(symbol, "Incomplete analysis data: risk metrics unavailable")
	}

	riskScore := riskMetrics.RiskScore
	combined := CombinedScore(signal.OverallSignal, signal.Confidence, fundamental.Score, riskScore)
	action, horizon := ActionFor(combined)

	rec := &domain.Recommendation{
		Symbol:     symbol,
		Action:     action,
		Confidence: math.Min(signal.Confidence+confidenceUplift, 1.0),
		Reasoning: &domain.Reasoning{
			TechnicalSignal:     signal.OverallSignal,
			TechnicalConfidence: signal.Confidence,
			FundamentalScore:    fundamental.Score,
			RiskScore:           riskScore,
			CombinedScore:       combined,
			RiskEstimated:       riskMetrics.Estimated,
			Text: fmt.Sprintf("Technical: %s (%.1f%%), Fundamental Score: %.0f, Risk Score: %.0f",
				signal.OverallSignal, signal.Confidence*100, fundamental.Score, riskScore),
		},
		PositionSizePct: PositionSize(riskScore, signal.Confidence),
		CurrentPrice:    currentPrice,
		RiskLevel:       risk.ClassifyLevel(riskScore),
		TimeHorizon:     horizon,
		KeyRisks:        KeyRisks(signal, fundamental, riskMetrics),
	}
	rec.StopLoss, rec.TargetPrice = PriceTargets(currentPrice, signal.OverallSignal, riskScore)

	s.log.Debug().
		Str("symbol", symbol).
		Str("action", string(action)).
		Float64("combined_score", combined).
		Bool("risk_estimated", riskMetrics.Estimated).
		Msg("Recommendation synthesized")

	return rec
}

// CombinedScore blends the three inputs:
//
//	0.4·tech + 0.4·fundamental + 0.2·(100 − risk)
//
// where tech is 80/20/50 for bullish/bearish/neutral scaled by confidence.
func CombinedScore(signal domain.SignalType, confidence, fundamentalScore, riskScore float64) float64 {
	base := 50.0
	switch signal {
	case domain.SignalBullish:
		base = 80
	case domain.SignalBearish:
		base = 20
	}
	tech := base * confidence

	return tech*TechnicalWeight + fundamentalScore*FundamentalWeight + (100-riskScore)*RiskWeight
}

// ActionFor maps a combined score to an action and time horizon
func ActionFor(combined float64) (domain.Action, string) {
	switch {
	case combined >= 70:
		return domain.ActionStrongBuy, "3-6 months"
	case combined >= 60:
		return domain.ActionBuy, "1-3 months"
	case combined >= 40:
		return domain.ActionHold, "Monitor"
	case combined >= 30:
		return domain.ActionSell, "1-2 weeks"
	}
	return domain.ActionStrongSell, "Immediate"
}

// PositionSize is 10% scaled by risk headroom (floored at 0.2) and
// confidence, clamped to [1, 25]
func PositionSize(riskScore, confidence float64) float64 {
	multiplier := math.Max(minRiskMultiplier, (100-riskScore)/100)
	size := BasePositionSize * multiplier * confidence
	return math.Min(math.Max(size, MinPositionSize), MaxPositionSize)
}

// PriceTargets returns stop loss and target rounded to cents, or nils
// without a current price
func PriceTargets(currentPrice *float64, signal domain.SignalType, riskScore float64) (stopLoss, target *float64) {
	if currentPrice == nil || *currentPrice <= 0 {
		return nil, nil
	}

	stopPct := 0.05 + 0.15*(riskScore/100)

	targetPct := 0.05
	switch signal {
	case domain.SignalBullish:
		targetPct = 0.15 + 0.15*(1-riskScore/100)
	case domain.SignalBearish:
		targetPct = -0.10
	}

	price := *currentPrice
	sl := roundCents(price * (1 - stopPct))
	tp := roundCents(price * (1 + targetPct))
	return &sl, &tp
}

func roundCents(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// KeyRisks lists the risk factors that apply to a symbol
func KeyRisks(signal *domain.TradingSignal, fundamental *domain.FundamentalScore, riskMetrics *domain.RiskMetrics) []string {
	risks := []string{}

	if signal.OverallSignal == domain.SignalBearish {
		risks = append(risks, "Negative technical momentum")
	}
	if fundamental.Score < weakFundamentals {
		risks = append(risks, "Weak fundamental metrics")
	}
	if riskMetrics.RiskScore > highRiskScore {
		risks = append(risks, "High volatility and drawdown risk")
	}
	if riskMetrics.Volatility.Annualized > extremeVolatility {
		risks = append(risks, "Extremely high volatility")
	}

	return risks
}
