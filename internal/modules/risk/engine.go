// Package risk measures per-symbol and portfolio risk.
package risk

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/finwell/internal/domain"
	"github.com/aristath/finwell/pkg/formulas"
)

// Config holds risk engine parameters
type Config struct {
	RiskFreeRate     float64 // annual, 0.02 = 2%
	MarketVolatility float64 // assumed annualized market volatility for the beta proxy
}

// DefaultConfig returns the standard parameters
func DefaultConfig() Config {
	return Config{
		RiskFreeRate:     0.02,
		MarketVolatility: 0.16,
	}
}

// MinCloses is the shortest series the measured path accepts
const MinCloses = 2

// Each risk score component is capped at this value
const componentCap = 50.0

// EstimationNote marks metrics produced by the fallback estimator
const EstimationNote = "Risk metrics estimated from technical analysis due to limited historical data"

// Fallback risk scores derived from the technical signal
const (
	FallbackStrongBullishScore = 35.0
	FallbackStrongBearishScore = 75.0
	FallbackLowConfidenceScore = 65.0
	FallbackDefaultScore       = 50.0
)

const (
	fallbackStrongConfidence = 0.7
	fallbackLowConfidence    = 0.3
)

// Engine computes RiskMetrics. It holds configuration only.
type Engine struct {
	cfg Config
	log zerolog.Logger
}

// NewEngine creates a new risk engine
func NewEngine(cfg Config, log zerolog.Logger) *Engine {
	if cfg.MarketVolatility <= 0 {
		cfg.MarketVolatility = DefaultConfig().MarketVolatility
	}
	return &Engine{
		cfg: cfg,
		log: log.With().Str("component", "risk_engine").Logger(),
	}
}

// Assess measures risk from the bar series when it is usable and falls
// back to the estimator driven by signal otherwise. Without a usable
// series and without a signal it returns ErrInsufficientData.
func (e *Engine) Assess(symbol string, bars []domain.PriceBar, signal *domain.TradingSignal) (*domain.RiskMetrics, error) {
	closes := domain.Closes(bars)
	measured, err := e.Measure(symbol, closes)
	if err == nil {
		return measured, nil
	}

	if signal == nil {
		return nil, err
	}

	e.log.Debug().
		Str("symbol", symbol).
		Err(err).
		Msg("Falling back to estimated risk metrics")

	return e.Estimate(symbol, *signal), nil
}

// Measure computes risk metrics from a close series
func (e *Engine) Measure(symbol string, closes []float64) (*domain.RiskMetrics, error) {
	if len(closes) < MinCloses {
		return nil, fmt.Errorf("need %d closes for %s, got %d: %w", MinCloses, symbol, len(closes), domain.ErrInsufficientData)
	}
	for i, c := range closes {
		if math.IsNaN(c) || math.IsInf(c, 0) || c <= 0 {
			return nil, fmt.Errorf("close %d of %s is not a positive price: %w", i, symbol, domain.ErrInsufficientData)
		}
	}

	returns := formulas.CalculateReturns(closes)

	daily := formulas.PopStdDev(returns)
	annualized := daily * math.Sqrt(formulas.TradingDaysPerYear)

	var95 := formulas.Percentile(returns, 5)
	var99 := formulas.Percentile(returns, 1)
	maxDD := formulas.CalculateMaxDrawdown(closes)

	score := RiskScore(annualized, *maxDD)

	return &domain.RiskMetrics{
		Symbol:       symbol,
		Volatility:   domain.Volatility{Daily: daily, Annualized: annualized},
		VaR:          domain.ValueAtRisk{P95: *var95, P99: *var99},
		MaxDrawdown:  *maxDD,
		SharpeRatio:  formulas.CalculateSharpeRatio(returns, e.cfg.RiskFreeRate, formulas.TradingDaysPerYear),
		Beta:         annualized / e.cfg.MarketVolatility,
		RiskScore:    score,
		RiskLevel:    ClassifyLevel(score),
		Observations: len(returns),
	}, nil
}

// Estimate produces placeholder metrics whose risk score follows the
// technical signal. The result is always flagged Estimated.
func (e *Engine) Estimate(symbol string, signal domain.TradingSignal) *domain.RiskMetrics {
	score := FallbackScore(signal)

	return &domain.RiskMetrics{
		Symbol:         symbol,
		Volatility:     domain.Volatility{Daily: 0.02, Annualized: 0.32},
		VaR:            domain.ValueAtRisk{P95: -0.03, P99: -0.05},
		MaxDrawdown:    -0.15,
		SharpeRatio:    0.8,
		Beta:           1.1,
		RiskScore:      score,
		RiskLevel:      ClassifyLevel(score),
		Estimated:      true,
		EstimationNote: EstimationNote,
	}
}

// FallbackScore maps a technical signal to an estimated risk score
func FallbackScore(signal domain.TradingSignal) float64 {
	switch {
	case signal.OverallSignal == domain.SignalBullish && signal.Confidence > fallbackStrongConfidence:
		return FallbackStrongBullishScore
	case signal.OverallSignal == domain.SignalBearish && signal.Confidence > fallbackStrongConfidence:
		return FallbackStrongBearishScore
	case signal.Confidence < fallbackLowConfidence:
		return FallbackLowConfidenceScore
	}
	return FallbackDefaultScore
}

// RiskScore sums two independently capped contributions: annualized
// volatility and drawdown depth, each scaled by 100 and capped at 50.
func RiskScore(annualizedVol, maxDrawdown float64) float64 {
	volScore := math.Min(math.Max(annualizedVol, 0)*100, componentCap)
	ddScore := math.Min(math.Abs(maxDrawdown)*100, componentCap)
	return volScore + ddScore
}

// ClassifyLevel buckets a risk score
func ClassifyLevel(score float64) domain.RiskLevel {
	switch {
	case score < 30:
		return domain.RiskLow
	case score < 60:
		return domain.RiskModerate
	case score < 80:
		return domain.RiskHigh
	}
	return domain.RiskVeryHigh
}
