package risk

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/finwell/internal/domain"
)

func newTestEngine() *Engine {
	return NewEngine(DefaultConfig(), zerolog.Nop())
}

func bars(closes ...float64) []domain.PriceBar {
	out := make([]domain.PriceBar, len(closes))
	for i, c := range closes {
		out[i] = domain.PriceBar{Close: c, High: c, Low: c, Open: c}
	}
	return out
}

func TestMeasure(t *testing.T) {
	m, err := newTestEngine().Measure("AAPL", []float64{100, 110, 99})
	require.NoError(t, err)

	sqrt252 := math.Sqrt(252)
	assert.InDelta(t, 0.1, m.Volatility.Daily, 1e-12)
	assert.InDelta(t, 0.1*sqrt252, m.Volatility.Annualized, 1e-12)
	assert.InDelta(t, -0.09, m.VaR.P95, 1e-12)
	assert.InDelta(t, -0.098, m.VaR.P99, 1e-12)
	assert.InDelta(t, -0.1, m.MaxDrawdown, 1e-12)
	assert.InDelta(t, -(0.02/252)/0.1*sqrt252, m.SharpeRatio, 1e-12)
	assert.InDelta(t, 0.1*sqrt252/0.16, m.Beta, 1e-9)
	assert.InDelta(t, 60.0, m.RiskScore, 1e-9)
	assert.Equal(t, domain.RiskHigh, m.RiskLevel)
	assert.Equal(t, 2, m.Observations)
	assert.False(t, m.Estimated)
	assert.Empty(t, m.EstimationNote)
}

func TestMeasureFlatSeries(t *testing.T) {
	m, err := newTestEngine().Measure("FLAT", []float64{50, 50, 50, 50})
	require.NoError(t, err)

	assert.Equal(t, 0.0, m.Volatility.Annualized)
	assert.Equal(t, 0.0, m.SharpeRatio)
	assert.Equal(t, 0.0, m.MaxDrawdown)
	assert.Equal(t, 0.0, m.RiskScore)
	assert.Equal(t, domain.RiskLow, m.RiskLevel)
}

func TestMeasureRejectsUnusableSeries(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.Measure("ONE", []float64{100})
	assert.True(t, errors.Is(err, domain.ErrInsufficientData))

	_, err = engine.Measure("ZERO", []float64{100, 0, 100})
	assert.True(t, errors.Is(err, domain.ErrInsufficientData))
}

func TestAssessFallsBackToEstimate(t *testing.T) {
	engine := newTestEngine()
	signal := &domain.TradingSignal{OverallSignal: domain.SignalBullish, Confidence: 0.8}

	m, err := engine.Assess("NEW", bars(100), signal)
	require.NoError(t, err)
	assert.True(t, m.Estimated)
	assert.Equal(t, EstimationNote, m.EstimationNote)
	assert.Equal(t, FallbackStrongBullishScore, m.RiskScore)
	assert.Equal(t, 0.32, m.Volatility.Annualized)
	assert.Equal(t, -0.15, m.MaxDrawdown)
	assert.Equal(t, domain.RiskModerate, m.RiskLevel)

	_, err = engine.Assess("NEW", nil, nil)
	assert.True(t, errors.Is(err, domain.ErrInsufficientData))

	measured, err := engine.Assess("OLD", bars(100, 101, 102), signal)
	require.NoError(t, err)
	assert.False(t, measured.Estimated)
}

func TestFallbackScore(t *testing.T) {
	tests := []struct {
		name     string
		signal   domain.TradingSignal
		expected float64
	}{
		{name: "strong bullish", signal: domain.TradingSignal{OverallSignal: domain.SignalBullish, Confidence: 0.75}, expected: 35},
		{name: "strong bearish", signal: domain.TradingSignal{OverallSignal: domain.SignalBearish, Confidence: 1}, expected: 75},
		{name: "bullish at threshold", signal: domain.TradingSignal{OverallSignal: domain.SignalBullish, Confidence: 0.7}, expected: 50},
		{name: "neutral", signal: domain.TradingSignal{OverallSignal: domain.SignalNeutral, Confidence: 0.5}, expected: 50},
		{name: "low confidence", signal: domain.TradingSignal{OverallSignal: domain.SignalNeutral, Confidence: 0.2}, expected: 65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FallbackScore(tt.signal))
		})
	}
}

func TestClassifyLevel(t *testing.T) {
	assert.Equal(t, domain.RiskLow, ClassifyLevel(29.99))
	assert.Equal(t, domain.RiskModerate, ClassifyLevel(30))
	assert.Equal(t, domain.RiskHigh, ClassifyLevel(60))
	assert.Equal(t, domain.RiskVeryHigh, ClassifyLevel(80))
	assert.Equal(t, domain.RiskVeryHigh, ClassifyLevel(100))
}

func TestRiskScoreCapsEachComponent(t *testing.T) {
	assert.Equal(t, 100.0, RiskScore(3, -0.9))
	assert.InDelta(t, 70.0, RiskScore(0.2, -0.5), 1e-9)
	assert.InDelta(t, 50.0+15.0, RiskScore(1.2, -0.15), 1e-9)
}

func TestMeasureBoundsOnRandomSeries(t *testing.T) {
	engine := newTestEngine()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		n := 2 + rng.Intn(300)
		closes := make([]float64, n)
		price := 10 + rng.Float64()*100
		for j := range closes {
			price *= 1 + (rng.Float64()-0.5)*0.1
			closes[j] = price
		}

		m, err := engine.Measure("RND", closes)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, m.RiskScore, 0.0)
		assert.LessOrEqual(t, m.RiskScore, 100.0)
		assert.LessOrEqual(t, m.MaxDrawdown, 0.0)
		assert.GreaterOrEqual(t, m.Volatility.Daily, 0.0)
		assert.LessOrEqual(t, m.VaR.P99, m.VaR.P95)
	}
}
