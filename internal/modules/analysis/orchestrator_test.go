package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aristath/finwell/internal/domain"
	"github.com/aristath/finwell/internal/modules/fundamentals"
	"github.com/aristath/finwell/internal/modules/market"
	"github.com/aristath/finwell/internal/modules/recommendation"
	"github.com/aristath/finwell/internal/modules/risk"
	"github.com/aristath/finwell/internal/modules/technical"
)

// MockDataSource is a mock data source for testing
type MockDataSource struct {
	mock.Mock
}

func (m *MockDataSource) FetchSymbol(ctx context.Context, symbol, period string) (*domain.SymbolData, error) {
	args := m.Called(ctx, symbol, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SymbolData), args.Error(1)
}

func (m *MockDataSource) FetchMarket(ctx context.Context) (*domain.MarketSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MarketSnapshot), args.Error(1)
}

type panickingSource struct{}

func (panickingSource) FetchSymbol(context.Context, string, string) (*domain.SymbolData, error) {
	panic("collaborator exploded")
}

func (panickingSource) FetchMarket(context.Context) (*domain.MarketSnapshot, error) {
	return &domain.MarketSnapshot{}, nil
}

func newOrchestrator(source DataSource) *Orchestrator {
	log := zerolog.Nop()
	return NewOrchestrator(
		source,
		technical.NewEngine(log),
		fundamentals.NewScorer(log),
		market.NewAggregator(log),
		risk.NewEngine(risk.DefaultConfig(), log),
		recommendation.NewSynthesizer(log),
		Config{Workers: 4, FetchTimeout: time.Second},
		log,
	)
}

func f(v float64) *float64 { return &v }

func risingBars(n int) []domain.PriceBar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]domain.PriceBar, n)
	for i := range bars {
		c := 100 * math.Pow(1.01, float64(i))
		bars[i] = domain.PriceBar{Date: start.AddDate(0, 0, i), Open: c, High: c, Low: c * 0.99, Close: c, Volume: 1_000_000}
	}
	return bars
}

func strongFundamentals() *domain.FundamentalMetrics {
	return &domain.FundamentalMetrics{
		PERatio:        f(15),
		ReturnOnEquity: f(0.20),
		ProfitMargin:   f(0.12),
		DebtToEquity:   f(0.3),
		CurrentRatio:   f(2.0),
	}
}

func goodData(symbol string) *domain.SymbolData {
	return &domain.SymbolData{
		Symbol:       symbol,
		Bars:         risingBars(60),
		Fundamentals: strongFundamentals(),
		Articles: []domain.Article{
			{Title: symbol + " beats estimates", Sentiment: &domain.ArticleSentiment{Polarity: 0.4, Subjectivity: 0.5}},
		},
	}
}

func snapshot() *domain.MarketSnapshot {
	return &domain.MarketSnapshot{
		Indices: []domain.MarketIndex{
			{Name: "S&P 500", ChangePercent: 0.8},
			{Name: "NASDAQ", ChangePercent: 1.1},
			{Name: "Dow Jones", ChangePercent: -0.2},
		},
		Sectors: []domain.SectorPerformance{
			{Sector: "Technology", ChangePercent: 3.0},
			{Sector: "Energy", ChangePercent: -2.5},
			{Sector: "Healthcare", ChangePercent: 1.0},
		},
	}
}

func TestNormalizeSymbols(t *testing.T) {
	assert.Equal(t, []string{"AAPL", "MSFT"}, NormalizeSymbols([]string{" aapl", "AAPL", "msft ", "", "  "}))
	assert.Empty(t, NormalizeSymbols(nil))
}

func TestAnalyze_RejectsEmptySymbolSet(t *testing.T) {
	source := new(MockDataSource)
	o := newOrchestrator(source)

	for _, symbols := range [][]string{nil, {}, {" ", ""}} {
		report, err := o.Analyze(context.Background(), Request{Symbols: symbols})
		assert.ErrorIs(t, err, domain.ErrEmptySymbolSet)
		assert.Nil(t, report)
	}
	source.AssertNotCalled(t, "FetchSymbol", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyze_RejectsUnknownPeriod(t *testing.T) {
	o := newOrchestrator(new(MockDataSource))

	_, err := o.Analyze(context.Background(), Request{Symbols: []string{"AAPL"}, Period: "7w"})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestAnalyze_FullRun(t *testing.T) {
	source := new(MockDataSource)
	source.On("FetchMarket", mock.Anything).Return(snapshot(), nil)
	source.On("FetchSymbol", mock.Anything, "AAPL", "6mo").Return(goodData("AAPL"), nil)
	source.On("FetchSymbol", mock.Anything, "MSFT", "6mo").Return(goodData("MSFT"), nil)

	report, err := newOrchestrator(source).Analyze(context.Background(), Request{
		Symbols: []string{"aapl", "msft"},
		Period:  "6mo",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL", "MSFT"}, report.Symbols)
	assert.Equal(t, "6mo", report.Period)
	assert.Equal(t, domain.QualityGood, report.Quality)
	assert.Empty(t, report.FailedStages)
	assert.False(t, report.CreatedAt.IsZero())

	for _, symbol := range report.Symbols {
		a := report.Results[symbol]
		require.NotNil(t, a, symbol)
		require.NotNil(t, a.Signal)
		assert.Equal(t, domain.SignalBullish, a.Signal.OverallSignal)
		assert.Equal(t, 100.0, a.Fundamentals.Score)
		assert.False(t, a.Risk.Estimated)
		assert.Equal(t, domain.ActionStrongBuy, a.Recommendation.Action)
		assert.InDelta(t, 7.5, a.Recommendation.PositionSizePct, 1e-6)
		require.NotNil(t, a.Sentiment)
		assert.Equal(t, domain.SentimentPositive, a.Sentiment.ImpactLevel)
	}

	assert.InDelta(t, 15.0, report.Allocation.TotalInvestedPct, 1e-6)
	assert.InDelta(t, 85.0, report.Allocation.CashAllocationPct, 1e-6)
	assert.Equal(t, domain.StrategyAggressiveGrowth, report.Strategy.Strategy)
	assert.Equal(t, 2, report.Strategy.BuySignals)

	require.NotNil(t, report.Market)
	assert.Equal(t, domain.TrendBullish, report.Market.MarketTrend)
	require.NotNil(t, report.PortfolioRisk)
	assert.Equal(t, domain.RiskLow, report.PortfolioRisk.RiskLevel)
	assert.Empty(t, report.RiskPlan.ImmediateActions)
	assert.Equal(t, 2, report.OverallSentiment.ArticleCount)

	s := report.Summary
	assert.Equal(t, 2, s.Overview.SymbolsAnalyzed)
	assert.Equal(t, domain.QualityGood, s.Overview.AnalysisQuality)
	assert.Equal(t, []string{
		"Overall market trend: bullish",
		"Leading sectors: Technology, Healthcare, Energy",
	}, s.KeyFindings)
	assert.Len(t, s.TopRecommendations.Buy, 2)
	assert.Empty(t, s.TopRecommendations.Sell)
	assert.Equal(t, "Portfolio risk level: LOW", s.RiskHighlights[0])
	assert.Equal(t, "15.0%", s.PortfolioSummary.RecommendedStockAllocation)
	assert.Equal(t, "85.0%", s.PortfolioSummary.RecommendedCashAllocation)
	assert.Equal(t, 2, s.PortfolioSummary.NumberOfPositions)

	source.AssertExpectations(t)
}

func TestAnalyze_IsolatesSymbolFailures(t *testing.T) {
	source := new(MockDataSource)
	source.On("FetchMarket", mock.Anything).Return(snapshot(), nil)
	source.On("FetchSymbol", mock.Anything, "AAPL", domain.DefaultPeriod).Return(goodData("AAPL"), nil)
	source.On("FetchSymbol", mock.Anything, "MSFT", domain.DefaultPeriod).Return(goodData("MSFT"), nil)
	source.On("FetchSymbol", mock.Anything, "BAD", domain.DefaultPeriod).Return(nil, errors.New("connection refused"))

	report, err := newOrchestrator(source).Analyze(context.Background(), Request{Symbols: []string{"AAPL", "BAD", "MSFT"}})
	require.NoError(t, err)

	assert.Equal(t, domain.QualityPartial, report.Quality)
	assert.Equal(t, []string{"BAD:data"}, report.FailedStages)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, domain.KindUpstreamFailure, report.Failures[0].Kind)
	assert.Contains(t, report.Failures[0].Message, "connection refused")

	bad := report.Results["BAD"]
	assert.Equal(t, domain.ActionInsufficientData, bad.Recommendation.Action)
	assert.Nil(t, bad.Signal)

	assert.Equal(t, domain.ActionStrongBuy, report.Results["AAPL"].Recommendation.Action)
	assert.Equal(t, domain.ActionStrongBuy, report.Results["MSFT"].Recommendation.Action)
	assert.NotContains(t, report.Allocation.StockAllocations, "BAD")
}

func TestAnalyze_MissingFundamentals(t *testing.T) {
	data := goodData("XYZ")
	data.Fundamentals = nil

	source := new(MockDataSource)
	source.On("FetchMarket", mock.Anything).Return(snapshot(), nil)
	source.On("FetchSymbol", mock.Anything, "XYZ", domain.DefaultPeriod).Return(data, nil)

	report, err := newOrchestrator(source).Analyze(context.Background(), Request{Symbols: []string{"XYZ"}})
	require.NoError(t, err)

	a := report.Results["XYZ"]
	assert.NotNil(t, a.Indicators)
	assert.NotNil(t, a.Risk)
	assert.Nil(t, a.Fundamentals)
	assert.Equal(t, domain.ActionInsufficientData, a.Recommendation.Action)
	assert.Equal(t, []string{"XYZ:fundamental"}, report.FailedStages)
	assert.Equal(t, domain.KindMissingField, report.Failures[0].Kind)
	assert.Equal(t, domain.QualityPoor, report.Quality)
	assert.Equal(t, 100.0, report.Allocation.CashAllocationPct)
	assert.Equal(t, domain.StrategyBalanced, report.Strategy.Strategy)
}

func TestAnalyze_ShortSeriesUsesEstimatedRisk(t *testing.T) {
	data := goodData("NEW")
	data.Bars = data.Bars[:1]

	source := new(MockDataSource)
	source.On("FetchMarket", mock.Anything).Return(snapshot(), nil)
	source.On("FetchSymbol", mock.Anything, "NEW", domain.DefaultPeriod).Return(data, nil)

	report, err := newOrchestrator(source).Analyze(context.Background(), Request{Symbols: []string{"NEW"}})
	require.NoError(t, err)

	a := report.Results["NEW"]
	require.NotNil(t, a.Risk)
	assert.True(t, a.Risk.Estimated)
	assert.True(t, a.Recommendation.Reasoning.RiskEstimated)
	assert.Equal(t, domain.QualityGood, report.Quality)
}

func TestAnalyze_MarketFailureDegradesQuality(t *testing.T) {
	source := new(MockDataSource)
	source.On("FetchMarket", mock.Anything).Return(nil, errors.New("index feed down"))
	source.On("FetchSymbol", mock.Anything, "AAPL", domain.DefaultPeriod).Return(goodData("AAPL"), nil)

	report, err := newOrchestrator(source).Analyze(context.Background(), Request{Symbols: []string{"AAPL"}})
	require.NoError(t, err)

	assert.Nil(t, report.Market)
	assert.Equal(t, domain.QualityPartial, report.Quality)
	assert.Equal(t, []string{"market"}, report.FailedStages)
	assert.Empty(t, report.Summary.KeyFindings)
}

func TestAnalyze_RecoversFromPanickingUnit(t *testing.T) {
	report, err := newOrchestrator(panickingSource{}).Analyze(context.Background(), Request{Symbols: []string{"AAA", "BBB"}})
	require.NoError(t, err)

	assert.Equal(t, domain.QualityPoor, report.Quality)
	assert.ElementsMatch(t, []string{"AAA:data", "BBB:data"}, report.FailedStages)
	for _, a := range report.Results {
		assert.Equal(t, domain.ActionInsufficientData, a.Recommendation.Action)
		assert.Contains(t, a.Failures[0].Message, "collaborator exploded")
	}
}

func TestAnalyze_ManySymbols(t *testing.T) {
	source := new(MockDataSource)
	source.On("FetchMarket", mock.Anything).Return(snapshot(), nil)

	var symbols []string
	for i := 0; i < 25; i++ {
		s := fmt.Sprintf("S%02d", i)
		symbols = append(symbols, s)
		source.On("FetchSymbol", mock.Anything, s, domain.DefaultPeriod).Return(goodData(s), nil)
	}

	report, err := newOrchestrator(source).Analyze(context.Background(), Request{Symbols: symbols})
	require.NoError(t, err)

	assert.Len(t, report.Results, 25)
	assert.Len(t, report.Summary.TopRecommendations.Buy, TopN)
	// 25 positions of 7.5% overflow and are rescaled
	assert.InDelta(t, 100.0, report.Allocation.TotalInvestedPct, 1e-9)
	assert.Equal(t, 0.0, report.Allocation.CashAllocationPct)
}

func TestQuickAnalysis(t *testing.T) {
	source := new(MockDataSource)
	source.On("FetchSymbol", mock.Anything, "AAPL", QuickPeriod).Return(goodData("AAPL"), nil)

	quick, err := newOrchestrator(source).QuickAnalysis(context.Background(), " aapl ")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", quick.Symbol)
	require.NotNil(t, quick.CurrentPrice)
	assert.InDelta(t, 100*math.Pow(1.01, 59), *quick.CurrentPrice, 1e-9)
	assert.InDelta(t, 1.0, quick.PriceChangePercent, 1e-9)
	assert.Equal(t, domain.SignalBullish, quick.TechnicalSignal)
	assert.Equal(t, domain.RiskLow, quick.RiskLevel)
	assert.Equal(t, domain.SentimentPositive, quick.NewsSentiment)
}

func TestQuickAnalysis_Errors(t *testing.T) {
	source := new(MockDataSource)
	source.On("FetchSymbol", mock.Anything, "GONE", QuickPeriod).Return(nil, domain.ErrNotFound)
	o := newOrchestrator(source)

	_, err := o.QuickAnalysis(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrEmptySymbolSet)

	_, err = o.QuickAnalysis(context.Background(), "gone")
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var stageErr *domain.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, domain.StageData, stageErr.Stage)
}
