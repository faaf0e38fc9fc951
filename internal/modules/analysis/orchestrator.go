// Package analysis runs the per-symbol pipeline across a symbol set and
// assembles the analysis report.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/finwell/internal/domain"
	"github.com/aristath/finwell/internal/modules/fundamentals"
	"github.com/aristath/finwell/internal/modules/market"
	"github.com/aristath/finwell/internal/modules/recommendation"
	"github.com/aristath/finwell/internal/modules/risk"
	"github.com/aristath/finwell/internal/modules/technical"
)

// QuickPeriod is the lookback used by QuickAnalysis
const QuickPeriod = "3mo"

// DefaultFetchTimeout bounds the data collaborator calls of one request
const DefaultFetchTimeout = 30 * time.Second

// DataSource supplies pre-fetched inputs. Implementations do the I/O;
// nothing downstream of them does.
type DataSource interface {
	FetchSymbol(ctx context.Context, symbol, period string) (*domain.SymbolData, error)
	FetchMarket(ctx context.Context) (*domain.MarketSnapshot, error)
}

// Config holds orchestrator settings
type Config struct {
	Workers      int
	FetchTimeout time.Duration
}

// Request is one analysis run
type Request struct {
	Symbols []string `json:"symbols"`
	Period  string   `json:"period"`
}

// Orchestrator sequences the analysis modules for a request
type Orchestrator struct {
	source       DataSource
	technical    *technical.Engine
	fundamentals *fundamentals.Scorer
	market       *market.Aggregator
	risk         *risk.Engine
	synthesizer  *recommendation.Synthesizer
	pool         *WorkerPool
	fetchTimeout time.Duration
	now          func() time.Time
	log          zerolog.Logger
}

// NewOrchestrator creates a new pipeline orchestrator
func NewOrchestrator(
	source DataSource,
	technicalEngine *technical.Engine,
	scorer *fundamentals.Scorer,
	aggregator *market.Aggregator,
	riskEngine *risk.Engine,
	synthesizer *recommendation.Synthesizer,
	cfg Config,
	log zerolog.Logger,
) *Orchestrator {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	return &Orchestrator{
		source:       source,
		technical:    technicalEngine,
		fundamentals: scorer,
		market:       aggregator,
		risk:         riskEngine,
		synthesizer:  synthesizer,
		pool:         NewWorkerPool(cfg.Workers),
		fetchTimeout: cfg.FetchTimeout,
		now:          time.Now,
		log:          log.With().Str("component", "orchestrator").Logger(),
	}
}

// NormalizeSymbols trims, upper-cases and de-duplicates symbols, keeping
// first-seen order
func NormalizeSymbols(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Analyze runs the full pipeline. Per-symbol failures are recorded in the
// report; only an empty symbol set or an invalid period is an error.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) (*domain.AnalysisReport, error) {
	symbols := NormalizeSymbols(req.Symbols)
	if len(symbols) == 0 {
		return nil, domain.ErrEmptySymbolSet
	}

	period := req.Period
	if period == "" {
		period = domain.DefaultPeriod
	}
	if err := domain.ValidatePeriod(period); err != nil {
		return nil, err
	}

	started := o.now()
	o.log.Info().
		Strs("symbols", symbols).
		Str("period", period).
		Msg("Starting analysis")

	fetchCtx, cancel := context.WithTimeout(ctx, o.fetchTimeout)
	defer cancel()

	report := &domain.AnalysisReport{
		Symbols:      symbols,
		Period:       period,
		Results:      make(map[string]*domain.SymbolAnalysis, len(symbols)),
		FailedStages: []string{},
	}

	marketFailed := false
	if analysis, err := o.analyzeMarket(fetchCtx); err != nil {
		marketFailed = true
		se := domain.NewStageError("", domain.StageMarket, err)
		report.Failures = append(report.Failures, se.Failure())
		report.FailedStages = append(report.FailedStages, string(domain.StageMarket))
		o.log.Warn().Str("stage", string(domain.StageMarket)).Err(err).Msg("Analysis stage failed")
	} else {
		report.Market = analysis
	}

	units := o.pool.AnalyzeBatch(symbols, func(symbol string) Unit {
		return o.analyzeSymbol(fetchCtx, symbol, period)
	})

	articles := make(map[string][]domain.Article, len(units))
	recs := make(map[string]*domain.Recommendation, len(units))
	var riskMetrics []*domain.RiskMetrics
	failedSymbols := 0

	for _, unit := range units {
		a := unit.Analysis
		report.Results[a.Symbol] = a
		articles[a.Symbol] = unit.Articles
		recs[a.Symbol] = a.Recommendation
		if a.Risk != nil {
			riskMetrics = append(riskMetrics, a.Risk)
		}
		if a.Failed() {
			failedSymbols++
			for _, f := range a.Failures {
				report.FailedStages = append(report.FailedStages, a.Symbol+":"+string(f.Stage))
				report.Failures = append(report.Failures, f)
			}
		}
	}

	report.OverallSentiment = o.market.OverallSentiment(articles)

	portfolioRisk, err := o.risk.Portfolio(riskMetrics)
	if err != nil {
		o.log.Warn().Err(err).Msg("Portfolio risk unavailable")
	} else {
		report.PortfolioRisk = portfolioRisk
	}

	report.Allocation = recommendation.BuildPortfolio(recs)
	report.Strategy = recommendation.OverallStrategy(recs)
	report.RiskPlan = risk.ManagementPlan(portfolioRisk)
	report.Quality = Grade(len(symbols), failedSymbols, marketFailed)
	report.Summary = Summarize(report)
	report.CreatedAt = o.now().UTC()

	o.log.Info().
		Int("symbols", len(symbols)).
		Int("failed_symbols", failedSymbols).
		Str("quality", string(report.Quality)).
		Dur("duration", o.now().Sub(started)).
		Msg("Analysis complete")

	return report, nil
}

func (o *Orchestrator) analyzeMarket(ctx context.Context) (*domain.MarketAnalysis, error) {
	snapshot, err := o.source.FetchMarket(ctx)
	if err != nil {
		return nil, upstream(err)
	}
	return o.market.AnalyzeMarket(*snapshot), nil
}

// analyzeSymbol runs every stage for one symbol. A stage failure is
// recorded and later stages run on whatever inputs remain.
func (o *Orchestrator) analyzeSymbol(ctx context.Context, symbol, period string) (unit Unit) {
	a := &domain.SymbolAnalysis{Symbol: symbol}
	unit.Analysis = a

	stage := domain.StageData
	defer func() {
		if r := recover(); r != nil {
			o.fail(a, stage, fmt.Errorf("panic: %v", r))
			a.Recommendation = domain.InsufficientData(symbol, "Analysis aborted")
		}
	}()

	data, err := o.fetch(ctx, symbol, period)
	if err != nil {
		o.fail(a, domain.StageData, err)
		a.Recommendation = domain.InsufficientData(symbol, "Data collection failed")
		return unit
	}
	unit.Articles = data.Articles
	a.CurrentPrice = data.CurrentPrice()

	stage = domain.StageTechnical
	indicators, signal, err := o.technical.Analyze(symbol, data.Bars)
	if err != nil {
		o.fail(a, stage, err)
	} else {
		a.Indicators = indicators
		a.Signal = signal
	}

	stage = domain.StageFundamental
	score, err := o.fundamentals.Score(symbol, data.Fundamentals)
	if err != nil {
		o.fail(a, stage, err)
	} else {
		a.Fundamentals = score
	}

	stage = domain.StageSentiment
	a.Sentiment = o.market.SentimentImpact(symbol, data.Articles)

	stage = domain.StageRisk
	metrics, err := o.risk.Assess(symbol, data.Bars, a.Signal)
	if err != nil {
		o.fail(a, stage, err)
	} else {
		a.Risk = metrics
	}

	stage = domain.StageRecommendation
	a.Recommendation = o.synthesizer.Synthesize(symbol, a.Signal, a.Fundamentals, a.Risk, a.CurrentPrice)

	o.log.Debug().
		Str("symbol", symbol).
		Str("recommendation", string(a.Recommendation.Action)).
		Int("failures", len(a.Failures)).
		Msg("Symbol analyzed")

	return unit
}

func (o *Orchestrator) fail(a *domain.SymbolAnalysis, stage domain.Stage, err error) {
	se := domain.NewStageError(a.Symbol, stage, err)
	a.Failures = append(a.Failures, se.Failure())
	o.log.Warn().
		Str("symbol", a.Symbol).
		Str("stage", string(stage)).
		Err(err).
		Msg("Analysis stage failed")
}

// QuickAnalysis is the short single-symbol view over QuickPeriod
func (o *Orchestrator) QuickAnalysis(ctx context.Context, symbol string) (*domain.QuickAnalysis, error) {
	symbols := NormalizeSymbols([]string{symbol})
	if len(symbols) == 0 {
		return nil, domain.ErrEmptySymbolSet
	}
	symbol = symbols[0]

	fetchCtx, cancel := context.WithTimeout(ctx, o.fetchTimeout)
	defer cancel()

	data, err := o.fetch(fetchCtx, symbol, QuickPeriod)
	if err != nil {
		return nil, domain.NewStageError(symbol, domain.StageData, err)
	}

	quick := &domain.QuickAnalysis{
		Symbol:             symbol,
		CurrentPrice:       data.CurrentPrice(),
		PriceChangePercent: data.PriceChangePercent(),
		Timestamp:          o.now().UTC(),
	}

	_, signal, err := o.technical.Analyze(symbol, data.Bars)
	if err == nil {
		quick.TechnicalSignal = signal.OverallSignal
	}

	riskScore := risk.FallbackDefaultScore
	if metrics, err := o.risk.Assess(symbol, data.Bars, signal); err == nil {
		riskScore = metrics.RiskScore
	}
	quick.RiskLevel = risk.ClassifyLevel(riskScore)

	if impact := o.market.SentimentImpact(symbol, data.Articles); impact != nil {
		quick.NewsSentiment = impact.ImpactLevel
	}

	return quick, nil
}

// fetch loads one symbol's inputs, folding a per-symbol collaborator
// error into the returned error
func (o *Orchestrator) fetch(ctx context.Context, symbol, period string) (*domain.SymbolData, error) {
	data, err := o.source.FetchSymbol(ctx, symbol, period)
	switch {
	case err != nil:
		return nil, upstream(err)
	case data == nil:
		return nil, upstream(fmt.Errorf("no data for %s: %w", symbol, domain.ErrNotFound))
	case data.Err != nil:
		return nil, upstream(data.Err)
	}
	return data, nil
}

// upstream marks err as a collaborator failure
func upstream(err error) error {
	if errors.Is(err, domain.ErrUpstreamFailure) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrUpstreamFailure, err)
}
