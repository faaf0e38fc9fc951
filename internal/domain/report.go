package domain

import "time"

// AnalysisQuality grades a pipeline run by its stage failures
type AnalysisQuality string

const (
	QualityGood    AnalysisQuality = "good"
	QualityPartial AnalysisQuality = "partial"
	QualityPoor    AnalysisQuality = "poor"
)

// SymbolAnalysis holds every stage output for one symbol. A nil stage
// output has a matching entry in Failures.
type SymbolAnalysis struct {
	Symbol         string            `json:"symbol"`
	CurrentPrice   *float64          `json:"current_price"`
	Indicators     *IndicatorSet     `json:"technical_analysis,omitempty"`
	Signal         *TradingSignal    `json:"trading_signals,omitempty"`
	Fundamentals   *FundamentalScore `json:"fundamental_analysis,omitempty"`
	Sentiment      *SentimentImpact  `json:"sentiment,omitempty"`
	Risk           *RiskMetrics      `json:"risk_metrics,omitempty"`
	Recommendation *Recommendation   `json:"recommendation"`
	Failures       []StageFailure    `json:"failures,omitempty"`
}

// Failed reports whether any stage failed for the symbol
func (s *SymbolAnalysis) Failed() bool { return len(s.Failures) > 0 }

// RankedRecommendation is an executive summary entry
type RankedRecommendation struct {
	Symbol      string   `json:"symbol"`
	Action      Action   `json:"action"`
	Confidence  float64  `json:"confidence"`
	TargetPrice *float64 `json:"target_price,omitempty"`
}

// TopRecommendations holds the best buy and sell calls
type TopRecommendations struct {
	Buy  []RankedRecommendation `json:"buy"`
	Sell []RankedRecommendation `json:"sell"`
}

// AnalysisOverview describes the run
type AnalysisOverview struct {
	SymbolsAnalyzed int             `json:"symbols_analyzed"`
	AnalysisPeriod  string          `json:"analysis_period"`
	AnalysisQuality AnalysisQuality `json:"analysis_quality"`
}

// PortfolioSummary is the allocation in display form
type PortfolioSummary struct {
	RecommendedStockAllocation string `json:"recommended_stock_allocation"`
	RecommendedCashAllocation  string `json:"recommended_cash_allocation"`
	NumberOfPositions          int    `json:"number_of_positions"`
}

// ExecutiveSummary is the condensed report view
type ExecutiveSummary struct {
	Overview           AnalysisOverview   `json:"analysis_overview"`
	KeyFindings        []string           `json:"key_findings"`
	TopRecommendations TopRecommendations `json:"top_recommendations"`
	RiskHighlights     []string           `json:"risk_highlights"`
	PortfolioSummary   PortfolioSummary   `json:"portfolio_summary"`
	InvestmentStrategy StrategyLabel      `json:"investment_strategy"`
	MarketOutlook      SignalType         `json:"market_outlook"`
}

// AnalysisReport is the result of one pipeline run. It is not shared or
// mutated after the run returns it.
type AnalysisReport struct {
	ID               string                     `json:"id,omitempty"`
	Symbols          []string                   `json:"symbols"`
	Period           string                     `json:"analysis_period"`
	CreatedAt        time.Time                  `json:"timestamp"`
	Results          map[string]*SymbolAnalysis `json:"results"`
	Market           *MarketAnalysis            `json:"market_analysis,omitempty"`
	OverallSentiment *OverallSentiment          `json:"overall_sentiment,omitempty"`
	PortfolioRisk    *PortfolioRisk             `json:"portfolio_risk,omitempty"`
	Allocation       PortfolioAllocation        `json:"portfolio_allocation"`
	Strategy         OverallStrategy            `json:"overall_strategy"`
	RiskPlan         RiskManagementPlan         `json:"risk_management"`
	Quality          AnalysisQuality            `json:"analysis_quality"`
	FailedStages     []string                   `json:"failed_stages"`
	Failures         []StageFailure             `json:"failures,omitempty"`
	Summary          ExecutiveSummary           `json:"executive_summary"`
}

// ReportMeta is the listing view of a stored report
type ReportMeta struct {
	ID        string          `json:"id"`
	Symbols   []string        `json:"symbols"`
	Period    string          `json:"analysis_period"`
	Quality   AnalysisQuality `json:"analysis_quality"`
	CreatedAt time.Time       `json:"created_at"`
}

// QuickAnalysis is the single-symbol short view
type QuickAnalysis struct {
	Symbol             string         `json:"symbol"`
	CurrentPrice       *float64       `json:"current_price"`
	PriceChangePercent float64        `json:"price_change_percent"`
	TechnicalSignal    SignalType     `json:"technical_signal,omitempty"`
	RiskLevel          RiskLevel      `json:"risk_level"`
	NewsSentiment      SentimentLabel `json:"news_sentiment,omitempty"`
	Timestamp          time.Time      `json:"timestamp"`
}
