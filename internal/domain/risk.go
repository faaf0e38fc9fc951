package domain

// RiskLevel buckets a 0-100 risk score
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskVeryHigh RiskLevel = "VERY_HIGH"
)

// IsElevated reports HIGH or VERY_HIGH
func (l RiskLevel) IsElevated() bool {
	return l == RiskHigh || l == RiskVeryHigh
}

// Volatility is the dispersion of daily returns
type Volatility struct {
	Daily      float64 `json:"daily"`
	Annualized float64 `json:"annualized"`
}

// ValueAtRisk holds historical VaR percentiles of daily returns
type ValueAtRisk struct {
	P95 float64 `json:"95_percent"`
	P99 float64 `json:"99_percent"`
}

// RiskMetrics is the Risk Engine output for one symbol. Estimated is set
// when the metrics come from the fallback estimator rather than a series.
type RiskMetrics struct {
	Symbol         string      `json:"symbol"`
	Volatility     Volatility  `json:"volatility"`
	VaR            ValueAtRisk `json:"var"`
	MaxDrawdown    float64     `json:"max_drawdown"`
	SharpeRatio    float64     `json:"sharpe_ratio"`
	Beta           float64     `json:"beta"`
	RiskScore      float64     `json:"risk_score"`
	RiskLevel      RiskLevel   `json:"risk_level"`
	Observations   int         `json:"observations"`
	Estimated      bool        `json:"estimated"`
	EstimationNote string      `json:"estimation_note,omitempty"`
}

// PortfolioRisk aggregates per-symbol risk scores
type PortfolioRisk struct {
	Symbols              []string  `json:"symbols"`
	AverageRiskScore     float64   `json:"average_risk_score"`
	RiskConcentration    float64   `json:"risk_concentration"`
	DiversificationScore float64   `json:"diversification_score"`
	PortfolioVolatility  float64   `json:"portfolio_volatility"`
	RiskLevel            RiskLevel `json:"risk_level"`
	Recommendations      []string  `json:"recommendations"`
}

// PositionLimits caps exposure
type PositionLimits struct {
	MaxSinglePosition string `json:"max_single_position"`
	MaxSectorExposure string `json:"max_sector_exposure"`
	CashReserve       string `json:"cash_reserve"`
}

// RiskManagementPlan is the portfolio-level guidance
type RiskManagementPlan struct {
	PositionLimits       PositionLimits `json:"position_limits"`
	StopLossStrategy     string         `json:"stop_loss_strategy"`
	RebalancingFrequency string         `json:"rebalancing_frequency"`
	RiskMonitoring       []string       `json:"risk_monitoring"`
	ImmediateActions     []string       `json:"immediate_actions,omitempty"`
}
