package domain

// Action is the investment action for a symbol
type Action string

const (
	ActionStrongBuy        Action = "STRONG_BUY"
	ActionBuy              Action = "BUY"
	ActionHold             Action = "HOLD"
	ActionSell             Action = "SELL"
	ActionStrongSell       Action = "STRONG_SELL"
	ActionInsufficientData Action = "INSUFFICIENT_DATA"
)

// Rank orders actions from most bearish (0) to most bullish (4).
// INSUFFICIENT_DATA ranks -1.
func (a Action) Rank() int {
	switch a {
	case ActionStrongSell:
		return 0
	case ActionSell:
		return 1
	case ActionHold:
		return 2
	case ActionBuy:
		return 3
	case ActionStrongBuy:
		return 4
	}
	return -1
}

// IsBuy reports BUY or STRONG_BUY
func (a Action) IsBuy() bool { return a == ActionBuy || a == ActionStrongBuy }

// IsSell reports SELL or STRONG_SELL
func (a Action) IsSell() bool { return a == ActionSell || a == ActionStrongSell }

// Reasoning is the structured explanation behind a recommendation
type Reasoning struct {
	TechnicalSignal     SignalType `json:"technical_signal"`
	TechnicalConfidence float64    `json:"technical_confidence"`
	FundamentalScore    float64    `json:"fundamental_score"`
	RiskScore           float64    `json:"risk_score"`
	CombinedScore       float64    `json:"combined_score"`
	RiskEstimated       bool       `json:"risk_estimated"`
	Text                string     `json:"text"`
}

// Recommendation is the per-symbol synthesizer output. When Action is
// INSUFFICIENT_DATA only Symbol and Reason are meaningful.
type Recommendation struct {
	Symbol          string     `json:"symbol"`
	Action          Action     `json:"recommendation"`
	Confidence      float64    `json:"confidence"`
	Reasoning       *Reasoning `json:"reasoning,omitempty"`
	PositionSizePct float64    `json:"position_size"`
	CurrentPrice    *float64   `json:"current_price"`
	TargetPrice     *float64   `json:"target_price"`
	StopLoss        *float64   `json:"stop_loss"`
	RiskLevel       RiskLevel  `json:"risk_level,omitempty"`
	TimeHorizon     string     `json:"time_horizon,omitempty"`
	KeyRisks        []string   `json:"key_risks"`
	Reason          string     `json:"reason,omitempty"`
}

// InsufficientData builds the sentinel recommendation
func InsufficientData(symbol, reason string) *Recommendation {
	return &Recommendation{
		Symbol:   symbol,
		Action:   ActionInsufficientData,
		KeyRisks: []string{},
		Reason:   reason,
	}
}

// PortfolioAllocation splits capital between BUY-rated symbols and cash.
// Stock allocations plus cash always sum to 100.
type PortfolioAllocation struct {
	StockAllocations  map[string]float64 `json:"stock_allocations"`
	CashAllocationPct float64            `json:"cash_allocation"`
	TotalInvestedPct  float64            `json:"total_invested"`
}

// StrategyLabel is the overall portfolio stance
type StrategyLabel string

const (
	StrategyAggressiveGrowth StrategyLabel = "AGGRESSIVE_GROWTH"
	StrategyDefensive        StrategyLabel = "DEFENSIVE"
	StrategyBalanced         StrategyLabel = "BALANCED"
)

// OverallStrategy summarizes the action mix
type OverallStrategy struct {
	Strategy      StrategyLabel `json:"strategy"`
	BuySignals    int           `json:"buy_signals"`
	SellSignals   int           `json:"sell_signals"`
	HoldSignals   int           `json:"hold_signals"`
	MarketOutlook SignalType    `json:"market_outlook"`
}
