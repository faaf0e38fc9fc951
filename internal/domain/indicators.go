package domain

// Direction is the structured tag carried by every indicator signal
type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
	DirectionNeutral Direction = "neutral"
)

// Signal pairs human readable text with its direction
type Signal struct {
	Text      string    `json:"text"`
	Direction Direction `json:"direction"`
	Strength  float64   `json:"strength"`
}

// MovingAverages holds SMA 20/50/200 and EMA 12/26 at the latest bar
type MovingAverages struct {
	SMA20   *float64 `json:"sma_20"`
	SMA50   *float64 `json:"sma_50"`
	SMA200  *float64 `json:"sma_200"`
	EMA12   *float64 `json:"ema_12"`
	EMA26   *float64 `json:"ema_26"`
	Signals []Signal `json:"signals"`
}

// RSIResult holds RSI(14)
type RSIResult struct {
	Value          *float64 `json:"current_rsi"`
	Interpretation string   `json:"interpretation,omitempty"`
	Signals        []Signal `json:"signals"`
}

// MACDResult holds MACD(12,26,9)
type MACDResult struct {
	Line      *float64 `json:"macd_line"`
	Signal    *float64 `json:"signal_line"`
	Histogram *float64 `json:"histogram"`
	Signals   []Signal `json:"signals"`
}

// BollingerResult holds Bollinger Bands(20, 2σ)
type BollingerResult struct {
	Upper        *float64 `json:"upper_band"`
	Middle       *float64 `json:"middle_band"`
	Lower        *float64 `json:"lower_band"`
	BandPosition *float64 `json:"band_position"`
	Signals      []Signal `json:"signals"`
}

// SupportResistance holds the trailing 20-bar range
type SupportResistance struct {
	Resistance              *float64 `json:"resistance_level"`
	Support                 *float64 `json:"support_level"`
	DistanceToResistancePct *float64 `json:"distance_to_resistance_pct"`
	DistanceToSupportPct    *float64 `json:"distance_to_support_pct"`
	Signals                 []Signal `json:"signals"`
}

// VolumeAnalysis compares the latest volume with the trailing average
type VolumeAnalysis struct {
	CurrentVolume float64  `json:"current_volume"`
	AverageVolume *float64 `json:"average_volume"`
	VolumeRatio   *float64 `json:"volume_ratio"`
	PriceChange   *float64 `json:"price_change"`
	Signals       []Signal `json:"signals"`
}

// IndicatorSet is the Indicator Engine output for one symbol
type IndicatorSet struct {
	Symbol            string            `json:"symbol"`
	CurrentPrice      float64           `json:"current_price"`
	BarCount          int               `json:"bar_count"`
	MovingAverages    MovingAverages    `json:"moving_averages"`
	RSI               RSIResult         `json:"rsi"`
	MACD              MACDResult        `json:"macd"`
	Bollinger         BollingerResult   `json:"bollinger_bands"`
	SupportResistance SupportResistance `json:"support_resistance"`
	Volume            VolumeAnalysis    `json:"volume_analysis"`
	Summary           string            `json:"summary"`
}

// AllSignals returns every indicator signal in a fixed indicator order
func (s *IndicatorSet) AllSignals() []Signal {
	var out []Signal
	out = append(out, s.MovingAverages.Signals...)
	out = append(out, s.RSI.Signals...)
	out = append(out, s.MACD.Signals...)
	out = append(out, s.Bollinger.Signals...)
	out = append(out, s.SupportResistance.Signals...)
	out = append(out, s.Volume.Signals...)
	return out
}

// SignalType is the overall technical stance
type SignalType string

const (
	SignalBullish SignalType = "BULLISH"
	SignalBearish SignalType = "BEARISH"
	SignalNeutral SignalType = "NEUTRAL"
)

// TradingSignal is the tally over an IndicatorSet
type TradingSignal struct {
	OverallSignal       SignalType `json:"overall_signal"`
	Confidence          float64    `json:"confidence"`
	BullishCount        int        `json:"bullish_indicators"`
	BearishCount        int        `json:"bearish_indicators"`
	RecommendationLabel string     `json:"recommendation"`
}
