// Package technical computes technical indicators and the signal tally
// for a single symbol's price history.
package technical

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/finwell/internal/domain"
	"github.com/aristath/finwell/pkg/formulas"
)

// Indicator windows
const (
	ShortSMAWindow  = 20
	MediumSMAWindow = 50
	LongSMAWindow   = 200
	FastEMASpan     = 12
	SlowEMASpan     = 26
	MACDSignalSpan  = 9
	RSIPeriod       = 14
	BollingerWindow = 20
	BollingerStdDev = 2.0
	RangeWindow     = 20
	VolumeWindow    = 20
)

// Thresholds
const (
	RSIOverbought   = 70.0
	RSIOversold     = 30.0
	NearLevelPct    = 2.0
	HighVolumeRatio = 1.5
	LowVolumeRatio  = 0.5
)

const (
	directionalWeight   = 1.0
	informationalWeight = 0.0
)

// Engine computes IndicatorSets. It holds no per-run state.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates a new indicator engine
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{
		log: log.With().Str("component", "indicator_engine").Logger(),
	}
}

// Compute derives every indicator from an ascending bar series. Windows
// longer than the series produce absent values, not errors.
func (e *Engine) Compute(symbol string, bars []domain.PriceBar) (*domain.IndicatorSet, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("no price bars for %s: %w", symbol, domain.ErrInsufficientData)
	}
	for i, b := range bars {
		if math.IsNaN(b.Close) || math.IsInf(b.Close, 0) || b.Close <= 0 {
			return nil, fmt.Errorf("bar %d of %s has invalid close %v: %w", i, symbol, b.Close, domain.ErrMissingField)
		}
	}

	closes := domain.Closes(bars)
	price := closes[len(closes)-1]

	set := &domain.IndicatorSet{
		Symbol:            symbol,
		CurrentPrice:      price,
		BarCount:          len(bars),
		MovingAverages:    movingAverages(closes, price),
		RSI:               relativeStrength(closes),
		MACD:              macd(closes),
		Bollinger:         bollinger(closes, price),
		SupportResistance: supportResistance(bars, price),
		Volume:            volume(bars, closes),
	}

	e.log.Debug().
		Str("symbol", symbol).
		Int("bars", len(bars)).
		Int("signals", len(set.AllSignals())).
		Msg("Indicators computed")

	return set, nil
}

// Analyze computes indicators and their tally, and fills the summary line
func (e *Engine) Analyze(symbol string, bars []domain.PriceBar) (*domain.IndicatorSet, *domain.TradingSignal, error) {
	set, err := e.Compute(symbol, bars)
	if err != nil {
		return nil, nil, err
	}

	signal := Tally(set)
	set.Summary = Summarize(set, signal)

	return set, &signal, nil
}

func directional(text string, dir domain.Direction) domain.Signal {
	return domain.Signal{Text: text, Direction: dir, Strength: directionalWeight}
}

func informational(text string) domain.Signal {
	return domain.Signal{Text: text, Direction: domain.DirectionNeutral, Strength: informationalWeight}
}

func movingAverages(closes []float64, price float64) domain.MovingAverages {
	ma := domain.MovingAverages{
		SMA20:   formulas.CalculateSMA(closes, ShortSMAWindow),
		SMA50:   formulas.CalculateSMA(closes, MediumSMAWindow),
		SMA200:  formulas.CalculateSMA(closes, LongSMAWindow),
		EMA12:   formulas.CalculateEMA(closes, FastEMASpan),
		EMA26:   formulas.CalculateEMA(closes, SlowEMASpan),
		Signals: []domain.Signal{},
	}

	if ma.SMA20 != nil {
		switch {
		case price > *ma.SMA20:
			ma.Signals = append(ma.Signals, directional("Price above 20-day SMA (bullish)", domain.DirectionBullish))
		case price < *ma.SMA20:
			ma.Signals = append(ma.Signals, directional("Price below 20-day SMA (bearish)", domain.DirectionBearish))
		}
	}

	if ma.SMA50 != nil && ma.SMA200 != nil {
		if *ma.SMA50 > *ma.SMA200 {
			ma.Signals = append(ma.Signals, directional("Golden Cross: 50-day SMA above 200-day SMA (bullish)", domain.DirectionBullish))
		} else {
			ma.Signals = append(ma.Signals, directional("Death Cross: 50-day SMA below 200-day SMA (bearish)", domain.DirectionBearish))
		}
	}

	return ma
}

func relativeStrength(closes []float64) domain.RSIResult {
	res := domain.RSIResult{
		Value:   formulas.CalculateRSI(closes, RSIPeriod),
		Signals: []domain.Signal{},
	}
	if res.Value == nil {
		return res
	}

	switch rsi := *res.Value; {
	case rsi > RSIOverbought:
		res.Interpretation = "overbought"
		res.Signals = append(res.Signals, directional("RSI indicates overbought condition", domain.DirectionBearish))
	case rsi < RSIOversold:
		res.Interpretation = "oversold"
		res.Signals = append(res.Signals, directional("RSI indicates oversold condition", domain.DirectionBullish))
	default:
		res.Interpretation = "neutral"
		res.Signals = append(res.Signals, informational("RSI in neutral range"))
	}

	return res
}

func macd(closes []float64) domain.MACDResult {
	res := domain.MACDResult{Signals: []domain.Signal{}}

	m := formulas.CalculateMACD(closes, FastEMASpan, SlowEMASpan, MACDSignalSpan)
	if m == nil {
		return res
	}

	line := m.Line
	res.Line = &line
	res.Signal = m.Signal
	res.Histogram = m.Histogram

	if m.Signal == nil {
		return res
	}

	if m.Line > *m.Signal {
		res.Signals = append(res.Signals, directional("MACD above signal line (bullish)", domain.DirectionBullish))
	} else {
		res.Signals = append(res.Signals, directional("MACD below signal line (bearish)", domain.DirectionBearish))
	}

	if m.PrevHistogram != nil {
		if *m.Histogram > *m.PrevHistogram {
			res.Signals = append(res.Signals, directional("MACD histogram increasing (momentum building)", domain.DirectionBullish))
		} else {
			res.Signals = append(res.Signals, directional("MACD histogram decreasing (momentum weakening)", domain.DirectionBearish))
		}
	}

	return res
}

func bollinger(closes []float64, price float64) domain.BollingerResult {
	res := domain.BollingerResult{Signals: []domain.Signal{}}

	bb := formulas.CalculateBollingerBands(closes, BollingerWindow, BollingerStdDev)
	if bb == nil {
		return res
	}

	upper, middle, lower := bb.Upper, bb.Middle, bb.Lower
	position := bb.BandPosition(price)
	res.Upper = &upper
	res.Middle = &middle
	res.Lower = &lower
	res.BandPosition = &position

	// Both band breaks tally bullish.
	switch {
	case price > upper:
		res.Signals = append(res.Signals, directional("Price above upper Bollinger Band (potentially overbought)", domain.DirectionBullish))
	case price < lower:
		res.Signals = append(res.Signals, directional("Price below lower Bollinger Band (potentially oversold)", domain.DirectionBullish))
	default:
		res.Signals = append(res.Signals, informational("Price within Bollinger Bands (normal range)"))
	}

	return res
}

func supportResistance(bars []domain.PriceBar, price float64) domain.SupportResistance {
	res := domain.SupportResistance{Signals: []domain.Signal{}}
	if len(bars) < RangeWindow {
		return res
	}

	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
	}

	res.Resistance = formulas.RollingHigh(highs, RangeWindow)
	res.Support = formulas.RollingLow(lows, RangeWindow)
	if res.Resistance == nil || res.Support == nil {
		return res
	}

	toResistance := (*res.Resistance - price) / price * 100
	toSupport := (price - *res.Support) / price * 100
	res.DistanceToResistancePct = &toResistance
	res.DistanceToSupportPct = &toSupport

	if toResistance < NearLevelPct {
		res.Signals = append(res.Signals, informational("Price near resistance level"))
	}
	if toSupport < NearLevelPct {
		res.Signals = append(res.Signals, informational("Price near support level"))
	}

	return res
}

func volume(bars []domain.PriceBar, closes []float64) domain.VolumeAnalysis {
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		volumes[i] = b.Volume
	}

	res := domain.VolumeAnalysis{
		CurrentVolume: volumes[len(volumes)-1],
		AverageVolume: formulas.CalculateSMA(volumes, VolumeWindow),
		Signals:       []domain.Signal{},
	}

	if len(closes) >= 2 {
		prev := closes[len(closes)-2]
		change := (closes[len(closes)-1] - prev) / prev
		res.PriceChange = &change
	}

	if res.AverageVolume == nil {
		return res
	}

	ratio := 1.0
	if *res.AverageVolume > 0 {
		ratio = res.CurrentVolume / *res.AverageVolume
	}
	res.VolumeRatio = &ratio

	switch {
	case ratio > HighVolumeRatio:
		res.Signals = append(res.Signals, informational("High volume activity"))
		if res.PriceChange != nil && *res.PriceChange > 0 {
			res.Signals = append(res.Signals, directional("High volume with price increase (bullish)", domain.DirectionBullish))
		} else {
			res.Signals = append(res.Signals, directional("High volume with price decrease (bearish)", domain.DirectionBearish))
		}
	case ratio < LowVolumeRatio:
		res.Signals = append(res.Signals, informational("Low volume activity"))
	}

	return res
}

// Summarize renders the one-line technical summary
func Summarize(set *domain.IndicatorSet, signal domain.TradingSignal) string {
	parts := []string{
		fmt.Sprintf("Overall Signal: %s (Confidence: %.1f%%)", signal.OverallSignal, signal.Confidence*100),
		fmt.Sprintf("Recommendation: %s", signal.RecommendationLabel),
	}

	if set.RSI.Value != nil {
		parts = append(parts, fmt.Sprintf("RSI: %.1f (%s)", *set.RSI.Value, set.RSI.Interpretation))
	}
	if set.MovingAverages.SMA20 != nil {
		parts = append(parts, fmt.Sprintf("20-day SMA: $%.2f", *set.MovingAverages.SMA20))
	}

	return strings.Join(parts, " | ")
}
