package technical

import (
	"github.com/aristath/finwell/internal/domain"
)

// Confidence cut-offs for the recommendation label
const (
	StrongConfidence = 0.7
	PlainConfidence  = 0.6
)

// Tally counts directional signals across the set. A tie, including no
// directional signals at all, is NEUTRAL with confidence 0.5.
func Tally(set *domain.IndicatorSet) domain.TradingSignal {
	var bullish, bearish int
	for _, s := range set.AllSignals() {
		switch s.Direction {
		case domain.DirectionBullish:
			bullish++
		case domain.DirectionBearish:
			bearish++
		}
	}

	signal := domain.TradingSignal{
		OverallSignal: domain.SignalNeutral,
		Confidence:    0.5,
		BullishCount:  bullish,
		BearishCount:  bearish,
	}

	total := float64(bullish + bearish)
	switch {
	case bullish > bearish:
		signal.OverallSignal = domain.SignalBullish
		signal.Confidence = float64(bullish) / total
	case bearish > bullish:
		signal.OverallSignal = domain.SignalBearish
		signal.Confidence = float64(bearish) / total
	}

	signal.RecommendationLabel = RecommendationLabel(signal.OverallSignal, signal.Confidence)
	return signal
}

// RecommendationLabel maps a signal and confidence to a technical call
func RecommendationLabel(signal domain.SignalType, confidence float64) string {
	switch {
	case signal == domain.SignalBullish && confidence > StrongConfidence:
		return "STRONG BUY"
	case signal == domain.SignalBullish && confidence > PlainConfidence:
		return "BUY"
	case signal == domain.SignalBearish && confidence > StrongConfidence:
		return "STRONG SELL"
	case signal == domain.SignalBearish && confidence > PlainConfidence:
		return "SELL"
	}
	return "HOLD"
}
