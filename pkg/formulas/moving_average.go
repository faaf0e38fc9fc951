package formulas

import (
	"github.com/markcheno/go-talib"
)

// CalculateSMA calculates the Simple Moving Average at the most recent bar
//
// Returns nil if the series is shorter than the window.
func CalculateSMA(closes []float64, length int) *float64 {
	if length <= 0 || len(closes) < length {
		return nil
	}

	sma := talib.Sma(closes, length)
	if len(sma) > 0 && !isNaN(last(sma)) {
		result := last(sma)
		return &result
	}

	return nil
}

// CalculateEMA calculates the Exponential Moving Average at the most recent bar
//
// EMA Formula:
//
//	EMA_today = (Price_today × multiplier) + (EMA_yesterday × (1 - multiplier))
//	where multiplier = 2 / (span + 1), seeded with the SMA of the first span prices
//
// Returns nil if the series is shorter than the span.
func CalculateEMA(closes []float64, span int) *float64 {
	series := EMASeries(closes, span)
	if len(series) == 0 {
		return nil
	}
	result := last(series)
	return &result
}

// EMASeries returns the defined portion of the EMA series: element i of the
// result corresponds to closes[i+span-1]. Returns nil when len(closes) < span.
func EMASeries(closes []float64, span int) []float64 {
	if span <= 0 || len(closes) < span {
		return nil
	}

	ema := talib.Ema(closes, span)
	return ema[span-1:]
}
