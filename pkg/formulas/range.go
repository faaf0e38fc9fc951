package formulas

import (
	"github.com/markcheno/go-talib"
)

// RollingHigh returns the highest value over the trailing window
//
// Returns nil if the series is shorter than the window.
func RollingHigh(values []float64, window int) *float64 {
	if window < 2 || len(values) < window {
		return nil
	}

	highs := talib.Max(values, window)
	result := last(highs)
	return &result
}

// RollingLow returns the lowest value over the trailing window
//
// Returns nil if the series is shorter than the window.
func RollingLow(values []float64, window int) *float64 {
	if window < 2 || len(values) < window {
		return nil
	}

	lows := talib.Min(values, window)
	result := last(lows)
	return &result
}
