package formulas

// CalculateMaxDrawdown calculates the maximum drawdown from a price series
//
// Drawdown Formula:
//
//	Drawdown_t = (Price_t - RunningPeak_t) / RunningPeak_t
//	Max Drawdown = min over t of Drawdown_t
//
// The result is always ≤ 0 (-0.25 = 25% loss from peak).
// Returns nil for an empty series.
func CalculateMaxDrawdown(prices []float64) *float64 {
	if len(prices) == 0 {
		return nil
	}

	maxDrawdown := 0.0
	peak := prices[0]

	for _, price := range prices {
		if price > peak {
			peak = price
		}

		if peak > 0 {
			drawdown := (price - peak) / peak
			if drawdown < maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return &maxDrawdown
}
