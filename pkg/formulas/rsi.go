package formulas

// CalculateRSI calculates the Relative Strength Index over a trailing window
//
// RSI Formula:
//
//	avg_gain = mean of positive close deltas over the last period deltas
//	avg_loss = mean of absolute negative close deltas over the same window
//	RSI = 100 - 100 / (1 + avg_gain/avg_loss)
//
// A window with no losses yields 100 when there are gains and 50 when the
// window is completely flat.
//
// Returns nil if fewer than period+1 closes are available.
func CalculateRSI(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) < period+1 {
		return nil
	}

	var gains, losses float64
	start := len(closes) - period
	for i := start; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	var rsi float64
	switch {
	case avgLoss == 0 && avgGain == 0:
		rsi = 50
	case avgLoss == 0:
		rsi = 100
	default:
		rs := avgGain / avgLoss
		rsi = 100 - 100/(1+rs)
	}

	return &rsi
}
