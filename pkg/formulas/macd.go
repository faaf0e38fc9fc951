package formulas

// MACD holds the MACD line, its signal line and histogram at the most recent
// bar. Signal and Histogram are nil until enough MACD values exist for the
// signal EMA. PrevHistogram is nil until two histogram values exist.
type MACD struct {
	Line          float64  `json:"macd_line"`
	Signal        *float64 `json:"signal_line"`
	Histogram     *float64 `json:"histogram"`
	PrevHistogram *float64 `json:"previous_histogram"`
}

// CalculateMACD calculates MACD(fast, slow, signal)
//
// MACD Formula:
//
//	MACD line = EMA(fast) - EMA(slow)
//	Signal    = EMA(signal) of the MACD line
//	Histogram = MACD line - Signal
//
// Returns nil if the series is shorter than the slow span.
func CalculateMACD(closes []float64, fast, slow, signal int) *MACD {
	if fast <= 0 || slow <= fast || signal <= 0 || len(closes) < slow {
		return nil
	}

	fastEMA := EMASeries(closes, fast)
	slowEMA := EMASeries(closes, slow)

	// Align both series on the bars where the slow EMA is defined.
	offset := slow - fast
	line := make([]float64, len(slowEMA))
	for i := range slowEMA {
		line[i] = fastEMA[i+offset] - slowEMA[i]
	}

	result := &MACD{Line: last(line)}

	signalSeries := EMASeries(line, signal)
	if len(signalSeries) == 0 {
		return result
	}

	hist := make([]float64, len(signalSeries))
	lineOffset := signal - 1
	for i := range signalSeries {
		hist[i] = line[i+lineOffset] - signalSeries[i]
	}

	sig := last(signalSeries)
	h := last(hist)
	result.Signal = &sig
	result.Histogram = &h
	if len(hist) > 1 {
		prev := hist[len(hist)-2]
		result.PrevHistogram = &prev
	}

	return result
}
