package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// BollingerBands represents Bollinger Bands values
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// CalculateBollingerBands calculates Bollinger Bands
//
// Bollinger Bands Formula:
//
//	Middle Band = SMA(length)
//	Upper Band = Middle + (k × sample std deviation)
//	Lower Band = Middle - (k × sample std deviation)
//
// talib.BBands deviates by the population std deviation, so k is scaled by
// sqrt(n/(n-1)) to widen it to the sample std deviation over the window.
//
// Returns nil if insufficient data
func CalculateBollingerBands(closes []float64, length int, stdDevMultiplier float64) *BollingerBands {
	if length <= 1 || len(closes) < length {
		return nil
	}

	n := float64(length)
	k := stdDevMultiplier * math.Sqrt(n/(n-1))
	upper, middle, lower := talib.BBands(closes, length, k, k, talib.SMA)

	if len(upper) > 0 && !isNaN(last(upper)) {
		return &BollingerBands{
			Upper:  last(upper),
			Middle: last(middle),
			Lower:  last(lower),
		}
	}

	return nil
}

// BandPosition returns where price sits between the bands: 0 at the lower
// band, 1 at the upper band. Clamped to [0, 1]; 0.5 when the bands collapse.
func (b BollingerBands) BandPosition(price float64) float64 {
	width := b.Upper - b.Lower
	if width <= 0 {
		return 0.5
	}

	position := (price - b.Lower) / width
	if position < 0 {
		return 0
	}
	if position > 1 {
		return 1
	}
	return position
}
