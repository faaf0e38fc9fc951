// Package formulas provides the numeric kernels shared by the analysis modules.
package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization factor for daily series.
const TradingDaysPerYear = 252

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation (n-1 denominator)
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// PopStdDev calculates the population standard deviation (n denominator).
// Risk volatility is measured with this variant.
func PopStdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.PopStdDev(data, nil)
}

// AnnualizedVolatility calculates annualized volatility from daily returns
// Formula: PopStdDev(daily returns) × sqrt(252)
func AnnualizedVolatility(dailyReturns []float64) float64 {
	return PopStdDev(dailyReturns) * math.Sqrt(TradingDaysPerYear)
}

// CalculateReturns converts prices to simple returns
// Returns[i] = (Price[i+1] - Price[i]) / Price[i]
//
// A zero price yields a zero return for that step.
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}

	return returns
}

// Percentile returns the p-th percentile (0-100) of data using linear
// interpolation between the closest ranks: the value at fractional index
// p/100·(n-1) of the sorted data. The input slice is not modified.
//
// Returns nil for empty input.
func Percentile(data []float64, p float64) *float64 {
	if len(data) == 0 {
		return nil
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	if p <= 0 {
		v := sorted[0]
		return &v
	}
	if p >= 100 {
		v := sorted[len(sorted)-1]
		return &v
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)
	v := sorted[lo] + (sorted[hi]-sorted[lo])*frac
	return &v
}

func isNaN(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

func last(values []float64) float64 {
	return values[len(values)-1]
}
