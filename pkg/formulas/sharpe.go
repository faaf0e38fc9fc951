package formulas

import (
	"math"
)

// volatilityEpsilon treats near-zero dispersion as zero.
const volatilityEpsilon = 1e-12

// CalculateSharpeRatio calculates the annualized Sharpe Ratio
//
// Sharpe Ratio Formula:
//
//	Sharpe = (mean(returns) - riskFreeRate/periodsPerYear) / PopStdDev(returns) × sqrt(periodsPerYear)
//
// Args:
//
//	returns: periodic simple returns
//	riskFreeRate: annual risk-free rate (0.02 for 2%)
//	periodsPerYear: 252 for daily returns
//
// Returns 0 for an empty series or when returns have no dispersion.
func CalculateSharpeRatio(returns []float64, riskFreeRate float64, periodsPerYear int) float64 {
	if len(returns) == 0 || periodsPerYear <= 0 {
		return 0
	}

	stdDev := PopStdDev(returns)
	if stdDev < volatilityEpsilon {
		return 0
	}

	periodicRiskFree := riskFreeRate / float64(periodsPerYear)
	sharpe := (Mean(returns) - periodicRiskFree) / stdDev

	return sharpe * math.Sqrt(float64(periodsPerYear))
}
