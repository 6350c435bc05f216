package formulas

import "math"

// SortinoNoDownside is returned by CalculateSortinoRatio when the series has
// no negative returns at all: there is no measured downside risk, and the
// sentinel stands in for an otherwise unbounded ratio.
const SortinoNoDownside = 100

// CalculateSharpeRatio calculates the annualized Sharpe ratio:
//
//	Sharpe = (annualized mean return - risk-free rate) / annualized volatility
//
// The mean daily return is annualized by multiplying by 252. Returns 0 when
// fewer than 2 returns exist or volatility is 0.
func CalculateSharpeRatio(returns []float64, riskFreeRate float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	vol := CalculateVolatility(returns, true)
	if vol == 0 {
		return 0
	}

	return (AnnualizedMeanReturn(returns) - riskFreeRate) / vol
}

// CalculateSortinoRatio is the downside-deviation variant of the Sharpe
// ratio: the denominator is the annualized standard deviation of negative
// returns only. A series with no negative returns yields the
// SortinoNoDownside sentinel; a downside deviation of exactly 0 yields 0.
func CalculateSortinoRatio(returns []float64, riskFreeRate float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	var negatives []float64
	for _, r := range returns {
		if r < 0 {
			negatives = append(negatives, r)
		}
	}

	if len(negatives) == 0 {
		return SortinoNoDownside
	}

	downside := StdDev(negatives) * math.Sqrt(TradingDaysPerYear)
	if downside == 0 {
		return 0
	}

	return (AnnualizedMeanReturn(returns) - riskFreeRate) / downside
}

// CalculateCalmarRatio divides the annualized mean return by the maximum
// drawdown. Returns 0 when the drawdown is 0.
func CalculateCalmarRatio(returns []float64, maxDrawdown float64) float64 {
	if maxDrawdown == 0 {
		return 0
	}
	return AnnualizedMeanReturn(returns) / maxDrawdown
}
