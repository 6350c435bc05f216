package formulas

import "math"

// TradingDaysPerYear is the annualization convention used throughout the
// engine for daily series.
const TradingDaysPerYear = 252

// CalculateReturns converts prices to simple per-step returns:
//
//	Returns[i] = (Price[i+1] - Price[i]) / Price[i]
//
// Steps whose prior price is exactly 0 are skipped entirely (not inserted as
// zero), so the result may be shorter than len(prices)-1 on degenerate input.
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}

	return returns
}

// CalculateVolatility calculates the population standard deviation of
// returns. When annualized it is scaled by sqrt(252 trading days).
// Fewer than 2 returns yield 0.
func CalculateVolatility(returns []float64, annualized bool) float64 {
	if len(returns) < 2 {
		return 0
	}

	vol := StdDev(returns)
	if annualized {
		vol *= math.Sqrt(TradingDaysPerYear)
	}
	return vol
}

// AnnualizedMeanReturn scales the mean per-step return to an annual figure
// using the 252 trading-day convention.
func AnnualizedMeanReturn(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	return Mean(returns) * TradingDaysPerYear
}
