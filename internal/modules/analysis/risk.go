package analysis

import (
	"math"

	"github.com/marketlens/marketlens/pkg/formulas"
)

// computeRiskMetrics derives the full risk bundle from the return series and
// the drawdown scan.
func computeRiskMetrics(returns []float64, drawdown formulas.DrawdownStats, riskFreeRate float64) RiskMetrics {
	m := RiskMetrics{
		Volatility:           formulas.CalculateVolatility(returns, false),
		AnnualizedVolatility: formulas.CalculateVolatility(returns, true),
		MaxDrawdown:          drawdown.MaxDrawdown,
		AverageDrawdown:      drawdown.AverageDrawdown,
		CurrentDrawdown:      drawdown.CurrentDrawdown,
		MaxDrawdownDuration:  drawdown.MaxDuration,
		VaR95:                formulas.CalculateVaR(returns, 0.95),
		CVaR95:               formulas.CalculateCVaR(returns, 0.95),
		VaR99:                formulas.CalculateVaR(returns, 0.99),
		CVaR99:               formulas.CalculateCVaR(returns, 0.99),
		SharpeRatio:          formulas.CalculateSharpeRatio(returns, riskFreeRate),
		SortinoRatio:         formulas.CalculateSortinoRatio(returns, riskFreeRate),
		CalmarRatio:          formulas.CalculateCalmarRatio(returns, drawdown.MaxDrawdown),
	}

	m.OverallRiskScore = overallRiskScore(m)
	return m
}

// overallRiskScore blends annualized volatility, maximum drawdown and the
// 95% VaR into a single 0..100 score. The component scales saturate at 50%
// annualized volatility, 40% drawdown and a 5% daily VaR respectively; all
// three inputs are ratios of returns, so the score is invariant under price
// scaling.
func overallRiskScore(m RiskMetrics) float64 {
	volScore := math.Min(100, m.AnnualizedVolatility*200)
	ddScore := math.Min(100, m.MaxDrawdown*250)
	varScore := math.Min(100, m.VaR95*2000)

	return clampF(0.40*volScore+0.35*ddScore+0.25*varScore, 0, 100)
}
