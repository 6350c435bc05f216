package analysis

import (
	"testing"

	"github.com/marketlens/marketlens/pkg/formulas"
	"github.com/stretchr/testify/assert"
)

func TestOverallRiskScore(t *testing.T) {
	// Quiet profile: 8% annualized vol, 5% drawdown, 0.5% VaR
	quiet := overallRiskScore(RiskMetrics{
		AnnualizedVolatility: 0.08,
		MaxDrawdown:          0.05,
		VaR95:                0.005,
	})
	assert.InDelta(t, 0.40*16+0.35*12.5+0.25*10, quiet, 1e-9)

	// Each component saturates at 100 individually
	extreme := overallRiskScore(RiskMetrics{
		AnnualizedVolatility: 2,
		MaxDrawdown:          0.9,
		VaR95:                0.2,
	})
	assert.Equal(t, 100.0, extreme)

	assert.Equal(t, 0.0, overallRiskScore(RiskMetrics{}))
}

func TestComputeRiskMetrics_Empty(t *testing.T) {
	m := computeRiskMetrics(nil, formulas.DrawdownStats{}, 0.02)

	assert.Equal(t, 0.0, m.Volatility)
	assert.Equal(t, 0.0, m.SharpeRatio)
	assert.Equal(t, 0.0, m.VaR95)
	assert.Equal(t, 0.0, m.OverallRiskScore)
}

func TestComputeRiskMetrics_PropagatesDrawdown(t *testing.T) {
	dd := formulas.DrawdownStats{
		MaxDrawdown:     0.25,
		AverageDrawdown: 0.1,
		CurrentDrawdown: 0.05,
		MaxDuration:     7,
	}
	returns := []float64{0.01, -0.02, 0.015, -0.01, 0.02, -0.03, 0.01, 0.005}

	m := computeRiskMetrics(returns, dd, 0.02)

	assert.Equal(t, 0.25, m.MaxDrawdown)
	assert.Equal(t, 0.1, m.AverageDrawdown)
	assert.Equal(t, 0.05, m.CurrentDrawdown)
	assert.Equal(t, 7, m.MaxDrawdownDuration)
	assert.Greater(t, m.Volatility, 0.0)
	assert.GreaterOrEqual(t, m.CVaR95, m.VaR95)
	assert.GreaterOrEqual(t, m.OverallRiskScore, 0.0)
	assert.LessOrEqual(t, m.OverallRiskScore, 100.0)
}
