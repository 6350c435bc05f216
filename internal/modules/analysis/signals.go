package analysis

import "math"

// Signal classification thresholds. The three booleans partition the
// strength axis: buy above +30, sell below -30, hold in between (boundary
// values included in hold).
const (
	buyThreshold  = 30
	sellThreshold = -30
)

// technicalInputs carries the already-computed metrics the synthesizer
// scores. Each contribution has a fixed magnitude so the raw technical sum
// is naturally bounded at ±100 without an explicit clamp.
type technicalInputs struct {
	Slope       float64 // regression slope of price on time
	Sharpe      float64
	MaxDrawdown float64
	VolumeRatio float64
	Change24h   float64 // percent
}

// synthesizeSignals combines the technical and fundamental sub-scores into
// the bounded composite signal. Fundamentals are optional; nil contributes 0.
func synthesizeSignals(tech technicalInputs, fundamentals *FinancialMetrics) TradingSignals {
	technical := technicalScore(tech)
	fundamental := fundamentalScore(fundamentals)

	strength := clampF(technical+fundamental, -100, 100)

	signals := TradingSignals{
		SignalStrength:    strength,
		TechnicalSignal:   technical,
		FundamentalSignal: fundamental,
		Confidence:        clampF(math.Abs(strength), 20, 95),
	}

	switch {
	case strength > buyThreshold:
		signals.BuySignal = true
	case strength < sellThreshold:
		signals.SellSignal = true
	default:
		signals.HoldSignal = true
	}

	return signals
}

// technicalScore sums the independently-capped technical contributions:
// trend direction ±30, Sharpe ±20, drawdown ±20, volume ratio ±20 and
// 24-hour change ±10.
func technicalScore(in technicalInputs) float64 {
	var score float64

	if in.Slope > 0 {
		score += 30
	} else if in.Slope < 0 {
		score -= 30
	}

	if in.Sharpe > 1 {
		score += 20
	} else if in.Sharpe < 0 {
		score -= 20
	}

	if in.MaxDrawdown < 0.10 {
		score += 20
	} else if in.MaxDrawdown > 0.30 {
		score -= 20
	}

	if in.VolumeRatio > 1.5 {
		score += 20
	} else if in.VolumeRatio < 0.5 {
		score -= 20
	}

	if in.Change24h > 2 {
		score += 10
	} else if in.Change24h < -2 {
		score -= 10
	}

	return score
}

// fundamentalScore sums capped contributions from valuation, profitability,
// growth and leverage ratios. Absent fundamentals contribute 0.
func fundamentalScore(f *FinancialMetrics) float64 {
	if f == nil {
		return 0
	}

	var score float64

	// Valuation: a zero P/E means the figure is unavailable (or earnings
	// are negative) and casts no vote
	if f.PERatio > 0 && f.PERatio < 15 {
		score += 10
	} else if f.PERatio > 30 {
		score -= 10
	}

	if f.ProfitMargin > 0.10 {
		score += 10
	} else if f.ProfitMargin < 0 {
		score -= 10
	}

	if f.RevenueGrowth > 0.10 {
		score += 10
	} else if f.RevenueGrowth < 0 {
		score -= 10
	}

	if f.DebtToEquity > 2 {
		score -= 10
	} else if f.DebtToEquity > 0 && f.DebtToEquity < 1 {
		score += 10
	}

	return score
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
