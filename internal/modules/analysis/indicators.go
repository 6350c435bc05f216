package analysis

import (
	"math"

	"github.com/marketlens/marketlens/pkg/formulas"
)

// MinIndicatorSamples is the history floor for the indicator bundle. Below
// it every indicator resolves to its neutral default so a short series still
// produces a renderable, low-confidence result.
const MinIndicatorSamples = 50

// trendThreshold is the per-step slope, relative to the mean price, beyond
// which the fitted trend stops being neutral. Normalizing by the mean keeps
// the classification invariant under price scaling.
const trendThreshold = 0.001

// neutralIndicators returns the contractual defaults for a short series.
func neutralIndicators(lastPrice float64) IndicatorSet {
	collapsed := formulas.BollingerBands{Upper: lastPrice, Middle: lastPrice, Lower: lastPrice}
	return IndicatorSet{
		RSI:            formulas.RSINeutral,
		SMA20:          lastPrice,
		SMA50:          lastPrice,
		SMA200:         lastPrice,
		EMA12:          lastPrice,
		EMA26:          lastPrice,
		Bollinger:      collapsed,
		Stochastic:     formulas.StochasticResult{K: 50, D: 50},
		ADX:            formulas.ADXNeutral,
		Trend:          TrendNeutral,
		Recommendation: RecommendationHold,
		Confidence:     0,
	}
}

// computeIndicators builds the full indicator bundle from closes and the
// (possibly price-defaulted) highs and lows.
func computeIndicators(closes, highs, lows []float64, slope float64) IndicatorSet {
	last := closes[len(closes)-1]
	if len(closes) < MinIndicatorSamples {
		return neutralIndicators(last)
	}

	set := IndicatorSet{
		RSI:        formulas.CalculateRSI(closes, 14),
		MACD:       formulas.CalculateMACD(closes),
		SMA20:      formulas.CalculateSMA(closes, 20),
		SMA50:      formulas.CalculateSMA(closes, 50),
		SMA200:     formulas.CalculateSMA(closes, 200),
		EMA12:      formulas.CalculateEMA(closes, 12),
		EMA26:      formulas.CalculateEMA(closes, 26),
		Bollinger:  formulas.CalculateBollingerBands(closes, 20, 2),
		Stochastic: formulas.CalculateStochastic(highs, lows, closes, 14, 3),
		ADX:        formulas.CalculateADX(highs, lows, closes, 14),
	}

	set.Trend = classifyTrend(slope, formulas.Mean(closes))
	set.Recommendation, set.Confidence = recommend(set.Trend, set.MACD.MACD, last, set.SMA20)

	return set
}

// classifyTrend labels the regression slope, normalized by the mean price.
func classifyTrend(slope, meanPrice float64) Trend {
	if meanPrice == 0 {
		return TrendNeutral
	}

	relative := slope / meanPrice
	switch {
	case relative > trendThreshold:
		return TrendBullish
	case relative < -trendThreshold:
		return TrendBearish
	default:
		return TrendNeutral
	}
}

// recommend votes the indicator bundle into an action label. Trend carries
// double weight; MACD sign and price-versus-SMA20 one vote each. The
// confidence is the share of votes cast in the winning direction.
func recommend(trend Trend, macd, lastPrice, sma20 float64) (Recommendation, float64) {
	score := 0

	switch trend {
	case TrendBullish:
		score += 2
	case TrendBearish:
		score -= 2
	}

	if macd > 0 {
		score++
	} else if macd < 0 {
		score--
	}

	if lastPrice > sma20 {
		score++
	} else if lastPrice < sma20 {
		score--
	}

	confidence := math.Min(100, math.Abs(float64(score))/4*100)

	switch {
	case score >= 2:
		return RecommendationBuy, confidence
	case score <= -2:
		return RecommendationSell, confidence
	default:
		return RecommendationHold, confidence
	}
}
