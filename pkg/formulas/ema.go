package formulas

import (
	"github.com/markcheno/go-talib"
)

// MACDResult holds the MACD line, its signal line and the histogram.
type MACDResult struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// CalculateSMA calculates the Simple Moving Average over the trailing
// window. When the history is shorter than the period it falls back to the
// last available price rather than erroring.
func CalculateSMA(closes []float64, period int) float64 {
	if len(closes) == 0 {
		return 0
	}
	if len(closes) < period {
		return closes[len(closes)-1]
	}

	sma := talib.Sma(closes, period)
	if last := sma[len(sma)-1]; !isNaN(last) {
		return last
	}
	return closes[len(closes)-1]
}

// CalculateEMA calculates the Exponential Moving Average:
//
//	EMA_today = Price_today × k + EMA_yesterday × (1 - k), k = 2 / (period + 1)
//
// Like CalculateSMA it falls back to the last available price when the
// history is shorter than the period.
func CalculateEMA(closes []float64, period int) float64 {
	if len(closes) == 0 {
		return 0
	}
	if len(closes) < period {
		return closes[len(closes)-1]
	}

	ema := talib.Ema(closes, period)
	if last := ema[len(ema)-1]; !isNaN(last) {
		return last
	}
	return closes[len(closes)-1]
}

// CalculateMACD computes MACD = EMA(12) - EMA(26). The signal line is a
// one-point EMA(9) smoothing of the single current MACD value, an intentional
// simplification rather than a true rolling signal line (the short-history
// fallback of CalculateEMA makes it equal the MACD itself). The histogram is
// MACD minus signal.
func CalculateMACD(closes []float64) MACDResult {
	if len(closes) == 0 {
		return MACDResult{}
	}

	macd := CalculateEMA(closes, 12) - CalculateEMA(closes, 26)
	signal := CalculateEMA([]float64{macd}, 9)

	return MACDResult{
		MACD:      macd,
		Signal:    signal,
		Histogram: macd - signal,
	}
}
