package formulas

import (
	"github.com/markcheno/go-talib"
)

// BollingerBands represents the three Bollinger band levels.
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// CalculateBollingerBands calculates Bollinger Bands over the trailing
// window:
//
//	Middle = SMA(period)
//	Upper  = Middle + k × stdDev
//	Lower  = Middle - k × stdDev
//
// When the history is shorter than the period all three bands collapse to
// the last available price.
func CalculateBollingerBands(closes []float64, period int, k float64) BollingerBands {
	if len(closes) == 0 {
		return BollingerBands{}
	}

	last := closes[len(closes)-1]
	if len(closes) < period {
		return BollingerBands{Upper: last, Middle: last, Lower: last}
	}

	// MAType 0 = SMA
	upper, middle, lower := talib.BBands(closes, period, k, k, 0)

	u := upper[len(upper)-1]
	if isNaN(u) {
		return BollingerBands{Upper: last, Middle: last, Lower: last}
	}

	return BollingerBands{
		Upper:  u,
		Middle: middle[len(middle)-1],
		Lower:  lower[len(lower)-1],
	}
}
