package formulas

// RSINeutral is the value reported when there is not enough history to seed
// the Wilder smoothing (fewer than period+1 closes).
const RSINeutral = 50

// CalculateRSI computes the Wilder-smoothed Relative Strength Index:
//
//	RSI = 100 - (100 / (1 + RS))
//	where RS = average gain / average loss over the period
//
// The first `period` deltas seed the average gain and loss, which are then
// rolled forward exponentially. An average loss of exactly 0 (only gains, or
// a perfectly flat series) yields RSI 100.
func CalculateRSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return RSINeutral
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
