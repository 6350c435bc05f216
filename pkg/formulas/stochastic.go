package formulas

// StochasticResult holds the %K and %D lines of the stochastic oscillator.
type StochasticResult struct {
	K float64 `json:"k"`
	D float64 `json:"d"`
}

// CalculateStochastic computes the stochastic oscillator:
//
//	%K = (close - lowestLow) / (highestHigh - lowestLow) × 100
//
// over the trailing kPeriod window, with %K = 50 when the window is flat
// (highestHigh == lowestLow). %D is the mean of the last dPeriod %K values,
// each recomputed from its own trailing window. Insufficient history yields
// the neutral 50/50 pair.
func CalculateStochastic(highs, lows, closes []float64, kPeriod, dPeriod int) StochasticResult {
	n := len(closes)
	if kPeriod <= 0 || n < kPeriod || len(highs) != n || len(lows) != n {
		return StochasticResult{K: 50, D: 50}
	}

	k := stochasticK(highs, lows, closes, n-1, kPeriod)

	var sum float64
	count := 0
	for j := 0; j < dPeriod; j++ {
		idx := n - 1 - j
		if idx < kPeriod-1 {
			break
		}
		sum += stochasticK(highs, lows, closes, idx, kPeriod)
		count++
	}

	d := k
	if count > 0 {
		d = sum / float64(count)
	}

	return StochasticResult{K: k, D: d}
}

// stochasticK computes %K for the window of kPeriod observations ending at
// index idx.
func stochasticK(highs, lows, closes []float64, idx, kPeriod int) float64 {
	lowest := lows[idx]
	highest := highs[idx]
	for i := idx - kPeriod + 1; i <= idx; i++ {
		if lows[i] < lowest {
			lowest = lows[i]
		}
		if highs[i] > highest {
			highest = highs[i]
		}
	}

	if highest == lowest {
		return 50
	}
	return (closes[idx] - lowest) / (highest - lowest) * 100
}
