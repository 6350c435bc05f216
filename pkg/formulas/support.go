package formulas

import "sort"

// SupportResistance holds the detected support and resistance price levels.
// Supports are sorted ascending, resistances descending; at most 5 of each
// are kept.
type SupportResistance struct {
	Supports    []float64 `json:"supports"`
	Resistances []float64 `json:"resistances"`
}

// DetectSupportResistance scans the series with a sliding window of
// len(prices)/10 observations on each side. An interior point equal to the
// minimum of its neighborhood is a support candidate; equal to the maximum, a
// resistance candidate. Requires at least 20 samples; shorter series yield
// empty level lists.
func DetectSupportResistance(prices []float64) SupportResistance {
	n := len(prices)
	if n < 20 {
		return SupportResistance{Supports: []float64{}, Resistances: []float64{}}
	}

	window := n / 10
	supportSeen := make(map[float64]bool)
	resistanceSeen := make(map[float64]bool)
	var supports, resistances []float64

	for i := window; i < n-window; i++ {
		localMin := prices[i]
		localMax := prices[i]
		for j := i - window; j <= i+window; j++ {
			if prices[j] < localMin {
				localMin = prices[j]
			}
			if prices[j] > localMax {
				localMax = prices[j]
			}
		}

		if prices[i] == localMin && !supportSeen[prices[i]] {
			supportSeen[prices[i]] = true
			supports = append(supports, prices[i])
		}
		if prices[i] == localMax && !resistanceSeen[prices[i]] {
			resistanceSeen[prices[i]] = true
			resistances = append(resistances, prices[i])
		}
	}

	sort.Float64s(supports)
	sort.Sort(sort.Reverse(sort.Float64Slice(resistances)))

	return SupportResistance{
		Supports:    topN(supports, 5),
		Resistances: topN(resistances, 5),
	}
}

// topN keeps the first n entries of a sorted level list.
func topN(levels []float64, n int) []float64 {
	if levels == nil {
		return []float64{}
	}
	if len(levels) > n {
		return levels[:n]
	}
	return levels
}
