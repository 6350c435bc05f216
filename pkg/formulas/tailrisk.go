package formulas

import (
	"math"
	"sort"
)

// CalculateVaR calculates historical Value at Risk at the given confidence
// level. The returns are sorted ascending (worst first) and the VaR is the
// absolute value of the return at index floor((1-confidence) * n).
//
// Confidence is conventionally 0.95 or 0.99; values outside (0,1) are the
// caller's responsibility. Empty input yields 0.
func CalculateVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	idx := varIndex(len(sorted), confidence)
	return math.Abs(sorted[idx])
}

// CalculateCVaR calculates Conditional Value at Risk: the mean of the
// absolute values of all returns in the left tail, up to and including the
// VaR index. Empty input yields 0.
func CalculateCVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	idx := varIndex(len(sorted), confidence)

	var sum float64
	for _, r := range sorted[:idx+1] {
		sum += math.Abs(r)
	}
	return sum / float64(idx+1)
}

// varIndex maps a confidence level to the tail boundary index of a sorted
// return series of length n.
func varIndex(n int, confidence float64) int {
	idx := int(math.Floor((1 - confidence) * float64(n)))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}
