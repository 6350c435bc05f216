// Package formulas contains the pure numeric building blocks of the
// quantitative analysis engine: descriptive statistics, return series math,
// regression, drawdown tracking, tail-risk estimators, risk-adjusted ratios
// and technical indicators.
//
// Every function in this package is a pure function of its inputs. Inputs are
// never mutated (sorting happens on copies), so concurrent callers can share
// the same slices. Degenerate inputs (empty or too-short series, zero
// variance) resolve to documented neutral defaults instead of errors.
package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DescriptiveStats holds the basic distribution summary of a numeric series.
type DescriptiveStats struct {
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Mode     float64 `json:"mode"`
	StdDev   float64 `json:"std_dev"`
	Variance float64 `json:"variance"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Range    float64 `json:"range"`
}

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// Median calculates the median over a sorted copy of the data.
// For even-length input it is the average of the two central values.
func Median(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// Mode calculates the most frequent value in the series. Values are rounded
// to 2 decimal places before counting so near-equal floats collapse into the
// same bucket. Ties are broken by whichever value is encountered first while
// scanning the data in order.
func Mode(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	counts := make(map[float64]int, len(data))
	mode := round2(data[0])
	best := 0

	for _, v := range data {
		key := round2(v)
		counts[key]++
		if counts[key] > best {
			best = counts[key]
			mode = key
		}
	}

	return mode
}

// Variance calculates the population variance (divide by n, not n-1).
func Variance(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	mean := Mean(data)
	var sum float64
	for _, v := range data {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(data))
}

// StdDev calculates the population standard deviation.
func StdDev(data []float64) float64 {
	return math.Sqrt(Variance(data))
}

// Min returns the smallest value in the series, 0 for empty input.
func Min(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	min := data[0]
	for _, v := range data {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest value in the series, 0 for empty input.
func Max(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	max := data[0]
	for _, v := range data {
		if v > max {
			max = v
		}
	}
	return max
}

// Describe computes the full descriptive summary of a series.
// Empty input yields all-zero stats rather than an error; short or missing
// history still has to produce a renderable (if uninformative) result.
func Describe(data []float64) DescriptiveStats {
	if len(data) == 0 {
		return DescriptiveStats{}
	}

	min := Min(data)
	max := Max(data)
	variance := Variance(data)

	return DescriptiveStats{
		Mean:     Mean(data),
		Median:   Median(data),
		Mode:     Mode(data),
		StdDev:   math.Sqrt(variance),
		Variance: variance,
		Min:      min,
		Max:      max,
		Range:    max - min,
	}
}

// Skewness calculates the bias-adjusted sample skewness:
//
//	g = (n / ((n-1)(n-2))) * Σ((x - mean) / stdDev)³
//
// Returns 0 when fewer than 3 samples exist or the series has zero variance.
func Skewness(data []float64) float64 {
	n := len(data)
	if n < 3 {
		return 0
	}

	mean := Mean(data)
	sd := StdDev(data)
	if sd == 0 {
		return 0
	}

	var sum float64
	for _, v := range data {
		z := (v - mean) / sd
		sum += z * z * z
	}

	nf := float64(n)
	return nf / ((nf - 1) * (nf - 2)) * sum
}

// Kurtosis calculates the small-sample adjusted excess kurtosis:
//
//	k = [n(n+1) / ((n-1)(n-2)(n-3))] * Σ((x - mean) / stdDev)⁴ - 3(n-1)² / ((n-2)(n-3))
//
// Returns 3, the normal-distribution reference value, when fewer than 4
// samples exist or the series has zero variance.
func Kurtosis(data []float64) float64 {
	n := len(data)
	if n < 4 {
		return 3
	}

	mean := Mean(data)
	sd := StdDev(data)
	if sd == 0 {
		return 3
	}

	var sum float64
	for _, v := range data {
		z := (v - mean) / sd
		sum += z * z * z * z
	}

	nf := float64(n)
	return nf*(nf+1)/((nf-1)*(nf-2)*(nf-3))*sum - 3*(nf-1)*(nf-1)/((nf-2)*(nf-3))
}

// round2 rounds a value to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
