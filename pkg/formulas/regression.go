package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// RegressionResult holds the output of an ordinary least squares fit of y on x.
type RegressionResult struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	PValue    float64 `json:"p_value"`
}

// Correlation calculates the Pearson correlation coefficient between two
// equal-length series. Returns 0 when the lengths mismatch, either series is
// empty, or either series has zero variance.
func Correlation(x, y []float64) float64 {
	if len(x) == 0 || len(y) == 0 || len(x) != len(y) {
		return 0
	}
	if Variance(x) == 0 || Variance(y) == 0 {
		return 0
	}
	return stat.Correlation(x, y, nil)
}

// LinearRegression fits y = slope*x + intercept by ordinary least squares:
//
//	slope     = Σ(dx·dy) / Σ(dx²)
//	intercept = meanY - slope·meanX
//	r²        = Correlation(x, y)²
//
// The p-value is a surrogate derived from the t-statistic of the correlation
// coefficient via a Student-t tail probability. It is an approximation, NOT a
// rigorous hypothesis test, and is clamped to [0, 1].
func LinearRegression(x, y []float64) RegressionResult {
	if len(x) < 2 || len(x) != len(y) {
		return RegressionResult{PValue: 1}
	}

	meanX := Mean(x)
	meanY := Mean(y)

	var sumXY, sumXX float64
	for i := range x {
		dx := x[i] - meanX
		sumXY += dx * (y[i] - meanY)
		sumXX += dx * dx
	}

	if sumXX == 0 {
		// x is constant, the fit degenerates to the mean of y
		return RegressionResult{Intercept: meanY, PValue: 1}
	}

	slope := sumXY / sumXX
	r := Correlation(x, y)

	return RegressionResult{
		Slope:     slope,
		Intercept: meanY - slope*meanX,
		RSquared:  r * r,
		PValue:    approxPValue(r, len(x)),
	}
}

// approxPValue converts a correlation coefficient into a two-sided tail
// probability using t = |r|·sqrt((n-2)/(1-r²)) against a Student-t
// distribution with n-2 degrees of freedom.
func approxPValue(r float64, n int) float64 {
	if n < 3 {
		return 1
	}

	r2 := r * r
	if r2 >= 1 {
		return 0
	}

	t := math.Abs(r) * math.Sqrt(float64(n-2)/(1-r2))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	p := 2 * (1 - dist.CDF(t))

	return clamp(p, 0, 1)
}

// clamp bounds v to the [lo, hi] interval.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
