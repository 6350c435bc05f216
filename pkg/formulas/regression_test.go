package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}

	t.Run("perfect positive", func(t *testing.T) {
		y := []float64{2, 4, 6, 8, 10}
		assert.InDelta(t, 1.0, Correlation(x, y), 1e-9)
	})

	t.Run("perfect negative", func(t *testing.T) {
		y := []float64{10, 8, 6, 4, 2}
		assert.InDelta(t, -1.0, Correlation(x, y), 1e-9)
	})

	t.Run("zero variance yields 0 not NaN", func(t *testing.T) {
		y := []float64{7, 7, 7, 7, 7}
		assert.Equal(t, 0.0, Correlation(x, y))
	})

	t.Run("length mismatch yields 0", func(t *testing.T) {
		assert.Equal(t, 0.0, Correlation(x, []float64{1, 2}))
	})

	t.Run("empty yields 0", func(t *testing.T) {
		assert.Equal(t, 0.0, Correlation(nil, nil))
	})
}

func TestLinearRegression(t *testing.T) {
	t.Run("perfect line", func(t *testing.T) {
		x := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
		y := make([]float64, len(x))
		for i, v := range x {
			y[i] = 2*v + 1
		}

		res := LinearRegression(x, y)
		assert.InDelta(t, 2.0, res.Slope, 1e-9)
		assert.InDelta(t, 1.0, res.Intercept, 1e-9)
		assert.InDelta(t, 1.0, res.RSquared, 1e-9)
		assert.InDelta(t, 0.0, res.PValue, 1e-9)
	})

	t.Run("constant y", func(t *testing.T) {
		x := []float64{0, 1, 2, 3}
		y := []float64{5, 5, 5, 5}

		res := LinearRegression(x, y)
		assert.Equal(t, 0.0, res.Slope)
		assert.InDelta(t, 5.0, res.Intercept, 1e-9)
		assert.Equal(t, 0.0, res.RSquared)
		assert.Equal(t, 1.0, res.PValue)
	})

	t.Run("constant x degenerates to mean of y", func(t *testing.T) {
		x := []float64{2, 2, 2, 2}
		y := []float64{1, 2, 3, 4}

		res := LinearRegression(x, y)
		assert.Equal(t, 0.0, res.Slope)
		assert.InDelta(t, 2.5, res.Intercept, 1e-9)
		assert.Equal(t, 1.0, res.PValue)
	})

	t.Run("too short", func(t *testing.T) {
		res := LinearRegression([]float64{1}, []float64{2})
		assert.Equal(t, RegressionResult{PValue: 1}, res)
	})

	t.Run("p-value always within bounds", func(t *testing.T) {
		x := []float64{1, 2, 3, 4, 5, 6}
		y := []float64{3, 1, 4, 1, 5, 9}

		res := LinearRegression(x, y)
		assert.GreaterOrEqual(t, res.PValue, 0.0)
		assert.LessOrEqual(t, res.PValue, 1.0)
	})
}
