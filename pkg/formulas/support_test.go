package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// wShapedSeries builds a down-up-down-up price path with troughs at 100 and
// 99 and an interior peak at 108.
func wShapedSeries() []float64 {
	var prices []float64
	for p := 110.0; p >= 100; p-- {
		prices = append(prices, p)
	}
	for p := 101.0; p <= 108; p++ {
		prices = append(prices, p)
	}
	for p := 107.0; p >= 99; p-- {
		prices = append(prices, p)
	}
	for p := 100.0; p <= 110; p++ {
		prices = append(prices, p)
	}
	return prices
}

func TestDetectSupportResistance(t *testing.T) {
	t.Run("fewer than 20 samples yields empty levels", func(t *testing.T) {
		prices := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
		got := DetectSupportResistance(prices)
		assert.Empty(t, got.Supports)
		assert.Empty(t, got.Resistances)
	})

	t.Run("w-shaped series finds both troughs and the middle peak", func(t *testing.T) {
		got := DetectSupportResistance(wShapedSeries())

		assert.GreaterOrEqual(t, len(got.Supports), 2)
		assert.GreaterOrEqual(t, len(got.Resistances), 1)
		assert.Contains(t, got.Supports, 99.0)
		assert.Contains(t, got.Supports, 100.0)
		assert.Contains(t, got.Resistances, 108.0)
	})

	t.Run("supports ascend and resistances descend", func(t *testing.T) {
		got := DetectSupportResistance(wShapedSeries())

		for i := 1; i < len(got.Supports); i++ {
			assert.LessOrEqual(t, got.Supports[i-1], got.Supports[i])
		}
		for i := 1; i < len(got.Resistances); i++ {
			assert.GreaterOrEqual(t, got.Resistances[i-1], got.Resistances[i])
		}
	})

	t.Run("at most five levels per side", func(t *testing.T) {
		var prices []float64
		for i := 0; i < 200; i++ {
			prices = append(prices, 100+10*float64(i%13)-7*float64(i%5))
		}
		got := DetectSupportResistance(prices)
		assert.LessOrEqual(t, len(got.Supports), 5)
		assert.LessOrEqual(t, len(got.Resistances), 5)
	})
}
