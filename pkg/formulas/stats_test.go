package formulas

import (
	"math"
	"testing"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		want DescriptiveStats
	}{
		{
			name: "empty input yields all zeros",
			data: []float64{},
			want: DescriptiveStats{},
		},
		{
			name: "odd length",
			data: []float64{3, 1, 2},
			want: DescriptiveStats{
				Mean:     2,
				Median:   2,
				Mode:     3, // all counts tie at 1, first value scanned wins
				StdDev:   math.Sqrt(2.0 / 3.0),
				Variance: 2.0 / 3.0,
				Min:      1,
				Max:      3,
				Range:    2,
			},
		},
		{
			name: "even length median averages central pair",
			data: []float64{4, 1, 3, 2},
			want: DescriptiveStats{
				Mean:     2.5,
				Median:   2.5,
				Mode:     4,
				StdDev:   math.Sqrt(1.25),
				Variance: 1.25, // population variance, divide by n
				Min:      1,
				Max:      4,
				Range:    3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.data)
			assertClose(t, "mean", got.Mean, tt.want.Mean)
			assertClose(t, "median", got.Median, tt.want.Median)
			assertClose(t, "mode", got.Mode, tt.want.Mode)
			assertClose(t, "std_dev", got.StdDev, tt.want.StdDev)
			assertClose(t, "variance", got.Variance, tt.want.Variance)
			assertClose(t, "min", got.Min, tt.want.Min)
			assertClose(t, "max", got.Max, tt.want.Max)
			assertClose(t, "range", got.Range, tt.want.Range)
		})
	}
}

func TestMode_RoundsToTwoDecimals(t *testing.T) {
	// 1.001 and 1.004 collapse into the 1.00 bucket, tying with the two 2.0
	// entries; the bucket that reaches the winning count first is kept.
	data := []float64{1.001, 1.004, 2.0, 2.0, 3.0}
	if got := Mode(data); got != 1.0 {
		t.Errorf("Mode() = %v, want 1.0", got)
	}
}

func TestSkewness(t *testing.T) {
	tests := []struct {
		name      string
		data      []float64
		want      float64
		tolerance float64
	}{
		{name: "fewer than 3 samples", data: []float64{1, 2}, want: 0},
		{name: "zero variance", data: []float64{5, 5, 5, 5}, want: 0},
		{name: "symmetric data", data: []float64{1, 2, 3}, want: 0, tolerance: 1e-12},
		{name: "right skew is positive", data: []float64{1, 1, 1, 1, 10}, want: 3.125, tolerance: 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Skewness(tt.data)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Skewness() = %v, want %v (±%v)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestKurtosis(t *testing.T) {
	tests := []struct {
		name      string
		data      []float64
		want      float64
		tolerance float64
	}{
		{name: "fewer than 4 samples returns normal reference", data: []float64{1, 2, 3}, want: 3},
		{name: "zero variance returns normal reference", data: []float64{2, 2, 2, 2, 2}, want: 3},
		{name: "uniform four points", data: []float64{1, 2, 3, 4}, want: 8.367, tolerance: 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Kurtosis(tt.data)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Kurtosis() = %v, want %v (±%v)", got, tt.want, tt.tolerance)
			}
		})
	}
}

// assertClose fails the test when got differs from want by more than 1e-9.
func assertClose(t *testing.T, field string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", field, got, want)
	}
}
