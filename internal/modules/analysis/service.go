package analysis

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/marketlens/marketlens/pkg/formulas"
)

// Service runs the one-shot quantitative analysis. It holds no mutable
// state, so a single instance can serve concurrent callers.
type Service struct {
	riskFreeRate float64
	log          zerolog.Logger
}

// NewService creates an analysis service. riskFreeRate is the annual
// risk-free rate as a decimal (0.02 for 2%).
func NewService(riskFreeRate float64, log zerolog.Logger) *Service {
	return &Service{
		riskFreeRate: riskFreeRate,
		log:          log.With().Str("component", "analysis").Logger(),
	}
}

// Analyze computes a fresh immutable snapshot from the ordered
// (oldest-first) price series. Fundamentals are optional; a nil pointer
// simply zeroes the fundamental sub-signal. Fails with
// *InsufficientDataError when fewer than MinSamples prices are supplied;
// every other degenerate condition resolves to documented neutral defaults.
func (s *Service) Analyze(symbol string, samples []PriceSample, fundamentals *FinancialMetrics, assetType AssetType) (*QuantitativeAnalysis, error) {
	if len(samples) < MinSamples {
		return nil, &InsufficientDataError{Samples: len(samples), Required: MinSamples}
	}

	closes, highs, lows, volumes := splitSeries(samples)
	returns := formulas.CalculateReturns(closes)
	timeIndex := makeTimeIndex(len(closes))

	regression := formulas.LinearRegression(timeIndex, closes)
	drawdown := formulas.CalculateDrawdown(closes)
	risk := computeRiskMetrics(returns, drawdown, s.riskFreeRate)
	indicators := computeIndicators(closes, highs, lows, regression.Slope)
	price := computePriceAnalysis(closes)
	volume := computeVolumeAnalysis(volumes)

	signals := synthesizeSignals(technicalInputs{
		Slope:       regression.Slope,
		Sharpe:      risk.SharpeRatio,
		MaxDrawdown: risk.MaxDrawdown,
		VolumeRatio: volume.VolumeRatio,
		Change24h:   price.Change24h,
	}, fundamentals)

	result := &QuantitativeAnalysis{
		ID:           uuid.NewString(),
		Symbol:       symbol,
		AssetType:    assetType,
		AnalyzedAt:   time.Now().UTC(),
		Fundamentals: fundamentals,
		Statistics: StatisticalAnalysis{
			PriceStats:      formulas.Describe(closes),
			ReturnStats:     formulas.Describe(returns),
			Skewness:        formulas.Skewness(returns),
			Kurtosis:        formulas.Kurtosis(returns),
			TimeCorrelation: formulas.Correlation(timeIndex, closes),
			Regression:      regression,
		},
		Risk:       risk,
		Indicators: indicators,
		Signals:    signals,
		Price:      price,
		Volume:     volume,
		Patterns:   formulas.DetectSupportResistance(closes),
	}

	s.log.Debug().
		Str("symbol", symbol).
		Int("samples", len(samples)).
		Float64("signal_strength", signals.SignalStrength).
		Str("trend", string(indicators.Trend)).
		Msg("Analysis complete")

	return result, nil
}

// splitSeries copies the sample fields into dense slices. Missing highs and
// lows default to the price; the input slice is never touched again after
// this, so callers can share it across goroutines.
func splitSeries(samples []PriceSample) (closes, highs, lows, volumes []float64) {
	closes = make([]float64, len(samples))
	highs = make([]float64, len(samples))
	lows = make([]float64, len(samples))

	for i, sample := range samples {
		closes[i] = sample.Price
		highs[i] = sample.Price
		lows[i] = sample.Price
		if sample.High != nil {
			highs[i] = *sample.High
		}
		if sample.Low != nil {
			lows[i] = *sample.Low
		}
		if sample.Volume != nil {
			volumes = append(volumes, *sample.Volume)
		}
	}

	return closes, highs, lows, volumes
}

// makeTimeIndex builds the 0..n-1 x-axis for the trend regression.
func makeTimeIndex(n int) []float64 {
	idx := make([]float64, n)
	for i := range idx {
		idx[i] = float64(i)
	}
	return idx
}

// computePriceAnalysis derives period-over-period percent changes. Windows
// longer than the series fall back to the full-series change.
func computePriceAnalysis(closes []float64) PriceAnalysis {
	return PriceAnalysis{
		Change24h:   percentChange(closes, 1),
		Change7d:    percentChange(closes, 7),
		Change30d:   percentChange(closes, 30),
		ChangeTotal: percentChange(closes, len(closes)-1),
	}
}

// percentChange computes the percent move over the trailing `steps`
// observations, 0 when the base price is unavailable or zero.
func percentChange(closes []float64, steps int) float64 {
	n := len(closes)
	if steps <= 0 || n < 2 {
		return 0
	}
	if steps > n-1 {
		steps = n - 1
	}

	base := closes[n-1-steps]
	if base == 0 {
		return 0
	}
	return (closes[n-1] - base) / base * 100
}

// computeVolumeAnalysis compares the recent (last 5 observations) average
// volume against the full-series average. Without volume data the ratio
// defaults to the neutral 1 so it casts no vote in the synthesizer.
func computeVolumeAnalysis(volumes []float64) VolumeAnalysis {
	if len(volumes) == 0 {
		return VolumeAnalysis{VolumeRatio: 1, VolumeTrend: "stable"}
	}

	avg := formulas.Mean(volumes)

	recentWindow := 5
	if len(volumes) < recentWindow {
		recentWindow = len(volumes)
	}
	recent := formulas.Mean(volumes[len(volumes)-recentWindow:])

	ratio := 1.0
	if avg > 0 {
		ratio = recent / avg
	}

	trend := "stable"
	if ratio > 1.2 {
		trend = "increasing"
	} else if ratio < 0.8 {
		trend = "decreasing"
	}

	return VolumeAnalysis{
		AverageVolume: avg,
		RecentVolume:  recent,
		VolumeRatio:   ratio,
		VolumeTrend:   trend,
		HasVolume:     true,
	}
}
