package formulas

import "math"

// ADXNeutral is reported when the series is too short (fewer than 2×period
// samples) or has no measurable true range.
const ADXNeutral = 25

// CalculateADX computes Wilder's Average Directional Index from true range
// and directional movement. The first `period` deltas seed the smoothed TR
// and ±DM sums, DX values are collected from there, and the ADX itself is the
// Wilder-smoothed DX. The result is clamped to [0, 100].
func CalculateADX(highs, lows, closes []float64, period int) float64 {
	n := len(closes)
	if period <= 0 || n < 2*period || len(highs) != n || len(lows) != n {
		return ADXNeutral
	}

	tr := make([]float64, n-1)
	plusDM := make([]float64, n-1)
	minusDM := make([]float64, n-1)

	for i := 1; i < n; i++ {
		upMove := highs[i] - highs[i-1]
		downMove := lows[i-1] - lows[i]
		if upMove > downMove && upMove > 0 {
			plusDM[i-1] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i-1] = downMove
		}

		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i-1] = math.Max(hl, math.Max(hc, lc))
	}

	var smTR, smPDM, smMDM float64
	for i := 0; i < period; i++ {
		smTR += tr[i]
		smPDM += plusDM[i]
		smMDM += minusDM[i]
	}

	if smTR == 0 {
		return ADXNeutral
	}

	p := float64(period)
	dxs := make([]float64, 0, n-period)
	dxs = append(dxs, directionalIndex(smTR, smPDM, smMDM))

	for i := period; i < n-1; i++ {
		smTR = smTR - smTR/p + tr[i]
		smPDM = smPDM - smPDM/p + plusDM[i]
		smMDM = smMDM - smMDM/p + minusDM[i]
		dxs = append(dxs, directionalIndex(smTR, smPDM, smMDM))
	}

	// Seed ADX with the mean of the first period DX values, then roll forward
	var adx float64
	for i := 0; i < period; i++ {
		adx += dxs[i]
	}
	adx /= p

	for i := period; i < len(dxs); i++ {
		adx = (adx*(p-1) + dxs[i]) / p
	}

	if isNaN(adx) {
		return ADXNeutral
	}
	return clamp(adx, 0, 100)
}

// directionalIndex computes a single DX value from smoothed TR and ±DM.
func directionalIndex(smTR, smPDM, smMDM float64) float64 {
	if smTR == 0 {
		return 0
	}
	pdi := 100 * smPDM / smTR
	mdi := 100 * smMDM / smTR
	if pdi+mdi == 0 {
		return 0
	}
	return 100 * math.Abs(pdi-mdi) / (pdi + mdi)
}
