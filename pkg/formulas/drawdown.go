package formulas

// DrawdownStats represents the result of a running-peak drawdown scan.
type DrawdownStats struct {
	MaxDrawdown     float64 `json:"max_drawdown"`     // Worst peak-to-trough loss (0.25 = 25% below peak)
	AverageDrawdown float64 `json:"average_drawdown"` // Mean of all per-step drawdown samples
	CurrentDrawdown float64 `json:"current_drawdown"` // Drawdown at the final observation (0 at a new high)
	MaxDuration     int     `json:"max_duration"`     // Longest drawdown episode, in observations
}

// CalculateDrawdown performs a single forward pass over the price series
// maintaining a running peak. While below the peak, each step contributes a
// drawdown sample (peak - price) / peak; reaching or exceeding the peak
// closes the open episode. An episode still open at the end of the series
// contributes its length too.
//
// Fewer than 2 prices yield all-zero stats.
func CalculateDrawdown(prices []float64) DrawdownStats {
	if len(prices) < 2 {
		return DrawdownStats{}
	}

	peak := prices[0]
	var maxDD, sumDD, lastDD float64
	samples := 0
	episodeLen := 0
	maxDuration := 0

	for _, price := range prices {
		if price >= peak {
			if price > peak {
				peak = price
			}
			// Back at (or above) the peak: the drawdown episode is over
			if episodeLen > maxDuration {
				maxDuration = episodeLen
			}
			episodeLen = 0
			lastDD = 0
			continue
		}

		dd := (peak - price) / peak
		if dd > maxDD {
			maxDD = dd
		}
		sumDD += dd
		samples++
		episodeLen++
		lastDD = dd
	}

	if episodeLen > maxDuration {
		maxDuration = episodeLen
	}

	avg := 0.0
	if samples > 0 {
		avg = sumDD / float64(samples)
	}

	return DrawdownStats{
		MaxDrawdown:     maxDD,
		AverageDrawdown: avg,
		CurrentDrawdown: lastDD,
		MaxDuration:     maxDuration,
	}
}
