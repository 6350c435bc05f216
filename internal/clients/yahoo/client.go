// Package yahoo fetches daily price history from the Yahoo Finance chart
// API and normalizes it into the ordered sample series the analysis engine
// expects: oldest first, deduplicated by date, with missing OHLC fields
// defaulted from the close.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketlens/marketlens/internal/modules/analysis"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client talks to the Yahoo Finance chart endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a Yahoo Finance client. An empty baseURL selects the
// public endpoint; tests point it at a local server.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log.With().Str("component", "yahoo").Logger(),
	}
}

// chartResponse mirrors the shape of the Yahoo chart API payload.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// DailyHistory fetches daily candles covering the requested range (for
// example "1y" or "6mo") and returns them as analysis samples.
func (c *Client) DailyHistory(ctx context.Context, symbol, rng string) ([]analysis.PriceSample, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d", c.baseURL, symbol, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build chart request: %w", err)
	}
	req.Header.Set("User-Agent", "marketlens/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chart request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("chart request for %s returned %d: %s", symbol, resp.StatusCode, body)
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s (%s)",
			symbol, chart.Chart.Error.Description, chart.Chart.Error.Code)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart response for %s contains no quotes", symbol)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	samples := normalize(result.Timestamp, quote.Close, quote.High, quote.Low, quote.Volume)
	c.log.Debug().Str("symbol", symbol).Int("samples", len(samples)).Msg("History fetched")

	return samples, nil
}

// normalize builds the oldest-first, date-deduplicated sample series. Bars
// without a close are dropped; missing highs and lows default to the close.
func normalize(timestamps []int64, closes, highs, lows, volumes []*float64) []analysis.PriceSample {
	byDate := make(map[string]analysis.PriceSample, len(timestamps))

	for i, ts := range timestamps {
		if i >= len(closes) || closes[i] == nil {
			continue
		}

		date := time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)
		sample := analysis.PriceSample{Date: date, Price: *closes[i]}

		if i < len(highs) && highs[i] != nil {
			sample.High = highs[i]
		}
		if i < len(lows) && lows[i] != nil {
			sample.Low = lows[i]
		}
		if i < len(volumes) && volumes[i] != nil {
			sample.Volume = volumes[i]
		}

		// Last bar for a date wins, which keeps the closing value when the
		// feed repeats an intraday bar for today
		byDate[date.Format("2006-01-02")] = sample
	}

	samples := make([]analysis.PriceSample, 0, len(byDate))
	for _, s := range byDate {
		samples = append(samples, s)
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].Date.Before(samples[j].Date) })

	return samples
}
