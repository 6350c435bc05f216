package narrative

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlens/marketlens/internal/modules/analysis"
)

func testSnapshot() *analysis.QuantitativeAnalysis {
	return &analysis.QuantitativeAnalysis{
		ID:         "test-id",
		Symbol:     "AAPL",
		AssetType:  analysis.AssetTypeStock,
		AnalyzedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Signals:    analysis.TradingSignals{SignalStrength: 55, Confidence: 55, BuySignal: true},
		Indicators: analysis.IndicatorSet{RSI: 62, ADX: 31, Trend: analysis.TrendBullish, Recommendation: analysis.RecommendationBuy},
		Risk:       analysis.RiskMetrics{AnnualizedVolatility: 0.25, MaxDrawdown: 0.08, SharpeRatio: 1.4},
	}
}

func stubService(generate func(ctx context.Context, messages []anthropic.MessageParam) (string, error)) *Service {
	return &Service{
		model:    defaultModel,
		timeout:  5 * time.Second,
		log:      zerolog.Nop(),
		generate: generate,
	}
}

func TestNarrate_AcceptsGoodFirstDraft(t *testing.T) {
	calls := 0
	svc := stubService(func(ctx context.Context, messages []anthropic.MessageParam) (string, error) {
		calls++
		return "AAPL shows bullish momentum; the composite signal reads buy at 55% confidence.", nil
	})

	text, err := svc.Narrate(context.Background(), testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, text, "AAPL")
}

func TestNarrate_RefinesRejectedDraft(t *testing.T) {
	calls := 0
	svc := stubService(func(ctx context.Context, messages []anthropic.MessageParam) (string, error) {
		calls++
		if calls == 1 {
			// missing the symbol and the stance
			return "The stock looks fine.", nil
		}
		// the refinement request must carry the conversation so far
		assert.Len(t, messages, 3)
		return "AAPL momentum supports a buy stance at 55% confidence.", nil
	})

	text, err := svc.Narrate(context.Background(), testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, text, "buy")
}

func TestNarrate_StopsAfterMaxPasses(t *testing.T) {
	calls := 0
	svc := stubService(func(ctx context.Context, messages []anthropic.MessageParam) (string, error) {
		calls++
		return "Still not mentioning anything required.", nil
	})

	text, err := svc.Narrate(context.Background(), testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, maxPasses, calls)
	// the last draft is returned even though it never passed review
	assert.Equal(t, "Still not mentioning anything required.", text)
}

func TestNarrate_PropagatesGenerationError(t *testing.T) {
	svc := stubService(func(ctx context.Context, messages []anthropic.MessageParam) (string, error) {
		return "", fmt.Errorf("api unavailable")
	})

	_, err := svc.Narrate(context.Background(), testSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api unavailable")
}

func TestReviewDraft(t *testing.T) {
	snapshot := testSnapshot()

	assert.Empty(t, reviewDraft("AAPL is a buy here.", snapshot))
	assert.NotEmpty(t, reviewDraft("", snapshot))
	assert.NotEmpty(t, reviewDraft("Some other ticker is a buy.", snapshot))
	assert.NotEmpty(t, reviewDraft("AAPL looks strong but no stance given.", snapshot))

	long := "AAPL buy " + strings.Repeat("word ", maxNarrativeWords+1)
	assert.NotEmpty(t, reviewDraft(long, snapshot))
}

func TestBuildPrompt(t *testing.T) {
	snapshot := testSnapshot()
	prompt := buildPrompt(snapshot)

	assert.Contains(t, prompt, "AAPL")
	assert.Contains(t, prompt, "stance buy")
	assert.Contains(t, prompt, "RSI(14): 62.0")
	assert.NotContains(t, prompt, "Fundamentals")

	snapshot.Fundamentals = &analysis.FinancialMetrics{PERatio: 28}
	assert.Contains(t, buildPrompt(snapshot), "P/E 28.0")
}

func TestNewService_RequiresKey(t *testing.T) {
	_, err := NewService("", "", zerolog.Nop())
	require.Error(t, err)

	svc, err := NewService("sk-test", "", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, defaultModel, svc.model)
}
