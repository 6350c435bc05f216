// Package narrative turns a finished analysis snapshot into a short
// plain-language commentary using the Anthropic API. The generation is a
// bounded refinement loop: a draft is produced, checked against a small set
// of acceptance rules, and refined at most twice before the last draft is
// returned as-is.
package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"github.com/marketlens/marketlens/internal/modules/analysis"
)

const (
	defaultModel   = "claude-sonnet-4-20250514"
	defaultTimeout = 60 * time.Second

	// maxPasses caps the refinement loop: one draft plus up to two rewrites.
	maxPasses = 3

	maxNarrativeWords = 250
)

const systemPrompt = `You are a quantitative market analyst writing for a ` +
	`general audience. Summarize the supplied metrics in plain language. ` +
	`Be specific about the numbers, state the overall stance (buy, sell or ` +
	`hold) with its confidence, and mention the main risk. Never invent ` +
	`figures that are not in the input. Keep it under 250 words.`

// Service generates narratives for analysis snapshots.
type Service struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
	log       zerolog.Logger

	// generate is swapped out in tests
	generate func(ctx context.Context, messages []anthropic.MessageParam) (string, error)
}

// NewService creates a narrative service. The API key must be non-empty;
// callers that have no key configured should not construct the service at
// all and instead leave the narrative endpoint disabled.
func NewService(apiKey, model string, log zerolog.Logger) (*Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	s := &Service{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: 1024,
		timeout:   defaultTimeout,
		log:       log.With().Str("component", "narrative").Logger(),
	}
	s.generate = s.complete
	return s, nil
}

// Narrate produces a commentary for the snapshot. Drafts that fail the
// acceptance rules are sent back for refinement; after the final pass the
// last draft is returned even if imperfect, so the endpoint always yields
// usable text once the API call itself succeeds.
func (s *Service) Narrate(ctx context.Context, a *analysis.QuantitativeAnalysis) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(a))),
	}

	var draft string
	for pass := 1; pass <= maxPasses; pass++ {
		text, err := s.generate(ctx, messages)
		if err != nil {
			return "", fmt.Errorf("narrative generation failed: %w", err)
		}
		draft = strings.TrimSpace(text)

		problems := reviewDraft(draft, a)
		if len(problems) == 0 {
			s.log.Debug().Str("symbol", a.Symbol).Int("passes", pass).Msg("Narrative accepted")
			return draft, nil
		}
		if pass == maxPasses {
			break
		}

		s.log.Debug().
			Str("symbol", a.Symbol).
			Int("pass", pass).
			Strs("problems", problems).
			Msg("Narrative draft rejected, refining")

		messages = append(messages,
			anthropic.NewAssistantMessage(anthropic.NewTextBlock(draft)),
			anthropic.NewUserMessage(anthropic.NewTextBlock(
				"Revise the commentary. Fix the following without changing the numbers: "+
					strings.Join(problems, "; "))),
		)
	}

	s.log.Warn().Str("symbol", a.Symbol).Msg("Narrative still imperfect after final pass, returning last draft")
	return draft, nil
}

func (s *Service) complete(ctx context.Context, messages []anthropic.MessageParam) (string, error) {
	resp, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: s.maxTokens,
		Messages:  messages,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
	})
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return text.String(), nil
}

// buildPrompt renders the snapshot as a compact metric sheet. Only fields
// the analyst may cite are included.
func buildPrompt(a *analysis.QuantitativeAnalysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a commentary for %s (%s), analyzed %s.\n\n",
		a.Symbol, a.AssetType, a.AnalyzedAt.Format("2006-01-02"))

	fmt.Fprintf(&b, "Signal: strength %.1f, confidence %.0f%%, stance %s\n",
		a.Signals.SignalStrength, a.Signals.Confidence, stance(a.Signals))
	fmt.Fprintf(&b, "Trend: %s, recommendation %s (indicator confidence %.0f%%)\n",
		a.Indicators.Trend, a.Indicators.Recommendation, a.Indicators.Confidence)
	fmt.Fprintf(&b, "RSI(14): %.1f, ADX(14): %.1f, MACD: %.3f\n",
		a.Indicators.RSI, a.Indicators.ADX, a.Indicators.MACD.MACD)
	fmt.Fprintf(&b, "Price change: 24h %.2f%%, 7d %.2f%%, 30d %.2f%%\n",
		a.Price.Change24h, a.Price.Change7d, a.Price.Change30d)
	fmt.Fprintf(&b, "Risk: annualized volatility %.1f%%, max drawdown %.1f%%, "+
		"95%% VaR %.2f%%, Sharpe %.2f, overall risk score %.0f/100\n",
		a.Risk.AnnualizedVolatility*100, a.Risk.MaxDrawdown*100,
		a.Risk.VaR95*100, a.Risk.SharpeRatio, a.Risk.OverallRiskScore)

	if a.Fundamentals != nil {
		fmt.Fprintf(&b, "Fundamentals: P/E %.1f, profit margin %.1f%%, revenue growth %.1f%%, debt/equity %.2f\n",
			a.Fundamentals.PERatio, a.Fundamentals.ProfitMargin*100,
			a.Fundamentals.RevenueGrowth*100, a.Fundamentals.DebtToEquity)
	}
	if a.Volume.HasVolume {
		fmt.Fprintf(&b, "Volume: ratio %.2f vs average, trend %s\n",
			a.Volume.VolumeRatio, a.Volume.VolumeTrend)
	}

	return b.String()
}

func stance(s analysis.TradingSignals) string {
	switch {
	case s.BuySignal:
		return "buy"
	case s.SellSignal:
		return "sell"
	default:
		return "hold"
	}
}

// reviewDraft applies the acceptance rules and returns the list of
// violations, empty when the draft passes.
func reviewDraft(draft string, a *analysis.QuantitativeAnalysis) []string {
	var problems []string
	lower := strings.ToLower(draft)

	if draft == "" {
		return []string{"the commentary is empty"}
	}
	if !strings.Contains(lower, strings.ToLower(a.Symbol)) {
		problems = append(problems, fmt.Sprintf("mention the symbol %s", a.Symbol))
	}
	if !strings.Contains(lower, stance(a.Signals)) {
		problems = append(problems, fmt.Sprintf("state the %s stance explicitly", stance(a.Signals)))
	}
	if words := len(strings.Fields(draft)); words > maxNarrativeWords {
		problems = append(problems, fmt.Sprintf("shorten it to under %d words (currently %d)", maxNarrativeWords, words))
	}

	return problems
}
