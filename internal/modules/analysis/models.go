// Package analysis implements the quantitative analysis engine: it turns an
// ordered price/volume series into a structured bundle of descriptive
// statistics, risk metrics, technical indicators and a composite trading
// signal. The engine is a pure, synchronous computation; fetching, storage
// and presentation live in their own modules.
package analysis

import (
	"time"

	"github.com/marketlens/marketlens/pkg/formulas"
)

// AssetType identifies the class of the analyzed instrument.
type AssetType string

const (
	AssetTypeStock  AssetType = "stock"
	AssetTypeCrypto AssetType = "crypto"
)

// Trend labels the direction of the fitted price trend.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// Recommendation is the indicator-level action label.
type Recommendation string

const (
	RecommendationBuy  Recommendation = "buy"
	RecommendationSell Recommendation = "sell"
	RecommendationHold Recommendation = "hold"
)

// PriceSample is one observation of the input series, ordered
// oldest-to-newest. High, Low and Volume are optional; the engine defaults
// missing high/low to the price itself.
type PriceSample struct {
	Date   time.Time `json:"date" msgpack:"date"`
	Price  float64   `json:"price" msgpack:"price"`
	High   *float64  `json:"high,omitempty" msgpack:"high,omitempty"`
	Low    *float64  `json:"low,omitempty" msgpack:"low,omitempty"`
	Volume *float64  `json:"volume,omitempty" msgpack:"volume,omitempty"`
}

// FinancialMetrics carries externally supplied fundamentals. The whole
// struct is optional: a nil pointer means no fundamental data, and every
// consumer branches on that once instead of probing individual fields.
type FinancialMetrics struct {
	PERatio        float64 `json:"pe_ratio" msgpack:"pe_ratio"`
	ProfitMargin   float64 `json:"profit_margin" msgpack:"profit_margin"`
	RevenueGrowth  float64 `json:"revenue_growth" msgpack:"revenue_growth"`
	DebtToEquity   float64 `json:"debt_to_equity" msgpack:"debt_to_equity"`
	ReturnOnEquity float64 `json:"return_on_equity" msgpack:"return_on_equity"`
	MarketCap      float64 `json:"market_cap" msgpack:"market_cap"`
}

// StatisticalAnalysis bundles the distribution summary of prices and returns
// with the time-trend regression.
type StatisticalAnalysis struct {
	PriceStats      formulas.DescriptiveStats `json:"price_stats" msgpack:"price_stats"`
	ReturnStats     formulas.DescriptiveStats `json:"return_stats" msgpack:"return_stats"`
	Skewness        float64                   `json:"skewness" msgpack:"skewness"`
	Kurtosis        float64                   `json:"kurtosis" msgpack:"kurtosis"`
	TimeCorrelation float64                   `json:"time_correlation" msgpack:"time_correlation"`
	Regression      formulas.RegressionResult `json:"regression" msgpack:"regression"`
}

// RiskMetrics aggregates volatility, drawdown, tail risk and the
// risk-adjusted return ratios. OverallRiskScore is a derived 0..100 score.
type RiskMetrics struct {
	Volatility           float64 `json:"volatility" msgpack:"volatility"`
	AnnualizedVolatility float64 `json:"annualized_volatility" msgpack:"annualized_volatility"`
	MaxDrawdown          float64 `json:"max_drawdown" msgpack:"max_drawdown"`
	AverageDrawdown      float64 `json:"average_drawdown" msgpack:"average_drawdown"`
	CurrentDrawdown      float64 `json:"current_drawdown" msgpack:"current_drawdown"`
	MaxDrawdownDuration  int     `json:"max_drawdown_duration" msgpack:"max_drawdown_duration"`
	VaR95                float64 `json:"var_95" msgpack:"var_95"`
	CVaR95               float64 `json:"cvar_95" msgpack:"cvar_95"`
	VaR99                float64 `json:"var_99" msgpack:"var_99"`
	CVaR99               float64 `json:"cvar_99" msgpack:"cvar_99"`
	SharpeRatio          float64 `json:"sharpe_ratio" msgpack:"sharpe_ratio"`
	SortinoRatio         float64 `json:"sortino_ratio" msgpack:"sortino_ratio"`
	CalmarRatio          float64 `json:"calmar_ratio" msgpack:"calmar_ratio"`
	OverallRiskScore     float64 `json:"overall_risk_score" msgpack:"overall_risk_score"`
}

// IndicatorSet is the technical indicator bundle. Series shorter than
// MinIndicatorSamples resolve to the neutral defaults (RSI 50, ADX 25,
// neutral trend, hold, confidence 0, moving averages at the last price).
type IndicatorSet struct {
	RSI            float64                    `json:"rsi" msgpack:"rsi"`
	MACD           formulas.MACDResult        `json:"macd" msgpack:"macd"`
	SMA20          float64                    `json:"sma20" msgpack:"sma20"`
	SMA50          float64                    `json:"sma50" msgpack:"sma50"`
	SMA200         float64                    `json:"sma200" msgpack:"sma200"`
	EMA12          float64                    `json:"ema12" msgpack:"ema12"`
	EMA26          float64                    `json:"ema26" msgpack:"ema26"`
	Bollinger      formulas.BollingerBands    `json:"bollinger" msgpack:"bollinger"`
	Stochastic     formulas.StochasticResult  `json:"stochastic" msgpack:"stochastic"`
	ADX            float64                    `json:"adx" msgpack:"adx"`
	Trend          Trend                      `json:"trend" msgpack:"trend"`
	Recommendation Recommendation             `json:"recommendation" msgpack:"recommendation"`
	Confidence     float64                    `json:"confidence" msgpack:"confidence"`
}

// TradingSignals is the composite signal produced by the synthesizer.
// SignalStrength is bounded to [-100, 100] and Confidence to [20, 95].
type TradingSignals struct {
	SignalStrength    float64 `json:"signal_strength" msgpack:"signal_strength"`
	TechnicalSignal   float64 `json:"technical_signal" msgpack:"technical_signal"`
	FundamentalSignal float64 `json:"fundamental_signal" msgpack:"fundamental_signal"`
	Confidence        float64 `json:"confidence" msgpack:"confidence"`
	BuySignal         bool    `json:"buy_signal" msgpack:"buy_signal"`
	SellSignal        bool    `json:"sell_signal" msgpack:"sell_signal"`
	HoldSignal        bool    `json:"hold_signal" msgpack:"hold_signal"`
}

// PriceAnalysis holds period-over-period percentage changes. All values are
// plain floats in percent units; formatting is a presentation concern.
type PriceAnalysis struct {
	Change24h   float64 `json:"change_24h" msgpack:"change_24h"`
	Change7d    float64 `json:"change_7d" msgpack:"change_7d"`
	Change30d   float64 `json:"change_30d" msgpack:"change_30d"`
	ChangeTotal float64 `json:"change_total" msgpack:"change_total"`
}

// VolumeAnalysis summarizes trading volume. When the series carries no
// volume data the ratio defaults to the neutral 1.
type VolumeAnalysis struct {
	AverageVolume float64 `json:"average_volume" msgpack:"average_volume"`
	RecentVolume  float64 `json:"recent_volume" msgpack:"recent_volume"`
	VolumeRatio   float64 `json:"volume_ratio" msgpack:"volume_ratio"`
	VolumeTrend   string  `json:"volume_trend" msgpack:"volume_trend"`
	HasVolume     bool    `json:"has_volume" msgpack:"has_volume"`
}

// QuantitativeAnalysis is the root aggregate: one immutable snapshot per
// analysis request. A fresh snapshot is produced for every request rather
// than updating the previous one.
type QuantitativeAnalysis struct {
	ID           string                     `json:"id" msgpack:"id"`
	Symbol       string                     `json:"symbol" msgpack:"symbol"`
	AssetType    AssetType                  `json:"asset_type" msgpack:"asset_type"`
	AnalyzedAt   time.Time                  `json:"analyzed_at" msgpack:"analyzed_at"`
	Fundamentals *FinancialMetrics          `json:"fundamentals,omitempty" msgpack:"fundamentals,omitempty"`
	Statistics   StatisticalAnalysis        `json:"statistics" msgpack:"statistics"`
	Risk         RiskMetrics                `json:"risk" msgpack:"risk"`
	Indicators   IndicatorSet               `json:"indicators" msgpack:"indicators"`
	Signals      TradingSignals             `json:"signals" msgpack:"signals"`
	Price        PriceAnalysis              `json:"price" msgpack:"price"`
	Volume       VolumeAnalysis             `json:"volume" msgpack:"volume"`
	Patterns     formulas.SupportResistance `json:"patterns" msgpack:"patterns"`
}
