package model

import "time"

// Trend is the backend's directional classification of price movement.
type Trend string

const (
	TrendStronglyBullish Trend = "STRONGLY_BULLISH"
	TrendBullish         Trend = "BULLISH"
	TrendNeutral         Trend = "NEUTRAL"
	TrendBearish         Trend = "BEARISH"
	TrendStronglyBearish Trend = "STRONGLY_BEARISH"
)

// AnalysisSnapshot is one analysis result for a coin/period. It is replaced
// wholesale on every successful fetch.
type AnalysisSnapshot struct {
	Trend          Trend     `json:"trend"`
	Confidence     float64   `json:"confidence"`
	PriceChange24h *float64  `json:"price_change_24h,omitempty"`
	CurrentPrice   float64   `json:"current_price"`
	Period         string    `json:"period,omitempty"`
	RSI            *float64  `json:"rsi,omitempty"`
	DataPoints     *int      `json:"data_points,omitempty"`
	Volatility     *float64  `json:"volatility,omitempty"`
	LastUpdate     time.Time `json:"last_update"`
}

// DefaultSnapshot is the placeholder held before the first successful fetch.
func DefaultSnapshot() AnalysisSnapshot {
	return AnalysisSnapshot{
		Trend:          TrendNeutral,
		PriceChange24h: Float(0),
		Period:         "SHORT",
	}
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
