package models

import "time"

// PredictionPoint is one forecasted trading observation.
// The confidence band is a fixed fraction of the predicted close, not a
// statistical interval derived from model residuals.
type PredictionPoint struct {
	Date           time.Time `json:"date"`
	PredictedClose float64   `json:"predicted_close"`
	IntervalLower  float64   `json:"confidence_interval_lower"`
	IntervalUpper  float64   `json:"confidence_interval_upper"`
}

// PredictionResult is the full payload of a predict request. Predictions is
// empty (never nil in JSON) when the ticker has no usable history.
type PredictionResult struct {
	Ticker       string            `json:"ticker"`
	CurrentPrice float64           `json:"current_price"`
	LookbackDays int               `json:"lookback_days"`
	ModelCached  bool              `json:"model_cached"`
	GeneratedAt  time.Time         `json:"generated_at"`
	Predictions  []PredictionPoint `json:"predictions"`
}

// Recommendation actions. STRONG_BUY and STRONG_SELL exist for API
// compatibility; the signal-counting rule only ever emits the middle three.
const (
	ActionStrongBuy  = "STRONG_BUY"
	ActionBuy        = "BUY"
	ActionHold       = "HOLD"
	ActionSell       = "SELL"
	ActionStrongSell = "STRONG_SELL"
)

// Recommendation is a technical-indicator trading call. Computed fresh on
// every request, never persisted.
type Recommendation struct {
	Ticker       string    `json:"ticker"`
	CurrentPrice float64   `json:"current_price"`
	TargetPrice  float64   `json:"target_price"`
	Action       string    `json:"recommendation"`
	Confidence   float64   `json:"confidence"`
	LastUpdated  time.Time `json:"last_updated"`
}

// TickerInfo is a discovery/search result row.
type TickerInfo struct {
	Ticker    string  `json:"ticker"`
	Name      string  `json:"name"`
	Exchange  string  `json:"exchange,omitempty"`
	Sector    string  `json:"sector,omitempty"`
	Industry  string  `json:"industry,omitempty"`
	Price     float64 `json:"price,omitempty"`
	MarketCap int64   `json:"market_cap,omitempty"`
}
