package models

// Signal is a crossover or threshold event detected between the two most
// recent bars of a symbol's history. Signals are recomputed on every analysis
// run and never persisted.
type Signal string

const (
	SignalMACDBullCross Signal = "MACD_BULL_CROSS"
	SignalMACDBearCross Signal = "MACD_BEAR_CROSS"
	SignalMA50BullCross Signal = "MA50_BULL_CROSS"
)

// Recommendation is the per-symbol directional call produced by the signal
// detector's tie-break policy.
type Recommendation string

const (
	RecommendationCall   Recommendation = "Call (Bullish)"
	RecommendationPut    Recommendation = "Put (Bearish)"
	RecommendationHold   Recommendation = "Hold"
	RecommendationNoData Recommendation = "No data"
)

// AnalysisDetails carries the latest indicator values for display. Fields are
// nil when the indicator is undefined for the available history.
type AnalysisDetails struct {
	RSI        *float64 `json:"rsi,omitempty"`
	MACD       *float64 `json:"macd,omitempty"`
	ADX        *float64 `json:"adx,omitempty"`
	MA25       *float64 `json:"ma25,omitempty"`
	MA50       *float64 `json:"ma50,omitempty"`
	MA150      *float64 `json:"ma150,omitempty"`
	Price      float64  `json:"price"`
	Volatility *float64 `json:"volatility,omitempty"`
	StopLoss   *float64 `json:"stop_loss,omitempty"`
}

// Analysis is the result of a single-symbol technical analysis run.
type Analysis struct {
	Symbol         string          `json:"symbol"`
	Recommendation Recommendation  `json:"recommendation"`
	Signals        []Signal        `json:"signals"`
	Details        AnalysisDetails `json:"details"`
}

// HasSignals reports whether any detector signal fired on this run.
func (a *Analysis) HasSignals() bool { return len(a.Signals) > 0 }
