package models

import "math"

// IndicatorSnapshot holds the derived indicator values aligned to a single
// price bar. A value is NaN while the bar index is inside the indicator's
// lookback window; callers must treat NaN as "undefined", never as zero.
type IndicatorSnapshot struct {
	RSI      float64
	MACDDiff float64
	ADX      float64
	MA25     float64
	MA50     float64
	MA150    float64
}

// HasRSI reports whether the RSI value is defined for this bar.
func (s IndicatorSnapshot) HasRSI() bool { return !math.IsNaN(s.RSI) }

// HasMACD reports whether the MACD histogram value is defined for this bar.
func (s IndicatorSnapshot) HasMACD() bool { return !math.IsNaN(s.MACDDiff) }

// HasADX reports whether the ADX value is defined for this bar.
func (s IndicatorSnapshot) HasADX() bool { return !math.IsNaN(s.ADX) }
