package engine

import (
	"shadowstrike/models"
)

// DetectSignals compares the current bar's indicator and price values against
// the immediately preceding bar and reports every crossover that fired.
// Signals are non-exclusive; comparisons against undefined (NaN) indicator
// values never fire.
func DetectSignals(prev, cur models.IndicatorSnapshot, prevClose, curClose float64) []models.Signal {
	var signals []models.Signal

	if cur.MACDDiff > 0 && prev.MACDDiff <= 0 {
		signals = append(signals, models.SignalMACDBullCross)
	} else if cur.MACDDiff < 0 && prev.MACDDiff >= 0 {
		signals = append(signals, models.SignalMACDBearCross)
	}

	if curClose > cur.MA50 && prevClose <= prev.MA50 {
		signals = append(signals, models.SignalMA50BullCross)
	}

	return signals
}

// Recommend applies the fixed-priority recommendation policy to the latest
// bar's indicators. First match wins; the default is Hold.
func Recommend(cur models.IndicatorSnapshot) models.Recommendation {
	switch {
	case cur.RSI < 30 && cur.MACDDiff > 0 && cur.ADX > 25:
		return models.RecommendationCall
	case cur.RSI > 70 && cur.MACDDiff < 0 && cur.ADX > 25:
		return models.RecommendationPut
	default:
		return models.RecommendationHold
	}
}
