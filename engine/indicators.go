package engine

import (
	"math"

	"github.com/montanaflynn/stats"

	"shadowstrike/models"
)

// Lookback windows. MA150 is the slowest indicator; histories shorter than a
// window leave that indicator undefined (NaN) rather than zero.
const (
	RSIPeriod     = 14
	ADXPeriod     = 14
	MACDFast      = 12
	MACDSlow      = 26
	MACDSignal    = 9
	MAShortWindow = 25
	MAMidWindow   = 50
	MALongWindow  = 150

	// VolatilityWindow is the number of daily returns used for the
	// close-to-close volatility estimate backing the stop-loss hint.
	VolatilityWindow = 30
)

// SMASeries computes a simple moving average aligned to the input series.
// Entries before a full window are NaN.
func SMASeries(values []float64, window int) []float64 {
	out := nanSeries(len(values))
	if window <= 0 || len(values) < window {
		return out
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// EMASeries computes an exponential moving average seeded with the simple
// average of the first full window, skipping any leading NaN entries so it
// can be chained over derived series (e.g. the MACD line).
func EMASeries(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	start := 0
	for start < len(values) && math.IsNaN(values[start]) {
		start++
	}
	if period <= 0 || len(values)-start < period {
		return out
	}

	sum := 0.0
	for i := start; i < start+period; i++ {
		sum += values[i]
	}
	seed := start + period - 1
	out[seed] = sum / float64(period)

	multiplier := 2.0 / float64(period+1)
	for i := seed + 1; i < len(values); i++ {
		out[i] = (values[i]-out[i-1])*multiplier + out[i-1]
	}
	return out
}

// RSISeries computes the Wilder-smoothed relative strength index over closing
// prices.
func RSISeries(closes []float64, period int) []float64 {
	out := nanSeries(len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiFromAverages(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}
	return out
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// MACDDiffSeries computes the MACD histogram: EMA(12) - EMA(26) minus its own
// 9-period EMA signal line.
func MACDDiffSeries(closes []float64) []float64 {
	fast := EMASeries(closes, MACDFast)
	slow := EMASeries(closes, MACDSlow)

	macdLine := nanSeries(len(closes))
	for i := range closes {
		if !math.IsNaN(fast[i]) && !math.IsNaN(slow[i]) {
			macdLine[i] = fast[i] - slow[i]
		}
	}

	signal := EMASeries(macdLine, MACDSignal)
	out := nanSeries(len(closes))
	for i := range closes {
		if !math.IsNaN(macdLine[i]) && !math.IsNaN(signal[i]) {
			out[i] = macdLine[i] - signal[i]
		}
	}
	return out
}

// ADXSeries computes the Wilder average directional index over
// high/low/close triples.
func ADXSeries(bars []models.PriceBar, period int) []float64 {
	out := nanSeries(len(bars))
	if period <= 0 || len(bars) < 2*period {
		return out
	}

	tr := make([]float64, len(bars))
	plusDM := make([]float64, len(bars))
	minusDM := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		cur, prev := bars[i], bars[i-1]

		up := cur.High - prev.High
		down := prev.Low - cur.Low
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}

		tr[i] = math.Max(cur.High-cur.Low,
			math.Max(math.Abs(cur.High-prev.Close), math.Abs(cur.Low-prev.Close)))
	}

	var smTR, smPlus, smMinus float64
	for i := 1; i <= period; i++ {
		smTR += tr[i]
		smPlus += plusDM[i]
		smMinus += minusDM[i]
	}

	dx := nanSeries(len(bars))
	dx[period] = dxValue(smPlus, smMinus, smTR)

	var adx float64
	dxSum := dx[period]
	for i := period + 1; i < len(bars); i++ {
		smTR = smTR - smTR/float64(period) + tr[i]
		smPlus = smPlus - smPlus/float64(period) + plusDM[i]
		smMinus = smMinus - smMinus/float64(period) + minusDM[i]
		dx[i] = dxValue(smPlus, smMinus, smTR)

		if i < 2*period-1 {
			dxSum += dx[i]
		} else if i == 2*period-1 {
			dxSum += dx[i]
			adx = dxSum / float64(period)
			out[i] = adx
		} else {
			adx = (adx*float64(period-1) + dx[i]) / float64(period)
			out[i] = adx
		}
	}
	return out
}

func dxValue(smPlus, smMinus, smTR float64) float64 {
	if smTR == 0 {
		return 0
	}
	plusDI := 100 * smPlus / smTR
	minusDI := 100 * smMinus / smTR
	if plusDI+minusDI == 0 {
		return 0
	}
	return 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
}

// ComputeIndicators derives one IndicatorSnapshot per bar. Snapshots carry
// NaN for every indicator whose lookback exceeds the history available at
// that bar.
func ComputeIndicators(bars []models.PriceBar) []models.IndicatorSnapshot {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	rsi := RSISeries(closes, RSIPeriod)
	macd := MACDDiffSeries(closes)
	adx := ADXSeries(bars, ADXPeriod)
	ma25 := SMASeries(closes, MAShortWindow)
	ma50 := SMASeries(closes, MAMidWindow)
	ma150 := SMASeries(closes, MALongWindow)

	snapshots := make([]models.IndicatorSnapshot, len(bars))
	for i := range bars {
		snapshots[i] = models.IndicatorSnapshot{
			RSI:      rsi[i],
			MACDDiff: macd[i],
			ADX:      adx[i],
			MA25:     ma25[i],
			MA50:     ma50[i],
			MA150:    ma150[i],
		}
	}
	return snapshots
}

// Volatility returns the sample standard deviation of the last `window`
// close-to-close returns, as a percentage. NaN when history is too short.
func Volatility(closes []float64, window int) float64 {
	if len(closes) < window+1 {
		return math.NaN()
	}

	returns := make([]float64, 0, window)
	for i := len(closes) - window; i < len(closes); i++ {
		if closes[i-1] == 0 {
			return math.NaN()
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}

	sd, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return math.NaN()
	}
	return sd * 100
}

func nanSeries(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
