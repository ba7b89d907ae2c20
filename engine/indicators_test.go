package engine

import (
	"math"
	"testing"

	"shadowstrike/models"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSMASeries(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	out := SMASeries(values, 3)

	if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
		t.Error("expected NaN before a full window")
	}
	if out[2] != 2 || out[3] != 3 || out[4] != 4 {
		t.Errorf("unexpected SMA values: %v", out[2:])
	}
}

func TestSMASeries_ShortHistory(t *testing.T) {
	out := SMASeries([]float64{1, 2}, 5)
	for i, v := range out {
		if !math.IsNaN(v) {
			t.Errorf("expected NaN at %d, got %v", i, v)
		}
	}
}

func TestEMASeries(t *testing.T) {
	values := []float64{10, 10, 10, 10, 20}
	out := EMASeries(values, 3)

	if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
		t.Error("expected NaN before the seed index")
	}
	if out[2] != 10 {
		t.Errorf("expected SMA seed 10, got %v", out[2])
	}
	// multiplier = 2/(3+1) = 0.5
	if out[3] != 10 {
		t.Errorf("expected 10, got %v", out[3])
	}
	if out[4] != 15 {
		t.Errorf("expected 15, got %v", out[4])
	}
}

func TestEMASeries_SkipsLeadingNaN(t *testing.T) {
	values := []float64{math.NaN(), math.NaN(), 10, 10, 10, 20}
	out := EMASeries(values, 3)

	if !math.IsNaN(out[3]) {
		t.Error("expected NaN before seed when input has leading NaNs")
	}
	if out[4] != 10 {
		t.Errorf("expected seed 10 at index 4, got %v", out[4])
	}
	if out[5] != 15 {
		t.Errorf("expected 15 at index 5, got %v", out[5])
	}
}

func TestRSISeries(t *testing.T) {
	// Monotonically rising closes give RSI 100 once defined
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	out := RSISeries(closes, RSIPeriod)

	for idx := 0; idx < RSIPeriod; idx++ {
		if !math.IsNaN(out[idx]) {
			t.Errorf("expected NaN at %d", idx)
		}
	}
	if out[RSIPeriod] != 100 {
		t.Errorf("expected RSI 100 for all gains, got %v", out[RSIPeriod])
	}
}

func TestRSISeries_AllLosses(t *testing.T) {
	closes := make([]float64, 20)
	for idx := range closes {
		closes[idx] = 100 - float64(idx)
	}
	out := RSISeries(closes, RSIPeriod)
	if out[len(out)-1] != 0 {
		t.Errorf("expected RSI 0 for all losses, got %v", out[len(out)-1])
	}
}

func TestRSISeries_Bounded(t *testing.T) {
	closes := []float64{44, 44.5, 43.9, 44.2, 44.8, 45.1, 44.6, 44.9, 45.5, 45.2,
		45.8, 46.1, 45.7, 46.3, 46.0, 46.5, 46.2, 46.8, 47.1, 46.9}
	out := RSISeries(closes, RSIPeriod)
	for idx := RSIPeriod; idx < len(out); idx++ {
		if out[idx] < 0 || out[idx] > 100 {
			t.Errorf("RSI out of bounds at %d: %v", idx, out[idx])
		}
	}
}

func TestMACDDiffSeries_DefinedAfterWarmup(t *testing.T) {
	closes := make([]float64, 60)
	for idx := range closes {
		closes[idx] = 100 + math.Sin(float64(idx)/5)*10
	}
	out := MACDDiffSeries(closes)

	// Histogram needs slow EMA (26) plus signal EMA (9) of warmup
	firstDefined := MACDSlow + MACDSignal - 2
	if !math.IsNaN(out[firstDefined-1]) {
		t.Errorf("expected NaN at %d", firstDefined-1)
	}
	if math.IsNaN(out[firstDefined]) {
		t.Errorf("expected defined histogram at %d", firstDefined)
	}
}

func TestADXSeries(t *testing.T) {
	bars := make([]models.PriceBar, 40)
	for idx := range bars {
		base := 100 + float64(idx)*0.5
		bars[idx] = models.PriceBar{High: base + 1, Low: base - 1, Close: base}
	}
	out := ADXSeries(bars, ADXPeriod)

	firstADX := 2*ADXPeriod - 1
	if !math.IsNaN(out[firstADX-1]) {
		t.Errorf("expected NaN at %d", firstADX-1)
	}
	for idx := firstADX; idx < len(out); idx++ {
		if math.IsNaN(out[idx]) {
			t.Fatalf("expected defined ADX at %d", idx)
		}
		if out[idx] < 0 || out[idx] > 100 {
			t.Errorf("ADX out of bounds at %d: %v", idx, out[idx])
		}
	}
	// Persistent uptrend drives ADX high
	if out[len(out)-1] < 50 {
		t.Errorf("expected strong trend ADX, got %v", out[len(out)-1])
	}
}

func TestComputeIndicators_Alignment(t *testing.T) {
	bars := make([]models.PriceBar, 30)
	for idx := range bars {
		c := 100 + float64(idx)
		bars[idx] = models.PriceBar{High: c + 1, Low: c - 1, Close: c}
	}
	snapshots := ComputeIndicators(bars)

	if len(snapshots) != len(bars) {
		t.Fatalf("expected %d snapshots, got %d", len(bars), len(snapshots))
	}
	if snapshots[0].HasRSI() {
		t.Error("expected undefined RSI on the first bar")
	}
	if !snapshots[RSIPeriod].HasRSI() {
		t.Error("expected defined RSI after the warmup window")
	}
	// 30 bars cannot define MA50 or MA150
	if !math.IsNaN(snapshots[29].MA50) || !math.IsNaN(snapshots[29].MA150) {
		t.Error("expected undefined slow MAs with 30 bars")
	}
	if math.IsNaN(snapshots[29].MA25) {
		t.Error("expected defined MA25 with 30 bars")
	}
}

func TestVolatility(t *testing.T) {
	// Constant closes have zero volatility
	closes := make([]float64, VolatilityWindow+1)
	for idx := range closes {
		closes[idx] = 100
	}
	if v := Volatility(closes, VolatilityWindow); v != 0 {
		t.Errorf("expected 0 volatility for constant closes, got %v", v)
	}
}

func TestVolatility_ShortHistory(t *testing.T) {
	if v := Volatility([]float64{100, 101}, VolatilityWindow); !math.IsNaN(v) {
		t.Errorf("expected NaN for short history, got %v", v)
	}
}

func TestVolatility_KnownValue(t *testing.T) {
	// Alternating +1%/-1% daily moves
	closes := make([]float64, VolatilityWindow+1)
	closes[0] = 100
	for idx := 1; idx < len(closes); idx++ {
		if idx%2 == 1 {
			closes[idx] = closes[idx-1] * 1.01
		} else {
			closes[idx] = closes[idx-1] * 0.99
		}
	}
	v := Volatility(closes, VolatilityWindow)
	if !almostEqual(v, 1.0, 0.05) {
		t.Errorf("expected volatility near 1%%, got %v", v)
	}
}
