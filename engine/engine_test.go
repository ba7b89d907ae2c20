package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"shadowstrike/config"
	"shadowstrike/models"
)

// mockMarketData serves canned per-symbol data; a nil entry means the fetch
// fails for that symbol.
type mockMarketData struct {
	bars   map[string][]models.PriceBar
	chains map[string][]RawOptionQuote
	quotes map[string]*models.StockQuote
}

func (m *mockMarketData) PriceHistory(_ context.Context, symbol string, _ int) ([]models.PriceBar, error) {
	bars, ok := m.bars[symbol]
	if !ok {
		return nil, fmt.Errorf("no bars for %s", symbol)
	}
	return bars, nil
}

func (m *mockMarketData) OptionChain(_ context.Context, symbol string) ([]RawOptionQuote, error) {
	chain, ok := m.chains[symbol]
	if !ok {
		return nil, fmt.Errorf("no chain for %s", symbol)
	}
	return chain, nil
}

func (m *mockMarketData) Quote(_ context.Context, symbol string) (*models.StockQuote, error) {
	q, ok := m.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("no quote for %s", symbol)
	}
	return q, nil
}

func testBars(n int, start float64, step float64) []models.PriceBar {
	bars := make([]models.PriceBar, n)
	day := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	for idx := range bars {
		c := start + float64(idx)*step
		bars[idx] = models.PriceBar{
			Timestamp: day.AddDate(0, 0, idx),
			Open:      c - 0.5,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000,
		}
	}
	return bars
}

func testRawChain(expiration string) []RawOptionQuote {
	return []RawOptionQuote{
		{Underlying: "SPY", Kind: "CALL", Strike: 100, Expiration: expiration, Last: f(5), ImpliedVolatility: f(0.20)},
		{Underlying: "SPY", Kind: "CALL", Strike: 105, Expiration: expiration, Last: f(3), ImpliedVolatility: f(0.20)},
		{Underlying: "SPY", Kind: "CALL", Strike: 110, Expiration: expiration, Last: f(1), ImpliedVolatility: f(0.20)},
	}
}

func newTestEngine(data MarketData) *Engine {
	cfg := config.NewTestConfig()
	return New(data, &cfg.Engine)
}

func TestAnalyze_NoData(t *testing.T) {
	eng := newTestEngine(&mockMarketData{bars: map[string][]models.PriceBar{
		"EMPTY": {},
		"ONE":   testBars(1, 100, 1),
	}})

	for _, symbol := range []string{"EMPTY", "ONE"} {
		a, err := eng.Analyze(context.Background(), symbol)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", symbol, err)
		}
		if a.Recommendation != models.RecommendationNoData {
			t.Errorf("%s: expected No data, got %q", symbol, a.Recommendation)
		}
		if len(a.Signals) != 0 {
			t.Errorf("%s: expected no signals, got %v", symbol, a.Signals)
		}
	}
}

func TestAnalyze_FetchFailure(t *testing.T) {
	eng := newTestEngine(&mockMarketData{})

	_, err := eng.Analyze(context.Background(), "MISSING")
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestAnalyzeBars_FullHistory(t *testing.T) {
	a := AnalyzeBars("SPY", testBars(200, 100, 0.5))

	if a.Symbol != "SPY" {
		t.Errorf("expected symbol SPY, got %s", a.Symbol)
	}
	if a.Details.RSI == nil || a.Details.MA150 == nil {
		t.Error("expected all indicators defined with 200 bars")
	}
	if a.Details.Volatility == nil || a.Details.StopLoss == nil {
		t.Error("expected volatility and stop loss with 200 bars")
	}
	if a.Details.StopLoss != nil && *a.Details.StopLoss >= a.Details.Price {
		t.Errorf("stop loss %v not below price %v", *a.Details.StopLoss, a.Details.Price)
	}
}

func TestAnalyzeBars_ShortHistoryOmitsUndefined(t *testing.T) {
	a := AnalyzeBars("SPY", testBars(10, 100, 0.5))

	if a.Details.RSI != nil || a.Details.MA50 != nil {
		t.Error("expected undefined indicators omitted with 10 bars")
	}
	if a.Details.Volatility != nil {
		t.Error("expected no volatility with 10 bars")
	}
	if a.Recommendation != models.RecommendationHold {
		t.Errorf("expected Hold over undefined indicators, got %q", a.Recommendation)
	}
}

func TestScanCandidates_SkipsFailingSymbols(t *testing.T) {
	data := &mockMarketData{
		bars: map[string][]models.PriceBar{
			"GOOD": testBars(60, 100, 0.5),
		},
		chains: map[string][]RawOptionQuote{
			"GOOD": testRawChain("2026-03-20"),
		},
		quotes: map[string]*models.StockQuote{
			"GOOD": {Symbol: "GOOD", Price: 102},
		},
	}
	eng := newTestEngine(data)

	out := eng.ScanCandidates(context.Background(), []string{"BAD", "GOOD"}, 10)
	if len(out) == 0 {
		t.Fatal("expected candidates from the healthy symbol")
	}
	for _, c := range out {
		if c.Symbol != "GOOD" {
			t.Errorf("unexpected candidate symbol %s", c.Symbol)
		}
	}
}

func TestScanCandidates_EmptyChainYieldsNoCandidates(t *testing.T) {
	data := &mockMarketData{
		bars: map[string][]models.PriceBar{
			"SPY": testBars(60, 100, 0.5),
		},
		chains: map[string][]RawOptionQuote{
			"SPY": {},
		},
		quotes: map[string]*models.StockQuote{
			"SPY": {Symbol: "SPY", Price: 102},
		},
	}
	eng := newTestEngine(data)

	out := eng.ScanCandidates(context.Background(), []string{"SPY"}, 10)
	if len(out) != 0 {
		t.Errorf("expected zero candidates for an empty chain, got %d", len(out))
	}
}

func TestScanByProbability_LegsCarryRecommendation(t *testing.T) {
	data := &mockMarketData{
		bars: map[string][]models.PriceBar{
			"SPY": testBars(60, 100, 0.5),
		},
		chains: map[string][]RawOptionQuote{
			"SPY": testRawChain("2026-03-20"),
		},
		quotes: map[string]*models.StockQuote{
			"SPY": {Symbol: "SPY", Price: 102},
		},
	}
	eng := newTestEngine(data)

	out := eng.ScanByProbability(context.Background(), []string{"SPY"}, 10)
	if len(out) == 0 {
		t.Fatal("expected candidates")
	}
	for _, c := range out {
		if c.SpreadKind == "" {
			if c.Recommendation == "" {
				t.Error("expected leg candidates to carry a recommendation")
			}
			if c.Score != nil {
				t.Error("scanner candidates must not carry a score")
			}
		}
	}
	for idx := 1; idx < len(out); idx++ {
		if out[idx].ProbabilityITM > out[idx-1].ProbabilityITM {
			t.Error("candidates not ordered by probability")
		}
	}
}

func TestTradeScenario(t *testing.T) {
	data := &mockMarketData{
		chains: map[string][]RawOptionQuote{
			"SPY": testRawChain("2026-03-20"),
		},
	}
	eng := newTestEngine(data)
	eng.now = func() time.Time { return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) }

	out, err := eng.TradeScenario(context.Background(), "SPY", 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 scenario legs, got %d", len(out))
	}
	for _, c := range out {
		if c.ProbabilityITM+c.ProbabilityOTM != 100 {
			t.Errorf("probabilities do not sum to 100: %v + %v", c.ProbabilityITM, c.ProbabilityOTM)
		}
		// Target well above every strike: calls should be likely ITM
		if c.ProbabilityITM <= 50 {
			t.Errorf("expected high ITM probability at target 120 for strike %v, got %v",
				c.Strike, c.ProbabilityITM)
		}
	}
}

func TestBuildSpread(t *testing.T) {
	data := &mockMarketData{
		chains: map[string][]RawOptionQuote{
			"SPY": testRawChain("2026-03-20"),
		},
		quotes: map[string]*models.StockQuote{
			"SPY": {Symbol: "SPY", Price: 102},
		},
	}
	eng := newTestEngine(data)
	eng.now = func() time.Time { return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) }

	spread, err := eng.BuildSpread(context.Background(), "SPY", models.SpreadKindBullCall)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spread.Buy.Strike != 100 || spread.Sell.Strike != 105 {
		t.Errorf("expected 100/105 spread, got %v/%v", spread.Buy.Strike, spread.Sell.Strike)
	}
}
