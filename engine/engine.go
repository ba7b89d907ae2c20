package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"shadowstrike/config"
	"shadowstrike/models"
	"shadowstrike/observability"
)

// MarketData is the engine's only view of the outside world. Implementations
// own fetch, retry, and caching policy; the engine treats the returned
// snapshots as immutable inputs.
type MarketData interface {
	PriceHistory(ctx context.Context, symbol string, days int) ([]models.PriceBar, error)
	OptionChain(ctx context.Context, symbol string) ([]RawOptionQuote, error)
	Quote(ctx context.Context, symbol string) (*models.StockQuote, error)
}

// Engine runs the options analytics pipeline: normalize, detect signals,
// estimate probabilities, construct spreads, rank. All computation is pure;
// each invocation works on its own input snapshot, so the engine is safe for
// concurrent use.
type Engine struct {
	data MarketData
	cfg  *config.EngineConfig
	now  func() time.Time
}

// New creates an Engine over the given market data provider.
func New(data MarketData, cfg *config.EngineConfig) *Engine {
	return &Engine{data: data, cfg: cfg, now: time.Now}
}

// Analyze fetches a symbol's price history and runs the technical signal
// detector over it. With fewer than two bars the result is "No data" with no
// signals; only an upstream fetch failure is an error.
func (e *Engine) Analyze(ctx context.Context, symbol string) (*models.Analysis, error) {
	bars, err := e.data.PriceHistory(ctx, symbol, e.cfg.LookbackDays)
	if err != nil {
		return nil, dataUnavailable("price history", symbol, err)
	}
	return AnalyzeBars(symbol, bars), nil
}

// AnalyzeBars is the pure analysis over an already-fetched history.
func AnalyzeBars(symbol string, bars []models.PriceBar) *models.Analysis {
	if len(bars) < 2 {
		a := &models.Analysis{Symbol: symbol, Recommendation: models.RecommendationNoData}
		if len(bars) == 1 {
			a.Details.Price = round2(bars[0].Close)
		}
		return a
	}

	snapshots := ComputeIndicators(bars)
	cur, prev := snapshots[len(snapshots)-1], snapshots[len(snapshots)-2]
	curClose, prevClose := bars[len(bars)-1].Close, bars[len(bars)-2].Close

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	volatility := Volatility(closes, VolatilityWindow)

	details := models.AnalysisDetails{
		RSI:   rounded2(cur.RSI),
		MACD:  rounded2(cur.MACDDiff),
		ADX:   rounded2(cur.ADX),
		MA25:  rounded2(cur.MA25),
		MA50:  rounded2(cur.MA50),
		MA150: rounded2(cur.MA150),
		Price: round2(curClose),
	}
	if !math.IsNaN(volatility) {
		details.Volatility = rounded2(volatility)
		details.StopLoss = rounded2(curClose * (1 - volatility/100))
	}

	return &models.Analysis{
		Symbol:         symbol,
		Recommendation: Recommend(cur),
		Signals:        DetectSignals(prev, cur, prevClose, curClose),
		Details:        details,
	}
}

// ScanCandidates analyzes each symbol, collects per-leg and spread
// candidates, and returns the scored global top-K. A symbol whose data is
// missing or malformed is logged and skipped; one bad symbol never aborts
// the batch.
func (e *Engine) ScanCandidates(ctx context.Context, symbols []string, topK int) []models.TradeCandidate {
	inputs, _ := e.collect(ctx, symbols)
	return RankCandidates(inputs, e.cfg.LegsPerSymbol, topK, e.cfg.RiskFreeRate)
}

// ScanByProbability is the scanner surface: the same candidate set, but each
// leg carries the symbol's recommendation instead of a score, and ordering is
// purely by probability ITM.
func (e *Engine) ScanByProbability(ctx context.Context, symbols []string, topK int) []models.TradeCandidate {
	inputs, recommendations := e.collect(ctx, symbols)

	var candidates []models.TradeCandidate
	for _, in := range inputs {
		cs := collectSymbolCandidates(in, e.cfg.LegsPerSymbol, e.cfg.RiskFreeRate, false)
		for i := range cs {
			if cs[i].SpreadKind == "" {
				cs[i].Recommendation = recommendations[in.Symbol]
			}
		}
		candidates = append(candidates, cs...)
	}
	return RankByProbability(candidates, topK)
}

// TradeScenario estimates leg probabilities against a hypothetical target
// price instead of the live spot.
func (e *Engine) TradeScenario(ctx context.Context, symbol string, targetPrice float64) ([]models.TradeCandidate, error) {
	raw, err := e.data.OptionChain(ctx, symbol)
	if err != nil {
		return nil, dataUnavailable("option chain", symbol, err)
	}

	chain := NormalizeChain(raw, e.now())
	if len(chain) > e.cfg.ScenarioLegs {
		chain = chain[:e.cfg.ScenarioLegs]
	}

	candidates := make([]models.TradeCandidate, 0, len(chain))
	for _, leg := range chain {
		probITM, probOTM := EstimateITM(targetPrice, leg.Strike, leg.TimeToExpiryYears(),
			e.cfg.RiskFreeRate, leg.ImpliedVolatility/100, leg.Kind)
		c, err := models.NewLegCandidate(symbol, leg, probITM, probOTM, nil)
		if err != nil {
			continue
		}
		candidates = append(candidates, *c)
	}
	return candidates, nil
}

// BuildSpread constructs the requested vertical spread from the symbol's
// current chain. ErrNoSpreadAvailable means the chain cannot support the
// spread; callers omit it rather than failing.
func (e *Engine) BuildSpread(ctx context.Context, symbol string, kind models.SpreadKind) (*models.SpreadPosition, error) {
	quote, err := e.data.Quote(ctx, symbol)
	if err != nil {
		return nil, dataUnavailable("quote", symbol, err)
	}
	raw, err := e.data.OptionChain(ctx, symbol)
	if err != nil {
		return nil, dataUnavailable("option chain", symbol, err)
	}
	return BuildVerticalSpread(quote.Price, NormalizeChain(raw, e.now()), kind, e.cfg.RiskFreeRate)
}

// ValueOpenTrade fetches the position's current chain and recomputes its P&L.
func (e *Engine) ValueOpenTrade(ctx context.Context, t *models.Trade) (*Valuation, error) {
	raw, err := e.data.OptionChain(ctx, t.Symbol)
	if err != nil {
		return nil, dataUnavailable("option chain", t.Symbol, err)
	}
	v := ValuePosition(t, NormalizeChain(raw, e.now()))
	return &v, nil
}

// collect gathers per-symbol analysis and normalized chains, skipping
// symbols whose upstream data is unavailable.
func (e *Engine) collect(ctx context.Context, symbols []string) ([]SymbolCandidates, map[string]models.Recommendation) {
	inputs := make([]SymbolCandidates, 0, len(symbols))
	recommendations := make(map[string]models.Recommendation, len(symbols))

	for _, symbol := range symbols {
		analysis, err := e.Analyze(ctx, symbol)
		if err != nil {
			observability.WithSymbol(symbol).Warn("skipping symbol", "error", err)
			continue
		}

		raw, err := e.data.OptionChain(ctx, symbol)
		if err != nil {
			observability.WithSymbol(symbol).Warn("option chain unavailable", "error", err)
			raw = nil
		}

		recommendations[symbol] = analysis.Recommendation
		inputs = append(inputs, SymbolCandidates{
			Symbol:  symbol,
			Spot:    analysis.Details.Price,
			Chain:   NormalizeChain(raw, e.now()),
			Signals: analysis.Signals,
		})
	}
	return inputs, recommendations
}

func dataUnavailable(what, symbol string, err error) error {
	return fmt.Errorf("%s for %s: %w: %v", what, symbol, ErrDataUnavailable, err)
}

func rounded2(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	r := round2(v)
	return &r
}
