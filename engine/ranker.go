package engine

import (
	"sort"

	"shadowstrike/models"
)

// SignalBonus is added to a leg candidate's score when any detector signal
// fired for its symbol on the current run.
const SignalBonus = 10.0

// SymbolCandidates is the per-symbol input to the ranker: a normalized chain,
// the current spot price, and the signals the detector emitted.
type SymbolCandidates struct {
	Symbol  string
	Spot    float64
	Chain   []models.OptionQuote
	Signals []models.Signal
}

// RankCandidates collects per-leg candidates (the first legsPerSymbol legs of
// each chain, which NormalizeChain keeps sorted by expiration then strike)
// plus at most one bull-call spread per symbol, scores the legs, and returns
// the global top-K.
//
// Leg score = probability ITM + SignalBonus if any signal fired. Spread
// candidates carry no score and order by probability ITM. The sort is stable:
// equal scores preserve insertion order, which keeps top-K output
// reproducible across runs.
func RankCandidates(inputs []SymbolCandidates, legsPerSymbol, topK int, riskFreeRate float64) []models.TradeCandidate {
	candidates := make([]models.TradeCandidate, 0, len(inputs)*(legsPerSymbol+1))
	for _, in := range inputs {
		candidates = append(candidates, collectSymbolCandidates(in, legsPerSymbol, riskFreeRate, true)...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].EffectiveScore() > candidates[j].EffectiveScore()
	})

	if topK > 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}

// collectSymbolCandidates builds the per-leg candidates and the bull-call
// spread for one symbol. withScore controls whether leg candidates receive
// the ranker score.
func collectSymbolCandidates(in SymbolCandidates, legsPerSymbol int, riskFreeRate float64, withScore bool) []models.TradeCandidate {
	candidates := make([]models.TradeCandidate, 0, legsPerSymbol+1)

	legs := in.Chain
	if legsPerSymbol > 0 && len(legs) > legsPerSymbol {
		legs = legs[:legsPerSymbol]
	}

	for _, leg := range legs {
		probITM, probOTM := EstimateITM(in.Spot, leg.Strike, leg.TimeToExpiryYears(),
			riskFreeRate, leg.ImpliedVolatility/100, leg.Kind)

		c, err := models.NewLegCandidate(in.Symbol, leg, probITM, probOTM, in.Signals)
		if err != nil {
			continue
		}
		if withScore {
			score := probITM
			if len(in.Signals) > 0 {
				score += SignalBonus
			}
			c.SetScore(score)
		}
		candidates = append(candidates, *c)
	}

	if spread, err := BuildVerticalSpread(in.Spot, in.Chain, models.SpreadKindBullCall, riskFreeRate); err == nil {
		candidates = append(candidates, *models.NewSpreadCandidate(in.Symbol, spread))
	}
	return candidates
}

// RankByProbability orders candidates purely by probability ITM, descending
// and stable, truncated to topK. Used by the scanner surface, which ignores
// signal bonuses.
func RankByProbability(candidates []models.TradeCandidate, topK int) []models.TradeCandidate {
	out := make([]models.TradeCandidate, len(candidates))
	copy(out, candidates)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ProbabilityITM > out[j].ProbabilityITM
	})

	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}
