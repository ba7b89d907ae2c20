package engine

import (
	"testing"

	"shadowstrike/models"
)

func legCandidate(symbol string, probITM float64) models.TradeCandidate {
	return models.TradeCandidate{
		Symbol:         symbol,
		Kind:           models.OptionKindCall,
		ProbabilityITM: probITM,
		ProbabilityOTM: 100 - probITM,
	}
}

func TestRankByProbability_Ordering(t *testing.T) {
	in := []models.TradeCandidate{
		legCandidate("A", 70),
		legCandidate("B", 85),
	}

	out := RankByProbability(in, 10)
	if out[0].ProbabilityITM != 85 || out[1].ProbabilityITM != 70 {
		t.Errorf("expected descending order [85, 70], got [%v, %v]",
			out[0].ProbabilityITM, out[1].ProbabilityITM)
	}

	// Input slice is not reordered
	if in[0].ProbabilityITM != 70 {
		t.Error("input slice was mutated")
	}
}

func TestRankByProbability_StableOnTies(t *testing.T) {
	in := []models.TradeCandidate{
		legCandidate("first", 80),
		legCandidate("second", 80),
		legCandidate("third", 80),
	}

	out := RankByProbability(in, 10)
	if out[0].Symbol != "first" || out[1].Symbol != "second" || out[2].Symbol != "third" {
		t.Errorf("tie order not preserved: %v, %v, %v", out[0].Symbol, out[1].Symbol, out[2].Symbol)
	}
}

func TestRankByProbability_TopK(t *testing.T) {
	in := []models.TradeCandidate{
		legCandidate("A", 60),
		legCandidate("B", 90),
		legCandidate("C", 75),
	}

	out := RankByProbability(in, 2)
	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	if out[0].ProbabilityITM != 90 || out[1].ProbabilityITM != 75 {
		t.Errorf("expected [90, 75], got [%v, %v]", out[0].ProbabilityITM, out[1].ProbabilityITM)
	}
}

func TestRankCandidates_SignalBonus(t *testing.T) {
	withSignal := SymbolCandidates{
		Symbol:  "SIG",
		Spot:    100,
		Chain:   []models.OptionQuote{callLeg(100, 5)},
		Signals: []models.Signal{models.SignalMACDBullCross},
	}
	without := SymbolCandidates{
		Symbol: "PLAIN",
		Spot:   100,
		Chain:  []models.OptionQuote{callLeg(100, 5)},
	}

	out := RankCandidates([]SymbolCandidates{without, withSignal}, 2, 10, 0.05)
	if len(out) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(out))
	}

	// Identical legs, so the signal bonus decides the order
	if out[0].Symbol != "SIG" {
		t.Errorf("expected signal-boosted candidate first, got %s", out[0].Symbol)
	}
	if *out[0].Score != out[1].ProbabilityITM+SignalBonus {
		t.Errorf("expected score = probability + bonus, got %v vs %v",
			*out[0].Score, out[1].ProbabilityITM+SignalBonus)
	}
}

func TestRankCandidates_LegsPerSymbolAndSpread(t *testing.T) {
	in := SymbolCandidates{
		Symbol: "SPY",
		Spot:   102,
		Chain: []models.OptionQuote{
			callLeg(100, 5),
			callLeg(105, 3),
			callLeg(110, 1),
		},
	}

	out := RankCandidates([]SymbolCandidates{in}, 2, 10, 0.05)

	// 2 legs plus 1 bull-call spread
	if len(out) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(out))
	}

	var legs, spreads int
	for _, c := range out {
		if c.SpreadKind != "" {
			spreads++
			if c.BuyStrike != 100 || c.SellStrike != 105 {
				t.Errorf("unexpected spread legs %v/%v", c.BuyStrike, c.SellStrike)
			}
			if c.Score != nil {
				t.Error("spread candidates must not carry a score")
			}
		} else {
			legs++
		}
	}
	if legs != 2 || spreads != 1 {
		t.Errorf("expected 2 legs and 1 spread, got %d and %d", legs, spreads)
	}
}

func TestRankCandidates_EmptyChain(t *testing.T) {
	out := RankCandidates([]SymbolCandidates{{Symbol: "EMPTY", Spot: 100}}, 2, 10, 0.05)
	if len(out) != 0 {
		t.Errorf("expected no candidates for empty chain, got %d", len(out))
	}
}
