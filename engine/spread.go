package engine

import (
	"shadowstrike/models"
)

// BuildVerticalSpread selects two legs of the requested kind from a
// normalized chain and derives the spread's bounded economics.
//
// BULL_CALL buys the lowest call strike and sells the next strike above it;
// BEAR_PUT buys the highest put strike and sells the next strike below it.
// When no qualifying sell leg exists the constructor fails with
// ErrNoSpreadAvailable, which callers treat as "omit from results".
func BuildVerticalSpread(spot float64, chain []models.OptionQuote, kind models.SpreadKind, riskFreeRate float64) (*models.SpreadPosition, error) {
	legs := filterKind(chain, kind.LegKind())
	if len(legs) == 0 {
		return nil, ErrNoSpreadAvailable
	}

	var buy, sell *models.OptionQuote
	switch kind {
	case models.SpreadKindBullCall:
		buy = lowestStrike(legs)
		sell = lowestStrikeAbove(legs, buy.Strike)
	case models.SpreadKindBearPut:
		buy = highestStrike(legs)
		sell = highestStrikeBelow(legs, buy.Strike)
	default:
		return nil, ErrNoSpreadAvailable
	}
	if sell == nil {
		return nil, ErrNoSpreadAvailable
	}

	debit := buy.Price - sell.Price
	width := sell.Strike - buy.Strike
	breakeven := buy.Strike + debit
	if kind == models.SpreadKindBearPut {
		width = buy.Strike - sell.Strike
		breakeven = buy.Strike - debit
	}

	probITM, _ := EstimateITM(spot, buy.Strike, buy.TimeToExpiryYears(), riskFreeRate,
		buy.ImpliedVolatility/100, buy.Kind)

	return models.NewSpreadPosition(kind, *buy, *sell,
		round2((width-debit)*100), round2(debit*100), round2(breakeven), probITM)
}

func filterKind(chain []models.OptionQuote, kind models.OptionKind) []models.OptionQuote {
	legs := make([]models.OptionQuote, 0, len(chain))
	for _, q := range chain {
		if q.Kind == kind {
			legs = append(legs, q)
		}
	}
	return legs
}

func lowestStrike(legs []models.OptionQuote) *models.OptionQuote {
	best := &legs[0]
	for i := range legs {
		if legs[i].Strike < best.Strike {
			best = &legs[i]
		}
	}
	return best
}

func highestStrike(legs []models.OptionQuote) *models.OptionQuote {
	best := &legs[0]
	for i := range legs {
		if legs[i].Strike > best.Strike {
			best = &legs[i]
		}
	}
	return best
}

func lowestStrikeAbove(legs []models.OptionQuote, strike float64) *models.OptionQuote {
	var best *models.OptionQuote
	for i := range legs {
		if legs[i].Strike <= strike {
			continue
		}
		if best == nil || legs[i].Strike < best.Strike {
			best = &legs[i]
		}
	}
	return best
}

func highestStrikeBelow(legs []models.OptionQuote, strike float64) *models.OptionQuote {
	var best *models.OptionQuote
	for i := range legs {
		if legs[i].Strike >= strike {
			continue
		}
		if best == nil || legs[i].Strike > best.Strike {
			best = &legs[i]
		}
	}
	return best
}
