package models

import (
	"fmt"
	"time"
)

// OptionKind distinguishes call and put contracts.
type OptionKind string

const (
	OptionKindCall OptionKind = "CALL"
	OptionKindPut  OptionKind = "PUT"
)

// SpreadKind identifies the vertical spread direction.
type SpreadKind string

const (
	SpreadKindBullCall SpreadKind = "BULL_CALL"
	SpreadKindBearPut  SpreadKind = "BEAR_PUT"
)

// LegKind returns the option kind the spread's legs are built from.
func (k SpreadKind) LegKind() OptionKind {
	if k == SpreadKindBearPut {
		return OptionKindPut
	}
	return OptionKindCall
}

// OptionQuote is a canonical, immutable snapshot of a single option contract.
// A fresh fetch replaces the whole chain; quotes are never mutated in place.
// Monetary fields are rounded to 2 decimals, ImpliedVolatility is a
// percentage rounded to 1 decimal (default 20.0 when the source had none).
type OptionQuote struct {
	Underlying        string     `json:"symbol"`
	Kind              OptionKind `json:"type"`
	Strike            float64    `json:"strike"`
	Expiration        time.Time  `json:"expiration"`
	Price             float64    `json:"price"`
	Bid               float64    `json:"bid"`
	Ask               float64    `json:"ask"`
	Volume            int64      `json:"volume"`
	OpenInterest      int64      `json:"open_interest"`
	ImpliedVolatility float64    `json:"implied_volatility"`
	DaysToExpiry      int        `json:"days_to_expiry"` // <= 0 means expired
}

// Expired reports whether the contract expires today or already has.
func (q OptionQuote) Expired() bool { return q.DaysToExpiry <= 0 }

// TimeToExpiryYears converts the remaining days to the year fraction used by
// the probability estimator.
func (q OptionQuote) TimeToExpiryYears() float64 {
	return float64(q.DaysToExpiry) / 365.0
}

// SpreadPosition is a derived two-leg vertical position. It is computed on
// demand and never persisted by the engine.
type SpreadPosition struct {
	Kind           SpreadKind  `json:"type"`
	Buy            OptionQuote `json:"buy_leg"`
	Sell           OptionQuote `json:"sell_leg"`
	MaxProfit      float64     `json:"max_profit"`
	MaxLoss        float64     `json:"max_loss"`
	Breakeven      float64     `json:"breakeven"`
	ProbabilityITM float64     `json:"probability_itm"`
}

// NewSpreadPosition validates the leg ordering invariant (buy and sell must
// be distinct strikes, ordered according to the spread direction).
func NewSpreadPosition(kind SpreadKind, buy, sell OptionQuote, maxProfit, maxLoss, breakeven, probITM float64) (*SpreadPosition, error) {
	if buy.Strike == sell.Strike {
		return nil, fmt.Errorf("spread legs must have distinct strikes, both %.2f", buy.Strike)
	}
	switch kind {
	case SpreadKindBullCall:
		if sell.Strike < buy.Strike {
			return nil, fmt.Errorf("bull call spread requires sell strike above buy strike (buy=%.2f sell=%.2f)", buy.Strike, sell.Strike)
		}
	case SpreadKindBearPut:
		if sell.Strike > buy.Strike {
			return nil, fmt.Errorf("bear put spread requires sell strike below buy strike (buy=%.2f sell=%.2f)", buy.Strike, sell.Strike)
		}
	default:
		return nil, fmt.Errorf("unknown spread kind %q", kind)
	}

	return &SpreadPosition{
		Kind:           kind,
		Buy:            buy,
		Sell:           sell,
		MaxProfit:      maxProfit,
		MaxLoss:        maxLoss,
		Breakeven:      breakeven,
		ProbabilityITM: probITM,
	}, nil
}
