package models

import (
	"fmt"
	"time"
)

// TradeCandidate is the unit returned to callers by the recommendation
// ranker: either a single option leg or a vertical spread, with its
// probability estimate and score.
type TradeCandidate struct {
	Symbol         string         `json:"symbol"`
	Kind           OptionKind     `json:"type,omitempty"`
	SpreadKind     SpreadKind     `json:"spread_type,omitempty"`
	Strike         float64        `json:"strike,omitempty"`
	BuyStrike      float64        `json:"buy_strike,omitempty"`
	SellStrike     float64        `json:"sell_strike,omitempty"`
	Expiration     time.Time      `json:"expiration"`
	Price          float64        `json:"price"`
	ProbabilityITM float64        `json:"probability_itm"`
	ProbabilityOTM float64        `json:"probability_otm"`
	MaxProfit      float64        `json:"max_profit,omitempty"`
	MaxLoss        float64        `json:"max_loss,omitempty"`
	Breakeven      float64        `json:"breakeven,omitempty"`
	Signals        []Signal       `json:"signals,omitempty"`
	Recommendation Recommendation `json:"recommendation,omitempty"`
	Score          *float64       `json:"score,omitempty"`
}

// NewLegCandidate builds a single-leg candidate, enforcing the probability
// complement invariant at construction time.
func NewLegCandidate(symbol string, leg OptionQuote, probITM, probOTM float64, signals []Signal) (*TradeCandidate, error) {
	if probITM+probOTM != 100.0 {
		return nil, fmt.Errorf("probabilities must sum to 100, got itm=%.1f otm=%.1f", probITM, probOTM)
	}
	return &TradeCandidate{
		Symbol:         symbol,
		Kind:           leg.Kind,
		Strike:         leg.Strike,
		Expiration:     leg.Expiration,
		Price:          leg.Price,
		ProbabilityITM: probITM,
		ProbabilityOTM: probOTM,
		Signals:        signals,
	}, nil
}

// NewSpreadCandidate builds a candidate from a constructed vertical spread.
// Spread candidates carry no score and rank by probability ITM alone.
func NewSpreadCandidate(symbol string, spread *SpreadPosition) *TradeCandidate {
	return &TradeCandidate{
		Symbol:         symbol,
		SpreadKind:     spread.Kind,
		BuyStrike:      spread.Buy.Strike,
		SellStrike:     spread.Sell.Strike,
		Expiration:     spread.Buy.Expiration,
		Price:          spread.Buy.Price,
		ProbabilityITM: spread.ProbabilityITM,
		ProbabilityOTM: 100 - spread.ProbabilityITM,
		MaxProfit:      spread.MaxProfit,
		MaxLoss:        spread.MaxLoss,
		Breakeven:      spread.Breakeven,
	}
}

// SetScore assigns the ranker score.
func (c *TradeCandidate) SetScore(score float64) {
	c.Score = &score
}

// EffectiveScore is the value candidates are ordered by: the score when one
// was assigned, otherwise the probability ITM.
func (c *TradeCandidate) EffectiveScore() float64 {
	if c.Score != nil {
		return *c.Score
	}
	return c.ProbabilityITM
}
