package engine

import (
	"github.com/shopspring/decimal"

	"shadowstrike/models"
)

// ContractMultiplier is the share-per-contract multiplier for equity options.
var ContractMultiplier = decimal.NewFromInt(100)

// Valuation is the recomputed state of an open position against a chain
// snapshot. Stale means no exact (kind, strike) match was found and the entry
// price was used as the current price.
type Valuation struct {
	CurrentPrice decimal.Decimal `json:"current_price"`
	PnL          decimal.Decimal `json:"pnl"`
	Stale        bool            `json:"stale,omitempty"`
}

// ValuePosition recomputes live P&L for an open position given the current
// normalized chain:
//
//	pnl = (current - entry) * quantity * 100 - fee * quantity
//
// The match is exact (kind, strike) equality; with no match the position is
// valued at its entry price and flagged stale rather than failing. The input
// trade is never mutated, so the function is idempotent across chain
// snapshots.
func ValuePosition(t *models.Trade, chain []models.OptionQuote) Valuation {
	current := t.EntryPrice
	stale := true
	for _, q := range chain {
		if q.Kind == t.Kind && decimal.NewFromFloat(q.Strike).Equal(t.Strike) {
			current = decimal.NewFromFloat(q.Price)
			stale = false
			break
		}
	}

	quantity := decimal.NewFromInt(t.Quantity)
	pnl := current.Sub(t.EntryPrice).Mul(quantity).Mul(ContractMultiplier).
		Sub(t.BrokerFee.Mul(quantity))

	return Valuation{
		CurrentPrice: current,
		PnL:          pnl.Round(2),
		Stale:        stale,
	}
}
