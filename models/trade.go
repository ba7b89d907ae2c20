package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultBrokerFee is the per-contract commission applied to new trades.
var DefaultBrokerFee = decimal.NewFromFloat(0.65)

type TradeStatus string

const (
	TradeStatusOpen   TradeStatus = "open"
	TradeStatusClosed TradeStatus = "closed"
)

// Trade is an open or closed option position. The engine only reads the
// entry terms and writes back a computed current price and P&L; lifecycle
// transitions (open -> closed) belong to the caller.
type Trade struct {
	ID           uuid.UUID        `json:"id"`
	AccountID    string           `json:"account_id"`
	Symbol       string           `json:"symbol"`
	Kind         OptionKind       `json:"type"`
	Strike       decimal.Decimal  `json:"strike"`
	EntryPrice   decimal.Decimal  `json:"entry_price"`
	Quantity     int64            `json:"contracts"`
	EntryDate    time.Time        `json:"entry_date"`
	Status       TradeStatus      `json:"status"`
	BrokerFee    decimal.Decimal  `json:"broker_fee"` // per contract
	StopLoss     *decimal.Decimal `json:"stop_loss,omitempty"`
	TargetPrice  *decimal.Decimal `json:"target_price,omitempty"`
	ExitPrice    *decimal.Decimal `json:"exit_price,omitempty"`
	ExitDate     *time.Time       `json:"exit_date,omitempty"`
	CurrentPrice decimal.Decimal  `json:"current_price"`
	PnL          decimal.Decimal  `json:"pnl"`
}

// NewTrade opens a position with the default broker fee.
func NewTrade(accountID, symbol string, kind OptionKind, strike, entryPrice decimal.Decimal, quantity int64) *Trade {
	return &Trade{
		ID:         uuid.New(),
		AccountID:  accountID,
		Symbol:     symbol,
		Kind:       kind,
		Strike:     strike,
		EntryPrice: entryPrice,
		Quantity:   quantity,
		EntryDate:  time.Now(),
		Status:     TradeStatusOpen,
		BrokerFee:  DefaultBrokerFee,
	}
}

// IsOpen reports whether the position is still open.
func (t *Trade) IsOpen() bool { return t.Status == TradeStatusOpen }

// Close records the exit terms and flips the status.
func (t *Trade) Close(exitPrice decimal.Decimal) {
	now := time.Now()
	t.ExitPrice = &exitPrice
	t.ExitDate = &now
	t.Status = TradeStatusClosed
}
