package engine

import (
	"testing"

	"shadowstrike/models"

	"github.com/shopspring/decimal"
)

func openTrade(strike, entry float64, quantity int64) *models.Trade {
	return models.NewTrade("default", "SPY", models.OptionKindCall,
		decimal.NewFromFloat(strike), decimal.NewFromFloat(entry), quantity)
}

func TestValuePosition(t *testing.T) {
	trade := openTrade(450, 2.50, 5)
	chain := []models.OptionQuote{
		{Kind: models.OptionKindCall, Strike: 450, Price: 3.00},
	}

	v := ValuePosition(trade, chain)

	if !v.CurrentPrice.Equal(decimal.NewFromFloat(3.00)) {
		t.Errorf("expected current price 3.00, got %s", v.CurrentPrice)
	}
	// (3.00 - 2.50) * 5 * 100 - 0.65 * 5 = 246.75
	if !v.PnL.Equal(decimal.NewFromFloat(246.75)) {
		t.Errorf("expected pnl 246.75, got %s", v.PnL)
	}
	if v.Stale {
		t.Error("expected fresh valuation with a matching quote")
	}
}

func TestValuePosition_NoMatchFallsBackToEntry(t *testing.T) {
	trade := openTrade(450, 2.50, 5)
	chain := []models.OptionQuote{
		{Kind: models.OptionKindCall, Strike: 455, Price: 3.00},
		{Kind: models.OptionKindPut, Strike: 450, Price: 3.00},
	}

	v := ValuePosition(trade, chain)

	if !v.CurrentPrice.Equal(trade.EntryPrice) {
		t.Errorf("expected entry price fallback, got %s", v.CurrentPrice)
	}
	if !v.Stale {
		t.Error("expected stale flag without a matching quote")
	}
	// (2.50 - 2.50) * 5 * 100 - 0.65 * 5 = -3.25
	if !v.PnL.Equal(decimal.NewFromFloat(-3.25)) {
		t.Errorf("expected pnl -3.25, got %s", v.PnL)
	}
}

func TestValuePosition_Loss(t *testing.T) {
	trade := openTrade(450, 2.50, 2)
	chain := []models.OptionQuote{
		{Kind: models.OptionKindCall, Strike: 450, Price: 1.25},
	}

	v := ValuePosition(trade, chain)
	// (1.25 - 2.50) * 2 * 100 - 0.65 * 2 = -251.30
	if !v.PnL.Equal(decimal.NewFromFloat(-251.30)) {
		t.Errorf("expected pnl -251.30, got %s", v.PnL)
	}
}

func TestValuePosition_DoesNotMutateTrade(t *testing.T) {
	trade := openTrade(450, 2.50, 5)
	chain := []models.OptionQuote{
		{Kind: models.OptionKindCall, Strike: 450, Price: 3.00},
	}

	first := ValuePosition(trade, chain)
	second := ValuePosition(trade, chain)

	if !first.PnL.Equal(second.PnL) || !first.CurrentPrice.Equal(second.CurrentPrice) {
		t.Error("valuation is not idempotent")
	}
	if !trade.EntryPrice.Equal(decimal.NewFromFloat(2.50)) {
		t.Error("trade entry price was mutated")
	}
}
