package services

import (
	"context"

	"shadowstrike/engine"
	"shadowstrike/models"
)

// BarProvider supplies daily price history for a symbol
type BarProvider interface {
	GetDailyBars(ctx context.Context, symbol string, days int) ([]models.PriceBar, error)
}

// QuoteProvider supplies the latest price for a symbol
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (*models.StockQuote, error)
}

// ChainProvider supplies raw option chains for a symbol
type ChainProvider interface {
	GetOptionChain(ctx context.Context, symbol string) ([]engine.RawOptionQuote, error)
}

// Compile-time interface verification
var _ BarProvider = (*AlpacaService)(nil)
var _ QuoteProvider = (*AlpacaService)(nil)
var _ ChainProvider = (*TradierService)(nil)
var _ engine.MarketData = (*MarketDataService)(nil)
