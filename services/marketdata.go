package services

import (
	"context"
	"fmt"
	"time"

	"shadowstrike/engine"
	"shadowstrike/models"
	"shadowstrike/observability"
)

// Cache is an optional read-through cache for fetched market data. A nil
// cache disables caching; cache errors degrade to a fetch, never a failure.
type Cache interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

const (
	barsCacheTTL  = 15 * time.Minute
	chainCacheTTL = 5 * time.Minute
)

// MarketDataService composes the equity and options providers behind the
// engine's MarketData interface
type MarketDataService struct {
	bars   BarProvider
	quotes QuoteProvider
	chains ChainProvider
	cache  Cache
}

// NewMarketDataService creates a provider over the given upstream services.
// cache may be nil.
func NewMarketDataService(bars BarProvider, quotes QuoteProvider, chains ChainProvider, cache Cache) *MarketDataService {
	return &MarketDataService{
		bars:   bars,
		quotes: quotes,
		chains: chains,
		cache:  cache,
	}
}

// PriceHistory returns daily bars for the symbol, oldest first
func (s *MarketDataService) PriceHistory(ctx context.Context, symbol string, days int) ([]models.PriceBar, error) {
	if s.bars == nil {
		return nil, fmt.Errorf("price history provider not configured")
	}
	key := fmt.Sprintf("bars:%s:%d", symbol, days)

	var cached []models.PriceBar
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}

	bars, err := s.bars.GetDailyBars(ctx, symbol, days)
	if err != nil {
		return nil, err
	}

	s.store(ctx, key, bars, barsCacheTTL)
	return bars, nil
}

// OptionChain returns the raw option chain for the symbol
func (s *MarketDataService) OptionChain(ctx context.Context, symbol string) ([]engine.RawOptionQuote, error) {
	if s.chains == nil {
		return nil, fmt.Errorf("option chain provider not configured")
	}
	key := fmt.Sprintf("chain:%s", symbol)

	var cached []engine.RawOptionQuote
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}

	chain, err := s.chains.GetOptionChain(ctx, symbol)
	if err != nil {
		return nil, err
	}

	s.store(ctx, key, chain, chainCacheTTL)
	return chain, nil
}

// Quote returns the latest price for the symbol. Quotes are never cached.
func (s *MarketDataService) Quote(ctx context.Context, symbol string) (*models.StockQuote, error) {
	if s.quotes == nil {
		return nil, fmt.Errorf("quote provider not configured")
	}
	return s.quotes.GetQuote(ctx, symbol)
}

func (s *MarketDataService) lookup(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, out)
	if err != nil {
		observability.Warn("market data cache read failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (s *MarketDataService) store(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		observability.Warn("market data cache write failed", "key", key, "error", err)
	}
}
