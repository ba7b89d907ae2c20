package main

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"shadowstrike/config"
	"shadowstrike/engine"
	"shadowstrike/models"
	"shadowstrike/observability"
	"shadowstrike/repository"
	"shadowstrike/services"

	"github.com/shopspring/decimal"
)

// App wires the analytics engine to persistence and market status. All HTTP
// handlers go through it.
type App struct {
	engine *engine.Engine
	repo   *repository.Repository
	alpaca *services.AlpacaService
	cfg    *config.Config
}

// NewApp creates a new App. repo and alpaca may be nil; the corresponding
// surfaces degrade instead of failing at startup.
func NewApp(eng *engine.Engine, repo *repository.Repository, alpaca *services.AlpacaService, cfg *config.Config) *App {
	return &App{
		engine: eng,
		repo:   repo,
		alpaca: alpaca,
		cfg:    cfg,
	}
}

func (a *App) shutdown() {
	if a.repo != nil {
		a.repo.Close()
	}
}

// Top10 returns the highest-scored candidates across the watchlist
func (a *App) Top10(ctx context.Context) []models.TradeCandidate {
	return a.engine.ScanCandidates(ctx, a.cfg.Engine.Watchlist, a.cfg.Engine.TopK)
}

// Scan returns probability-ordered candidates for the given symbols, falling
// back to the watchlist when none are given
func (a *App) Scan(ctx context.Context, symbols []string) []models.TradeCandidate {
	if len(symbols) == 0 {
		symbols = a.cfg.Engine.Watchlist
	}
	return a.engine.ScanByProbability(ctx, symbols, a.cfg.Engine.TopK)
}

// Analyze runs the technical signal detector for a single symbol
func (a *App) Analyze(ctx context.Context, symbol string) (*models.Analysis, error) {
	timer := observability.GetMetrics().NewTimer()
	observability.GetMetrics().RecordAnalysisRequest(symbol)

	analysis, err := a.engine.Analyze(ctx, symbol)
	if err != nil {
		timer.ObserveAnalysis(symbol, "error")
		observability.GetMetrics().RecordAnalysisError(symbol, "data_unavailable")
		return nil, err
	}

	timer.ObserveAnalysis(symbol, "ok")
	observability.GetMetrics().RecordRecommendation(string(analysis.Recommendation))
	for _, sig := range analysis.Signals {
		observability.GetMetrics().RecordSignal(string(sig))
	}
	return analysis, nil
}

// TradeScenario estimates leg probabilities against a hypothetical price
func (a *App) TradeScenario(ctx context.Context, symbol string, targetPrice float64) ([]models.TradeCandidate, error) {
	return a.engine.TradeScenario(ctx, symbol, targetPrice)
}

// BuildSpread constructs a vertical spread from the symbol's current chain
func (a *App) BuildSpread(ctx context.Context, symbol string, kind models.SpreadKind) (*models.SpreadPosition, error) {
	return a.engine.BuildSpread(ctx, symbol, kind)
}

// PortfolioSummary is an account's open positions revalued against live chains
type PortfolioSummary struct {
	AccountID string         `json:"account_id"`
	Positions []models.Trade `json:"positions"`
	TotalPnL  float64        `json:"total_pnl"`
	Count     int            `json:"count"`
}

// Portfolio revalues an account's open trades and writes the results back.
// A symbol whose chain is unavailable keeps its last stored valuation.
func (a *App) Portfolio(ctx context.Context, accountID string) (*PortfolioSummary, error) {
	if a.repo == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	trades, err := a.repo.GetOpenTrades(ctx, accountID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for i := range trades {
		v, err := a.engine.ValueOpenTrade(ctx, &trades[i])
		if err != nil {
			observability.WithSymbol(trades[i].Symbol).Warn("keeping stored valuation", "error", err)
			total = total.Add(trades[i].PnL)
			continue
		}

		trades[i].CurrentPrice = v.CurrentPrice
		trades[i].PnL = v.PnL
		total = total.Add(v.PnL)

		if err := a.repo.UpdateValuation(ctx, trades[i].ID, v.CurrentPrice, v.PnL); err != nil {
			observability.WithError(err).Warn("failed to persist valuation", "trade_id", trades[i].ID)
		}
	}

	totalPnL, _ := total.Round(2).Float64()
	return &PortfolioSummary{
		AccountID: accountID,
		Positions: trades,
		TotalPnL:  totalPnL,
		Count:     len(trades),
	}, nil
}

// OpenTrade persists a new open position
func (a *App) OpenTrade(ctx context.Context, t *models.Trade) error {
	if a.repo == nil {
		return fmt.Errorf("database not initialized")
	}
	return a.repo.CreateTrade(ctx, t)
}

// GetTrades returns an account's trades, newest first
func (a *App) GetTrades(ctx context.Context, accountID string, limit int) ([]models.Trade, error) {
	if a.repo == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return a.repo.GetTrades(ctx, accountID, limit)
}

// GetRecentAlerts returns recent daily picks digests
func (a *App) GetRecentAlerts(ctx context.Context, limit int) ([]models.Alert, error) {
	if a.repo == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return a.repo.GetRecentAlerts(ctx, models.AlertKindDailyPicks, limit)
}

// MarketData is the market overview: per-symbol quotes plus the market clock
type MarketData struct {
	Quotes []models.StockQuote  `json:"quotes"`
	Status *models.MarketStatus `json:"status,omitempty"`
}

// GetMarketData returns current quotes for the given symbols along with
// market open/close status
func (a *App) GetMarketData(ctx context.Context, symbols []string) (*MarketData, error) {
	if a.alpaca == nil {
		return nil, fmt.Errorf("market data provider not configured")
	}
	if len(symbols) == 0 {
		symbols = a.cfg.Engine.Watchlist
	}

	md := &MarketData{Quotes: make([]models.StockQuote, 0, len(symbols))}
	for _, symbol := range symbols {
		q, err := a.alpaca.GetQuote(ctx, symbol)
		if err != nil {
			observability.WithSymbol(symbol).Warn("skipping quote", "error", err)
			continue
		}
		md.Quotes = append(md.Quotes, *q)
	}

	status, err := a.alpaca.GetMarketStatus(ctx)
	if err != nil {
		observability.Warn("market status unavailable", "error", err)
	} else {
		md.Status = status
	}

	return md, nil
}

// TopMovers partitions the watchlist's quotes into gainers and losers,
// ordered by magnitude of the day's percent change
func (a *App) TopMovers(ctx context.Context, symbols []string) (*models.TopMovers, error) {
	md, err := a.GetMarketData(ctx, symbols)
	if err != nil {
		return nil, err
	}

	movers := &models.TopMovers{
		Gainers: []models.StockQuote{},
		Losers:  []models.StockQuote{},
	}
	for _, q := range md.Quotes {
		if q.ChangePercent >= 0 {
			movers.Gainers = append(movers.Gainers, q)
		} else {
			movers.Losers = append(movers.Losers, q)
		}
	}
	sort.SliceStable(movers.Gainers, func(i, j int) bool {
		return movers.Gainers[i].ChangePercent > movers.Gainers[j].ChangePercent
	})
	sort.SliceStable(movers.Losers, func(i, j int) bool {
		return movers.Losers[i].ChangePercent < movers.Losers[j].ChangePercent
	})
	return movers, nil
}

// isDataUnavailable reports whether the error is an upstream data failure
func isDataUnavailable(err error) bool {
	return errors.Is(err, engine.ErrDataUnavailable)
}

// isNoSpread reports whether the chain cannot support the requested spread
func isNoSpread(err error) bool {
	return errors.Is(err, engine.ErrNoSpreadAvailable)
}
