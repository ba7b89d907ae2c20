package services

import (
	"context"
	"fmt"
	"time"

	"shadowstrike/models"
	"shadowstrike/observability"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// AlpacaService handles communication with Alpaca for equity market data
type AlpacaService struct {
	tradeClient *alpaca.Client
	dataClient  *marketdata.Client
}

// NewAlpacaService creates a new AlpacaService instance
func NewAlpacaService(apiKey, apiSecret, baseURL string) *AlpacaService {
	tradeClient := alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   baseURL,
	})

	dataClient := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	})

	return &AlpacaService{
		tradeClient: tradeClient,
		dataClient:  dataClient,
	}
}

// GetDailyBars returns daily bars for the last N calendar days
func (s *AlpacaService) GetDailyBars(ctx context.Context, symbol string, days int) ([]models.PriceBar, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	timer := observability.GetMetrics().NewTimer()
	defer timer.ObserveExternalAPI("alpaca", "bars")
	observability.GetMetrics().RecordExternalAPIRequest("alpaca", "bars")

	bars, err := WithCircuitBreaker(ctx, BreakerAlpaca, func() ([]marketdata.Bar, error) {
		var result []marketdata.Bar
		retryErr := WithRetry(ctx, DefaultRetryConfig, func() error {
			var err error
			result, err = s.dataClient.GetBars(symbol, marketdata.GetBarsRequest{
				TimeFrame: marketdata.OneDay,
				Start:     start,
				End:       end,
			})
			return err
		})
		return result, retryErr
	})
	if err != nil {
		observability.GetMetrics().RecordExternalAPIError("alpaca", "bars", "fetch")
		return nil, fmt.Errorf("failed to get bars for %s: %w", symbol, err)
	}

	result := make([]models.PriceBar, 0, len(bars))
	for _, bar := range bars {
		result = append(result, models.PriceBar{
			Timestamp: bar.Timestamp,
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			Volume:    int64(bar.Volume),
		})
	}

	return result, nil
}

// GetQuote returns the latest price for a symbol along with its change from
// the previous daily close
func (s *AlpacaService) GetQuote(ctx context.Context, symbol string) (*models.StockQuote, error) {
	timer := observability.GetMetrics().NewTimer()
	defer timer.ObserveExternalAPI("alpaca", "snapshot")
	observability.GetMetrics().RecordExternalAPIRequest("alpaca", "snapshot")

	snapshot, err := WithCircuitBreaker(ctx, BreakerAlpaca, func() (*marketdata.Snapshot, error) {
		var result *marketdata.Snapshot
		retryErr := WithRetry(ctx, DefaultRetryConfig, func() error {
			var err error
			result, err = s.dataClient.GetSnapshot(symbol, marketdata.GetSnapshotRequest{})
			return err
		})
		return result, retryErr
	})
	if err != nil {
		observability.GetMetrics().RecordExternalAPIError("alpaca", "snapshot", "fetch")
		return nil, fmt.Errorf("failed to get snapshot for %s: %w", symbol, err)
	}
	if snapshot == nil || snapshot.LatestTrade == nil {
		return nil, fmt.Errorf("no trade data for %s", symbol)
	}

	quote := &models.StockQuote{
		Symbol:    symbol,
		Price:     snapshot.LatestTrade.Price,
		Timestamp: snapshot.LatestTrade.Timestamp,
	}

	if snapshot.PrevDailyBar != nil && snapshot.PrevDailyBar.Close > 0 {
		quote.Change = quote.Price - snapshot.PrevDailyBar.Close
		quote.ChangePercent = quote.Change / snapshot.PrevDailyBar.Close * 100
	}

	return quote, nil
}

// GetMarketStatus returns the current market clock
func (s *AlpacaService) GetMarketStatus(ctx context.Context) (*models.MarketStatus, error) {
	clock, err := WithCircuitBreaker(ctx, BreakerAlpaca, func() (*alpaca.Clock, error) {
		return s.tradeClient.GetClock()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get market clock: %w", err)
	}

	status := "closed"
	if clock.IsOpen {
		status = "open"
	}

	return &models.MarketStatus{
		Status:    status,
		IsOpen:    clock.IsOpen,
		NextOpen:  clock.NextOpen,
		NextClose: clock.NextClose,
	}, nil
}
