package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"shadowstrike/engine"
	"shadowstrike/observability"
)

// TradierService fetches option chains from the Tradier market data API
type TradierService struct {
	token       string
	baseURL     string
	expirations int
	httpClient  *http.Client
}

// NewTradierService creates a new TradierService instance. expirations is the
// number of near expirations fetched per chain.
func NewTradierService(token, baseURL string, expirations int) *TradierService {
	return &TradierService{
		token:       token,
		baseURL:     baseURL,
		expirations: expirations,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

type expirationsResponse struct {
	Expirations struct {
		Date []string `json:"date"`
	} `json:"expirations"`
}

type chainGreeks struct {
	MidIV float64 `json:"mid_iv"`
}

// chainOption mirrors the Tradier option chain record
type chainOption struct {
	Symbol         string       `json:"symbol"`
	Underlying     string       `json:"underlying"`
	Strike         float64      `json:"strike"`
	OptionType     string       `json:"option_type"`
	ExpirationDate string       `json:"expiration_date"`
	Bid            *float64     `json:"bid"`
	Ask            *float64     `json:"ask"`
	Last           *float64     `json:"last"`
	Volume         *int64       `json:"volume"`
	OpenInterest   *int64       `json:"open_interest"`
	Greeks         *chainGreeks `json:"greeks"`
}

type chainResponse struct {
	Options struct {
		Option []chainOption `json:"option"`
	} `json:"options"`
}

// GetOptionChain returns raw option records for the symbol's nearest
// expirations. Records pass through unfiltered so the normalizer owns
// validation and defaulting.
func (s *TradierService) GetOptionChain(ctx context.Context, symbol string) ([]engine.RawOptionQuote, error) {
	dates, err := s.getExpirations(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(dates) > s.expirations {
		dates = dates[:s.expirations]
	}

	var raw []engine.RawOptionQuote
	for _, date := range dates {
		options, err := s.getChain(ctx, symbol, date)
		if err != nil {
			return nil, err
		}
		for _, opt := range options {
			q := engine.RawOptionQuote{
				Underlying:   symbol,
				Kind:         opt.OptionType,
				Strike:       opt.Strike,
				Expiration:   opt.ExpirationDate,
				Last:         opt.Last,
				Bid:          opt.Bid,
				Ask:          opt.Ask,
				Volume:       opt.Volume,
				OpenInterest: opt.OpenInterest,
			}
			if opt.Greeks != nil && opt.Greeks.MidIV > 0 {
				iv := opt.Greeks.MidIV
				q.ImpliedVolatility = &iv
			}
			raw = append(raw, q)
		}
	}

	return raw, nil
}

func (s *TradierService) getExpirations(ctx context.Context, symbol string) ([]string, error) {
	timer := observability.GetMetrics().NewTimer()
	defer timer.ObserveExternalAPI("tradier", "expirations")
	observability.GetMetrics().RecordExternalAPIRequest("tradier", "expirations")

	var resp expirationsResponse
	err := s.get(ctx, "/markets/options/expirations", map[string]string{
		"symbol": symbol,
	}, &resp)
	if err != nil {
		observability.GetMetrics().RecordExternalAPIError("tradier", "expirations", "fetch")
		return nil, fmt.Errorf("failed to fetch expirations for %s: %w", symbol, err)
	}

	return resp.Expirations.Date, nil
}

func (s *TradierService) getChain(ctx context.Context, symbol, expiration string) ([]chainOption, error) {
	timer := observability.GetMetrics().NewTimer()
	defer timer.ObserveExternalAPI("tradier", "chains")
	observability.GetMetrics().RecordExternalAPIRequest("tradier", "chains")

	var resp chainResponse
	err := s.get(ctx, "/markets/options/chains", map[string]string{
		"symbol":     symbol,
		"expiration": expiration,
		"greeks":     "true",
	}, &resp)
	if err != nil {
		observability.GetMetrics().RecordExternalAPIError("tradier", "chains", "fetch")
		return nil, fmt.Errorf("failed to fetch chain for %s %s: %w", symbol, expiration, err)
	}

	return resp.Options.Option, nil
}

// get performs an authenticated GET against the Tradier API with retry and
// circuit breaker protection, decoding the JSON body into out.
func (s *TradierService) get(ctx context.Context, path string, params map[string]string, out any) error {
	_, err := WithCircuitBreaker(ctx, BreakerTradier, func() (struct{}, error) {
		return struct{}{}, WithRetry(ctx, DefaultRetryConfig, func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
			if err != nil {
				return fmt.Errorf("failed to create request: %w", err)
			}

			q := req.URL.Query()
			for k, v := range params {
				q.Add(k, v)
			}
			req.URL.RawQuery = q.Encode()
			req.Header.Add("Accept", "application/json")
			req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", s.token))

			res, err := s.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			defer res.Body.Close()

			if res.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %v", res.Status)
			}

			if err := json.NewDecoder(res.Body).Decode(out); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			return nil
		})
	})
	return err
}
