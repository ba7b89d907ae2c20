package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTradierStub(t *testing.T, dates []string, optionsByDate map[string][]chainOption) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected Authorization header %q", got)
		}

		switch r.URL.Path {
		case "/markets/options/expirations":
			var resp expirationsResponse
			resp.Expirations.Date = dates
			json.NewEncoder(w).Encode(resp)
		case "/markets/options/chains":
			if got := r.URL.Query().Get("greeks"); got != "true" {
				t.Errorf("expected greeks=true, got %q", got)
			}
			var resp chainResponse
			resp.Options.Option = optionsByDate[r.URL.Query().Get("expiration")]
			json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestGetOptionChain(t *testing.T) {
	last := 5.25
	bid := 5.20
	ask := 5.30

	server := newTradierStub(t,
		[]string{"2026-09-18", "2026-10-16", "2026-11-20"},
		map[string][]chainOption{
			"2026-09-18": {
				{
					Symbol:         "SPY260918C00450000",
					Underlying:     "SPY",
					Strike:         450,
					OptionType:     "call",
					ExpirationDate: "2026-09-18",
					Last:           &last,
					Bid:            &bid,
					Ask:            &ask,
					Greeks:         &chainGreeks{MidIV: 0.235},
				},
			},
			"2026-10-16": {
				{
					Symbol:         "SPY261016P00440000",
					Underlying:     "SPY",
					Strike:         440,
					OptionType:     "put",
					ExpirationDate: "2026-10-16",
					Last:           &last,
					Greeks:         &chainGreeks{MidIV: 0},
				},
			},
		})
	defer server.Close()

	svc := NewTradierService("test-token", server.URL, 2)
	raw, err := svc.GetOptionChain(context.Background(), "SPY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two expirations requested out of three available.
	if len(raw) != 2 {
		t.Fatalf("expected 2 records, got %d", len(raw))
	}

	call := raw[0]
	if call.Kind != "call" || call.Strike != 450 || call.Expiration != "2026-09-18" {
		t.Errorf("unexpected call record: %+v", call)
	}
	if call.Last == nil || *call.Last != 5.25 {
		t.Errorf("expected last 5.25, got %v", call.Last)
	}
	if call.ImpliedVolatility == nil || *call.ImpliedVolatility != 0.235 {
		t.Errorf("expected mid_iv 0.235, got %v", call.ImpliedVolatility)
	}

	put := raw[1]
	if put.Kind != "put" || put.Strike != 440 {
		t.Errorf("unexpected put record: %+v", put)
	}
	if put.ImpliedVolatility != nil {
		t.Errorf("zero mid_iv must map to no implied volatility, got %v", *put.ImpliedVolatility)
	}
}

func TestGetOptionChain_NoExpirations(t *testing.T) {
	server := newTradierStub(t, nil, nil)
	defer server.Close()

	svc := NewTradierService("test-token", server.URL, 5)
	raw, err := svc.GetOptionChain(context.Background(), "SPY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raw) != 0 {
		t.Errorf("expected empty chain, got %d records", len(raw))
	}
}

func TestGetOptionChain_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := NewTradierService("test-token", server.URL, 5)
	svc.httpClient = server.Client()

	if _, err := svc.GetOptionChain(context.Background(), "SPY"); err == nil {
		t.Fatal("expected error from upstream failure")
	}
}
