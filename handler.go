package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"shadowstrike/config"
	"shadowstrike/models"

	"github.com/shopspring/decimal"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.-]+$`)

// APIHandler handles HTTP API requests
type APIHandler struct {
	app *App
	cfg *config.Config
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(app *App, cfg *config.Config) *APIHandler {
	return &APIHandler{app: app, cfg: cfg}
}

// handleHealth returns the health status of the application
func (h *APIHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
		"services": map[string]string{
			"database": "unknown",
		},
	}

	if h.app.repo != nil {
		if err := h.app.repo.Health(r.Context()); err == nil {
			status["services"].(map[string]string)["database"] = "connected"
		} else {
			status["services"].(map[string]string)["database"] = "disconnected"
			status["status"] = "degraded"
		}
	} else {
		status["services"].(map[string]string)["database"] = "not_configured"
	}

	h.jsonResponse(w, status)
}

// handleTop10 returns the highest-scored candidates across the watchlist
func (h *APIHandler) handleTop10(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.app.Top10(r.Context()))
}

// handleScanner returns probability-ordered candidates for ?symbols=A,B,C
func (h *APIHandler) handleScanner(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.parseSymbolsParam(r)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.jsonResponse(w, h.app.Scan(r.Context(), symbols))
}

// handleAnalyze runs the technical signal detector for a symbol
func (h *APIHandler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol string `json:"symbol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.Symbol = r.FormValue("symbol")
	}

	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if err := validateSymbol(req.Symbol); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	analysis, err := h.app.Analyze(r.Context(), req.Symbol)
	if err != nil {
		h.dataError(w, err)
		return
	}

	h.jsonResponse(w, analysis)
}

// handleTradeScenario estimates leg probabilities against a target price
func (h *APIHandler) handleTradeScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol      string  `json:"symbol"`
		TargetPrice float64 `json:"target_price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if err := validateSymbol(req.Symbol); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.TargetPrice <= 0 {
		h.jsonError(w, "target_price must be positive", http.StatusBadRequest)
		return
	}

	candidates, err := h.app.TradeScenario(r.Context(), req.Symbol, req.TargetPrice)
	if err != nil {
		h.dataError(w, err)
		return
	}

	h.jsonResponse(w, map[string]interface{}{
		"symbol":       req.Symbol,
		"target_price": req.TargetPrice,
		"candidates":   candidates,
	})
}

// handleBuildSpread constructs a vertical spread for a symbol
func (h *APIHandler) handleBuildSpread(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol string `json:"symbol"`
		Kind   string `json:"spread_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if err := validateSymbol(req.Symbol); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	kind := models.SpreadKindBullCall
	if req.Kind != "" {
		switch models.SpreadKind(strings.ToUpper(req.Kind)) {
		case models.SpreadKindBullCall:
			kind = models.SpreadKindBullCall
		case models.SpreadKindBearPut:
			kind = models.SpreadKindBearPut
		default:
			h.jsonError(w, "spread_type must be BULL_CALL or BEAR_PUT", http.StatusBadRequest)
			return
		}
	}

	spread, err := h.app.BuildSpread(r.Context(), req.Symbol, kind)
	if err != nil {
		if isNoSpread(err) {
			h.jsonError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.dataError(w, err)
		return
	}

	h.jsonResponse(w, spread)
}

// handleGetPortfolio revalues and returns an account's open positions
func (h *APIHandler) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		accountID = "default"
	}

	summary, err := h.app.Portfolio(r.Context(), accountID)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, summary)
}

// handleGetTrades returns an account's trades
func (h *APIHandler) handleGetTrades(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		accountID = "default"
	}

	trades, err := h.app.GetTrades(r.Context(), accountID, h.parseLimitParam(r, 50))
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, trades)
}

// handleCreateTrade opens a new position
func (h *APIHandler) handleCreateTrade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountID   string   `json:"account_id"`
		Symbol      string   `json:"symbol"`
		Type        string   `json:"type"`
		Strike      float64  `json:"strike"`
		EntryPrice  float64  `json:"entry_price"`
		Contracts   int64    `json:"contracts"`
		StopLoss    *float64 `json:"stop_loss"`
		TargetPrice *float64 `json:"target_price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if err := validateSymbol(req.Symbol); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Strike <= 0 || req.EntryPrice <= 0 || req.Contracts <= 0 {
		h.jsonError(w, "strike, entry_price, and contracts must be positive", http.StatusBadRequest)
		return
	}
	if req.AccountID == "" {
		req.AccountID = "default"
	}

	kind := models.OptionKindCall
	if strings.EqualFold(req.Type, string(models.OptionKindPut)) {
		kind = models.OptionKindPut
	}

	trade := models.NewTrade(req.AccountID, req.Symbol, kind,
		decimal.NewFromFloat(req.Strike), decimal.NewFromFloat(req.EntryPrice), req.Contracts)
	if req.StopLoss != nil && *req.StopLoss > 0 {
		sl := decimal.NewFromFloat(*req.StopLoss)
		trade.StopLoss = &sl
	}
	if req.TargetPrice != nil && *req.TargetPrice > 0 {
		tp := decimal.NewFromFloat(*req.TargetPrice)
		trade.TargetPrice = &tp
	}

	if err := h.app.OpenTrade(r.Context(), trade); err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	h.jsonResponse(w, trade)
}

// handleGetAlerts returns recent daily picks digests
func (h *APIHandler) handleGetAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.app.GetRecentAlerts(r.Context(), h.parseLimitParam(r, 20))
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonResponse(w, alerts)
}

// handleMarketData returns current quotes and market status
func (h *APIHandler) handleMarketData(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.parseSymbolsParam(r)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	md, err := h.app.GetMarketData(r.Context(), symbols)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	h.jsonResponse(w, md)
}

// handleTopMovers returns the watchlist's gainers and losers
func (h *APIHandler) handleTopMovers(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.parseSymbolsParam(r)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	movers, err := h.app.TopMovers(r.Context(), symbols)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	h.jsonResponse(w, movers)
}

// Helper functions

func validateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if len(symbol) > 10 {
		return fmt.Errorf("symbol too long (max 10 characters)")
	}
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format (alphanumeric, dots, and dashes only)")
	}
	return nil
}

func (h *APIHandler) parseSymbolsParam(r *http.Request) ([]string, error) {
	raw := r.URL.Query().Get("symbols")
	if raw == "" {
		return nil, nil
	}

	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if err := validateSymbol(s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, nil
}

func (h *APIHandler) parseLimitParam(r *http.Request, defaultLimit int) int {
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			return l
		}
	}
	return defaultLimit
}

// dataError maps upstream data failures to 502 and everything else to 500
func (h *APIHandler) dataError(w http.ResponseWriter, err error) {
	if isDataUnavailable(err) {
		h.jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}
	h.jsonError(w, err.Error(), http.StatusInternalServerError)
}

func (h *APIHandler) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *APIHandler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
