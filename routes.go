package main

import (
	"net/http"
	"strconv"
	"time"

	"shadowstrike/config"
	"shadowstrike/observability"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates and configures a Chi router with all routes
func NewRouter(h *APIHandler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second))
	r.Use(corsMiddleware(cfg.HTTP.CORSAllowedOrigins))
	r.Use(metricsMiddleware)

	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)

		// Analytics
		r.Get("/top10", h.handleTop10)
		r.Get("/scanner", h.handleScanner)
		r.Post("/analyze", h.handleAnalyze)
		r.Post("/trade-scenario", h.handleTradeScenario)
		r.Post("/spread", h.handleBuildSpread)

		// Portfolio
		r.Get("/portfolio", h.handleGetPortfolio)
		r.Route("/trades", func(r chi.Router) {
			r.Get("/", h.handleGetTrades)
			r.Post("/", h.handleCreateTrade)
		})

		// Alerts and market overview
		r.Get("/alerts", h.handleGetAlerts)
		r.Get("/market-data", h.handleMarketData)
		r.Get("/movers", h.handleTopMovers)
	})

	return r
}

// corsMiddleware returns CORS middleware with the specified allowed origins
func corsMiddleware(allowedOrigins string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// metricsMiddleware records request counts and latencies per route
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = r.URL.Path
		}
		observability.GetMetrics().RecordHTTPRequest(
			r.Method, routePattern, strconv.Itoa(ww.Status()), time.Since(start))
	})
}
