package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shadowstrike/config"
	"shadowstrike/engine"
	"shadowstrike/observability"
	"shadowstrike/repository"
	"shadowstrike/scheduler"
	"shadowstrike/services"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; environment variables are the source of truth
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		observability.InitLogger(false)
		observability.Fatal("invalid configuration", "error", err)
	}

	observability.InitLogger(cfg.Production)
	observability.InitMetrics()

	ctx := context.Background()

	// Database (optional; portfolio and alerts degrade without it)
	var repo *repository.Repository
	if cfg.HasDatabase() {
		repo, err = repository.NewRepository(ctx, cfg.Database.URL)
		if err != nil {
			observability.Warn("failed to initialize database, running without persistence", "error", err)
			repo = nil
		} else if err := repo.EnsureSchema(ctx); err != nil {
			observability.Fatal("failed to ensure database schema", "error", err)
		}
	} else {
		observability.Warn("DATABASE_URL not set, running without persistence")
	}

	// Market data providers
	var alpacaService *services.AlpacaService
	if cfg.HasAlpaca() {
		alpacaService = services.NewAlpacaService(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.BaseURL)
	} else {
		observability.Warn("Alpaca credentials not set, price history and quotes disabled")
	}

	var tradierService *services.TradierService
	if cfg.HasTradier() {
		tradierService = services.NewTradierService(cfg.Tradier.Token, cfg.Tradier.BaseURL, cfg.Tradier.Expirations)
	} else {
		observability.Warn("Tradier token not set, option chains disabled")
	}

	var cache services.Cache
	if repo != nil {
		cache = repo
	}
	var barProvider services.BarProvider
	var quoteProvider services.QuoteProvider
	if alpacaService != nil {
		barProvider, quoteProvider = alpacaService, alpacaService
	}
	var chainProvider services.ChainProvider
	if tradierService != nil {
		chainProvider = tradierService
	}
	marketData := services.NewMarketDataService(barProvider, quoteProvider, chainProvider, cache)

	eng := engine.New(marketData, &cfg.Engine)

	// Scheduler for daily picks
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sinks := []scheduler.AlertSink{scheduler.LogSink{}}
		if repo != nil {
			sinks = append(sinks, scheduler.RepositorySink{Repo: repo})
		}
		sched = scheduler.New(eng, cfg, sinks...)
		if err := sched.Start(); err != nil {
			observability.Fatal("failed to start scheduler", "error", err)
		}
	}

	app := NewApp(eng, repo, alpacaService, cfg)
	handler := NewAPIHandler(app, cfg)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: NewRouter(handler, cfg),
	}

	go func() {
		observability.Info("server listening", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Fatal("server failed", "error", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	observability.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		observability.Error("server shutdown failed", "error", err)
	}

	if sched != nil {
		sched.Stop()
	}
	app.shutdown()
}
