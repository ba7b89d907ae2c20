package scheduler

import (
	"context"
	"fmt"
	"strings"

	"shadowstrike/config"
	"shadowstrike/engine"
	"shadowstrike/models"
	"shadowstrike/observability"

	"github.com/robfig/cron/v3"
)

// AlertSink receives the daily picks digest. Implementations decide delivery:
// the log sink for headless deployments, the repository sink for persistence.
type AlertSink interface {
	Send(ctx context.Context, alert *models.Alert) error
}

// Scheduler runs the recurring daily picks job over the watchlist
type Scheduler struct {
	cron   *cron.Cron
	engine *engine.Engine
	cfg    *config.Config
	sinks  []AlertSink
}

// New creates a Scheduler over the given engine and alert sinks
func New(eng *engine.Engine, cfg *config.Config, sinks ...AlertSink) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		engine: eng,
		cfg:    cfg,
		sinks:  sinks,
	}
}

// Start registers the daily picks job and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Scheduler.CronExpr, s.runDailyPicks); err != nil {
		return fmt.Errorf("register daily picks job: %w", err)
	}
	s.cron.Start()
	observability.Info("scheduler started", "cron", s.cfg.Scheduler.CronExpr)
	return nil
}

// Stop stops the cron loop, waiting for any running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	observability.Info("scheduler stopped")
}

func (s *Scheduler) runDailyPicks() {
	ctx := context.Background()
	logger := observability.WithJob("daily_picks")
	logger.Info("daily picks job starting", "watchlist", s.cfg.Engine.Watchlist)

	picks := s.engine.ScanCandidates(ctx, s.cfg.Engine.Watchlist, s.cfg.Engine.TopK)
	if len(picks) == 0 {
		logger.Info("daily picks job finished, no candidates")
		return
	}

	alert := models.NewAlert(models.AlertKindDailyPicks, "Daily Option Picks", FormatDigest(picks))
	for _, sink := range s.sinks {
		if err := sink.Send(ctx, alert); err != nil {
			logger.Error("failed to deliver daily picks", "error", err)
		}
	}

	logger.Info("daily picks job finished", "candidates", len(picks))
}

// FormatDigest renders ranked candidates as a plain-text digest
func FormatDigest(picks []models.TradeCandidate) string {
	var b strings.Builder
	for i, p := range picks {
		if p.SpreadKind != "" {
			fmt.Fprintf(&b, "%d. %s %s buy %.2f / sell %.2f exp %s: max profit %.2f, max loss %.2f, breakeven %.2f\n",
				i+1, p.Symbol, p.SpreadKind, p.BuyStrike, p.SellStrike,
				p.Expiration.Format("2006-01-02"), p.MaxProfit, p.MaxLoss, p.Breakeven)
			continue
		}
		fmt.Fprintf(&b, "%d. %s %s %.2f exp %s @ %.2f: ITM %.1f%%, score %.1f\n",
			i+1, p.Symbol, p.Kind, p.Strike,
			p.Expiration.Format("2006-01-02"), p.Price, p.ProbabilityITM, p.EffectiveScore())
	}
	return b.String()
}
