package scheduler

import (
	"context"

	"shadowstrike/models"
	"shadowstrike/observability"
	"shadowstrike/repository"
)

// LogSink writes alerts to the application log
type LogSink struct{}

func (LogSink) Send(_ context.Context, alert *models.Alert) error {
	observability.Info("alert",
		"kind", alert.Kind,
		"subject", alert.Subject,
		"body", alert.Body)
	return nil
}

// RepositorySink persists alerts to the database
type RepositorySink struct {
	Repo *repository.Repository
}

func (s RepositorySink) Send(ctx context.Context, alert *models.Alert) error {
	return s.Repo.CreateAlert(ctx, alert)
}

var _ AlertSink = LogSink{}
var _ AlertSink = RepositorySink{}
