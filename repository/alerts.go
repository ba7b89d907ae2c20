package repository

import (
	"context"
	"fmt"

	"shadowstrike/models"
	"shadowstrike/observability"
)

// CreateAlert persists a notification record
func (r *Repository) CreateAlert(ctx context.Context, a *models.Alert) error {
	timer := observability.GetMetrics().NewTimer()
	defer timer.ObserveDB("insert", "alerts")

	_, err := r.db.Exec(ctx, `
		INSERT INTO alerts (id, kind, subject, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, a.ID, a.Kind, a.Subject, a.Body, a.CreatedAt)
	if err != nil {
		observability.GetMetrics().RecordDBError("insert", "alerts")
		return fmt.Errorf("failed to create alert: %w", err)
	}

	return nil
}

// GetRecentAlerts returns the most recent alerts of a kind
func (r *Repository) GetRecentAlerts(ctx context.Context, kind models.AlertKind, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 20
	}

	timer := observability.GetMetrics().NewTimer()
	defer timer.ObserveDB("select", "alerts")

	rows, err := r.db.Query(ctx, `
		SELECT id, kind, subject, body, created_at
		FROM alerts
		WHERE kind = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, kind, limit)
	if err != nil {
		observability.GetMetrics().RecordDBError("select", "alerts")
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.ID, &a.Kind, &a.Subject, &a.Body, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}
