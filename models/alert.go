package models

import (
	"time"

	"github.com/google/uuid"
)

type AlertKind string

const (
	AlertKindDailyPicks AlertKind = "daily_picks"
)

// Alert is a persisted notification, such as the scheduled daily picks digest.
type Alert struct {
	ID        uuid.UUID `json:"id"`
	Kind      AlertKind `json:"kind"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAlert creates an alert stamped with the current time.
func NewAlert(kind AlertKind, subject, body string) *Alert {
	return &Alert{
		ID:        uuid.New(),
		Kind:      kind,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now(),
	}
}
