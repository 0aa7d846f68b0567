package service

import (
	"github.com/google/uuid"

	"github.com/persistorai/citegraph/internal/models"
)

// EventPublisher receives progress events for the event stream.
type EventPublisher interface {
	Publish(eventType string, data any)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, any) {}

type expandEvent struct {
	Sources []models.DocumentID `json:"sources"`
	models.DepthBudget
	Nodes int           `json:"nodes"`
	Links int           `json:"links"`
	Score *models.Score `json:"score,omitempty"`
	RunID *uuid.UUID    `json:"run_id,omitempty"`
}

type sweepCellEvent struct {
	models.DepthBudget
	Score   *models.Score `json:"score,omitempty"`
	Skipped bool          `json:"skipped"`
}

type sweepDoneEvent struct {
	Sources []models.DocumentID `json:"sources"`
	Scored  int                 `json:"scored"`
	Skipped int                 `json:"skipped"`
}

type runEvent struct {
	RunID uuid.UUID `json:"run_id"`
}
