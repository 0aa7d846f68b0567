package models

import (
	"time"

	"github.com/google/uuid"
)

// Run is a persisted expansion together with its optional score.
type Run struct {
	ID        uuid.UUID      `json:"id"`
	Sources   []DocumentID   `json:"sources"`
	Budget    DepthBudget    `json:"budget"`
	Graph     *CitationGraph `json:"graph"`
	Score     *Score         `json:"score,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// ExpandResult is returned by expansion endpoints.
type ExpandResult struct {
	Graph *CitationGraph `json:"graph"`
	Score *Score         `json:"score,omitempty"`
	RunID *uuid.UUID     `json:"run_id,omitempty"`
}

// ReferenceSetInfo summarizes a stored reference set.
type ReferenceSetInfo struct {
	Name      string    `json:"name"`
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}
