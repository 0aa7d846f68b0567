// Package domain defines the canonical service interfaces shared by the REST
// layer and the service implementations. Consumers should depend on these
// interfaces rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/google/uuid"

	"github.com/persistorai/citegraph/internal/models"
)

// CitationService defines expansion, scoring and filtering operations.
type CitationService interface {
	Citations(ctx context.Context, id models.DocumentID, budget models.DepthBudget) (models.DocumentSet, error)
	Expand(ctx context.Context, req models.ExpandRequest) (*models.ExpandResult, error)
	Collect(ctx context.Context, req models.CollectRequest) (models.DocumentSet, error)
	Score(ctx context.Context, req models.ScoreRequest) (*models.Report, error)
	Sweep(ctx context.Context, req models.SweepRequest) (*models.SweepResult, error)
	Filter(ctx context.Context, req models.FilterRequest) (*models.FilterResult, error)
}

// ReferenceService defines reference-set operations.
type ReferenceService interface {
	PutReferenceSet(ctx context.Context, name string, docs models.DocumentSet) error
	GetReferenceSet(ctx context.Context, name string) (models.DocumentSet, error)
	ListReferenceSets(ctx context.Context, limit int) ([]models.ReferenceSetInfo, error)
}

// RunService defines persisted-run operations.
type RunService interface {
	GetRun(ctx context.Context, id uuid.UUID) (*models.Run, error)
}
