package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/internal/domain"
	"github.com/persistorai/citegraph/internal/models"
)

// RunRepository is the data-access interface for persisted runs.
type RunRepository interface {
	SaveRun(ctx context.Context, run *models.Run) error
	GetRun(ctx context.Context, id uuid.UUID) (*models.Run, error)
}

var _ domain.RunService = (*RunService)(nil)

// RunService reads persisted runs. A nil repository means persistence is off.
type RunService struct {
	repo RunRepository
	log  *logrus.Logger
}

// NewRunService creates a RunService.
func NewRunService(repo RunRepository, log *logrus.Logger) *RunService {
	return &RunService{repo: repo, log: log}
}

// GetRun returns the run with the given ID.
func (s *RunService) GetRun(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	if s.repo == nil {
		return nil, models.ErrPersistenceDisabled
	}

	s.log.WithField("run_id", id).Debug("run.get")

	return s.repo.GetRun(ctx, id)
}
