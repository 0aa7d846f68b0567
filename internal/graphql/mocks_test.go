package graphql_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

// mockCitationService implements domain.CitationService for testing.
type mockCitationService struct {
	citationsFn func(ctx context.Context, id models.DocumentID, budget models.DepthBudget) (models.DocumentSet, error)
	expandFn    func(ctx context.Context, req models.ExpandRequest) (*models.ExpandResult, error)
	collectFn   func(ctx context.Context, req models.CollectRequest) (models.DocumentSet, error)
	scoreFn     func(ctx context.Context, req models.ScoreRequest) (*models.Report, error)
	sweepFn     func(ctx context.Context, req models.SweepRequest) (*models.SweepResult, error)
	filterFn    func(ctx context.Context, req models.FilterRequest) (*models.FilterResult, error)
}

func (m *mockCitationService) Citations(ctx context.Context, id models.DocumentID, budget models.DepthBudget) (models.DocumentSet, error) {
	return m.citationsFn(ctx, id, budget)
}

func (m *mockCitationService) Expand(ctx context.Context, req models.ExpandRequest) (*models.ExpandResult, error) {
	return m.expandFn(ctx, req)
}

func (m *mockCitationService) Collect(ctx context.Context, req models.CollectRequest) (models.DocumentSet, error) {
	return m.collectFn(ctx, req)
}

func (m *mockCitationService) Score(ctx context.Context, req models.ScoreRequest) (*models.Report, error) {
	return m.scoreFn(ctx, req)
}

func (m *mockCitationService) Sweep(ctx context.Context, req models.SweepRequest) (*models.SweepResult, error) {
	return m.sweepFn(ctx, req)
}

func (m *mockCitationService) Filter(ctx context.Context, req models.FilterRequest) (*models.FilterResult, error) {
	return m.filterFn(ctx, req)
}

// mockReferenceService implements domain.ReferenceService for testing.
type mockReferenceService struct {
	putFn  func(ctx context.Context, name string, docs models.DocumentSet) error
	getFn  func(ctx context.Context, name string) (models.DocumentSet, error)
	listFn func(ctx context.Context, limit int) ([]models.ReferenceSetInfo, error)
}

func (m *mockReferenceService) PutReferenceSet(ctx context.Context, name string, docs models.DocumentSet) error {
	return m.putFn(ctx, name, docs)
}

func (m *mockReferenceService) GetReferenceSet(ctx context.Context, name string) (models.DocumentSet, error) {
	return m.getFn(ctx, name)
}

func (m *mockReferenceService) ListReferenceSets(ctx context.Context, limit int) ([]models.ReferenceSetInfo, error) {
	return m.listFn(ctx, limit)
}

// mockRunService implements domain.RunService for testing.
type mockRunService struct {
	getFn func(ctx context.Context, id uuid.UUID) (*models.Run, error)
}

func (m *mockRunService) GetRun(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	return m.getFn(ctx, id)
}
