package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/internal/lookup"
	"github.com/persistorai/citegraph/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

// graphLookup answers lookups from a fixed cites map, one hop at a time.
func graphLookup(cites map[string][]string) lookup.Func {
	return func(_ context.Context, id models.DocumentID, hops models.DepthBudget) (models.DocumentSet, error) {
		out := models.NewDocumentSet()

		if hops.Cites > 0 {
			out.AddAll(models.NewDocumentSet(cites[id]...))
		}

		if hops.Cited > 0 {
			for from, tos := range cites {
				for _, to := range tos {
					if to == id {
						out.Add(from)
					}
				}
			}
		}

		return out, nil
	}
}

// mockRunRepo records saved runs.
type mockRunRepo struct {
	mu    sync.Mutex
	saved []*models.Run

	saveRun func(ctx context.Context, run *models.Run) error
	getRun  func(ctx context.Context, id uuid.UUID) (*models.Run, error)
}

func (m *mockRunRepo) SaveRun(ctx context.Context, run *models.Run) error {
	m.mu.Lock()
	m.saved = append(m.saved, run)
	m.mu.Unlock()

	if m.saveRun == nil {
		return nil
	}

	return m.saveRun(ctx, run)
}

func (m *mockRunRepo) GetRun(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	return m.getRun(ctx, id)
}

func (m *mockRunRepo) savedRuns() []*models.Run {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.Run, len(m.saved))
	copy(out, m.saved)

	return out
}

// recordingPublisher collects published event types.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(eventType string, _ any) {
	p.mu.Lock()
	p.events = append(p.events, eventType)
	p.mu.Unlock()
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, e := range p.events {
		if e == eventType {
			n++
		}
	}

	return n
}
