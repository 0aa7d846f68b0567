package sweep_test

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/internal/models"
	"github.com/persistorai/citegraph/internal/sweep"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func TestSweep_SkipsUndefinedCells(t *testing.T) {
	finder := sweep.FinderFunc(func(_ context.Context, _ []string, b models.DepthBudget) (models.DocumentSet, error) {
		switch b {
		case models.DepthBudget{}:
			return models.NewDocumentSet(), nil
		case models.DepthBudget{Cites: 1}:
			return models.NewDocumentSet("a", "b"), nil
		case models.DepthBudget{Cited: 1}:
			return models.NewDocumentSet("a"), nil
		default:
			return models.NewDocumentSet("a", "b", "c", "d"), nil
		}
	})

	res, err := sweep.NewRunner(finder, 2, testLogger()).Sweep(
		context.Background(), []string{"seed"}, 2, 2, models.NewDocumentSet("a", "b"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(res.Skipped, []models.DepthBudget{{}}) {
		t.Errorf("skipped = %v, want [(0,0)]", res.Skipped)
	}

	want := []models.DepthBudget{{Cited: 1}, {Cites: 1}, {Cites: 1, Cited: 1}}
	got := make([]models.DepthBudget, len(res.Cells))
	for i, c := range res.Cells {
		got[i] = c.DepthBudget
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("cells = %v, want %v", got, want)
	}

	if res.Cells[1].Score != (models.Score{Precision: 1, Recall: 1, F1: 1}) {
		t.Errorf("cell (1,0) score = %+v", res.Cells[1].Score)
	}

	if res.Cells[0].Precision != 1 || res.Cells[0].Recall != 0.5 {
		t.Errorf("cell (0,1) score = %+v", res.Cells[0].Score)
	}
}

func TestSweep_DisjointCellSkipped(t *testing.T) {
	finder := sweep.FinderFunc(func(_ context.Context, _ []string, _ models.DepthBudget) (models.DocumentSet, error) {
		return models.NewDocumentSet("x"), nil
	})

	res, err := sweep.NewRunner(finder, 1, testLogger()).Sweep(
		context.Background(), []string{"seed"}, 1, 2, models.NewDocumentSet("a"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Cells) != 0 || len(res.Skipped) != 2 {
		t.Errorf("cells = %v, skipped = %v", res.Cells, res.Skipped)
	}
}

func TestSweep_FinderErrorIsFatal(t *testing.T) {
	var calls atomic.Int32

	finder := sweep.FinderFunc(func(_ context.Context, _ []string, _ models.DepthBudget) (models.DocumentSet, error) {
		calls.Add(1)
		return nil, models.ErrLookupFailed
	})

	_, err := sweep.NewRunner(finder, 1, testLogger()).Sweep(
		context.Background(), []string{"seed"}, 3, 3, models.NewDocumentSet("a"),
	)
	if !errors.Is(err, models.ErrLookupFailed) {
		t.Fatalf("expected ErrLookupFailed, got %v", err)
	}

	if calls.Load() == 9 {
		t.Error("expected the sweep to stop scheduling cells after the failure")
	}
}

func TestSweep_EmptyGrid(t *testing.T) {
	finder := sweep.FinderFunc(func(_ context.Context, _ []string, _ models.DepthBudget) (models.DocumentSet, error) {
		t.Error("finder should not be called")
		return nil, nil
	})

	res, err := sweep.NewRunner(finder, 1, testLogger()).Sweep(
		context.Background(), []string{"seed"}, 0, 3, models.NewDocumentSet("a"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Cells) != 0 || len(res.Skipped) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestSweep_InvalidInput(t *testing.T) {
	r := sweep.NewRunner(sweep.FinderFunc(nil), 1, testLogger())

	if _, err := r.Sweep(context.Background(), nil, 1, 1, nil); !errors.Is(err, models.ErrEmptySources) {
		t.Errorf("expected ErrEmptySources, got %v", err)
	}

	if _, err := r.Sweep(context.Background(), []string{"s"}, -1, 1, nil); !errors.Is(err, models.ErrInvalidDepth) {
		t.Errorf("expected ErrInvalidDepth, got %v", err)
	}
}

func TestSweep_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	finder := sweep.FinderFunc(func(ctx context.Context, _ []string, _ models.DepthBudget) (models.DocumentSet, error) {
		return models.NewDocumentSet("a"), nil
	})

	if _, err := sweep.NewRunner(finder, 1, testLogger()).Sweep(ctx, []string{"s"}, 2, 2, models.NewDocumentSet("a")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSweep_ReportsProgress(t *testing.T) {
	finder := sweep.FinderFunc(func(_ context.Context, _ []string, b models.DepthBudget) (models.DocumentSet, error) {
		if b.IsZero() {
			return models.NewDocumentSet(), nil
		}
		return models.NewDocumentSet("a"), nil
	})

	var scored, skipped atomic.Int32
	runner := sweep.NewRunner(finder, 3, testLogger()).WithProgress(func(_ models.DepthBudget, score *models.Score) {
		if score == nil {
			skipped.Add(1)
			return
		}
		scored.Add(1)
	})

	if _, err := runner.Sweep(context.Background(), []string{"seed"}, 2, 2, models.NewDocumentSet("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if scored.Load() != 3 || skipped.Load() != 1 {
		t.Errorf("scored=%d skipped=%d, want 3 and 1", scored.Load(), skipped.Load())
	}
}
