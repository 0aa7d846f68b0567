package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/persistorai/citegraph/internal/expand"
	"github.com/persistorai/citegraph/internal/lookup"
	"github.com/persistorai/citegraph/internal/models"
)

var testCites = map[string][]string{
	"32021R0664": {"32019R0947", "32018R1139"},
	"32019R0947": {"32018R1139"},
	"62020CJ0001": {"32021R0664"},
}

func newTestService(t *testing.T, l lookup.CitationLookup, recorder *RunRecorder) (*CitationService, *MemoryReferences) {
	t.Helper()

	log := testLogger()
	refs := NewMemoryReferences()
	agg := expand.NewAggregator(l, models.KindUnknown, 2, log)

	return NewCitationService(l, agg, refs, recorder, CitationOptions{MaxDepth: 3, SweepWorkers: 2}, log), refs
}

func TestCitationService_Citations(t *testing.T) {
	svc, _ := newTestService(t, graphLookup(testCites), nil)

	got, err := svc.Citations(context.Background(), "32021R0664", models.DepthBudget{Cites: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"32018R1139", "32019R0947"}; !reflect.DeepEqual(got.Sorted(), want) {
		t.Errorf("got %v, want %v", got.Sorted(), want)
	}
}

func TestCitationService_DepthLimits(t *testing.T) {
	svc, _ := newTestService(t, graphLookup(testCites), nil)
	ctx := context.Background()

	if _, err := svc.Citations(ctx, "32021R0664", models.DepthBudget{Cites: 4}); !errors.Is(err, models.ErrInvalidDepth) {
		t.Errorf("Citations: expected ErrInvalidDepth, got %v", err)
	}

	_, err := svc.Expand(ctx, models.ExpandRequest{Sources: []string{"32021R0664"}, DepthBudget: models.DepthBudget{Cited: 9}})
	if !errors.Is(err, models.ErrInvalidDepth) {
		t.Errorf("Expand: expected ErrInvalidDepth, got %v", err)
	}

	_, err = svc.Sweep(ctx, models.SweepRequest{Sources: []string{"32021R0664"}, MaxCites: 5, MaxCited: 1, Reference: []string{"x"}})
	if !errors.Is(err, models.ErrInvalidDepth) {
		t.Errorf("Sweep: expected ErrInvalidDepth, got %v", err)
	}

	if _, err := svc.Citations(ctx, "bad id", models.DepthBudget{Cites: 1}); !errors.Is(err, models.ErrInvalidDocumentID) {
		t.Errorf("Citations: expected ErrInvalidDocumentID, got %v", err)
	}
}

func TestCitationService_ExpandWithScore(t *testing.T) {
	svc, refs := newTestService(t, graphLookup(testCites), nil)
	ctx := context.Background()

	if err := refs.PutReferenceSet(ctx, "drones", models.NewDocumentSet("32019R0947", "32018R1139", "32020R9999")); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Expand(ctx, models.ExpandRequest{
		Sources:      []string{"32021R0664"},
		DepthBudget:  models.DepthBudget{Cites: 1},
		ReferenceSet: "drones",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Graph.Links) != 2 || len(res.Graph.Nodes) != 3 {
		t.Errorf("graph = %v / %v", res.Graph.Nodes.Sorted(), res.Graph.Links.Sorted())
	}

	if res.Score == nil {
		t.Fatal("expected a score")
	}

	// 2 of 3 nodes are in the reference, 2 of 3 reference documents found.
	if res.Score.Precision != 2.0/3.0 || res.Score.Recall != 2.0/3.0 {
		t.Errorf("score = %+v", res.Score)
	}

	if res.RunID != nil {
		t.Error("run id set without save")
	}
}

func TestCitationService_ExpandUndefinedScore(t *testing.T) {
	svc, _ := newTestService(t, graphLookup(testCites), nil)

	res, err := svc.Expand(context.Background(), models.ExpandRequest{
		Sources:   []string{"32021R0664"},
		Reference: []string{"99999X0000"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Score != nil {
		t.Errorf("expected nil score, got %+v", res.Score)
	}
}

func TestCitationService_ExpandSave(t *testing.T) {
	repo := &mockRunRepo{}
	recorder := NewRunRecorder(repo, testLogger(), 10)
	svc, _ := newTestService(t, graphLookup(testCites), recorder)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		recorder.Run(ctx)
		close(done)
	}()

	res, err := svc.Expand(context.Background(), models.ExpandRequest{
		Sources:     []string{"32021R0664"},
		DepthBudget: models.DepthBudget{Cites: 2},
		Save:        true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.RunID == nil {
		t.Fatal("expected a run id")
	}

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("recorder did not stop")
	}

	saved := repo.savedRuns()
	if len(saved) != 1 || saved[0].ID != *res.RunID {
		t.Fatalf("saved = %v, want one run with id %s", saved, res.RunID)
	}

	if saved[0].Budget.Cites != 2 || saved[0].Graph != res.Graph {
		t.Errorf("saved run mismatch: %+v", saved[0])
	}
}

func TestCitationService_ExpandSaveDisabled(t *testing.T) {
	svc, _ := newTestService(t, graphLookup(testCites), nil)

	_, err := svc.Expand(context.Background(), models.ExpandRequest{Sources: []string{"32021R0664"}, Save: true})
	if !errors.Is(err, models.ErrPersistenceDisabled) {
		t.Fatalf("expected ErrPersistenceDisabled, got %v", err)
	}
}

func TestCitationService_Collect(t *testing.T) {
	svc, _ := newTestService(t, graphLookup(testCites), nil)

	tests := []struct {
		name string
		req  models.CollectRequest
		want []string
	}{
		{
			name: "default union",
			req:  models.CollectRequest{Sources: []string{"32019R0947"}, DepthBudget: models.DepthBudget{Cited: 1}},
			want: []string{"32019R0947", "32021R0664"},
		},
		{
			name: "intersection",
			req: models.CollectRequest{
				Sources:     []string{"32021R0664", "32019R0947"},
				DepthBudget: models.DepthBudget{Cites: 1},
				Mode:        models.MergeIntersection,
			},
			want: []string{"32018R1139"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.Collect(context.Background(), tc.req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !reflect.DeepEqual(got.Sorted(), tc.want) {
				t.Errorf("got %v, want %v", got.Sorted(), tc.want)
			}
		})
	}
}

func TestCitationService_Score(t *testing.T) {
	svc, _ := newTestService(t, graphLookup(testCites), nil)
	ctx := context.Background()

	report, err := svc.Score(ctx, models.ScoreRequest{
		Found:     []string{"a", "b", "c", "d"},
		Reference: []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Precision != 0.5 || report.Recall != 1 {
		t.Errorf("report = %+v", report)
	}

	if _, err := svc.Score(ctx, models.ScoreRequest{Found: []string{"a"}, ReferenceSet: "missing"}); !errors.Is(err, models.ErrReferenceSetNotFound) {
		t.Errorf("expected ErrReferenceSetNotFound, got %v", err)
	}

	if _, err := svc.Score(ctx, models.ScoreRequest{Reference: []string{"a"}}); !errors.Is(err, models.ErrUndefinedMetric) {
		t.Errorf("expected ErrUndefinedMetric, got %v", err)
	}
}

func TestCitationService_Sweep(t *testing.T) {
	svc, _ := newTestService(t, graphLookup(testCites), nil)

	res, err := svc.Sweep(context.Background(), models.SweepRequest{
		Sources:   []string{"32021R0664"},
		MaxCites:  2,
		MaxCited:  2,
		Reference: []string{"32019R0947", "32018R1139"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// (0,0) and (0,1) hold only seeds and the citing case, which share
	// nothing with the reference.
	if len(res.Skipped) != 2 || len(res.Cells) != 2 {
		t.Fatalf("cells = %+v, skipped = %+v", res.Cells, res.Skipped)
	}

	if res.Cells[0].DepthBudget != (models.DepthBudget{Cites: 1}) {
		t.Errorf("first scored cell = %+v", res.Cells[0].DepthBudget)
	}

	if res.Cells[0].Recall != 1 {
		t.Errorf("recall at (1,0) = %v, want 1", res.Cells[0].Recall)
	}
}

func TestCitationService_Filter(t *testing.T) {
	svc, _ := newTestService(t, graphLookup(testCites), nil)

	res, err := svc.Filter(context.Background(), models.FilterRequest{
		Links:     []models.Link{{From: "A", To: "B"}, {From: "B", To: "C"}},
		MinDegree: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(res.Nodes, []string{"B"}) {
		t.Errorf("nodes = %v, want [B]", res.Nodes)
	}

	if _, err := svc.Filter(context.Background(), models.FilterRequest{MinDegree: -1}); err == nil {
		t.Error("expected error for negative min_degree")
	}
}

func TestCitationService_LookupFailure(t *testing.T) {
	failing := lookup.Func(func(context.Context, models.DocumentID, models.DepthBudget) (models.DocumentSet, error) {
		return nil, models.ErrLookupFailed
	})
	svc, _ := newTestService(t, failing, nil)

	_, err := svc.Expand(context.Background(), models.ExpandRequest{
		Sources:     []string{"32021R0664"},
		DepthBudget: models.DepthBudget{Cites: 1},
	})
	if !errors.Is(err, models.ErrLookupFailed) {
		t.Fatalf("expected ErrLookupFailed, got %v", err)
	}
}
