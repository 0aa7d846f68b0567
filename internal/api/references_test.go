package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/persistorai/citegraph/internal/api"
	"github.com/persistorai/citegraph/internal/models"
)

func newReferenceRouter(svc *mockReferenceService) http.Handler {
	h := api.NewReferenceHandler(svc, testLogger())
	r := newTestRouter()
	r.GET("/reference-sets", h.List)
	r.GET("/reference-sets/:name", h.Get)
	r.PUT("/reference-sets/:name", h.Put)

	return r
}

func TestPutReferenceSet_StoresDeduplicated(t *testing.T) {
	t.Parallel()

	var stored models.DocumentSet
	svc := &mockReferenceService{
		putFn: func(_ context.Context, name string, docs models.DocumentSet) error {
			if name != "gdpr" {
				t.Errorf("name = %q", name)
			}
			stored = docs
			return nil
		},
	}

	w := doRequest(newReferenceRouter(svc), http.MethodPut, "/reference-sets/gdpr",
		`{"documents":["32016R0679","32016R0679","31995L0046"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if len(stored) != 2 {
		t.Errorf("stored %d documents, want 2", len(stored))
	}
}

func TestPutReferenceSet_EmptyDocuments(t *testing.T) {
	t.Parallel()

	w := doRequest(newReferenceRouter(&mockReferenceService{}), http.MethodPut, "/reference-sets/gdpr", `{"documents":[]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetReferenceSet_NotFound(t *testing.T) {
	t.Parallel()

	svc := &mockReferenceService{
		getFn: func(context.Context, string) (models.DocumentSet, error) {
			return nil, models.ErrReferenceSetNotFound
		},
	}

	w := doRequest(newReferenceRouter(svc), http.MethodGet, "/reference-sets/missing", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestListReferenceSets_ClampsLimit(t *testing.T) {
	t.Parallel()

	var gotLimit int
	svc := &mockReferenceService{
		listFn: func(_ context.Context, limit int) ([]models.ReferenceSetInfo, error) {
			gotLimit = limit
			return []models.ReferenceSetInfo{{Name: "gdpr", Size: 2, UpdatedAt: time.Now()}}, nil
		},
	}

	w := doRequest(newReferenceRouter(svc), http.MethodGet, "/reference-sets?limit=50000", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	if gotLimit != 1000 {
		t.Errorf("limit = %d, want 1000", gotLimit)
	}

	var body struct {
		ReferenceSets []models.ReferenceSetInfo `json:"reference_sets"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if len(body.ReferenceSets) != 1 || body.ReferenceSets[0].Name != "gdpr" {
		t.Errorf("unexpected body: %+v", body)
	}
}
