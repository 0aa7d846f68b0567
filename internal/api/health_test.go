package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/citegraph/internal/api"
)

func TestLiveness_ReturnsOK(t *testing.T) {
	t.Parallel()

	h := api.NewHealthHandler(nil, &mockHealth{state: "closed"}, testLogger(), "test-v1")

	r := gin.New()
	r.GET("/health", h.Liveness)

	w := doRequest(r, http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %v", body["status"])
	}

	if body["version"] != "test-v1" {
		t.Errorf("expected version 'test-v1', got %v", body["version"])
	}

	if body["database"] != "not_configured" {
		t.Errorf("expected database 'not_configured', got %v", body["database"])
	}

	if body["lookup"] != "closed" {
		t.Errorf("expected lookup 'closed', got %v", body["lookup"])
	}
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		db         *mockHealth
		circuit    string
		wantStatus int
		wantLookup string
	}{
		{"no database", nil, "closed", http.StatusOK, "ok"},
		{"healthy database", &mockHealth{}, "closed", http.StatusOK, "ok"},
		{"database down", &mockHealth{err: errors.New("down")}, "closed", http.StatusServiceUnavailable, "ok"},
		{"circuit open", &mockHealth{}, "open", http.StatusOK, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var db api.HealthChecker
			if tt.db != nil {
				db = tt.db
			}

			h := api.NewHealthHandler(db, &mockHealth{state: tt.circuit}, testLogger(), "v")

			r := gin.New()
			r.GET("/ready", h.Readiness)

			w := doRequest(r, http.MethodGet, "/ready", "")
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, w.Code)
			}

			var body struct {
				Checks map[string]string `json:"checks"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}

			if body.Checks["lookup"] != tt.wantLookup {
				t.Errorf("lookup = %q, want %q", body.Checks["lookup"], tt.wantLookup)
			}
		})
	}
}
