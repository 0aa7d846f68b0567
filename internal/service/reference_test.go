package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/persistorai/citegraph/internal/models"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "references.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestLoadReferenceFile(t *testing.T) {
	path := writeFile(t, `reference_sets:
  drones:
    - 32019R0947
    - 32018R1139
  ai:
    - 32024R1689
`)

	m, err := LoadReferenceFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := m.GetReferenceSet(context.Background(), "drones")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if len(got) != 2 || !got.Has("32018R1139") {
		t.Errorf("drones = %v", got.Sorted())
	}

	list, _ := m.ListReferenceSets(context.Background(), 0)
	if len(list) != 2 || list[0].Name != "ai" || list[1].Size != 2 {
		t.Errorf("list = %+v", list)
	}
}

func TestLoadReferenceFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid yaml", "reference_sets: [unclosed"},
		{"invalid document id", "reference_sets:\n  x:\n    - \"bad id\"\n"},
		{"empty set", "reference_sets:\n  x: []\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadReferenceFile(writeFile(t, tc.body)); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := LoadReferenceFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMemoryReferences_CopiesOnReadAndWrite(t *testing.T) {
	m := NewMemoryReferences()
	ctx := context.Background()

	in := models.NewDocumentSet("a")
	if err := m.PutReferenceSet(ctx, "x", in); err != nil {
		t.Fatal(err)
	}

	in.Add("b")

	out, _ := m.GetReferenceSet(ctx, "x")
	out.Add("c")

	again, _ := m.GetReferenceSet(ctx, "x")
	if len(again) != 1 {
		t.Errorf("stored set mutated: %v", again.Sorted())
	}
}

func TestMemoryReferences_ListLimit(t *testing.T) {
	m := NewMemoryReferences()
	ctx := context.Background()

	for _, name := range []string{"c", "a", "b"} {
		_ = m.PutReferenceSet(ctx, name, models.NewDocumentSet("x"))
	}

	list, _ := m.ListReferenceSets(ctx, 2)
	if len(list) != 2 || list[0].Name != "a" || list[1].Name != "b" {
		t.Errorf("list = %+v", list)
	}
}

func TestReferenceService_ValidatesName(t *testing.T) {
	svc := NewReferenceService(NewMemoryReferences(), testLogger())
	ctx := context.Background()

	if err := svc.PutReferenceSet(ctx, "", models.NewDocumentSet("a")); err == nil {
		t.Error("expected error for empty name")
	}

	if _, err := svc.GetReferenceSet(ctx, "nope"); !errors.Is(err, models.ErrReferenceSetNotFound) {
		t.Errorf("expected ErrReferenceSetNotFound, got %v", err)
	}
}

func TestRunService_PersistenceDisabled(t *testing.T) {
	svc := NewRunService(nil, testLogger())

	if _, err := svc.GetRun(context.Background(), uuid.New()); !errors.Is(err, models.ErrPersistenceDisabled) {
		t.Fatalf("expected ErrPersistenceDisabled, got %v", err)
	}
}
