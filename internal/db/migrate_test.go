package db

import (
	"strings"
	"testing"

	"github.com/persistorai/citegraph/internal/db/migrations"
)

func TestSchemaVersion(t *testing.T) {
	if v := SchemaVersion(); v < 1 {
		t.Fatalf("SchemaVersion() = %d, want at least 1", v)
	}
}

func TestMigrationsAreGooseAnnotated(t *testing.T) {
	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		t.Fatalf("reading migrations: %v", err)
	}

	for _, e := range entries {
		data, err := migrations.FS.ReadFile(e.Name())
		if err != nil {
			t.Fatalf("reading %s: %v", e.Name(), err)
		}

		body := string(data)
		if !strings.Contains(body, "-- +goose Up") || !strings.Contains(body, "-- +goose Down") {
			t.Errorf("%s is missing goose Up/Down annotations", e.Name())
		}
	}
}
