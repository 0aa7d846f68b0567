package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/persistorai/citegraph/internal/models"
)

func TestRunRecorder_SavesRun(t *testing.T) {
	repo := &mockRunRepo{}
	r := NewRunRecorder(repo, testLogger(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)

	id := uuid.New()
	if !r.Enqueue(&models.Run{ID: id}) {
		t.Fatal("enqueue rejected")
	}

	deadline := time.Now().Add(time.Second)
	for len(repo.savedRuns()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	cancel()

	saved := repo.savedRuns()
	if len(saved) != 1 || saved[0].ID != id {
		t.Fatalf("saved = %v", saved)
	}
}

func TestRunRecorder_DropsWhenFull(t *testing.T) {
	r := NewRunRecorder(&mockRunRepo{}, testLogger(), 1)

	if !r.Enqueue(&models.Run{ID: uuid.New()}) {
		t.Fatal("first enqueue rejected")
	}

	if r.Enqueue(&models.Run{ID: uuid.New()}) {
		t.Error("expected second enqueue to be dropped")
	}
}

func TestRunRecorder_DrainsOnShutdown(t *testing.T) {
	repo := &mockRunRepo{saveRun: func(context.Context, *models.Run) error {
		return errors.New("db down")
	}}
	r := NewRunRecorder(repo, testLogger(), 5)

	for range 3 {
		r.Enqueue(&models.Run{ID: uuid.New()})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.Run(ctx)

	if n := len(repo.savedRuns()); n != 3 {
		t.Errorf("attempted %d saves, want 3", n)
	}
}
