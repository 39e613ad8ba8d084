package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
	"github.com/code-sleuth/vecbridge-go/internal/manager/testutil"
	"github.com/code-sleuth/vecbridge-go/pkg/db"
)

func setupJobRepo(t *testing.T) (*JobRepository, func()) {
	t.Helper()
	database := testutil.SetupTestDB(t)
	repo := NewJobRepository(&db.DB{DB: database})
	cleanup := func() { testutil.CleanupTestDB(t, database) }
	return repo, cleanup
}

func TestJobRepositoryEnqueue(t *testing.T) {
	repo, cleanup := setupJobRepo(t)
	defer cleanup()

	ctx := context.Background()
	job, err := repo.Enqueue(ctx, "https://example.com/post", "kb", models.KindWebpage, nil)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	if job.ID == "" {
		t.Error("Expected a generated job ID")
	}
	if job.Status != JobStatusQueued {
		t.Errorf("Expected status %q, got %q", JobStatusQueued, job.Status)
	}
	if job.Kind != "webpage" {
		t.Errorf("Expected kind 'webpage', got %q", job.Kind)
	}

	fetched, err := repo.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Source != job.Source || fetched.Collection != job.Collection {
		t.Errorf("Fetched job does not match enqueued job: %+v", fetched)
	}
}

func TestJobRepositoryList(t *testing.T) {
	repo, cleanup := setupJobRepo(t)
	defer cleanup()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := repo.Enqueue(ctx, "https://example.com/post", "kb", models.KindGeneric, nil); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	jobs, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Errorf("Expected list limited to 2 jobs, got %d", len(jobs))
	}
}

func TestJobRepositoryLifecycle(t *testing.T) {
	repo, cleanup := setupJobRepo(t)
	defer cleanup()

	ctx := context.Background()
	job, err := repo.Enqueue(ctx, "https://example.com/post", "kb", models.KindGeneric, nil)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	if err := repo.MarkStarted(ctx, job.ID); err != nil {
		t.Fatalf("MarkStarted failed: %v", err)
	}
	started, err := repo.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if started.Status != JobStatusRunning || started.StartedAt == nil {
		t.Errorf("Expected running job with start time, got %+v", started)
	}

	if err := repo.MarkFinished(ctx, job.ID, nil); err != nil {
		t.Fatalf("MarkFinished failed: %v", err)
	}
	done, err := repo.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if done.Status != JobStatusDone || done.FinishedAt == nil || done.Error != nil {
		t.Errorf("Expected clean terminal state, got %+v", done)
	}
}

func TestJobRepositoryMarkFinishedWithError(t *testing.T) {
	repo, cleanup := setupJobRepo(t)
	defer cleanup()

	ctx := context.Background()
	job, err := repo.Enqueue(ctx, "https://example.com/post", "kb", models.KindGeneric, nil)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	msg := "store unreachable"
	if err := repo.MarkFinished(ctx, job.ID, &msg); err != nil {
		t.Fatalf("MarkFinished failed: %v", err)
	}

	failed, err := repo.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if failed.Status != JobStatusFailed {
		t.Errorf("Expected failed status, got %q", failed.Status)
	}
	if failed.Error == nil || *failed.Error != msg {
		t.Errorf("Expected error message persisted, got %v", failed.Error)
	}
}

func TestJobRepositoryNotFound(t *testing.T) {
	repo, cleanup := setupJobRepo(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := repo.GetByID(ctx, "missing-id"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("Expected ErrJobNotFound, got %v", err)
	}
	if err := repo.MarkStarted(ctx, "missing-id"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("Expected ErrJobNotFound, got %v", err)
	}
}
