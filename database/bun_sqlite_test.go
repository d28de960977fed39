package database

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pdfdelta/pdfdelta/config"
)

func TestBunSQLiteDatabase(t *testing.T) {
	// Initialize logger for tests
	if Logger == nil {
		Logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	// Setup Bun with in-memory SQLite
	db := NewRepository(config.ServerConfig{DatabaseType: "sqlite", DatabaseDbname: ":memory:"})
	defer db.Close()

	t.Log("Bun SQLite database setup successfully")

	t.Run("Create and retrieve comparison", func(t *testing.T) {
		comp := &Comparison{
			ULID:          ulid.Make(),
			BaseName:      "contract_v1.pdf",
			CandidateName: "contract_v2.pdf",
			Status:        ComparisonPending,
			OutputDir:     "/tmp/results/abc",
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}

		err := db.SaveComparison(comp)
		if err != nil {
			t.Fatalf("Failed to save comparison: %v", err)
		}

		if comp.ID == 0 {
			t.Error("Comparison ID was not set after save")
		}

		retrieved, err := db.GetComparisonByULID(comp.ULID.String())
		if err != nil {
			t.Fatalf("Failed to get comparison by ULID: %v", err)
		}

		if retrieved.BaseName != comp.BaseName {
			t.Errorf("Expected base name %s, got %s", comp.BaseName, retrieved.BaseName)
		}
		if retrieved.Status != ComparisonPending {
			t.Errorf("Expected status pending, got %s", retrieved.Status)
		}
	})

	t.Run("Update comparison status and result", func(t *testing.T) {
		comp := &Comparison{
			ULID:          ulid.Make(),
			BaseName:      "a.pdf",
			CandidateName: "b.pdf",
			Status:        ComparisonPending,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		if err := db.SaveComparison(comp); err != nil {
			t.Fatalf("Failed to save comparison: %v", err)
		}

		if err := db.UpdateComparisonStatus(comp.ULID.String(), ComparisonCompleted); err != nil {
			t.Fatalf("Failed to update status: %v", err)
		}
		if err := db.UpdateComparisonResult(comp.ULID.String(), 3, 5, 3, "/tmp/results/a/diff_pages.zip"); err != nil {
			t.Fatalf("Failed to update result: %v", err)
		}

		retrieved, err := db.GetComparisonByULID(comp.ULID.String())
		if err != nil {
			t.Fatalf("Failed to get comparison: %v", err)
		}
		if retrieved.Status != ComparisonCompleted {
			t.Errorf("Expected status completed, got %s", retrieved.Status)
		}
		if retrieved.PagesCompared != 3 {
			t.Errorf("Expected 3 pages compared, got %d", retrieved.PagesCompared)
		}
		if retrieved.BasePages != 3 || retrieved.CandidatePages != 5 {
			t.Errorf("Page counts not stored: %d/%d", retrieved.BasePages, retrieved.CandidatePages)
		}
	})

	t.Run("Delete comparison", func(t *testing.T) {
		comp := &Comparison{
			ULID:          ulid.Make(),
			BaseName:      "x.pdf",
			CandidateName: "y.pdf",
			Status:        ComparisonPending,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		if err := db.SaveComparison(comp); err != nil {
			t.Fatalf("Failed to save comparison: %v", err)
		}

		if err := db.DeleteComparison(comp.ULID.String()); err != nil {
			t.Fatalf("Failed to delete comparison: %v", err)
		}

		if _, err := db.GetComparisonByULID(comp.ULID.String()); err == nil {
			t.Error("Expected error fetching deleted comparison")
		}
	})

	t.Run("Job lifecycle", func(t *testing.T) {
		job, err := db.CreateJob(JobTypeComparison, "Comparing a.pdf against b.pdf")
		if err != nil {
			t.Fatalf("Failed to create job: %v", err)
		}
		if job.Status != JobStatusPending {
			t.Errorf("New job status = %s, want pending", job.Status)
		}

		if err := db.UpdateJobStatus(job.ID, JobStatusRunning, "Rendering documents"); err != nil {
			t.Fatalf("Failed to update job status: %v", err)
		}
		if err := db.UpdateJobProgress(job.ID, 50, "Compared page 2/4"); err != nil {
			t.Fatalf("Failed to update job progress: %v", err)
		}

		active, err := db.GetActiveJobs()
		if err != nil {
			t.Fatalf("Failed to get active jobs: %v", err)
		}
		found := false
		for _, a := range active {
			if a.ID == job.ID {
				found = true
				if a.Progress != 50 {
					t.Errorf("Active job progress = %d, want 50", a.Progress)
				}
			}
		}
		if !found {
			t.Error("Running job not listed as active")
		}

		if err := db.CompleteJob(job.ID, `{"basePages": 4, "candidatePages": 4, "pagesCompared": 4}`); err != nil {
			t.Fatalf("Failed to complete job: %v", err)
		}

		completed, err := db.GetJob(job.ID)
		if err != nil {
			t.Fatalf("Failed to get job: %v", err)
		}
		if completed.Status != JobStatusCompleted {
			t.Errorf("Job status = %s, want completed", completed.Status)
		}
		if completed.Progress != 100 {
			t.Errorf("Completed job progress = %d, want 100", completed.Progress)
		}
	})

	t.Run("Failed job records error", func(t *testing.T) {
		job, err := db.CreateJob(JobTypeComparison, "Comparing bad.pdf against b.pdf")
		if err != nil {
			t.Fatalf("Failed to create job: %v", err)
		}

		if err := db.UpdateJobError(job.ID, "unable to open PDF document"); err != nil {
			t.Fatalf("Failed to record job error: %v", err)
		}

		failed, err := db.GetJob(job.ID)
		if err != nil {
			t.Fatalf("Failed to get job: %v", err)
		}
		if failed.Status != JobStatusFailed {
			t.Errorf("Job status = %s, want failed", failed.Status)
		}
		if failed.Error == "" {
			t.Error("Job error message not stored")
		}
	})
}
