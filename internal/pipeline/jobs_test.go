package pipeline

import (
	"testing"
	"time"
)

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "converting source documents"},
		{StatusSegmenting, "segmenting documents"},
		{StatusIndexing, "building embedding indexes"},
		{StatusExtracting, "extracting topics"},
		{StatusRendering, "rendering report"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("topic risk_factors: no matching sections")
	job.AddError("topic strategy: no matching sections")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if job.ErrorCount() != 2 {
		t.Errorf("expected ErrorCount 2, got %d", job.ErrorCount())
	}
}

func TestJob_TopicProgress(t *testing.T) {
	job := &Job{ID: "progress-test", UpdatedAt: time.Now()}
	job.SetTotalTopics(5)
	job.IncrTopicsProcessed(4)
	job.IncrTopicsProcessed(2)

	snap := job.Snapshot()
	if snap.Progress.TotalTopics != 5 {
		t.Errorf("expected 5 total topics, got %d", snap.Progress.TotalTopics)
	}
	if snap.Progress.TopicsProcessed != 2 {
		t.Errorf("expected 2 topics processed, got %d", snap.Progress.TopicsProcessed)
	}
	if snap.Progress.FieldsExtracted != 6 {
		t.Errorf("expected 6 fields extracted, got %d", snap.Progress.FieldsExtracted)
	}
}

func TestJob_FileData(t *testing.T) {
	job := &Job{ID: "data-test"}
	job.SetFileData([]byte("current report"), []byte("prior report"))
	cur, pri := job.FileData()
	if string(cur) != "current report" || string(pri) != "prior report" {
		t.Errorf("file data round trip failed: %q %q", cur, pri)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJob_YearLabels(t *testing.T) {
	job := &Job{CurrentFilename: "acme-annual-2025.pdf", PriorFilename: "acme-annual-2024.pdf"}
	if y := job.currentYear(); y != "2025" {
		t.Errorf("expected year from filename, got %q", y)
	}
	if y := job.priorYear(); y != "2024" {
		t.Errorf("expected year from filename, got %q", y)
	}

	explicit := &Job{CurrentYear: "FY25", CurrentFilename: "report-2025.md"}
	if y := explicit.currentYear(); y != "FY25" {
		t.Errorf("explicit label must win, got %q", y)
	}

	bare := &Job{CurrentFilename: "report.md", PriorFilename: "old.md"}
	if bare.currentYear() != "current" || bare.priorYear() != "prior" {
		t.Error("expected fallback labels")
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestNewJobID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := NewJobID()
		if len(id) != 26 {
			t.Fatalf("expected 26-char ULID, got %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
