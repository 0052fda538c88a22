package analysis

import (
	"context"
	"testing"

	"repo-insight/internal/llm"
)

func TestStatusStoreLifecycle(t *testing.T) {
	s := newStatuses()
	ctx := context.Background()

	snap := s.Snapshot(ctx, testRepo)
	if snap.Status != StateNotStarted {
		t.Errorf("expected not_started, got %s", snap.Status)
	}

	claimed, err := s.TryEnqueue(ctx, testRepo)
	if err != nil || !claimed {
		t.Fatalf("expected fresh claim to succeed, got claimed=%v err=%v", claimed, err)
	}
	if snap = s.Snapshot(ctx, testRepo); snap.Status != StateQueued {
		t.Errorf("expected queued, got %s", snap.Status)
	}

	if err := s.MarkProcessing(ctx, testRepo); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap = s.Snapshot(ctx, testRepo); snap.Status != StateProcessing {
		t.Errorf("expected processing, got %s", snap.Status)
	}

	result := &Result{
		FileAnalyses: map[string]llm.Score{
			"main.go": {ComplexityScore: 3, QualityScore: 8, Suggestions: []string{"fine"}},
		},
		Summary: Summary{TotalFiles: 1, AnalyzedFiles: 1, AnalysisCompleted: true},
	}
	if err := s.Complete(ctx, testRepo, result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap = s.Snapshot(ctx, testRepo)
	if snap.Status != StateCompleted {
		t.Fatalf("expected completed, got %s", snap.Status)
	}
	if snap.Result == nil {
		t.Fatal("expected result on completed snapshot")
	}
	if got := snap.Result.FileAnalyses["main.go"]; got.QualityScore != 8 {
		t.Errorf("result did not round-trip: %+v", got)
	}
	if snap.Error != "" {
		t.Errorf("completed snapshot must not carry an error, got %q", snap.Error)
	}
}

func TestStatusStoreDuplicateClaim(t *testing.T) {
	s := newStatuses()
	ctx := context.Background()

	if claimed, _ := s.TryEnqueue(ctx, testRepo); !claimed {
		t.Fatal("expected first claim to succeed")
	}

	// Queued and processing runs block a second claim.
	if claimed, _ := s.TryEnqueue(ctx, testRepo); claimed {
		t.Error("expected claim against queued run to fail")
	}
	s.MarkProcessing(ctx, testRepo)
	if claimed, _ := s.TryEnqueue(ctx, testRepo); claimed {
		t.Error("expected claim against processing run to fail")
	}
}

func TestStatusStoreReclaimAfterFinished(t *testing.T) {
	s := newStatuses()
	ctx := context.Background()

	s.TryEnqueue(ctx, testRepo)
	if err := s.Complete(ctx, testRepo, &Result{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claimed, err := s.TryEnqueue(ctx, testRepo)
	if err != nil || !claimed {
		t.Fatalf("expected claim over completed run to succeed, got claimed=%v err=%v", claimed, err)
	}

	if err := s.Fail(ctx, testRepo, "worker crashed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claimed, err = s.TryEnqueue(ctx, testRepo)
	if err != nil || !claimed {
		t.Fatalf("expected claim over failed run to succeed, got claimed=%v err=%v", claimed, err)
	}
}

func TestStatusStoreFail(t *testing.T) {
	s := newStatuses()
	ctx := context.Background()

	if err := s.Fail(ctx, testRepo, "no usable github token on file"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := s.Snapshot(ctx, testRepo)
	if snap.Status != StateFailed {
		t.Fatalf("expected failed, got %s", snap.Status)
	}
	if snap.Error != "no usable github token on file" {
		t.Errorf("unexpected error message: %q", snap.Error)
	}
	if snap.Result != nil {
		t.Error("failed snapshot must not carry a result")
	}
}

func TestStatusStoreProgress(t *testing.T) {
	s := newStatuses()
	ctx := context.Background()

	if got := s.Progress(ctx, testRepo); got != 0 {
		t.Errorf("expected 0 progress when absent, got %f", got)
	}

	if err := s.PutProgress(ctx, testRepo, 42.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Progress(ctx, testRepo); got != 42.5 {
		t.Errorf("expected 42.5, got %f", got)
	}
}
