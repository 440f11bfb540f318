package history

import (
	"context"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.Append(ctx, Record{
		RunID:              "run-1",
		Source:             "reel1.wav",
		Output:             "srt-reel1.srt",
		Format:             "srt",
		Model:              "small",
		Language:           "en",
		TranscriptCacheHit: true,
		Duration:           1500 * time.Millisecond,
		Status:             StatusCompleted,
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("row id = %d, want positive", id)
	}

	records, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("record count = %d, want 1", len(records))
	}
	rec := records[0]
	if rec.Source != "reel1.wav" || rec.Status != StatusCompleted {
		t.Errorf("unexpected record: %+v", rec)
	}
	if !rec.TranscriptCacheHit || rec.MonoCacheHit {
		t.Errorf("cache hit flags wrong: %+v", rec)
	}
	if rec.Duration != 1500*time.Millisecond {
		t.Errorf("duration = %v, want 1.5s", rec.Duration)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("created_at should round-trip")
	}
}

func TestListNewestFirstAndLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, source := range []string{"a.wav", "b.wav", "c.wav"} {
		if _, err := store.Append(ctx, Record{RunID: source, Source: source, Status: StatusCompleted}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	records, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("record count = %d, want 2", len(records))
	}
	if records[0].Source != "c.wav" || records[1].Source != "b.wav" {
		t.Errorf("ordering wrong: %q, %q", records[0].Source, records[1].Source)
	}
}

func TestFailedRunKeepsError(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Append(ctx, Record{
		RunID:        "run-err",
		Source:       "bad.wav",
		Status:       StatusFailed,
		ErrorMessage: "whisperx: exit status 1",
	}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	records, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if records[0].ErrorMessage != "whisperx: exit status 1" {
		t.Errorf("error message = %q", records[0].ErrorMessage)
	}
}

func TestClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Append(ctx, Record{RunID: "x", Source: "x.wav", Status: StatusCompleted}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	records, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records after clear = %d", len(records))
	}
}
