package history_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"introsplice/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	first, err := store.Record(ctx, history.Entry{
		JobID:             "job-1",
		VideoPath:         "/videos/cat.mp4",
		ImagePath:         "/videos/cat_main.png",
		Style:             "zoom",
		IntroSeconds:      0.5,
		TransitionSeconds: 1,
		Status:            history.StatusSucceeded,
		OutputPath:        "/out/cat_12:00:03.mp4",
		StartedAt:         base,
		FinishedAt:        base.Add(3 * time.Second),
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected row id")
	}
	if _, err := store.Record(ctx, history.Entry{
		JobID:        "job-2",
		VideoPath:    "/videos/dog.mp4",
		ImagePath:    "/videos/dog_main.png",
		Style:        "fade",
		Status:       history.StatusFailed,
		ErrorMessage: "transition render failed",
		StartedAt:    base.Add(time.Minute),
		FinishedAt:   base.Add(time.Minute + time.Second),
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].JobID != "job-2" || entries[1].JobID != "job-1" {
		t.Fatalf("expected newest first, got %s then %s", entries[0].JobID, entries[1].JobID)
	}
	if entries[0].ErrorMessage != "transition render failed" || entries[0].OutputPath != "" {
		t.Fatalf("unexpected failed entry %+v", entries[0])
	}
	if entries[1].Elapsed() != 3*time.Second {
		t.Fatalf("elapsed = %v", entries[1].Elapsed())
	}
	if !entries[1].StartedAt.Equal(base) {
		t.Fatalf("started at = %v", entries[1].StartedAt)
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts[history.StatusSucceeded] != 1 || counts[history.StatusFailed] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestRecordRequiresJobIDAndStatus(t *testing.T) {
	store := openStore(t)
	if _, err := store.Record(context.Background(), history.Entry{Status: history.StatusFailed}); err == nil {
		t.Fatal("expected error for missing job id")
	}
	if _, err := store.Record(context.Background(), history.Entry{JobID: "x"}); err == nil {
		t.Fatal("expected error for missing status")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.Record(context.Background(), history.Entry{JobID: "a", Status: history.StatusRejected}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	entries, err := reopened.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Status != history.StatusRejected {
		t.Fatalf("unexpected entries after reopen %+v", entries)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := history.Open("  "); err == nil {
		t.Fatal("expected error")
	}
}

func TestRecordConcurrentWriters(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	const writers = 16
	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Record(ctx, history.Entry{
				JobID:     fmt.Sprintf("job-%02d", i),
				VideoPath: fmt.Sprintf("/videos/%02d.mp4", i),
				Status:    history.StatusSucceeded,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Record: %v", err)
		}
	}

	entries, err := store.List(ctx, writers*2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != writers {
		t.Fatalf("expected %d entries, got %d", writers, len(entries))
	}
}
