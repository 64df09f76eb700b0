package history

import (
	"context"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	rec := New("run-1", "tools.csv", "abc123")
	rec.ToolCount = 12
	rec.ActiveCount = 10
	rec.PartWidth = 146.5
	rec.PartDepth = 98.0
	rec.Formats = []string{"svg", "json"}

	if err := store.Set(ctx, rec); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for stored record")
	}
	if got.Input != "tools.csv" || got.InputHash != "abc123" {
		t.Errorf("record = %+v", got)
	}
	if got.PartWidth != 146.5 || got.PartDepth != 98.0 {
		t.Errorf("dimensions = %.1f x %.1f", got.PartWidth, got.PartDepth)
	}
	if len(got.Formats) != 2 {
		t.Errorf("formats = %v", got.Formats)
	}
}

func TestRecordAge(t *testing.T) {
	rec := New("run-1", "a.csv", "h1")
	rec.CreatedAt = time.Now().Add(-time.Hour)
	if rec.Age() < time.Hour {
		t.Errorf("Age = %s, want at least 1h", rec.Age())
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get for missing record = %+v, want nil", got)
	}
}

func TestFileStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	old := New("run-old", "a.csv", "h1")
	old.CreatedAt = time.Now().Add(-2 * time.Hour)
	recent := New("run-new", "b.csv", "h2")

	if err := store.Set(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, recent); err != nil {
		t.Fatal(err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].ID != "run-new" || records[1].ID != "run-old" {
		t.Errorf("order = %s, %s", records[0].ID, records[1].ID)
	}
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Set(ctx, New("run-1", "a.csv", "h1")); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "run-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("record should be gone after Delete")
	}

	// Deleting a missing record is not an error.
	if err := store.Delete(ctx, "run-1"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestFileStorePrune(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	stale := New("run-stale", "a.csv", "h1")
	stale.CreatedAt = time.Now().Add(-48 * time.Hour)
	fresh := New("run-fresh", "b.csv", "h2")

	if err := store.Set(ctx, stale); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, fresh); err != nil {
		t.Fatal(err)
	}

	removed, err := store.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].ID != "run-fresh" {
		t.Errorf("records after prune = %+v", records)
	}
}
