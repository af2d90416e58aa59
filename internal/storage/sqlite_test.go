package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStoreSaveLoad(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	if err := store.Save(ctx, sample()); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records", len(got))
	}
	if got[0].ID != "a" || got[0].Amount.Cents != 1234 {
		t.Fatalf("first record = %+v", got[0])
	}
	if !got[0].Date.Equal(sample()[0].Date) {
		t.Fatalf("date round trip: %v", got[0].Date)
	}
}

func TestSQLiteStoreSnapshotReplace(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	if err := store.Save(ctx, sample()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, sample()[:1]); err != nil {
		t.Fatalf("save smaller snapshot: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("snapshot not replaced: %+v", got)
	}
}

func TestSQLiteStoreEmpty(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	got, err := store.Load(context.Background())
	if err != nil || len(got) != 0 {
		t.Fatalf("fresh database must be empty, got %v, %v", got, err)
	}
}
