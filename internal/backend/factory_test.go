package backend

import (
	"path/filepath"
	"testing"
)

func TestCreateMemory(t *testing.T) {
	res, err := NewFactory(nil).Create(Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Persister != nil {
		t.Error("memory backend should have no persister")
	}
}

func TestCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.json")
	res, err := NewFactory(nil).Create(Config{Type: FileBackend, DataFilePath: path})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Persister == nil {
		t.Error("file backend should have a persister")
	}
}

func TestCreateSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.db")
	res, err := NewFactory(nil).Create(Config{Type: SQLiteBackend, SQLiteDBPath: path})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Persister == nil {
		t.Error("sqlite backend should have a persister")
	}
	if res.Cleanup == nil {
		t.Error("sqlite backend should have a cleanup")
	}
	if res.Cleanup != nil {
		_ = res.Cleanup()
	}
}

func TestCreateInvalidType(t *testing.T) {
	if _, err := NewFactory(nil).Create(Config{Type: "cloud"}); err == nil {
		t.Fatal("expected error for invalid backend type")
	}
}
