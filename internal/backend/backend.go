// Package backend selects and builds the persistence layer from
// configuration.
package backend

import (
	"github.com/JimmyPun610/expense-tracker/internal/ledger"
)

// Type identifies a persistence backend.
type Type string

const (
	FileBackend   Type = "file"
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) IsValid() bool {
	switch t {
	case FileBackend, SQLiteBackend, MemoryBackend:
		return true
	}
	return false
}

// Config carries the subset of application config the factory needs.
type Config struct {
	Type         Type
	DataFilePath string
	SQLiteDBPath string
}

// Result is a built backend. Persister is nil for the memory backend: the
// store then keeps everything in process. Cleanup may be nil.
type Result struct {
	Persister ledger.Persister
	Cleanup   func() error
}
