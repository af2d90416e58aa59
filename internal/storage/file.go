// Package storage provides the durable persisters behind the ledger: a flat
// JSON file slot and a SQLite database. Both hold the full serialized
// transaction list and treat corrupt or missing data as an empty list.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/JimmyPun610/expense-tracker/internal/core"
)

// FileSlot persists the transaction list as a single JSON document at a
// fixed path, the closest server-side analogue of a browser key-value slot.
type FileSlot struct {
	path string
}

func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

// Save rewrites the whole document atomically (temp file + rename) so a
// crash mid-write never leaves a partial list visible.
func (f *FileSlot) Save(ctx context.Context, txs []core.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal transactions: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}

	slog.DebugContext(ctx, "Transactions saved", "path", f.path, "count", len(txs))
	return nil
}

// Load reads the document. Missing or corrupt data yields an empty list,
// not an error.
func (f *FileSlot) Load(ctx context.Context) ([]core.Transaction, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read document: %w", err)
	}

	var txs []core.Transaction
	if err := json.Unmarshal(data, &txs); err != nil {
		slog.WarnContext(ctx, "Transaction document corrupt, treating as empty", "path", f.path, "error", err)
		return nil, nil
	}
	return txs, nil
}
