package backend

import (
	"fmt"
	"log/slog"

	"github.com/JimmyPun610/expense-tracker/internal/storage"
)

// Factory builds a Result from a backend Config.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

func (f *Factory) Create(config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLite(config)
	case FileBackend:
		return f.createFile(config)
	default:
		f.logger.Info("Initialized memory backend")
		return &Result{}, nil
	}
}

func (f *Factory) createSQLite(config Config) (*Result, error) {
	store, err := storage.NewSQLiteStore(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &Result{
		Persister: store,
		Cleanup:   store.Close,
	}, nil
}

func (f *Factory) createFile(config Config) (*Result, error) {
	slot := storage.NewFileSlot(config.DataFilePath)

	f.logger.Info("Initialized file backend", "path", config.DataFilePath)

	return &Result{Persister: slot}, nil
}
