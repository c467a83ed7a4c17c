// Package backend selects and wires the ledger store from configuration.
package backend

import (
	"fmt"
	"log/slog"

	"finanzas/internal/config"
	"finanzas/internal/ledger"
	"finanzas/internal/storage"
)

type Kind string

const (
	Memory Kind = "memory"
	SQLite Kind = "sqlite"
)

func (k Kind) Valid() bool {
	return k == Memory || k == SQLite
}

// Open creates the ledger store named by the configuration. The caller
// owns the returned store and must Close it.
func Open(cfg *config.Config, logger *slog.Logger) (ledger.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	kind := Kind(cfg.DataBackend)
	switch kind {
	case Memory:
		logger.Info("Initialized memory backend")
		return ledger.NewMemoryStore(), nil
	case SQLite:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown data backend: %s", cfg.DataBackend)
	}
}
