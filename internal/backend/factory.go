package backend

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/storage"
	"fintrack/internal/storage/csvfile"
)

// Open loads the initial ledger contents from the configured store and
// returns the persister used for write-back after each mutation.
func Open(ctx context.Context, cfg Config) (*Result, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case SQLite:
		return openSQLite(ctx, cfg)
	case CSV:
		return openCSV(ctx, cfg)
	default:
		slog.InfoContext(ctx, "Initialized memory backend")
		return &Result{}, nil
	}
}

func openSQLite(ctx context.Context, cfg Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite repository: %w", err)
	}

	records, err := repo.LoadAll(ctx)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("load ledger from sqlite: %w", err)
	}

	slog.InfoContext(ctx, "Initialized SQLite backend",
		"db_path", cfg.SQLiteDBPath, "rows", len(records))
	return &Result{Records: records, Store: repo, Cleanup: repo.Close}, nil
}

func openCSV(ctx context.Context, cfg Config) (*Result, error) {
	store := csvfile.New(cfg.CSVPath)

	records, err := store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger from csv: %w", err)
	}

	slog.InfoContext(ctx, "Initialized CSV backend",
		"path", cfg.CSVPath, "rows", len(records))
	return &Result{Records: records, Store: store}, nil
}
