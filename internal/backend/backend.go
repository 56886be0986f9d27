// Package backend selects and initializes the ledger's backing store.
package backend

import (
	"context"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

// Type names a backing store implementation.
type Type string

const (
	Memory Type = "memory"
	CSV    Type = "csv"
	SQLite Type = "sqlite"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case Memory, CSV, SQLite:
		return true
	}
	return false
}

// Config holds what each store needs to open.
type Config struct {
	Type         Type
	CSVPath      string
	SQLiteDBPath string
}

// Result carries the loaded records, the persister for write-back (nil
// for the memory backend), and a cleanup for session end.
type Result struct {
	Records []core.Transaction
	Store   services.Persister
	Cleanup func() error
}

// Loader reads the full persisted table at session start.
type Loader interface {
	LoadAll(ctx context.Context) ([]core.Transaction, error)
}
