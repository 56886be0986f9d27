package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/feed"
	"fintrack/internal/ledger"
)

// Persister writes the whole record sequence back to the backing store.
// The sqlite, csv, and sheets adapters all implement it.
type Persister interface {
	ReplaceAll(ctx context.Context, records []core.Transaction) error
}

// LedgerService owns the session ledger and wires each committed mutation
// to persistence and the change feed. The ledger itself has no locking
// discipline, so this service is the mutual-exclusion boundary around
// mutating calls.
type LedgerService struct {
	mu      sync.Mutex
	ledger  *ledger.Ledger
	store   Persister    // nil: memory-only session
	feed    *feed.Client // nil: no change feed
	closeFn func() error
	version uint64
}

// NewLedgerService builds a service over records supplied by an external
// loader. store and feedClient may be nil.
func NewLedgerService(records []core.Transaction, store Persister, feedClient *feed.Client) *LedgerService {
	return &LedgerService{
		ledger: ledger.New(records),
		store:  store,
		feed:   feedClient,
	}
}

// SetCleanup registers an extra cleanup invoked by Close.
func (s *LedgerService) SetCleanup(fn func() error) {
	s.closeFn = fn
}

// Insert validates and commits a new transaction, then writes the table
// back and announces the change. The returned position is where the row
// landed after the date re-sort.
func (s *LedgerService) Insert(ctx context.Context, tx core.Transaction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, err := s.ledger.Insert(tx)
	if err != nil {
		return -1, err
	}
	s.version++

	if err := s.persist(ctx); err != nil {
		return pos, err
	}
	s.publish(ctx, feed.OpInsert, pos, tx)
	return pos, nil
}

// UpdateAt replaces the record at the given position and returns the row's
// resulting position, which differs from index when the date changed.
func (s *LedgerService) UpdateAt(ctx context.Context, index int, tx core.Transaction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, err := s.ledger.UpdateAt(index, tx)
	if err != nil {
		return -1, err
	}
	s.version++

	if err := s.persist(ctx); err != nil {
		return pos, err
	}
	s.publish(ctx, feed.OpUpdate, pos, tx)
	return pos, nil
}

// DeleteAt removes the record at the given position. Irreversible.
func (s *LedgerService) DeleteAt(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.ledger.Get(index)
	if err != nil {
		return err
	}
	if err := s.ledger.DeleteAt(index); err != nil {
		return err
	}
	s.version++

	if err := s.persist(ctx); err != nil {
		return err
	}
	s.publish(ctx, feed.OpDelete, index, removed)
	return nil
}

// Get returns the record at the given position.
func (s *LedgerService) Get(index int) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Get(index)
}

// Snapshot returns a by-value copy of the current ledger for aggregation
// or export.
func (s *LedgerService) Snapshot() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Snapshot()
}

// Range returns records within [start, end] inclusive; an empty slice is
// the expected zero-match outcome.
func (s *LedgerService) Range(start, end core.Date) []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Range(start, end)
}

// Span reports the observed min and max dates.
func (s *LedgerService) Span() (min, max core.Date, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Span()
}

func (s *LedgerService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Len()
}

// Version counts committed mutations. Cached report payloads key on it so
// stale entries age out after any change.
func (s *LedgerService) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// persist writes the whole table back. The in-memory ledger stays mutated
// even when the write fails: it is the session's source of truth, and the
// caller sees the error.
func (s *LedgerService) persist(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.ReplaceAll(ctx, s.ledger.Snapshot()); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

// publish announces a committed mutation. Feed failures are logged, never
// surfaced: the mutation already succeeded locally.
func (s *LedgerService) publish(ctx context.Context, op string, index int, tx core.Transaction) {
	if s.feed == nil {
		return
	}
	ev := feed.NewLedgerEvent(op, index, s.ledger.Len())
	ev.Date = tx.Date.String()
	ev.Category = tx.Category
	ev.AmountCents = tx.Amount.Cents
	ev.Type = string(tx.Type)

	if err := s.feed.PublishLedgerEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"op", op, "error", err)
	}
}

// Close releases the feed connection and any registered cleanup.
func (s *LedgerService) Close() error {
	var errs []error

	if s.feed != nil {
		if err := s.feed.Close(); err != nil {
			errs = append(errs, fmt.Errorf("feed: %w", err))
		}
	}
	if s.closeFn != nil {
		if err := s.closeFn(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
