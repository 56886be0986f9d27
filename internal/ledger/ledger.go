// Package ledger holds the in-memory working set of transactions for one
// session: an ordered sequence kept sorted by date, addressed by positional
// index.
//
// The positional index is not a durable identifier. Any insert or delete
// can renumber later rows, so callers must resolve an index immediately
// before use and never cache it across a mutating call.
package ledger

import (
	"errors"
	"fmt"
	"sort"

	"fintrack/internal/core"
)

// ErrIndexOutOfRange signals a positional reference outside the current
// row range. The ledger is left unchanged.
var ErrIndexOutOfRange = errors.New("index out of range")

// Ledger is an ordered, mutable collection of transactions. It is not safe
// for concurrent use; embedding environments must serialize mutating calls.
type Ledger struct {
	records []core.Transaction
}

// New builds a ledger from records supplied by an external loader, sorting
// them by date ascending (stable, so same-date rows keep load order).
// Loaded records are trusted as historical data; field rules apply only to
// new inserts and updates.
func New(records []core.Transaction) *Ledger {
	l := &Ledger{records: append([]core.Transaction(nil), records...)}
	l.sortByDate()
	return l
}

func (l *Ledger) Len() int {
	return len(l.records)
}

// Insert validates tx and adds it to the ledger, re-establishing the date
// ordering. It returns the position the row landed on, so duplicates of an
// existing row are never confused with it. On a validation error the
// ledger is unchanged.
func (l *Ledger) Insert(tx core.Transaction) (int, error) {
	if err := tx.Validate(); err != nil {
		return -1, err
	}
	l.records = append(l.records, tx)
	l.sortByDate()
	return l.lastIndexOnDate(tx.Date), nil
}

// Get returns the record at the given 0-based position.
func (l *Ledger) Get(i int) (core.Transaction, error) {
	if err := l.checkIndex(i); err != nil {
		return core.Transaction{}, err
	}
	return l.records[i], nil
}

// UpdateAt validates tx and replaces the record at position i, returning
// the row's resulting position. The row keeps its position unless the date
// changed, in which case the record is re-placed exactly as an insert
// would place it.
func (l *Ledger) UpdateAt(i int, tx core.Transaction) (int, error) {
	if err := l.checkIndex(i); err != nil {
		return -1, err
	}
	if err := tx.Validate(); err != nil {
		return -1, err
	}
	if l.records[i].Date.Equal(tx.Date.Time) {
		l.records[i] = tx
		return i, nil
	}
	l.records = append(l.records[:i], l.records[i+1:]...)
	l.records = append(l.records, tx)
	l.sortByDate()
	return l.lastIndexOnDate(tx.Date), nil
}

// DeleteAt removes the record at position i; every later row shifts down
// by one. Irreversible within the session.
func (l *Ledger) DeleteAt(i int) error {
	if err := l.checkIndex(i); err != nil {
		return err
	}
	l.records = append(l.records[:i], l.records[i+1:]...)
	return nil
}

// Range returns the records whose date falls within [start, end] inclusive.
// Zero matches is an expected outcome, not an error: the caller gets an
// empty slice and decides whether to retry with different bounds.
func (l *Ledger) Range(start, end core.Date) []core.Transaction {
	var out []core.Transaction
	for _, tx := range l.records {
		if tx.Date.Before(start.Time) || tx.Date.After(end.Time) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// Span reports the observed min and max dates. ok is false for an empty
// ledger. Front ends use this to hint valid range bounds.
func (l *Ledger) Span() (min, max core.Date, ok bool) {
	if len(l.records) == 0 {
		return core.Date{}, core.Date{}, false
	}
	return l.records[0].Date, l.records[len(l.records)-1].Date, true
}

// Snapshot returns a by-value copy of the current records, suitable for
// aggregation while the live ledger may be mutated.
func (l *Ledger) Snapshot() []core.Transaction {
	return append([]core.Transaction(nil), l.records...)
}

func (l *Ledger) checkIndex(i int) error {
	if i < 0 || i >= len(l.records) {
		return fmt.Errorf("position %d of %d: %w", i, len(l.records), ErrIndexOutOfRange)
	}
	return nil
}

// lastIndexOnDate returns the position of the last row carrying d. The
// sort is stable and a fresh mutation is appended before sorting, so the
// row just committed is always the last of its date group.
func (l *Ledger) lastIndexOnDate(d core.Date) int {
	return sort.Search(len(l.records), func(i int) bool {
		return l.records[i].Date.After(d.Time)
	}) - 1
}

func (l *Ledger) sortByDate() {
	sort.SliceStable(l.records, func(a, b int) bool {
		return l.records[a].Date.Before(l.records[b].Date.Time)
	})
}
