package feed

import (
	"encoding/json"
	"time"
)

// Operations carried on the ledger change feed.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// LedgerEvent announces one committed ledger mutation. It carries a small
// summary of the affected record plus the resulting row count; consumers
// that mirror the ledger re-read the full table from the primary store
// rather than applying events incrementally, since positional indexes are
// not durable identifiers.
type LedgerEvent struct {
	Op          string    `json:"op"`
	Index       int       `json:"index"`
	Date        string    `json:"date"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amount_cents"`
	Type        string    `json:"type"`
	LedgerSize  int       `json:"ledger_size"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewLedgerEvent(op string, index int, ledgerSize int) *LedgerEvent {
	return &LedgerEvent{
		Op:         op,
		Index:      index,
		LedgerSize: ledgerSize,
		Timestamp:  time.Now(),
	}
}

func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var ev LedgerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
