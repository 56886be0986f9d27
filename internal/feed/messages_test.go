package feed

import (
	"testing"
	"time"
)

func TestNewLedgerEvent(t *testing.T) {
	before := time.Now()
	ev := NewLedgerEvent(OpDelete, 2, 7)

	if ev.Op != OpDelete || ev.Index != 2 || ev.LedgerSize != 7 {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Timestamp.Before(before) {
		t.Fatalf("timestamp not set")
	}
}

func TestLedgerEventJSONRoundTrip(t *testing.T) {
	ev := NewLedgerEvent(OpInsert, 0, 1)
	ev.Category = "Food"
	ev.AmountCents = 1250
	ev.Type = "Expense"

	data, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := LedgerEventFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Op != OpInsert || got.Category != "Food" || got.AmountCents != 1250 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestLedgerEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := LedgerEventFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
