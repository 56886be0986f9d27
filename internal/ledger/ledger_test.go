package ledger

import (
	"errors"
	"reflect"
	"testing"

	"fintrack/internal/core"
)

func tx(date core.Date, category, desc string, cents int64, typ core.TxType) core.Transaction {
	return core.Transaction{
		Date:        date,
		Category:    category,
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Type:        typ,
	}
}

func TestInsertKeepsDateOrder(t *testing.T) {
	l := New(nil)
	if _, err := l.Insert(tx(core.NewDate(2024, 1, 10), "Food", "Lunch", 1250, core.Expense)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	pos, err := l.Insert(tx(core.NewDate(2024, 1, 5), "Pay", "Salary", 200000, core.Income))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if pos != 0 {
		t.Fatalf("earlier date landed at position %d, want 0", pos)
	}

	first, _ := l.Get(0)
	second, _ := l.Get(1)
	if first.Category != "Pay" || second.Category != "Food" {
		t.Fatalf("expected [Pay, Food], got [%s, %s]", first.Category, second.Category)
	}
}

func TestInsertStableOnEqualDates(t *testing.T) {
	l := New(nil)
	d := core.NewDate(2024, 3, 1)
	for i, desc := range []string{"First", "Second", "Third"} {
		pos, err := l.Insert(tx(d, "Misc", desc, 100, core.Expense))
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if pos != i {
			t.Fatalf("insert %q landed at position %d, want %d", desc, pos, i)
		}
	}
	got := l.Snapshot()
	for i, want := range []string{"First", "Second", "Third"} {
		if got[i].Description != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, got[i].Description)
		}
	}
}

func TestInsertReportsPositionOfDuplicateRow(t *testing.T) {
	d := core.NewDate(2024, 3, 1)
	coffee := tx(d, "Food", "Coffee", 300, core.Expense)
	l := New([]core.Transaction{coffee})

	// An identical row must report its own slot, not the existing twin's.
	pos, err := l.Insert(coffee)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if pos != 1 {
		t.Fatalf("duplicate row reported at position %d, want 1", pos)
	}
}

func TestInsertValidationLeavesLedgerUnchanged(t *testing.T) {
	l := New([]core.Transaction{
		tx(core.NewDate(2024, 1, 5), "Pay", "Salary", 200000, core.Income),
	})
	before := l.Snapshot()

	bad := tx(core.NewDate(2024, 1, 10), "Food", "Lunch", 0, core.Expense)
	if _, err := l.Insert(bad); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !reflect.DeepEqual(before, l.Snapshot()) {
		t.Fatalf("ledger changed after rejected insert")
	}
}

func TestGetIndexErrors(t *testing.T) {
	l := New([]core.Transaction{
		tx(core.NewDate(2024, 1, 5), "Pay", "Salary", 200000, core.Income),
	})
	for _, i := range []int{-1, 1, 99} {
		if _, err := l.Get(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("index %d: expected ErrIndexOutOfRange, got %v", i, err)
		}
	}
}

func TestUpdateAtPreservesPositionWhenDateUnchanged(t *testing.T) {
	d := core.NewDate(2024, 2, 1)
	l := New([]core.Transaction{
		tx(d, "Food", "Breakfast", 500, core.Expense),
		tx(d, "Food", "Lunch", 1250, core.Expense),
		tx(d, "Food", "Dinner", 2000, core.Expense),
	})

	updated := tx(d, "Food", "Brunch", 900, core.Expense)
	pos, err := l.UpdateAt(1, updated)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if pos != 1 {
		t.Fatalf("unchanged date moved the row to %d, want 1", pos)
	}
	got, _ := l.Get(1)
	if got.Description != "Brunch" {
		t.Fatalf("expected Brunch at position 1, got %q", got.Description)
	}
}

func TestUpdateAtResortsWhenDateChanges(t *testing.T) {
	l := New([]core.Transaction{
		tx(core.NewDate(2024, 1, 5), "Pay", "Salary", 200000, core.Income),
		tx(core.NewDate(2024, 1, 10), "Food", "Lunch", 1250, core.Expense),
	})

	moved := tx(core.NewDate(2024, 1, 1), "Food", "Lunch", 1250, core.Expense)
	pos, err := l.UpdateAt(1, moved)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if pos != 0 {
		t.Fatalf("moved row reported at position %d, want 0", pos)
	}
	first, _ := l.Get(0)
	if first.Category != "Food" {
		t.Fatalf("expected Food first after date change, got %q", first.Category)
	}
}

func TestUpdateAtRejectsInvalidValues(t *testing.T) {
	l := New([]core.Transaction{
		tx(core.NewDate(2024, 1, 5), "Pay", "Salary", 200000, core.Income),
	})
	before := l.Snapshot()

	bad := tx(core.NewDate(2024, 1, 5), "Pay", "42", 200000, core.Income)
	if _, err := l.UpdateAt(0, bad); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !reflect.DeepEqual(before, l.Snapshot()) {
		t.Fatalf("ledger changed after rejected update")
	}
	if _, err := l.UpdateAt(5, before[0]); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestDeleteAtRenumbers(t *testing.T) {
	l := New([]core.Transaction{
		tx(core.NewDate(2024, 1, 1), "Pay", "Salary", 200000, core.Income),
		tx(core.NewDate(2024, 1, 2), "Food", "Lunch", 1250, core.Expense),
		tx(core.NewDate(2024, 1, 3), "Rent", "January", 90000, core.Expense),
	})

	if err := l.DeleteAt(0); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if l.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", l.Len())
	}
	first, _ := l.Get(0)
	if first.Category != "Food" {
		t.Fatalf("expected former row 1 at row 0, got %q", first.Category)
	}
	if err := l.DeleteAt(2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestRangeInclusiveAndEmpty(t *testing.T) {
	l := New([]core.Transaction{
		tx(core.NewDate(2024, 1, 1), "Pay", "Salary", 200000, core.Income),
		tx(core.NewDate(2024, 1, 15), "Food", "Lunch", 1250, core.Expense),
		tx(core.NewDate(2024, 2, 1), "Rent", "February", 90000, core.Expense),
	})

	got := l.Range(core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 31))
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}

	// A range entirely outside the observed span is an empty result, not
	// an error.
	if got := l.Range(core.NewDate(2030, 1, 1), core.NewDate(2030, 12, 31)); len(got) != 0 {
		t.Fatalf("expected empty result, got %d rows", len(got))
	}
}

func TestSpan(t *testing.T) {
	l := New(nil)
	if _, _, ok := l.Span(); ok {
		t.Fatalf("expected no span for empty ledger")
	}

	l = New([]core.Transaction{
		tx(core.NewDate(2024, 3, 1), "Food", "Lunch", 100, core.Expense),
		tx(core.NewDate(2024, 1, 1), "Pay", "Salary", 200000, core.Income),
	})
	min, max, ok := l.Span()
	if !ok || min.String() != "2024-01-01" || max.String() != "2024-03-01" {
		t.Fatalf("unexpected span %v..%v ok=%v", min, max, ok)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	l := New([]core.Transaction{
		tx(core.NewDate(2024, 1, 1), "Pay", "Salary", 200000, core.Income),
	})
	snap := l.Snapshot()
	snap[0].Category = "Changed"

	got, _ := l.Get(0)
	if got.Category != "Pay" {
		t.Fatalf("snapshot mutation leaked into ledger")
	}
}
