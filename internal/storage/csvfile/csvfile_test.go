package csvfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fintrack/internal/core"
)

func writeFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "transactions.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadAll(t *testing.T) {
	path := writeFile(t, t.TempDir(),
		"Date,Category,Description,Amount,Type\n"+
			"2024-01-10,Food,Lunch,12.50,Expense\n"+
			"2024-01-05,Pay,Salary,2000,Income\n")

	got, err := New(path).LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Amount.Cents != 1250 || got[0].Type != core.Expense {
		t.Fatalf("unexpected first row %+v", got[0])
	}
	if got[1].Amount.Cents != 200000 || got[1].Type != core.Income {
		t.Fatalf("unexpected second row %+v", got[1])
	}
}

func TestLoadAllReordersColumns(t *testing.T) {
	path := writeFile(t, t.TempDir(),
		"Type,Amount,Date,Description,Category\n"+
			"Expense,5.00,2024-02-01,Bus ticket,Transport\n")

	got, err := New(path).LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got[0].Category != "Transport" || got[0].Amount.Cents != 500 {
		t.Fatalf("column mapping broken: %+v", got[0])
	}
}

func TestLoadAllSchemaMismatch(t *testing.T) {
	path := writeFile(t, t.TempDir(),
		"Date,Category,Amount\n"+
			"2024-01-10,Food,12.50\n")

	_, err := New(path).LoadAll(context.Background())
	if !errors.Is(err, core.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestLoadAllMissingFileIsEmpty(t *testing.T) {
	got, err := New(filepath.Join(t.TempDir(), "absent.csv")).LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty ledger, got %d rows", len(got))
	}
}

func TestLoadAllBadRow(t *testing.T) {
	path := writeFile(t, t.TempDir(),
		"Date,Category,Description,Amount,Type\n"+
			"2024-01-10,Food,Lunch,abc,Expense\n")

	if _, err := New(path).LoadAll(context.Background()); err == nil {
		t.Fatalf("expected error for malformed amount")
	}
}

func TestLoadAllMalformedRowMidFileIsAnError(t *testing.T) {
	// An unterminated quote in row 2 must fail the whole load. Treating it
	// as end-of-file would hand back a one-row table with a nil error, and
	// the next write-back would destroy rows 2 and 3 on disk.
	path := writeFile(t, t.TempDir(),
		"Date,Category,Description,Amount,Type\n"+
			"2024-01-05,Pay,Salary,2000,Income\n"+
			"2024-01-10,Food,\"broken,12.50,Expense\n"+
			"2024-01-15,Rent,January,900,Expense\n")

	got, err := New(path).LoadAll(context.Background())
	if err == nil {
		t.Fatalf("expected error for malformed row, got %d rows", len(got))
	}
	if got != nil {
		t.Fatalf("expected no partial result, got %d rows", len(got))
	}
}

func TestReplaceAllRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	store := New(path)

	records := []core.Transaction{
		{
			Date:        core.NewDate(2024, 1, 5),
			Category:    "Pay",
			Description: "Salary",
			Amount:      core.Money{Cents: 200000},
			Type:        core.Income,
		},
		{
			Date:        core.NewDate(2024, 1, 10),
			Category:    "Food",
			Description: "Lunch",
			Amount:      core.Money{Cents: 1250},
			Type:        core.Expense,
		},
	}

	if err := store.ReplaceAll(context.Background(), records); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(got) != 2 || got[0].Description != "Salary" || got[1].Amount.Cents != 1250 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
