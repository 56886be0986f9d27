package workflow

import (
	"errors"
	"testing"

	"fintrack/internal/core"
)

func TestAddFlowHappyPath(t *testing.T) {
	e := NewAdd()
	inputs := []string{"2024-01-10", "food", "Lunch", "12.50", "expense"}
	for _, in := range inputs {
		if err := e.Feed(in); err != nil {
			t.Fatalf("feed %q: %v", in, err)
		}
	}
	if !e.Done() {
		t.Fatalf("expected editor to be complete, state=%v", e.State())
	}

	rec, err := e.Record()
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.Category != "Food" || rec.Type != core.Expense || rec.Amount.Cents != 1250 {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestRejectedInputDoesNotAdvance(t *testing.T) {
	e := NewAdd()

	if err := e.Feed("not-a-date"); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if e.State() != AwaitingDate {
		t.Fatalf("state advanced after rejected input: %v", e.State())
	}

	// Same state accepts a corrected answer.
	if err := e.Feed("2024-01-10"); err != nil {
		t.Fatalf("corrected feed: %v", err)
	}
	if e.State() != AwaitingCategory {
		t.Fatalf("expected AwaitingCategory, got %v", e.State())
	}
}

func TestAddModeRejectsEmptyAnswers(t *testing.T) {
	e := NewAdd()
	if err := e.Feed("2024-01-10"); err != nil {
		t.Fatalf("date: %v", err)
	}
	if err := e.Feed(""); !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}
}

func TestEditModeEmptyInputKeepsCurrent(t *testing.T) {
	current := core.Transaction{
		Date:        core.NewDate(2024, 1, 10),
		Category:    "Food",
		Description: "Lunch",
		Amount:      core.Money{Cents: 4200},
		Type:        core.Expense,
	}
	e := NewEdit(current)

	// Keep everything except the description.
	for _, in := range []string{"", "", "Brunch", "", ""} {
		if err := e.Feed(in); err != nil {
			t.Fatalf("feed %q: %v", in, err)
		}
	}

	rec, err := e.Record()
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.Amount.Cents != 4200 {
		t.Fatalf("amount changed: expected 4200, got %d", rec.Amount.Cents)
	}
	if rec.Description != "Brunch" {
		t.Fatalf("expected updated description, got %q", rec.Description)
	}
	if rec.Date != current.Date || rec.Category != "Food" || rec.Type != core.Expense {
		t.Fatalf("kept fields changed: %+v", rec)
	}
}

func TestEditModePrompts(t *testing.T) {
	current := core.Transaction{
		Date:        core.NewDate(2024, 1, 10),
		Category:    "Food",
		Description: "Lunch",
		Amount:      core.Money{Cents: 4200},
		Type:        core.Expense,
	}
	e := NewEdit(current)

	p := e.Prompt()
	if p.Field != "date" || !p.HasDefault || p.Default != "2024-01-10" {
		t.Fatalf("unexpected date prompt %+v", p)
	}
	if err := e.Feed(""); err != nil {
		t.Fatalf("feed: %v", err)
	}

	p = e.Prompt()
	if p.Field != "category" || p.Default != "Food" {
		t.Fatalf("unexpected category prompt %+v", p)
	}
}

func TestAddModePromptsHaveNoDefaults(t *testing.T) {
	e := NewAdd()
	if p := e.Prompt(); p.HasDefault {
		t.Fatalf("add mode prompt should not carry a default: %+v", p)
	}
}

func TestRecordBeforeComplete(t *testing.T) {
	e := NewAdd()
	if _, err := e.Record(); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
}

func TestFeedAfterComplete(t *testing.T) {
	e := NewAdd()
	for _, in := range []string{"2024-01-10", "food", "Lunch", "12.50", "expense"} {
		if err := e.Feed(in); err != nil {
			t.Fatalf("feed %q: %v", in, err)
		}
	}
	if err := e.Feed("anything"); err == nil {
		t.Fatalf("expected error feeding a complete editor")
	}
}
