package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

const (
	Expense TxType = "Expense"
	Income  TxType = "Income"
)

type (
	// TxType encodes the direction of a transaction. The amount itself is
	// always positive.
	TxType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single ledger entry. All five fields are mandatory.
	Transaction struct {
		Date        Date
		Category    string
		Description string
		Amount      Money
		Type        TxType
	}
)

var (
	// ErrValidation is the base error for every field-level rule violation.
	// Concrete violations wrap it, so errors.Is(err, ErrValidation) holds.
	ErrValidation = errors.New("validation failed")

	ErrInvalidDate        = fmt.Errorf("%w: invalid date, use YYYY-MM-DD", ErrValidation)
	ErrFutureDate         = fmt.Errorf("%w: date cannot be in the future", ErrValidation)
	ErrEmptyCategory      = fmt.Errorf("%w: category cannot be empty", ErrValidation)
	ErrCategoryNotAlpha   = fmt.Errorf("%w: category must contain only letters", ErrValidation)
	ErrEmptyDescription   = fmt.Errorf("%w: description cannot be empty", ErrValidation)
	ErrNumericDescription = fmt.Errorf("%w: description cannot be only numbers", ErrValidation)
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrInvalidType        = fmt.Errorf("%w: type must be Expense or Income", ErrValidation)

	// ErrSchemaMismatch signals that an ingested table lacks one of the five
	// required transaction fields. Fatal for that data source, recoverable
	// for the process.
	ErrSchemaMismatch = errors.New("required transaction fields missing")
)

// DateLayout is the wire and display format for transaction dates.
const DateLayout = "2006-01-02"

// NewDate builds a Date at midnight UTC; transactions carry no time of day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date, the reference point for the
// future-date rule. Evaluated at validation time.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	if d.After(Today().Time) {
		return ErrFutureDate
	}
	return nil
}

func (d Date) Year() int  { return d.Time.Year() }
func (d Date) Month() int { return int(d.Time.Month()) }
func (d Date) Day() int   { return d.Time.Day() }

func (d Date) String() string {
	return d.Format(DateLayout)
}

// ParseDate parses YYYY-MM-DD input and applies the future-date rule.
func ParseDate(s string) (Date, error) {
	d, err := ParseDateLenient(s)
	if err != nil {
		return Date{}, err
	}
	if err := d.Validate(); err != nil {
		return Date{}, err
	}
	return d, nil
}

// ParseDateLenient parses YYYY-MM-DD without the future-date rule. Query
// bounds may legitimately lie outside the recorded span; only record
// fields are held to the future-date restriction.
func ParseDateLenient(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t.UTC()}, nil
}

// ParseCategory validates and normalizes a category name: letters and
// spaces only, first letter capitalized for display consistency.
func ParseCategory(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyCategory
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && r != ' ' {
			return "", ErrCategoryNotAlpha
		}
	}
	return Capitalize(s), nil
}

// ParseDescription validates a free-form description: non-empty and not a
// bare number.
func ParseDescription(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyDescription
	}
	numeric := true
	for _, r := range s {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		return "", ErrNumericDescription
	}
	return s, nil
}

// ParseType accepts Expense or Income in any case.
func ParseType(s string) (TxType, error) {
	switch TxType(Capitalize(strings.TrimSpace(s))) {
	case Expense:
		return Expense, nil
	case Income:
		return Income, nil
	}
	return "", ErrInvalidType
}

func (t TxType) Validate() error {
	if t != Expense && t != Income {
		return ErrInvalidType
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate applies every field rule. A Transaction that passes is safe to
// commit to the ledger.
func (tx Transaction) Validate() error {
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	if _, err := ParseCategory(tx.Category); err != nil {
		return err
	}
	if _, err := ParseDescription(tx.Description); err != nil {
		return err
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	return tx.Type.Validate()
}

// Capitalize upper-cases the first letter and lower-cases the rest, the
// normalization applied to categories and type names.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	out := make([]rune, len(runes))
	out[0] = unicode.ToUpper(runes[0])
	for i := 1; i < len(runes); i++ {
		out[i] = unicode.ToLower(runes[i])
	}
	return string(out)
}
