// Package csvfile loads and persists the ledger as a CSV table with the
// five required columns: Date, Category, Description, Amount, Type.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"fintrack/internal/core"
)

// Header is the column layout written on export. Loading accepts any
// column order and ignores extra columns.
var Header = []string{"Date", "Category", "Description", "Amount", "Type"}

// Store reads and writes one CSV file as the ledger's backing table.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// LoadAll parses the backing file into transaction records. A header that
// lacks any required column is a schema mismatch: the session must not
// start on that source. A missing file yields an empty ledger.
func (s *Store) LoadAll(ctx context.Context) ([]core.Transaction, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.InfoContext(ctx, "CSV file absent, starting empty", "path", s.path)
			return nil, nil
		}
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var out []core.Transaction
	line := 1
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		// A malformed row must stop the load: carrying on would silently
		// truncate the table, and the next write-back would make the loss
		// permanent.
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line++
		tx, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, tx)
	}

	slog.InfoContext(ctx, "Ledger loaded from CSV", "path", s.path, "rows", len(out))
	return out, nil
}

// ReplaceAll serializes the full record sequence back to the file. The
// write goes through a temp file and rename so a crash cannot leave a
// half-written table.
func (s *Store) ReplaceAll(ctx context.Context, records []core.Transaction) error {
	tmp, err := os.CreateTemp(dirOf(s.path), "ledger-*.csv")
	if err != nil {
		return fmt.Errorf("create temp csv: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(Header); err != nil {
		tmp.Close()
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range records {
		row := []string{
			tx.Date.String(),
			tx.Category,
			tx.Description,
			tx.Amount.String(),
			string(tx.Type),
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp csv: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace csv: %w", err)
	}

	slog.InfoContext(ctx, "Ledger written to CSV", "path", s.path, "rows", len(records))
	return nil
}

func dirOf(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return "."
}

// mapColumns resolves each required column name to its index.
func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(Header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range Header {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return cols, nil
}

// parseRow types a raw CSV row. Historical rows are trusted on the
// interactive field rules (future dates, category casing), but must still
// be structurally parseable.
func parseRow(row []string, cols map[string]int) (core.Transaction, error) {
	get := func(name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	t, err := time.Parse(core.DateLayout, get("Date"))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("bad date %q", get("Date"))
	}

	amount, err := core.ParseAmount(get("Amount"))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("bad amount %q", get("Amount"))
	}

	typ := core.TxType(core.Capitalize(get("Type")))
	if err := typ.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("bad type %q", get("Type"))
	}

	return core.Transaction{
		Date:        core.Date{Time: t.UTC()},
		Category:    get("Category"),
		Description: get("Description"),
		Amount:      amount,
		Type:        typ,
	}, nil
}
