// Package report computes derived aggregate views over a ledger snapshot.
//
// Every function here is pure: it reads a copied record slice and returns
// a freshly built result, so re-running an aggregation over the same
// snapshot yields identical output. Sums are exact integer cents.
package report

import (
	"sort"

	"fintrack/internal/core"
)

// CategoryTotal is one row of a by-category aggregate.
type CategoryTotal struct {
	Category string
	Total    core.Money
}

// MonthTotal is one row of a by-month aggregate.
type MonthTotal struct {
	Year  int
	Month int // 1-12
	Total core.Money
}

// CategoryTotals groups records by category and sums amounts. An empty
// filter includes every type; otherwise only matching records count.
// Rows are ordered by descending total, ties broken by category name
// ascending so results are deterministic. No matches yields an empty
// result, not an error.
func CategoryTotals(records []core.Transaction, filter core.TxType) []CategoryTotal {
	sums := make(map[string]int64)
	for _, tx := range records {
		if filter != "" && tx.Type != filter {
			continue
		}
		sums[tx.Category] += tx.Amount.Cents
	}

	out := make([]CategoryTotal, 0, len(sums))
	for name, cents := range sums {
		out = append(out, CategoryTotal{Category: name, Total: core.Money{Cents: cents}})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Total.Cents != out[b].Total.Cents {
			return out[a].Total.Cents > out[b].Total.Cents
		}
		return out[a].Category < out[b].Category
	})
	return out
}

// MonthlyTotals groups records by calendar month across all types, one row
// per month that has at least one transaction. Gap months are absent; the
// caller fills them if a renderer needs a contiguous axis. Rows are ordered
// by ascending month.
func MonthlyTotals(records []core.Transaction) []MonthTotal {
	type ym struct{ year, month int }
	sums := make(map[ym]int64)
	for _, tx := range records {
		sums[ym{tx.Date.Year(), tx.Date.Month()}] += tx.Amount.Cents
	}

	out := make([]MonthTotal, 0, len(sums))
	for k, cents := range sums {
		out = append(out, MonthTotal{Year: k.year, Month: k.month, Total: core.Money{Cents: cents}})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Year != out[b].Year {
			return out[a].Year < out[b].Year
		}
		return out[a].Month < out[b].Month
	})
	return out
}

// TopN returns the first n rows of an already-descending category result.
// Fewer rows than n returns all of them; an empty input returns an empty
// result.
func TopN(totals []CategoryTotal, n int) []CategoryTotal {
	if n < 0 {
		n = 0
	}
	if n > len(totals) {
		n = len(totals)
	}
	return append([]CategoryTotal(nil), totals[:n]...)
}

// AverageMonthly returns the mean of the monthly totals, rounded half-up
// to a cent. Zero months yields zero.
func AverageMonthly(records []core.Transaction) core.Money {
	months := MonthlyTotals(records)
	if len(months) == 0 {
		return core.Money{}
	}
	var sum int64
	for _, m := range months {
		sum += m.Total.Cents
	}
	n := int64(len(months))
	// Half-up integer division; totals are always non-negative.
	return core.Money{Cents: (sum + n/2) / n}
}
