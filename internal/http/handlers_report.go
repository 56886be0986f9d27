package http

import (
	"fmt"
	"net/http"
	"strconv"

	"fintrack/internal/core"
	"fintrack/internal/report"
)

type categoryView struct {
	Category   string `json:"category"`
	Total      string `json:"total"`
	TotalCents int64  `json:"total_cents"`
}

type monthView struct {
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Total      string `json:"total"`
	TotalCents int64  `json:"total_cents"`
}

type categoryReportResponse struct {
	Filter     string         `json:"filter,omitempty"`
	Count      int            `json:"count"`
	Categories []categoryView `json:"categories"`
}

type monthlyReportResponse struct {
	Count               int          `json:"count"`
	Months              []monthView  `json:"months"`
	AverageMonthly      string       `json:"average_monthly"`
	AverageMonthlyCents int64        `json:"average_monthly_cents"`
}

// cacheKey ties cached payloads to the ledger version, so a mutation
// invalidates every report without explicit eviction.
func (s *Server) cacheKey(r *http.Request) string {
	return fmt.Sprintf("v%d:%s?%s", s.svc.Version(), r.URL.Path, r.URL.RawQuery)
}

func (s *Server) serveCached(w http.ResponseWriter, key string) bool {
	payload, ok := s.reports.Get(key)
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "hit")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
	return true
}

// handleCategoryReport aggregates totals per category. The optional type
// query restricts to one transaction type, and top truncates to the N
// largest (an empty top value falls back to the configured default).
func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	key := s.cacheKey(r)
	if s.serveCached(w, key) {
		return
	}

	q := r.URL.Query()
	var filter core.TxType
	if raw := q.Get("type"); raw != "" {
		t, err := core.ParseType(raw)
		if err != nil {
			writeFieldError(w, "type", err)
			return
		}
		filter = t
	}

	totals := report.CategoryTotals(s.svc.Snapshot(), filter)
	if q.Has("top") {
		n := s.topDefault
		if raw := q.Get("top"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				writeError(w, http.StatusBadRequest, "top must be a non-negative integer")
				return
			}
			n = parsed
		}
		totals = report.TopN(totals, n)
	}

	resp := categoryReportResponse{
		Filter:     string(filter),
		Count:      len(totals),
		Categories: make([]categoryView, 0, len(totals)),
	}
	for _, ct := range totals {
		resp.Categories = append(resp.Categories, categoryView{
			Category:   ct.Category,
			Total:      ct.Total.String(),
			TotalCents: ct.Total.Cents,
		})
	}
	s.writeCachedJSON(w, key, resp)
}

// handleMonthlyReport lists per-month totals in chronological order and
// the mean across the months that actually have records.
func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	key := s.cacheKey(r)
	if s.serveCached(w, key) {
		return
	}

	records := s.svc.Snapshot()
	months := report.MonthlyTotals(records)
	avg := report.AverageMonthly(records)

	resp := monthlyReportResponse{
		Count:               len(months),
		Months:              make([]monthView, 0, len(months)),
		AverageMonthly:      avg.String(),
		AverageMonthlyCents: avg.Cents,
	}
	for _, mt := range months {
		resp.Months = append(resp.Months, monthView{
			Year:       mt.Year,
			Month:      mt.Month,
			Total:      mt.Total.String(),
			TotalCents: mt.Total.Cents,
		})
	}
	s.writeCachedJSON(w, key, resp)
}
