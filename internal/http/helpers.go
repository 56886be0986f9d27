package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// recordView is the wire shape of a single ledger entry. Amount carries the
// display string and AmountCents the exact value.
type recordView struct {
	Index       int    `json:"index"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Type        string `json:"type"`
}

func newRecordView(index int, tx core.Transaction) recordView {
	return recordView{
		Index:       index,
		Date:        tx.Date.String(),
		Category:    tx.Category,
		Description: tx.Description,
		Amount:      tx.Amount.String(),
		AmountCents: tx.Amount.Cents,
		Type:        string(tx.Type),
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeFieldError(w http.ResponseWriter, field string, err error) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error: err.Error(),
		Field: field,
	})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, core.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func parseIndex(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("index"))
}

// writeCachedJSON serializes once, stores the payload for later hits and
// writes the response from the same bytes.
func (s *Server) writeCachedJSON(w http.ResponseWriter, key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	s.reports.Set(key, payload)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "miss")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
