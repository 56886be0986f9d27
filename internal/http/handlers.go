package http

import (
	"encoding/json"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/workflow"
)

// txRequest carries raw field answers. Values flow through the editor
// workflow exactly as a terminal answer would, so the rejection rules and
// normalization (capitalized category and type, rounded amount) are the
// same for every front end. On updates an empty string keeps the stored
// value for that field.
type txRequest struct {
	Date        string `json:"date"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
}

// runEditor feeds a request through the given editor in field order and
// reports the first violated field.
func runEditor(ed *workflow.Editor, req txRequest) (core.Transaction, string, error) {
	answers := []string{req.Date, req.Category, req.Description, req.Amount, req.Type}
	for _, raw := range answers {
		field := ed.Prompt().Field
		if err := ed.Feed(raw); err != nil {
			return core.Transaction{}, field, err
		}
	}
	tx, err := ed.Record()
	return tx, "", err
}

type listResponse struct {
	Count        int          `json:"count"`
	Transactions []recordView `json:"transactions"`
	Span         *spanView    `json:"span,omitempty"`
}

type spanView struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

// handleListTransactions returns the full ledger, or the slice between
// from and to (inclusive) when both are given. An empty range result is
// not an error; the response carries the covered span as a hint.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	var records []core.Transaction
	ranged := false

	q := r.URL.Query()
	if q.Has("from") || q.Has("to") {
		// Bounds are parsed structurally: a range reaching past today is a
		// legitimate query that simply matches nothing.
		from, err := core.ParseDateLenient(q.Get("from"))
		if err != nil {
			writeFieldError(w, "from", err)
			return
		}
		to, err := core.ParseDateLenient(q.Get("to"))
		if err != nil {
			writeFieldError(w, "to", err)
			return
		}
		records = s.svc.Range(from, to)
		ranged = true
	} else {
		records = s.svc.Snapshot()
	}

	resp := listResponse{
		Count:        len(records),
		Transactions: make([]recordView, 0, len(records)),
	}
	for i, tx := range records {
		resp.Transactions = append(resp.Transactions, newRecordView(i, tx))
	}
	if ranged && len(records) == 0 {
		if min, max, ok := s.svc.Span(); ok {
			resp.Span = &spanView{Earliest: min.String(), Latest: max.String()}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req txRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, field, err := runEditor(workflow.NewAdd(), req)
	if err != nil {
		writeFieldError(w, field, err)
		return
	}

	pos, err := s.svc.Insert(r.Context(), tx)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, newRecordView(pos, tx))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	index, err := parseIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	tx, err := s.svc.Get(index)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newRecordView(index, tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	index, err := parseIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	current, err := s.svc.Get(index)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	var req txRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, field, err := runEditor(workflow.NewEdit(current), req)
	if err != nil {
		writeFieldError(w, field, err)
		return
	}

	// A changed date can move the record; the service reports where it
	// landed.
	pos, err := s.svc.UpdateAt(r.Context(), index, tx)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newRecordView(pos, tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	index, err := parseIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	if err := s.svc.DeleteAt(r.Context(), index); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"deleted":   index,
		"remaining": s.svc.Len(),
	})
}
