// Package workflow implements the guided, field-by-field editor used to
// create or modify a transaction.
//
// The editor is a sequential state machine. Each state accepts one raw
// textual answer, applies the matching field rule from core, and advances
// only on success; a rejected answer leaves the state where it was so any
// front end can re-prompt with the reported violation. The editor never
// touches the ledger itself: a completed record is committed by the caller
// through the ledger's Insert or UpdateAt.
package workflow

import (
	"errors"

	"fintrack/internal/core"
)

// State identifies which field the editor is waiting for.
type State int

const (
	AwaitingDate State = iota
	AwaitingCategory
	AwaitingDescription
	AwaitingAmount
	AwaitingType
	Complete
)

var stateNames = [...]string{
	AwaitingDate:        "date",
	AwaitingCategory:    "category",
	AwaitingDescription: "description",
	AwaitingAmount:      "amount",
	AwaitingType:        "type",
	Complete:            "complete",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// ErrIncomplete is returned by Record before every field is populated.
var ErrIncomplete = errors.New("editor has not collected all fields")

// Prompt describes what the editor is currently asking for. In edit mode
// Default carries the field's current value and an empty answer keeps it.
type Prompt struct {
	Field      string
	Default    string
	HasDefault bool
}

// Editor collects a validated transaction one field at a time.
type Editor struct {
	state   State
	editing bool
	current core.Transaction // defaults when editing
	draft   core.Transaction
}

// NewAdd starts an add-mode editor: every field requires a non-empty,
// validated answer.
func NewAdd() *Editor {
	return &Editor{state: AwaitingDate}
}

// NewEdit starts an edit-mode editor seeded with the record being changed.
// Empty answers keep the current value without re-validating it.
func NewEdit(current core.Transaction) *Editor {
	return &Editor{state: AwaitingDate, editing: true, current: current}
}

func (e *Editor) State() State {
	return e.state
}

func (e *Editor) Done() bool {
	return e.state == Complete
}

// Prompt reports the field being collected, with the current value as the
// default in edit mode.
func (e *Editor) Prompt() Prompt {
	p := Prompt{Field: e.state.String()}
	if !e.editing || e.state == Complete {
		return p
	}
	p.HasDefault = true
	switch e.state {
	case AwaitingDate:
		p.Default = e.current.Date.String()
	case AwaitingCategory:
		p.Default = e.current.Category
	case AwaitingDescription:
		p.Default = e.current.Description
	case AwaitingAmount:
		p.Default = e.current.Amount.String()
	case AwaitingType:
		p.Default = string(e.current.Type)
	}
	return p
}

// Feed applies raw input to the current state. On success the parsed value
// is stored and the editor advances; on failure the violated rule is
// returned and the state does not change. In edit mode an empty answer
// short-circuits validation and keeps the current field value.
func (e *Editor) Feed(raw string) error {
	if e.state == Complete {
		return errors.New("editor already complete")
	}

	if e.editing && raw == "" {
		e.keepCurrent()
		e.state++
		return nil
	}

	switch e.state {
	case AwaitingDate:
		d, err := core.ParseDate(raw)
		if err != nil {
			return err
		}
		e.draft.Date = d
	case AwaitingCategory:
		c, err := core.ParseCategory(raw)
		if err != nil {
			return err
		}
		e.draft.Category = c
	case AwaitingDescription:
		s, err := core.ParseDescription(raw)
		if err != nil {
			return err
		}
		e.draft.Description = s
	case AwaitingAmount:
		m, err := core.ParseAmount(raw)
		if err != nil {
			return err
		}
		e.draft.Amount = m
	case AwaitingType:
		t, err := core.ParseType(raw)
		if err != nil {
			return err
		}
		e.draft.Type = t
	}
	e.state++
	return nil
}

func (e *Editor) keepCurrent() {
	switch e.state {
	case AwaitingDate:
		e.draft.Date = e.current.Date
	case AwaitingCategory:
		e.draft.Category = e.current.Category
	case AwaitingDescription:
		e.draft.Description = e.current.Description
	case AwaitingAmount:
		e.draft.Amount = e.current.Amount
	case AwaitingType:
		e.draft.Type = e.current.Type
	}
}

// Record returns the collected transaction once the editor is complete.
func (e *Editor) Record() (core.Transaction, error) {
	if e.state != Complete {
		return core.Transaction{}, ErrIncomplete
	}
	return e.draft, nil
}
