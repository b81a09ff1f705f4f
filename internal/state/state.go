// Package state holds the client's view of the todo list and the transient
// UI state around it. State only changes by passing an Action through Reduce,
// which keeps every transition explicit and testable without a terminal.
package state

import "gotodo/backend"

// AlertKind selects how an alert is presented
type AlertKind int

const (
	AlertSuccess AlertKind = iota
	AlertError
)

func (k AlertKind) String() string {
	switch k {
	case AlertSuccess:
		return "success"
	case AlertError:
		return "error"
	default:
		return "unknown"
	}
}

// Alert is a transient notification. Seq identifies one particular showing
// so that the expiry of a replaced alert does not clear its successor.
type Alert struct {
	Message string
	Kind    AlertKind
	Seq     uint64
}

// State is the full client state. The zero value is the initial state.
type State struct {
	// Todos mirrors the server collection as of the last successful fetch
	Todos []backend.TodoItem

	DraftTitle string

	// EditingID is the id of the todo in edit mode, empty when none.
	// Being a single id, at most one todo can be edited at a time.
	EditingID      string
	EditDraftTitle string

	// PendingDeleteID is the todo awaiting delete confirmation
	PendingDeleteID string

	Alert *Alert

	// Busy is true while a request is in flight. Controls that start
	// requests are disabled meanwhile; this is advisory, not a lock.
	Busy bool

	alertSeq uint64
}

// IsEditing reports whether the todo with id is in edit mode
func (s State) IsEditing(id string) bool {
	return s.EditingID != "" && s.EditingID == id
}

// Find returns the mirrored todo with id
func (s State) Find(id string) (backend.TodoItem, bool) {
	for _, item := range s.Todos {
		if item.ID == id {
			return item, true
		}
	}
	return backend.TodoItem{}, false
}

// CanSubmitDraft reports whether the draft would produce a create request
func (s State) CanSubmitDraft() bool {
	_, ok := backend.NormalizeTitle(s.DraftTitle)
	return ok && !s.Busy
}
