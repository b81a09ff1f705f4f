package state

import "gotodo/backend"

// Action is an input to Reduce
type Action interface {
	isAction()
}

// DraftChanged records new text in the add-todo input
type DraftChanged struct{ Title string }

// EditStarted puts Item into edit mode, seeding the edit draft with its title
type EditStarted struct{ Item backend.TodoItem }

// EditDraftChanged records new text in the edit input
type EditDraftChanged struct{ Title string }

// EditCancelled leaves edit mode and discards the edit draft
type EditCancelled struct{}

// DeleteRequested asks for confirmation before deleting ID
type DeleteRequested struct{ ID string }

// DeleteDismissed closes the delete confirmation, answered or not
type DeleteDismissed struct{}

// RequestStarted marks the start of a request
type RequestStarted struct{}

// Synced is the outcome of a sync controller operation. Every operation
// ends with exactly one Synced, which also ends the busy period.
type Synced struct {
	// Op names the operation, e.g. "create", for logs
	Op string

	// Skipped is set when a guard stopped the operation before any request
	Skipped bool

	// Todos replaces the mirrored list when non-nil
	Todos []backend.TodoItem

	// Alert is shown when non-nil, replacing any current alert
	Alert *Alert

	ClearDraft bool
	ExitEdit   bool

	// Err is the failure behind an error alert. Reduce ignores it; it is
	// there for callers that need an exit status.
	Err error
}

// AlertExpired clears the alert if it is still the showing identified by Seq
type AlertExpired struct{ Seq uint64 }

// AlertShown displays an alert that did not come from a sync operation
type AlertShown struct{ Alert Alert }

func (DraftChanged) isAction()     {}
func (EditStarted) isAction()      {}
func (EditDraftChanged) isAction() {}
func (EditCancelled) isAction()    {}
func (DeleteRequested) isAction()  {}
func (DeleteDismissed) isAction()  {}
func (RequestStarted) isAction()   {}
func (Synced) isAction()           {}
func (AlertExpired) isAction()     {}
func (AlertShown) isAction()       {}
