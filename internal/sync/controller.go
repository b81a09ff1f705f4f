// Package sync drives requests against the todo resource and turns their
// results into state.Synced actions.
//
// Every write follows the same cycle: perform the request; on success show a
// success alert and re-fetch the whole collection; on failure show an error
// alert. The list is never patched locally. The server is the source of
// truth and the client always re-syncs from it after a write, trading an
// extra round-trip for never having to reconcile optimistic changes.
package sync

import (
	"context"
	"fmt"
	"sync"

	"gotodo/backend"
	"gotodo/internal/state"
	"gotodo/internal/utils"
)

// Alert texts
const (
	MsgFetchFailed   = "Failed to fetch todos"
	MsgAdded         = "Todo added successfully!"
	MsgAddFailed     = "Failed to add todo"
	MsgUpdated       = "Todo updated successfully!"
	MsgUpdateFailed  = "Failed to update todo"
	MsgDeleted       = "Todo deleted successfully!"
	MsgDeleteFailed  = "Failed to delete todo"
	MsgToggleFailed  = "Failed to update todo status"
	MsgConfirmDelete = "Are you sure you want to delete this todo?"
)

// ToggleAlertMode selects which completion state the toggle alert names
type ToggleAlertMode string

const (
	// ToggleAlertPre names the state the todo had before the toggle.
	// "Todo marked as incomplete" then follows completing a todo.
	ToggleAlertPre ToggleAlertMode = "pre"
	// ToggleAlertPost names the state the todo has after the toggle
	ToggleAlertPost ToggleAlertMode = "post"
)

// TodoAPI is the remote todo resource
type TodoAPI interface {
	ListTodos(ctx context.Context) ([]backend.TodoItem, error)
	CreateTodo(ctx context.Context, item backend.TodoItem) (*backend.TodoItem, error)
	UpdateTodo(ctx context.Context, id string, update backend.TodoUpdate) error
	ReplaceTodo(ctx context.Context, item backend.TodoItem) error
	DeleteTodo(ctx context.Context, id string) error
}

// ConfirmFunc asks the user a yes/no question
type ConfirmFunc func(prompt string) bool

// Options tune behaviours that differ from a plain reading of the operations
type Options struct {
	// PreserveCompletionOnEdit sends the todo's current completion with an
	// edit. By default an edit always sends completed=false, which reopens
	// completed todos.
	PreserveCompletionOnEdit bool

	ToggleAlert ToggleAlertMode

	// OnFetched, when set, receives every list fetched from the server
	OnFetched func([]backend.TodoItem)
}

// Controller is the only writer of the canonical todo list
type Controller struct {
	api  TodoAPI
	ids  *backend.IDGenerator
	opts Options

	mu    sync.Mutex
	todos []backend.TodoItem
}

// NewController creates a controller issuing requests through api
func NewController(api TodoAPI, ids *backend.IDGenerator, opts Options) *Controller {
	if ids == nil {
		ids = backend.NewIDGenerator()
	}
	if opts.ToggleAlert == "" {
		opts.ToggleAlert = ToggleAlertPre
	}
	return &Controller{api: api, ids: ids, opts: opts}
}

// Todos returns the list as of the last successful fetch
func (c *Controller) Todos() []backend.TodoItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]backend.TodoItem(nil), c.todos...)
}

func (c *Controller) lookup(id string) (backend.TodoItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.todos {
		if item.ID == id {
			return item, true
		}
	}
	return backend.TodoItem{}, false
}

// FetchAll replaces the list with the server's collection. On failure the
// list is left as it was and an error alert is shown.
func (c *Controller) FetchAll(ctx context.Context) state.Synced {
	todos, err := c.api.ListTodos(ctx)
	if err != nil {
		return c.failed("fetch", MsgFetchFailed, err)
	}

	c.mu.Lock()
	c.todos = todos
	c.mu.Unlock()

	if c.opts.OnFetched != nil {
		c.opts.OnFetched(todos)
	}
	utils.Debugf("fetched %d todos", len(todos))

	return state.Synced{Op: "fetch", Todos: todos}
}

// Create adds a todo titled title. A blank title is a no-op.
func (c *Controller) Create(ctx context.Context, title string) state.Synced {
	trimmed, ok := backend.NormalizeTitle(title)
	if !ok {
		return state.Synced{Op: "create", Skipped: true}
	}

	item := backend.TodoItem{
		ID:        c.ids.Next(),
		Title:     trimmed,
		Completed: false,
	}
	if _, err := c.api.CreateTodo(ctx, item); err != nil {
		return c.failed("create", MsgAddFailed, err)
	}

	return c.refetch(ctx, state.Synced{
		Op:         "create",
		Alert:      successAlert(MsgAdded),
		ClearDraft: true,
	})
}

// Update retitles the todo with id. A blank title is a no-op.
//
// Unless PreserveCompletionOnEdit is set the request carries
// completed=false whatever the todo's current state, so editing a completed
// todo reopens it.
func (c *Controller) Update(ctx context.Context, id, title string) state.Synced {
	trimmed, ok := backend.NormalizeTitle(title)
	if !ok {
		return state.Synced{Op: "update", Skipped: true}
	}

	update := backend.TodoUpdate{Title: trimmed, Completed: false}
	if c.opts.PreserveCompletionOnEdit {
		if current, found := c.lookup(id); found {
			update.Completed = current.Completed
		}
	}

	if err := c.api.UpdateTodo(ctx, id, update); err != nil {
		return c.failed("update", MsgUpdateFailed, err)
	}

	return c.refetch(ctx, state.Synced{
		Op:       "update",
		Alert:    successAlert(MsgUpdated),
		ExitEdit: true,
	})
}

// Remove deletes the todo with id once confirm approves. A nil confirm or
// a declined confirmation is a no-op.
func (c *Controller) Remove(ctx context.Context, id string, confirm ConfirmFunc) state.Synced {
	if confirm == nil || !confirm(MsgConfirmDelete) {
		return state.Synced{Op: "remove", Skipped: true}
	}

	if err := c.api.DeleteTodo(ctx, id); err != nil {
		return c.failed("remove", MsgDeleteFailed, err)
	}

	return c.refetch(ctx, state.Synced{
		Op:    "remove",
		Alert: successAlert(MsgDeleted),
	})
}

// Toggle flips the completion of item, sending the full item
func (c *Controller) Toggle(ctx context.Context, item backend.TodoItem) state.Synced {
	if err := c.api.ReplaceTodo(ctx, item.Toggled()); err != nil {
		return c.failed("toggle", MsgToggleFailed, err)
	}

	return c.refetch(ctx, state.Synced{
		Op:    "toggle",
		Alert: successAlert(ToggleMessage(item, c.opts.ToggleAlert)),
	})
}

// ToggleMessage is the success alert for toggling item, which holds the
// todo as it was before the toggle
func ToggleMessage(item backend.TodoItem, mode ToggleAlertMode) string {
	completed := item.Completed
	if mode == ToggleAlertPost {
		completed = !completed
	}
	if completed {
		return "Todo marked as complete"
	}
	return "Todo marked as incomplete"
}

// refetch completes a successful write with a fresh copy of the collection.
// If the fetch fails its error alert replaces the write's success alert and
// the list stays as it was.
func (c *Controller) refetch(ctx context.Context, result state.Synced) state.Synced {
	fetched := c.FetchAll(ctx)
	if fetched.Err != nil {
		result.Alert = fetched.Alert
		result.Err = fmt.Errorf("%s succeeded but refresh failed: %w", result.Op, fetched.Err)
		return result
	}
	result.Todos = fetched.Todos
	return result
}

func (c *Controller) failed(op, message string, err error) state.Synced {
	utils.Warnf("%s: %v", op, err)
	return state.Synced{
		Op:    op,
		Alert: &state.Alert{Message: message, Kind: state.AlertError},
		Err:   err,
	}
}

func successAlert(message string) *state.Alert {
	return &state.Alert{Message: message, Kind: state.AlertSuccess}
}
