// Package tui renders the todo list in the terminal and routes key presses
// to the sync controller.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gotodo/backend"
	"gotodo/internal/state"
	todosync "gotodo/internal/sync"
)

const defaultAlertDuration = 3 * time.Second

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

// Model is the bubbletea model of the todo screen. All state changes go
// through state.Reduce; the widgets only hold what is on screen.
type Model struct {
	ctx  context.Context
	ctrl *todosync.Controller

	st state.State

	draft   textinput.Model
	edit    textinput.Model
	spinner spinner.Model
	keys    keyMap

	focus  focusArea
	cursor int

	alertDuration time.Duration

	width    int
	height   int
	quitting bool
}

// Options configures a Model
type Options struct {
	// AlertDuration is how long an alert stays visible
	AlertDuration time.Duration
}

// NewModel creates a model that starts by fetching the list
func NewModel(ctx context.Context, ctrl *todosync.Controller, opts Options) Model {
	draft := textinput.New()
	draft.Placeholder = "What needs to be done?"
	draft.Prompt = "› "
	draft.Focus()
	draft.Width = 50

	edit := textinput.New()
	edit.Prompt = ""
	edit.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	if opts.AlertDuration <= 0 {
		opts.AlertDuration = defaultAlertDuration
	}

	return Model{
		ctx:           ctx,
		ctrl:          ctrl,
		st:            state.Reduce(state.State{}, state.RequestStarted{}),
		draft:         draft,
		edit:          edit,
		spinner:       sp,
		keys:          defaultKeyMap(),
		alertDuration: opts.AlertDuration,
		width:         80,
		height:        24,
	}
}

// State returns the current state
func (m Model) State() state.State {
	return m.st
}

// Init fetches the list
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.call(m.ctrl.FetchAll))
}

// call runs op off the event loop; its result comes back as a state.Synced
func (m Model) call(op func(context.Context) state.Synced) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return op(ctx)
	}
}

// startRequest marks the model busy and runs op
func (m Model) startRequest(op func(context.Context) state.Synced) (Model, tea.Cmd) {
	m.st = state.Reduce(m.st, state.RequestStarted{})
	return m, tea.Batch(m.call(op), m.spinner.Tick)
}

// dispatch applies an action and schedules expiry of any alert it showed
func (m Model) dispatch(a state.Action) (Model, tea.Cmd) {
	var before uint64
	if m.st.Alert != nil {
		before = m.st.Alert.Seq
	}

	m.st = state.Reduce(m.st, a)

	if m.st.Alert != nil && m.st.Alert.Seq != before {
		seq := m.st.Alert.Seq
		return m, tea.Tick(m.alertDuration, func(time.Time) tea.Msg {
			return state.AlertExpired{Seq: seq}
		})
	}
	return m, nil
}

// Update handles messages and updates model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inputWidth := min(50, msg.Width-6)
		m.draft.Width = max(inputWidth, 10)
		m.edit.Width = max(inputWidth, 10)
		return m, nil

	case state.Synced:
		return m.handleSynced(msg)

	case state.AlertExpired:
		m.st = state.Reduce(m.st, msg)
		return m, nil

	case spinner.TickMsg:
		if !m.st.Busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		switch {
		case m.st.PendingDeleteID != "":
			return m.handleConfirmKey(msg)
		case m.st.EditingID != "":
			return m.handleEditKey(msg)
		case m.focus == focusInput:
			return m.handleInputKey(msg)
		default:
			return m.handleListKey(msg)
		}
	}

	return m, nil
}

func (m Model) handleSynced(msg state.Synced) (tea.Model, tea.Cmd) {
	m, cmd := m.dispatch(msg)

	if msg.ClearDraft {
		m.draft.SetValue("")
	}
	if m.st.EditingID == "" && m.edit.Focused() {
		m.edit.Blur()
		m.edit.SetValue("")
	}
	m.clampCursor()
	return m, cmd
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.SwitchPane), key.Matches(msg, m.keys.Cancel):
		m.focus = focusList
		m.draft.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if !m.st.CanSubmitDraft() {
			return m, nil
		}
		title := m.st.DraftTitle
		return m.startRequest(func(ctx context.Context) state.Synced {
			return m.ctrl.Create(ctx, title)
		})
	}

	// The input is disabled while a request is in flight
	if m.st.Busy {
		return m, nil
	}

	var cmd tea.Cmd
	m.draft, cmd = m.draft.Update(msg)
	m.st = state.Reduce(m.st, state.DraftChanged{Title: m.draft.Value()})
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.SwitchPane), key.Matches(msg, m.keys.FocusInput):
		m.focus = focusInput
		return m, m.draft.Focus()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.st.Todos)-1 {
			m.cursor++
		}
		return m, nil
	}

	// Everything below starts a request or edits an item
	if m.st.Busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m.startRequest(m.ctrl.FetchAll)
	}

	item, ok := m.selected()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		return m.startRequest(func(ctx context.Context) state.Synced {
			return m.ctrl.Toggle(ctx, item)
		})

	case key.Matches(msg, m.keys.Edit):
		m.st = state.Reduce(m.st, state.EditStarted{Item: item})
		m.edit.SetValue(m.st.EditDraftTitle)
		m.edit.CursorEnd()
		return m, m.edit.Focus()

	case key.Matches(msg, m.keys.Delete):
		m.st = state.Reduce(m.st, state.DeleteRequested{ID: item.ID})
		return m, nil
	}

	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.st = state.Reduce(m.st, state.EditCancelled{})
		m.edit.Blur()
		m.edit.SetValue("")
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if m.st.Busy {
			return m, nil
		}
		if _, ok := backend.NormalizeTitle(m.st.EditDraftTitle); !ok {
			return m, nil
		}
		id, title := m.st.EditingID, m.st.EditDraftTitle
		return m.startRequest(func(ctx context.Context) state.Synced {
			return m.ctrl.Update(ctx, id, title)
		})
	}

	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	m.st = state.Reduce(m.st, state.EditDraftChanged{Title: m.edit.Value()})
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.st.PendingDeleteID
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.st = state.Reduce(m.st, state.DeleteDismissed{})
		if m.st.Busy {
			return m, nil
		}
		return m.startRequest(func(ctx context.Context) state.Synced {
			return m.ctrl.Remove(ctx, id, answered(true))
		})

	case key.Matches(msg, m.keys.No):
		m.st = state.Reduce(m.st, state.DeleteDismissed{})
		// A declined confirmation never reaches the network
		return m.dispatch(m.ctrl.Remove(m.ctx, id, answered(false)))
	}
	return m, nil
}

// answered turns the confirmation dialog's answer into a ConfirmFunc
func answered(yes bool) todosync.ConfirmFunc {
	return func(string) bool { return yes }
}

func (m Model) selected() (backend.TodoItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.st.Todos) {
		return backend.TodoItem{}, false
	}
	return m.st.Todos[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.st.Todos) {
		m.cursor = len(m.st.Todos) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Run starts the TUI and blocks until the user quits
func Run(ctx context.Context, ctrl *todosync.Controller, opts Options) error {
	p := tea.NewProgram(NewModel(ctx, ctrl, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
