package state

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"gotodo/backend"
)

func apply(s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func TestZeroValueIsInitialState(t *testing.T) {
	var s State
	if len(s.Todos) != 0 || s.DraftTitle != "" || s.EditingID != "" || s.Alert != nil || s.Busy {
		t.Errorf("zero State is not empty: %+v", s)
	}
	if s.CanSubmitDraft() {
		t.Error("empty draft must not be submittable")
	}
}

func TestReduce_Transitions(t *testing.T) {
	item := backend.TodoItem{ID: "1", Title: "Buy milk"}
	list := []backend.TodoItem{item, {ID: "2", Title: "Walk dog", Completed: true}}

	tests := []struct {
		name    string
		initial State
		actions []Action
		want    State
	}{
		{
			name:    "draft changed",
			actions: []Action{DraftChanged{Title: "New"}},
			want:    State{DraftTitle: "New"},
		},
		{
			name:    "edit started seeds the draft",
			initial: State{Todos: list},
			actions: []Action{EditStarted{Item: item}},
			want:    State{Todos: list, EditingID: "1", EditDraftTitle: "Buy milk"},
		},
		{
			name:    "edit draft changed",
			initial: State{Todos: list, EditingID: "1", EditDraftTitle: "Buy milk"},
			actions: []Action{EditDraftChanged{Title: "Buy oat milk"}},
			want:    State{Todos: list, EditingID: "1", EditDraftTitle: "Buy oat milk"},
		},
		{
			name:    "edit draft ignored outside edit mode",
			actions: []Action{EditDraftChanged{Title: "x"}},
			want:    State{},
		},
		{
			name:    "starting a second edit replaces the first",
			initial: State{Todos: list},
			actions: []Action{EditStarted{Item: list[0]}, EditStarted{Item: list[1]}},
			want:    State{Todos: list, EditingID: "2", EditDraftTitle: "Walk dog"},
		},
		{
			name:    "edit cancelled clears the draft",
			initial: State{Todos: list, EditingID: "1", EditDraftTitle: "changed"},
			actions: []Action{EditCancelled{}},
			want:    State{Todos: list},
		},
		{
			name:    "delete requested and dismissed",
			actions: []Action{DeleteRequested{ID: "2"}, DeleteDismissed{}},
			want:    State{},
		},
		{
			name:    "request started sets busy",
			actions: []Action{RequestStarted{}},
			want:    State{Busy: true},
		},
		{
			name:    "synced ends busy and replaces the list",
			initial: State{Busy: true},
			actions: []Action{Synced{Op: "fetch", Todos: list}},
			want:    State{Todos: list},
		},
		{
			name:    "synced without list keeps the mirror",
			initial: State{Todos: list, Busy: true},
			actions: []Action{Synced{Op: "fetch", Err: errors.New("boom")}},
			want:    State{Todos: list},
		},
		{
			name:    "skipped leaves busy untouched",
			initial: State{Busy: true, DraftTitle: "   "},
			actions: []Action{Synced{Op: "create", Skipped: true, ClearDraft: true}},
			want:    State{Busy: true, DraftTitle: "   "},
		},
		{
			name:    "clear draft",
			initial: State{DraftTitle: "Buy milk", Busy: true},
			actions: []Action{Synced{Op: "create", Todos: list, ClearDraft: true}},
			want:    State{Todos: list},
		},
		{
			name:    "exit edit",
			initial: State{Todos: list, EditingID: "1", EditDraftTitle: "x", Busy: true},
			actions: []Action{Synced{Op: "update", Todos: list, ExitEdit: true}},
			want:    State{Todos: list},
		},
		{
			name:    "edit mode left when the item disappears",
			initial: State{Todos: list, EditingID: "1", EditDraftTitle: "x", Busy: true},
			actions: []Action{Synced{Op: "fetch", Todos: list[1:]}},
			want:    State{Todos: list[1:]},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apply(tt.initial, tt.actions...)
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreUnexported(State{})); diff != "" {
				t.Errorf("state mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	list := []backend.TodoItem{{ID: "1", Title: "A"}}
	before := State{Todos: list, DraftTitle: "draft"}

	_ = Reduce(before, Synced{Todos: []backend.TodoItem{}, ClearDraft: true})

	if before.DraftTitle != "draft" || len(before.Todos) != 1 {
		t.Errorf("input state was modified: %+v", before)
	}
}

func TestAlert_SingleSlot(t *testing.T) {
	s := apply(State{},
		AlertShown{Alert: Alert{Message: "first", Kind: AlertSuccess}},
		AlertShown{Alert: Alert{Message: "second", Kind: AlertError}},
	)

	if s.Alert == nil || s.Alert.Message != "second" || s.Alert.Kind != AlertError {
		t.Fatalf("expected only the second alert, got %+v", s.Alert)
	}
}

func TestAlert_ExpiryMatchesSequence(t *testing.T) {
	s := Reduce(State{}, AlertShown{Alert: Alert{Message: "first"}})
	firstSeq := s.Alert.Seq

	s = Reduce(s, Synced{Alert: &Alert{Message: "second"}})
	secondSeq := s.Alert.Seq
	if secondSeq == firstSeq {
		t.Fatalf("a new alert must get a new sequence, both are %d", firstSeq)
	}

	// The first alert's timer firing must not clear the second
	s = Reduce(s, AlertExpired{Seq: firstSeq})
	if s.Alert == nil || s.Alert.Message != "second" {
		t.Fatalf("stale expiry cleared the current alert: %+v", s.Alert)
	}

	s = Reduce(s, AlertExpired{Seq: secondSeq})
	if s.Alert != nil {
		t.Errorf("matching expiry should clear the alert, got %+v", s.Alert)
	}
}

func TestAlert_SameMessageGetsFreshSequence(t *testing.T) {
	msg := Alert{Message: "Todo updated successfully!"}
	s := Reduce(State{}, Synced{Alert: &msg})
	first := s.Alert.Seq
	s = Reduce(s, Synced{Alert: &msg})

	if s.Alert.Seq == first {
		t.Error("showing the same message again must restart its lifetime")
	}
	if msg.Seq != 0 {
		t.Error("Reduce must not write into the caller's alert")
	}
}

func TestAlertKind_String(t *testing.T) {
	tests := []struct {
		kind AlertKind
		want string
	}{
		{AlertSuccess, "success"},
		{AlertError, "error"},
		{AlertKind(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("AlertKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestState_Helpers(t *testing.T) {
	s := State{
		Todos:     []backend.TodoItem{{ID: "1", Title: "A"}},
		EditingID: "1",
	}

	if !s.IsEditing("1") || s.IsEditing("2") {
		t.Error("IsEditing() should only match the editing id")
	}
	if (State{}).IsEditing("") {
		t.Error("IsEditing(\"\") must be false when nothing is edited")
	}
	if _, ok := s.Find("1"); !ok {
		t.Error("Find() should locate id 1")
	}
	if _, ok := s.Find("nope"); ok {
		t.Error("Find() should not locate a missing id")
	}

	tests := []struct {
		name  string
		draft string
		busy  bool
		want  bool
	}{
		{"text", "Buy milk", false, true},
		{"whitespace", "   ", false, false},
		{"busy", "Buy milk", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := State{DraftTitle: tt.draft, Busy: tt.busy}
			if got := st.CanSubmitDraft(); got != tt.want {
				t.Errorf("CanSubmitDraft() = %v, want %v", got, tt.want)
			}
		})
	}
}
