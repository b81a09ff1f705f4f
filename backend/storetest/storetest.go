// Package storetest holds a behavioural suite every backend.Store must pass,
// plus a store double with injectable failures.
package storetest

import (
	"context"
	"errors"
	"testing"

	"gotodo/backend"
)

// Factory returns an empty store. The suite closes it.
type Factory func(t *testing.T) backend.Store

// Run exercises the Store contract against stores built by newStore
func Run(t *testing.T, newStore Factory) {
	t.Run("empty list", func(t *testing.T) {
		s := open(t, newStore)
		todos, err := s.List(context.Background())
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if todos == nil || len(todos) != 0 {
			t.Errorf("List() = %#v, want empty non-nil slice", todos)
		}
	})

	t.Run("put and get", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()
		want := backend.TodoItem{ID: "1", Title: "Buy milk", Completed: true}
		if err := s.Put(ctx, want); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		got, err := s.Get(ctx, "1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != want {
			t.Errorf("Get() = %+v, want %+v", got, want)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		s := open(t, newStore)
		if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, backend.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("list keeps creation order", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()
		ids := []string{"30", "10", "20"}
		for _, id := range ids {
			mustPut(t, s, backend.TodoItem{ID: id, Title: "todo " + id})
		}
		// Overwriting must not move the item
		mustPut(t, s, backend.TodoItem{ID: "30", Title: "changed"})

		todos, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(todos) != len(ids) {
			t.Fatalf("List() returned %d items, want %d", len(todos), len(ids))
		}
		for i, id := range ids {
			if todos[i].ID != id {
				t.Errorf("List()[%d].ID = %q, want %q", i, todos[i].ID, id)
			}
		}
		if todos[0].Title != "changed" {
			t.Errorf("overwritten title = %q, want %q", todos[0].Title, "changed")
		}
	})

	t.Run("replace", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()
		mustPut(t, s, backend.TodoItem{ID: "1", Title: "A"})

		updated := backend.TodoItem{ID: "1", Title: "B", Completed: true}
		if err := s.Replace(ctx, updated); err != nil {
			t.Fatalf("Replace() error = %v", err)
		}
		got, _ := s.Get(ctx, "1")
		if got != updated {
			t.Errorf("after Replace() Get() = %+v, want %+v", got, updated)
		}

		err := s.Replace(ctx, backend.TodoItem{ID: "2", Title: "C"})
		if !errors.Is(err, backend.ErrNotFound) {
			t.Errorf("Replace() of missing item error = %v, want ErrNotFound", err)
		}
		todos, _ := s.List(ctx)
		if len(todos) != 1 {
			t.Errorf("Replace() of missing item must not create it, list has %d items", len(todos))
		}
	})

	t.Run("delete", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()
		mustPut(t, s, backend.TodoItem{ID: "1", Title: "A"})
		mustPut(t, s, backend.TodoItem{ID: "2", Title: "B"})

		if err := s.Delete(ctx, "1"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := s.Delete(ctx, "1"); !errors.Is(err, backend.ErrNotFound) {
			t.Errorf("second Delete() error = %v, want ErrNotFound", err)
		}

		todos, _ := s.List(ctx)
		if len(todos) != 1 || todos[0].ID != "2" {
			t.Errorf("List() after Delete() = %+v, want only id 2", todos)
		}
	})
}

func open(t *testing.T, newStore Factory) backend.Store {
	t.Helper()
	s := newStore(t)
	t.Cleanup(func() { s.Close() })
	return s
}

func mustPut(t *testing.T, s backend.Store, item backend.TodoItem) {
	t.Helper()
	if err := s.Put(context.Background(), item); err != nil {
		t.Fatalf("Put(%+v) error = %v", item, err)
	}
}

// FailingStore wraps a store and returns the configured errors instead of
// delegating. A nil error delegates.
type FailingStore struct {
	backend.Store
	ListErr    error
	PutErr     error
	ReplaceErr error
	DeleteErr  error
}

func (f *FailingStore) List(ctx context.Context) ([]backend.TodoItem, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Store.List(ctx)
}

func (f *FailingStore) Put(ctx context.Context, item backend.TodoItem) error {
	if f.PutErr != nil {
		return f.PutErr
	}
	return f.Store.Put(ctx, item)
}

func (f *FailingStore) Replace(ctx context.Context, item backend.TodoItem) error {
	if f.ReplaceErr != nil {
		return f.ReplaceErr
	}
	return f.Store.Replace(ctx, item)
}

func (f *FailingStore) Delete(ctx context.Context, id string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	return f.Store.Delete(ctx, id)
}
