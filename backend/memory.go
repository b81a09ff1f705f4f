package backend

import (
	"context"
	"sync"
)

// MemoryStore keeps todos in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]TodoItem
	order []string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]TodoItem)}
}

// List returns every todo in creation order
func (s *MemoryStore) List(ctx context.Context) ([]TodoItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos := make([]TodoItem, 0, len(s.order))
	for _, id := range s.order {
		todos = append(todos, s.items[id])
	}
	return todos, nil
}

// Get returns the todo with id, or ErrNotFound
func (s *MemoryStore) Get(ctx context.Context, id string) (TodoItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return TodoItem{}, ErrNotFound
	}
	return item, nil
}

// Put stores item, overwriting a todo with the same id in place
func (s *MemoryStore) Put(ctx context.Context, item TodoItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; !exists {
		s.order = append(s.order, item.ID)
	}
	s.items[item.ID] = item
	return nil
}

// Replace overwrites an existing todo, or returns ErrNotFound
func (s *MemoryStore) Replace(ctx context.Context, item TodoItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; !exists {
		return ErrNotFound
	}
	s.items[item.ID] = item
	return nil
}

// Delete removes the todo with id, or returns ErrNotFound
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return ErrNotFound
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Close releases the store
func (s *MemoryStore) Close() error {
	return nil
}
