package backend

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrNotFound is returned by a Store when the addressed todo does not exist
var ErrNotFound = errors.New("todo not found")

// TodoItem is a single task record with identity, title and completion flag
type TodoItem struct {
	ID        string `json:"id" yaml:"id" validate:"required"`
	Title     string `json:"title" yaml:"title" validate:"required"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// TodoUpdate is the body sent when a todo is edited through its resource.
// It carries no id; the server takes the id from the path.
type TodoUpdate struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Toggled returns a copy of the item with Completed flipped
func (t TodoItem) Toggled() TodoItem {
	t.Completed = !t.Completed
	return t
}

var todoValidator = validator.New()

// Validate checks that the item has an id and a non-blank title
func (t TodoItem) Validate() error {
	trimmed := t
	trimmed.Title = strings.TrimSpace(t.Title)
	return todoValidator.Struct(trimmed)
}

// NormalizeTitle trims surrounding whitespace. The boolean is false when
// nothing is left, meaning the title must not be submitted.
func NormalizeTitle(title string) (string, bool) {
	trimmed := strings.TrimSpace(title)
	return trimmed, trimmed != ""
}

// IDGenerator issues client-side, time-based todo ids. Ids are the decimal
// Unix time in milliseconds, bumped forward when two calls land in the same
// millisecond so that every id handed out by one generator is unique.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator creates a generator reading the wall clock
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// NewIDGeneratorWithClock creates a generator reading the given clock
func NewIDGeneratorWithClock(now func() time.Time) *IDGenerator {
	return &IDGenerator{now: now}
}

// Next returns a new unique id
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}

// Store persists todos keyed by id. It is what the REST resource is served from.
type Store interface {
	// List returns every todo in creation order
	List(ctx context.Context) ([]TodoItem, error)
	Get(ctx context.Context, id string) (TodoItem, error)
	// Put creates the todo or overwrites an existing one with the same id
	Put(ctx context.Context, item TodoItem) error
	// Replace overwrites an existing todo, returning ErrNotFound if absent
	Replace(ctx context.Context, item TodoItem) error
	// Delete removes a todo, returning ErrNotFound if absent
	Delete(ctx context.Context, id string) error
	Close() error
}
