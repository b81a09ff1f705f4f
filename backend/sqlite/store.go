// Package sqlite provides a durable backend.Store on top of modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gotodo/backend"
	"gotodo/internal/utils"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store persists todos in a SQLite database file
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the database at dbPath and sets up the schema.
// An empty path resolves to $XDG_DATA_HOME/gotodo/todos.db.
func Open(dbPath string) (*Store, error) {
	dbPath, err := getDatabasePath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get database path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; sqlite would answer SQLITE_BUSY otherwise
	db.SetMaxOpenConns(1)

	store := &Store{db: db, path: dbPath}
	if err := utils.LogOperationf("initialize schema of %s", store.initializeSchema, dbPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// getDatabasePath returns the path to the SQLite database file
// Priority: customPath > $XDG_DATA_HOME/gotodo/todos.db > ~/.local/share/gotodo/todos.db
func getDatabasePath(customPath string) (string, error) {
	if customPath != "" {
		return utils.ExpandPath(customPath)
	}

	dir, err := utils.DataDir()
	if err != nil {
		return "", fmt.Errorf("failed to get data directory: %w", err)
	}
	return filepath.Join(dir, "todos.db"), nil
}

// initializeSchema creates all tables, indexes, and sets pragmas
func (s *Store) initializeSchema() error {
	for _, pragma := range PragmaStatements() {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute pragma %q: %w", pragma, err)
		}
	}

	for _, schema := range AllTableSchemas() {
		if _, err := s.db.Exec(schema); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	for _, index := range AllIndexes() {
		if _, err := s.db.Exec(index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO schema_version (version, applied_at) VALUES (?, ?)",
		SchemaVersion,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return nil
}

// SchemaVersion returns the current schema version from the database
func (s *Store) SchemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Path returns the filesystem path to the database file
func (s *Store) Path() string {
	return s.path
}

// List returns every todo in creation order
func (s *Store) List(ctx context.Context) ([]backend.TodoItem, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, completed FROM todos ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	todos := make([]backend.TodoItem, 0)
	for rows.Next() {
		var item backend.TodoItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}

// Get returns the todo with id, or backend.ErrNotFound
func (s *Store) Get(ctx context.Context, id string) (backend.TodoItem, error) {
	var item backend.TodoItem
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, completed FROM todos WHERE id = ?", id,
	).Scan(&item.ID, &item.Title, &item.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return backend.TodoItem{}, backend.ErrNotFound
	}
	if err != nil {
		return backend.TodoItem{}, fmt.Errorf("failed to get todo %s: %w", id, err)
	}
	return item, nil
}

// Put stores item, overwriting a todo with the same id in place
func (s *Store) Put(ctx context.Context, item backend.TodoItem) error {
	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (id, title, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			completed = excluded.completed,
			updated_at = excluded.updated_at`,
		item.ID, item.Title, item.Completed, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to store todo %s: %w", item.ID, err)
	}
	return nil
}

// Replace overwrites an existing todo, or returns backend.ErrNotFound
func (s *Store) Replace(ctx context.Context, item backend.TodoItem) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE todos SET title = ?, completed = ?, updated_at = ? WHERE id = ?",
		item.Title, item.Completed, time.Now().Unix(), item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update todo %s: %w", item.ID, err)
	}
	return expectOneRow(res)
}

// Delete removes the todo with id, or returns backend.ErrNotFound
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete todo %s: %w", id, err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return backend.ErrNotFound
	}
	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
