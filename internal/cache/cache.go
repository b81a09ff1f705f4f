// Package cache keeps a snapshot of the last todo list fetched from the server.
package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"

	"gotodo/backend"
	"gotodo/internal/utils"
)

// CachedData represents the structure of the cached todo list
type CachedData struct {
	BaseURL   string             `json:"base_url"`
	Todos     []backend.TodoItem `json:"todos"`
	Timestamp int64              `json:"timestamp"`
}

// FetchedAt returns when the snapshot was taken
func (c CachedData) FetchedAt() time.Time {
	return time.Unix(c.Timestamp, 0)
}

// Cache reads and writes the snapshot file
type Cache struct {
	path string
	now  func() time.Time
}

// New creates a cache stored at path
func New(path string) *Cache {
	return &Cache{path: path, now: time.Now}
}

// Default creates a cache at $XDG_CACHE_HOME/gotodo/todos.json
func Default() (*Cache, error) {
	dir, err := utils.CacheDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get cache directory: %w", err)
	}
	return New(filepath.Join(dir, "todos.json")), nil
}

// Path returns the snapshot file location
func (c *Cache) Path() string {
	return c.path
}

// Load reads the snapshot
func (c *Cache) Load() (*CachedData, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}

	var cached CachedData
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("failed to parse cache file %s: %w", c.path, err)
	}
	return &cached, nil
}

// Save replaces the snapshot with todos fetched from baseURL. The file is
// swapped in atomically so readers never see a partial write.
func (c *Cache) Save(baseURL string, todos []backend.TodoItem) error {
	cached := CachedData{
		BaseURL:   baseURL,
		Todos:     todos,
		Timestamp: c.now().Unix(),
	}

	data, err := json.MarshalIndent(cached, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	return atomic.WriteFile(c.path, bytes.NewReader(data))
}

// Recorder returns a hook that saves every fetched list, logging failures
func (c *Cache) Recorder(baseURL string) func([]backend.TodoItem) {
	return func(todos []backend.TodoItem) {
		if err := c.Save(baseURL, todos); err != nil {
			utils.Debugf("failed to write cache %s: %v", c.path, err)
		}
	}
}
