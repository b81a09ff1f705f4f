// Package rest talks to the todo collection resource over HTTP/JSON.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gotodo/backend"
)

const (
	// DefaultBaseURL is the collection resource the client targets when none is configured
	DefaultBaseURL = "http://localhost:8080/todos"

	// DefaultTimeout bounds a single request
	DefaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of a failed response is kept for debugging
	maxErrorBody = 4096
)

// APIClient handles HTTP communication with the todo REST resource
type APIClient struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// Option customizes an APIClient
type Option func(*APIClient)

// WithToken sends the token as a bearer Authorization header
func WithToken(token string) Option {
	return func(c *APIClient) { c.apiToken = token }
}

// WithTimeout overrides the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *APIClient) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *APIClient) { c.httpClient = client }
}

// NewAPIClient creates a client for the collection at baseURL
func NewAPIClient(baseURL string, opts ...Option) *APIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the collection URL
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// envelope is the {"message", "data"} wrapper the reference server answers writes with
type envelope struct {
	Message string            `json:"message"`
	Data    *backend.TodoItem `json:"data"`
}

// doRequest performs an HTTP request with authentication
func (c *APIClient) doRequest(ctx context.Context, method, endpoint string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

// do runs a request and turns transport failures and non-2xx answers into
// *backend.BackendError. On success the caller owns the response body.
func (c *APIClient) do(ctx context.Context, operation, method, endpoint, todoID string, body interface{}) (*http.Response, error) {
	resp, err := c.doRequest(ctx, method, endpoint, body)
	if err != nil {
		return nil, backend.NewBackendError(operation, 0, "request failed").
			WithTodoID(todoID).
			WithError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, backend.NewBackendError(operation, resp.StatusCode, http.StatusText(resp.StatusCode)).
			WithTodoID(todoID).
			WithBody(string(data))
	}

	return resp, nil
}

func itemPath(id string) string {
	return "/" + url.PathEscape(id)
}

// ListTodos retrieves the whole collection
func (c *APIClient) ListTodos(ctx context.Context) ([]backend.TodoItem, error) {
	resp, err := c.do(ctx, "ListTodos", http.MethodGet, "", "", nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var todos []backend.TodoItem
	if err := json.NewDecoder(resp.Body).Decode(&todos); err != nil {
		return nil, backend.NewBackendError("ListTodos", resp.StatusCode, "failed to decode response").WithError(err)
	}
	if todos == nil {
		todos = []backend.TodoItem{}
	}

	return todos, nil
}

// CreateTodo posts a new todo. The returned item is what the server echoed,
// or the submitted item when the server answered without a body.
func (c *APIClient) CreateTodo(ctx context.Context, item backend.TodoItem) (*backend.TodoItem, error) {
	resp, err := c.do(ctx, "CreateTodo", http.MethodPost, "", item.ID, item)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	return decodeItem(resp.Body, item), nil
}

// UpdateTodo edits a todo through its resource with a {title, completed} body
func (c *APIClient) UpdateTodo(ctx context.Context, id string, update backend.TodoUpdate) error {
	resp, err := c.do(ctx, "UpdateTodo", http.MethodPut, itemPath(id), id, update)
	if err != nil {
		return err
	}
	return drain(resp)
}

// ReplaceTodo puts the full item, id included, to its resource
func (c *APIClient) ReplaceTodo(ctx context.Context, item backend.TodoItem) error {
	resp, err := c.do(ctx, "ReplaceTodo", http.MethodPut, itemPath(item.ID), item.ID, item)
	if err != nil {
		return err
	}
	return drain(resp)
}

// DeleteTodo deletes a todo
func (c *APIClient) DeleteTodo(ctx context.Context, id string) error {
	resp, err := c.do(ctx, "DeleteTodo", http.MethodDelete, itemPath(id), id, nil)
	if err != nil {
		return err
	}
	return drain(resp)
}

// decodeItem reads an enveloped or bare todo, falling back when the body is
// empty or unrecognised. Writes are followed by a full refetch, so the echo
// is informational only.
func decodeItem(r io.Reader, fallback backend.TodoItem) *backend.TodoItem {
	data, err := io.ReadAll(r)
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return &fallback
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Data != nil {
		return env.Data
	}

	var bare backend.TodoItem
	if err := json.Unmarshal(data, &bare); err == nil && bare.ID != "" {
		return &bare
	}

	return &fallback
}

func drain(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
