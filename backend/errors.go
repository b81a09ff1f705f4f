package backend

import "fmt"

// BackendError represents a failed request against the todo resource.
// It carries the HTTP status code (0 for transport failures), the operation
// that failed and the response body for debugging.
type BackendError struct {
	Operation  string // e.g., "ListTodos", "CreateTodo", "DeleteTodo"
	StatusCode int    // HTTP status code (0 if not an HTTP error)
	Message    string // Human-readable error message
	TodoID     string // Optional: affected todo id
	Body       string // Optional: response body for debugging
	Err        error  // Optional: underlying error
}

// Error implements the error interface
func (e *BackendError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s failed with status %d: %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the underlying error for error wrapping
func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the error is a 404 Not Found
func (e *BackendError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized returns true if the error is a 401 Unauthorized or 403 Forbidden
func (e *BackendError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsServerError returns true if the error is a 5xx server error
func (e *BackendError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsTransport returns true if the request never got an HTTP response
func (e *BackendError) IsTransport() bool {
	return e.StatusCode == 0
}

// IsRateLimited returns true if the server answered 429 Too Many Requests
func (e *BackendError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// Is lets errors.Is match a 404 from the server against ErrNotFound, so
// callers handle a missing todo the same way for every store.
func (e *BackendError) Is(target error) bool {
	return target == ErrNotFound && e.IsNotFound()
}

// NewBackendError creates a new BackendError
func NewBackendError(operation string, statusCode int, message string) *BackendError {
	return &BackendError{
		Operation:  operation,
		StatusCode: statusCode,
		Message:    message,
	}
}

// WithTodoID adds the todo id to the error for context
func (e *BackendError) WithTodoID(id string) *BackendError {
	e.TodoID = id
	return e
}

// WithBody adds the response body to the error for debugging
func (e *BackendError) WithBody(body string) *BackendError {
	e.Body = body
	return e
}

// WithError wraps an underlying error
func (e *BackendError) WithError(err error) *BackendError {
	e.Err = err
	return e
}
