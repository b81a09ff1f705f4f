package utils

import (
	"errors"
	"fmt"
	"strings"

	"gotodo/backend"
)

// ErrorWithSuggestion wraps an error with a helpful suggestion for the user
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\nSuggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap allows errors.Is and errors.As to work
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// Common error constructors with suggestions

// ErrTodoNotFound creates an error when no todo has the given id
func ErrTodoNotFound(id string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("todo '%s' not found", id),
		Suggestion: "Run 'gotodo list' to see todo ids",
	}
}

// ErrServerUnreachable creates an error when the todo resource cannot be reached
func ErrServerUnreachable(url, reason string) error {
	suggestion := "Check your internet connection and try again"
	if strings.Contains(reason, "refused") {
		suggestion = "Check if the server is running (start one with 'gotodo serve')"
	} else if strings.Contains(reason, "no such host") {
		suggestion = "Check the api_url setting and your DNS configuration"
	} else if strings.Contains(reason, "timeout") || strings.Contains(reason, "deadline") {
		suggestion = "The server may be slow or unreachable. Try again later"
	}

	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("todo server at %s is unreachable: %s", url, reason),
		Suggestion: suggestion,
	}
}

// ErrAuthenticationFailed creates an error when the server rejects the token
func ErrAuthenticationFailed(url string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("authentication failed for %s", url),
		Suggestion: "Store a token with 'gotodo credentials set --prompt' or set GOTODO_API_TOKEN",
	}
}

// ErrEmptyTitle creates an error when a title is blank after trimming
func ErrEmptyTitle() error {
	return &ErrorWithSuggestion{
		Err:        errors.New("todo title cannot be empty"),
		Suggestion: "Provide a title with at least one non-space character",
	}
}

// ErrInvalidConfig creates an error for invalid configuration
func ErrInvalidConfig(field string, reason string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("invalid configuration for '%s': %s", field, reason),
		Suggestion: fmt.Sprintf("Check ~/.config/gotodo/config.json and fix the '%s' field", field),
	}
}

// WrapWithSuggestion wraps an existing error with a suggestion
func WrapWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// ExplainBackendError maps a request failure against baseURL to a user-facing
// error. Errors that are not *backend.BackendError are returned unchanged.
func ExplainBackendError(err error, baseURL string) error {
	var backendErr *backend.BackendError
	if !errors.As(err, &backendErr) {
		return err
	}

	switch {
	case backendErr.IsTransport():
		reason := backendErr.Message
		if backendErr.Err != nil {
			reason = backendErr.Err.Error()
		}
		return ErrServerUnreachable(baseURL, reason)
	case backendErr.IsUnauthorized():
		return ErrAuthenticationFailed(baseURL)
	case backendErr.IsServerError():
		return WrapWithSuggestion(err, "The server failed to handle the request. Check its logs and try again")
	case backendErr.IsRateLimited():
		return WrapWithSuggestion(err, "The server is throttling requests. Wait a moment and try again")
	case backendErr.IsNotFound() && backendErr.TodoID != "":
		return ErrTodoNotFound(backendErr.TodoID)
	}
	return err
}
