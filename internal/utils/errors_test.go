package utils

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"gotodo/backend"
)

func TestErrorWithSuggestion_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		suggestion string
		want       string
	}{
		{
			name:       "with suggestion",
			err:        errors.New("something failed"),
			suggestion: "try again",
			want:       "something failed\n\nSuggestion: try again",
		},
		{
			name: "without suggestion",
			err:  errors.New("something failed"),
			want: "something failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &ErrorWithSuggestion{Err: tt.err, Suggestion: tt.suggestion}
			if got := e.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorWithSuggestion_Unwrap(t *testing.T) {
	base := errors.New("base")
	err := WrapWithSuggestion(base, "hint")
	if !errors.Is(err, base) {
		t.Error("errors.Is should find the wrapped error")
	}
	if WrapWithSuggestion(nil, "hint") != nil {
		t.Error("WrapWithSuggestion(nil) should return nil")
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMsg      string
		wantSuggests string
	}{
		{"todo not found", ErrTodoNotFound("42"), "todo '42' not found", "gotodo list"},
		{"auth failed", ErrAuthenticationFailed("http://x/todos"), "authentication failed", "credentials set"},
		{"empty title", ErrEmptyTitle(), "title cannot be empty", "non-space"},
		{"invalid config", ErrInvalidConfig("api_url", "bad"), "'api_url': bad", "api_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ews *ErrorWithSuggestion
			if !errors.As(tt.err, &ews) {
				t.Fatalf("expected *ErrorWithSuggestion, got %T", tt.err)
			}
			if !strings.Contains(ews.Err.Error(), tt.wantMsg) {
				t.Errorf("message %q should contain %q", ews.Err.Error(), tt.wantMsg)
			}
			if !strings.Contains(ews.Suggestion, tt.wantSuggests) {
				t.Errorf("suggestion %q should contain %q", ews.Suggestion, tt.wantSuggests)
			}
		})
	}
}

func TestErrServerUnreachable_Suggestions(t *testing.T) {
	tests := []struct {
		reason string
		want   string
	}{
		{"dial tcp: connection refused", "gotodo serve"},
		{"lookup api: no such host", "api_url"},
		{"context deadline exceeded", "slow"},
		{"something else", "internet connection"},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			err := ErrServerUnreachable("http://localhost:8080/todos", tt.reason)
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should suggest %q", err.Error(), tt.want)
			}
		})
	}
}

func TestExplainBackendError(t *testing.T) {
	const base = "http://localhost:8080/todos"

	plain := errors.New("plain")
	notFoundNoID := backend.NewBackendError("list", 404, "Not Found")

	tests := []struct {
		name    string
		err     error
		wantSub string
		same    error
	}{
		{
			name:    "transport failure",
			err:     backend.NewBackendError("list", 0, "request failed").WithError(errors.New("connection refused")),
			wantSub: "unreachable",
		},
		{
			name:    "unauthorized",
			err:     backend.NewBackendError("create", 401, "Unauthorized"),
			wantSub: "authentication failed",
		},
		{
			name:    "server error",
			err:     backend.NewBackendError("create", 503, "Service Unavailable"),
			wantSub: "Check its logs",
		},
		{
			name:    "rate limited",
			err:     backend.NewBackendError("list", 429, "Too Many Requests"),
			wantSub: "Wait a moment",
		},
		{
			name:    "not found with id",
			err:     fmt.Errorf("update: %w", backend.NewBackendError("update", 404, "Not Found").WithTodoID("7")),
			wantSub: "todo '7' not found",
		},
		{
			name: "not found without id",
			err:  notFoundNoID,
			same: notFoundNoID,
		},
		{
			name: "not a backend error",
			err:  plain,
			same: plain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExplainBackendError(tt.err, base)
			if tt.same != nil {
				if got != tt.same {
					t.Errorf("expected the error unchanged, got %v", got)
				}
				return
			}
			if !strings.Contains(got.Error(), tt.wantSub) {
				t.Errorf("ExplainBackendError() = %q, want it to contain %q", got.Error(), tt.wantSub)
			}
		})
	}
}
