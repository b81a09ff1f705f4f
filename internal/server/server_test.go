package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"gotodo/backend"
	"gotodo/backend/storetest"
)

func newTestServer(t *testing.T, opts Options, todos ...backend.TodoItem) (*Server, backend.Store) {
	t.Helper()
	store := backend.NewMemoryStore()
	for _, item := range todos {
		if err := store.Put(context.Background(), item); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return New(store, opts), store
}

func do(t *testing.T, h http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("response is not JSON: %v (%q)", err, rec.Body.String())
	}
}

func TestList(t *testing.T) {
	t.Run("empty is an array", func(t *testing.T) {
		s, _ := newTestServer(t, Options{})
		rec := do(t, s.Handler(), http.MethodGet, "/todos", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
			t.Errorf("body = %q, want []", got)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("Content-Type = %q", ct)
		}
	})

	t.Run("items in creation order", func(t *testing.T) {
		want := []backend.TodoItem{{ID: "2", Title: "B"}, {ID: "1", Title: "A", Completed: true}}
		s, _ := newTestServer(t, Options{}, want...)
		rec := do(t, s.Handler(), http.MethodGet, "/todos", "")

		var got []backend.TodoItem
		decode(t, rec, &got)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("list mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"valid", `{"id":"1","title":"Buy milk","completed":false}`, http.StatusCreated, ""},
		{"malformed json", `{"id":`, http.StatusBadRequest, "Invalid request body"},
		{"missing id", `{"title":"Buy milk"}`, http.StatusBadRequest, "Invalid request body"},
		{"missing title", `{"id":"1"}`, http.StatusBadRequest, "Invalid request body"},
		{"blank title", `{"id":"1","title":"  "}`, http.StatusBadRequest, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store := newTestServer(t, Options{})
			rec := do(t, s.Handler(), http.MethodPost, "/todos", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			todos, _ := store.List(context.Background())
			if tt.wantError != "" {
				var resp errorResponse
				decode(t, rec, &resp)
				if resp.Error != tt.wantError {
					t.Errorf("error = %q, want %q", resp.Error, tt.wantError)
				}
				if len(todos) != 0 {
					t.Error("nothing should be stored on a bad request")
				}
				return
			}

			var resp messageResponse
			decode(t, rec, &resp)
			want := backend.TodoItem{ID: "1", Title: "Buy milk"}
			if resp.Message != "To-Do created" || resp.Data == nil || *resp.Data != want {
				t.Errorf("response = %+v", resp)
			}
			if len(todos) != 1 || todos[0] != want {
				t.Errorf("stored = %+v", todos)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	seed := backend.TodoItem{ID: "1", Title: "A"}

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantStored backend.TodoItem
	}{
		{
			name:       "title and completion",
			path:       "/todos/1",
			body:       `{"title":"B","completed":true}`,
			wantStatus: http.StatusOK,
			wantStored: backend.TodoItem{ID: "1", Title: "B", Completed: true},
		},
		{
			name:       "body id ignored",
			path:       "/todos/1",
			body:       `{"id":"999","title":"C","completed":false}`,
			wantStatus: http.StatusOK,
			wantStored: backend.TodoItem{ID: "1", Title: "C"},
		},
		{
			name:       "missing todo",
			path:       "/todos/2",
			body:       `{"title":"B"}`,
			wantStatus: http.StatusNotFound,
			wantStored: seed,
		},
		{
			name:       "bad body",
			path:       "/todos/1",
			body:       `nope`,
			wantStatus: http.StatusBadRequest,
			wantStored: seed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store := newTestServer(t, Options{}, seed)
			rec := do(t, s.Handler(), http.MethodPut, tt.path, tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus == http.StatusNotFound {
				var resp errorResponse
				decode(t, rec, &resp)
				if resp.Error != "To-Do not found" {
					t.Errorf("error = %q", resp.Error)
				}
			}
			if tt.wantStatus == http.StatusOK {
				var resp messageResponse
				decode(t, rec, &resp)
				if resp.Message != "To-Do updated" {
					t.Errorf("message = %q", resp.Message)
				}
			}

			got, _ := store.Get(context.Background(), "1")
			if got != tt.wantStored {
				t.Errorf("stored = %+v, want %+v", got, tt.wantStored)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	s, store := newTestServer(t, Options{}, backend.TodoItem{ID: "1", Title: "A"})

	rec := do(t, s.Handler(), http.MethodDelete, "/todos/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp messageResponse
	decode(t, rec, &resp)
	if resp.Message != "To-Do deleted" || resp.Data != nil {
		t.Errorf("response = %+v", resp)
	}
	if todos, _ := store.List(context.Background()); len(todos) != 0 {
		t.Errorf("store still holds %+v", todos)
	}

	rec = do(t, s.Handler(), http.MethodDelete, "/todos/1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestStoreFailureIs500(t *testing.T) {
	boom := errors.New("disk full")
	store := &storetest.FailingStore{
		Store:      backend.NewMemoryStore(),
		ListErr:    boom,
		PutErr:     boom,
		ReplaceErr: boom,
		DeleteErr:  boom,
	}
	h := New(store, Options{}).Handler()

	requests := []struct{ method, path, body string }{
		{http.MethodGet, "/todos", ""},
		{http.MethodPost, "/todos", `{"id":"1","title":"A"}`},
		{http.MethodPut, "/todos/1", `{"title":"A"}`},
		{http.MethodDelete, "/todos/1", ""},
	}
	for _, r := range requests {
		t.Run(r.method, func(t *testing.T) {
			rec := do(t, h, r.method, r.path, r.body)
			if rec.Code != http.StatusInternalServerError {
				t.Errorf("status = %d, want 500", rec.Code)
			}
			if strings.Contains(rec.Body.String(), "disk full") {
				t.Error("internal errors must not leak to clients")
			}
		})
	}
}

func TestRouting(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantError  string
	}{
		{"wrong method", http.MethodPatch, "/todos/1", http.StatusMethodNotAllowed, "Method not allowed"},
		{"unknown path", http.MethodGet, "/other", http.StatusNotFound, "Not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s.Handler(), tt.method, tt.path, `{}`)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp errorResponse
			decode(t, rec, &resp)
			if resp.Error != tt.wantError {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantError)
			}
		})
	}
}

func TestRouting_EscapedID(t *testing.T) {
	s, store := newTestServer(t, Options{}, backend.TodoItem{ID: "a/b c", Title: "A"})

	rec := do(t, s.Handler(), http.MethodPut, "/todos/a%2Fb%20c", `{"title":"B","completed":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	got, err := store.Get(context.Background(), "a/b c")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if want := (backend.TodoItem{ID: "a/b c", Title: "B", Completed: true}); got != want {
		t.Errorf("stored = %+v, want %+v", got, want)
	}

	if rec := do(t, s.Handler(), http.MethodDelete, "/todos/a%2Fb%20c", ""); rec.Code != http.StatusOK {
		t.Errorf("DELETE status = %d, want 200", rec.Code)
	}
}

func TestAuthentication(t *testing.T) {
	s, _ := newTestServer(t, Options{AuthToken: "s3cret"})
	h := s.Handler()

	tests := []struct {
		name   string
		header []string
		want   int
	}{
		{"no header", nil, http.StatusUnauthorized},
		{"wrong token", []string{"Authorization", "Bearer nope"}, http.StatusUnauthorized},
		{"wrong scheme", []string{"Authorization", "Basic s3cret"}, http.StatusUnauthorized},
		{"valid token", []string{"Authorization", "Bearer s3cret"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/todos", "", tt.header...)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("401 should carry a WWW-Authenticate challenge")
			}
		})
	}

	// Metrics stay open
	if rec := do(t, h, http.MethodGet, "/metrics", ""); rec.Code != http.StatusOK {
		t.Errorf("metrics status = %d, want 200", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	s, _ := newTestServer(t, Options{RateLimitRPS: 0.001, RateLimitBurst: 2})
	h := s.Handler()

	for i := 0; i < 2; i++ {
		if rec := do(t, h, http.MethodGet, "/todos", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}
	rec := do(t, h, http.MethodGet, "/todos", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 should carry Retry-After")
	}

	// Another client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.RemoteAddr = "10.0.0.9:4321"
	other := httptest.NewRecorder()
	h.ServeHTTP(other, req)
	if other.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", other.Code)
	}

	metrics := do(t, h, http.MethodGet, "/metrics", "").Body.String()
	if !strings.Contains(metrics, "gotodo_http_requests_throttled_total 1") {
		t.Errorf("throttled counter not exported:\n%s", metrics)
	}
}

func TestClientLimiter(t *testing.T) {
	if newClientLimiter(0, 10) != nil {
		t.Error("a zero rate disables limiting")
	}

	l := newClientLimiter(1, 1)
	now := time.Unix(1000, 0)
	if !l.allow("a", now) {
		t.Fatal("first request should pass")
	}
	if l.allow("a", now) {
		t.Error("second request in the same instant should be limited")
	}
	if !l.allow("a", now.Add(time.Second)) {
		t.Error("the bucket refills after a second")
	}

	// Idle clients are swept
	l.idleTTL = time.Minute
	later := now.Add(time.Hour)
	for i := 0; i < 600; i++ {
		l.allow("b", later)
	}
	if _, ok := l.byKey["a"]; ok {
		t.Error("idle client should have been swept")
	}
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.0.2.1:1234", "192.0.2.1"},
		{"[2001:db8::1]:80", "2001:db8::1"},
		{"no-port", "no-port"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/todos", nil)
		r.RemoteAddr = tt.remote
		if got := clientKey(r); got != tt.want {
			t.Errorf("clientKey(%q) = %q, want %q", tt.remote, got, tt.want)
		}
	}
}

func TestMetrics(t *testing.T) {
	s, _ := newTestServer(t, Options{}, backend.TodoItem{ID: "1", Title: "A"})
	h := s.Handler()

	do(t, h, http.MethodGet, "/todos", "")
	do(t, h, http.MethodDelete, "/todos/nope", "")

	body := do(t, h, http.MethodGet, "/metrics", "").Body.String()
	for _, want := range []string{
		`gotodo_http_requests_total{code="200",route="GET /todos"} 1`,
		`gotodo_http_requests_total{code="404",route="DELETE /todos/:id"} 1`,
		`gotodo_todos 1`,
		`gotodo_http_request_duration_seconds_count{route="GET /todos"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	s, _ := newTestServer(t, Options{}, backend.TodoItem{ID: "1", Title: "A"})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/todos")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
