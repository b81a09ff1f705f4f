// Package server serves the todo collection as a REST resource:
//
//	GET    /todos      list every todo
//	POST   /todos      create a todo
//	PUT    /todos/:id  update a todo
//	DELETE /todos/:id  delete a todo
//
// Prometheus metrics are exposed on GET /metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gotodo/backend"
	"gotodo/internal/utils"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Options configures a Server
type Options struct {
	Addr string

	// AuthToken, when set, must be presented as a bearer token on /todos
	AuthToken string

	// RateLimitRPS and RateLimitBurst bound requests per client address.
	// A zero rate disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server is the HTTP front of a backend.Store
type Server struct {
	store   backend.Store
	opts    Options
	metrics *metrics
	limiter *clientLimiter
	engine  *gin.Engine
}

// New creates a server over store
func New(store backend.Store, opts Options) *Server {
	registry := prometheus.NewRegistry()
	s := &Server{
		store:   store,
		opts:    opts,
		metrics: newMetrics(registry),
		limiter: newClientLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
	}

	if !utils.GetLogger().IsVerbose() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Ids may contain escaped slashes
	r.UseRawPath = true
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), s.logRequests(), s.instrument())
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Error: errNoRoute})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, errorResponse{Error: errNoMethod})
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	todos := r.Group("/todos", s.rateLimit(), s.authenticate())
	todos.GET("", s.handleList)
	todos.POST("", s.handleCreate)
	todos.PUT("/:id", s.handleUpdate)
	todos.DELETE("/:id", s.handleDelete)

	s.engine = r
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on opts.Addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Infof("serving todos on http://%s/todos", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	utils.Infof("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
