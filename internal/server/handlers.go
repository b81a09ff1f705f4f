package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gotodo/backend"
	"gotodo/internal/utils"
)

// Response bodies
const (
	msgCreated     = "To-Do created"
	msgUpdated     = "To-Do updated"
	msgDeleted     = "To-Do deleted"
	errInvalidBody = "Invalid request body"
	errNotFound    = "To-Do not found"
	errInternal    = "Internal server error"
	errNoRoute     = "Not found"
	errNoMethod    = "Method not allowed"
)

type messageResponse struct {
	Message string            `json:"message"`
	Data    *backend.TodoItem `json:"data,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleList(c *gin.Context) {
	todos, err := s.store.List(c.Request.Context())
	if err != nil {
		s.internalError(c, "list", err)
		return
	}
	s.metrics.todos.Set(float64(len(todos)))
	c.JSON(http.StatusOK, todos)
}

func (s *Server) handleCreate(c *gin.Context) {
	item, ok := bindItem(c)
	if !ok {
		return
	}
	if err := item.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errInvalidBody})
		return
	}

	if err := s.store.Put(c.Request.Context(), item); err != nil {
		s.internalError(c, "create", err)
		return
	}
	c.JSON(http.StatusCreated, messageResponse{Message: msgCreated, Data: &item})
}

func (s *Server) handleUpdate(c *gin.Context) {
	item, ok := bindItem(c)
	if !ok {
		return
	}
	// The path names the todo; an id in the body is ignored
	item.ID = c.Param("id")
	if err := item.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errInvalidBody})
		return
	}

	err := s.store.Replace(c.Request.Context(), item)
	if errors.Is(err, backend.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: errNotFound})
		return
	}
	if err != nil {
		s.internalError(c, "update", err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: msgUpdated, Data: &item})
}

func (s *Server) handleDelete(c *gin.Context) {
	err := s.store.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, backend.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: errNotFound})
		return
	}
	if err != nil {
		s.internalError(c, "delete", err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: msgDeleted})
}

func bindItem(c *gin.Context) (backend.TodoItem, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var item backend.TodoItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errInvalidBody})
		return backend.TodoItem{}, false
	}
	return item, true
}

func (s *Server) internalError(c *gin.Context, op string, err error) {
	utils.Errorf("%s: %v", op, err)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternal})
}
