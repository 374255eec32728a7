package todos

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadflow_backend/platform/httpkit"
	"leadflow_backend/platform/validator"
)

// CreateTodoRequest is the payload for creating a todo.
type CreateTodoRequest struct {
	Title string `json:"title" validate:"required,max=500"`
}

// UpdateTodoRequest is the payload for a partial todo update.
type UpdateTodoRequest struct {
	Title     *string `json:"title" validate:"omitempty,max=500"`
	Completed *bool   `json:"completed"`
}

// Handler handles todo HTTP requests.
type Handler struct {
	repo *Repository
	val  *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgInvalidTodoID    = "invalid todo id"
	msgValidationFailed = "validation failed"
)

// NewHandler creates a new todos handler.
func NewHandler(repo *Repository, val *validator.Validator) *Handler {
	return &Handler{repo: repo, val: val}
}

// List returns all todos.
// GET /api/v1/todos
func (h *Handler) List(c *gin.Context) {
	todos, err := h.repo.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, todos)
}

// Create adds a new todo.
// POST /api/v1/todos
func (h *Handler) Create(c *gin.Context) {
	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	todo, err := h.repo.Create(c.Request.Context(), req.Title)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, todo)
}

// Update patches a todo.
// PATCH /api/v1/todos/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidTodoID, nil)
		return
	}

	var req UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	todo, err := h.repo.Update(c.Request.Context(), id, req.Title, req.Completed)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, todo)
}

// Delete removes a todo.
// DELETE /api/v1/todos/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidTodoID, nil)
		return
	}

	if httpkit.HandleError(c, h.repo.Delete(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}
