// Package handler exposes the notification HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadflow_backend/internal/notification/inapp"
	"leadflow_backend/platform/httpkit"
)

// HTTPHandler handles notification HTTP requests.
type HTTPHandler struct {
	svc *inapp.Service
}

// NewHTTPHandler creates a new notification handler.
func NewHTTPHandler(svc *inapp.Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// RegisterRoutes mounts notification routes on the given group.
func (h *HTTPHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.GET("/unread-count", h.UnreadCount)
	group.PATCH("/:id/read", h.MarkRead)
	group.PATCH("/:id/unread", h.MarkUnread)
	group.POST("/read-all", h.MarkAllRead)
	group.DELETE("/:id", h.Delete)
}

// List retrieves the most recent notifications.
// GET /api/v1/notifications
func (h *HTTPHandler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UnreadCount returns the number of unread notifications.
// GET /api/v1/notifications/unread-count
func (h *HTTPHandler) UnreadCount(c *gin.Context) {
	count, err := h.svc.UnreadCount(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"count": count})
}

// MarkRead marks a single notification as read.
// PATCH /api/v1/notifications/:id/read
func (h *HTTPHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid notification ID", nil)
		return
	}

	result, err := h.svc.MarkRead(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// MarkUnread flips a notification back to unread.
// PATCH /api/v1/notifications/:id/unread
func (h *HTTPHandler) MarkUnread(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid notification ID", nil)
		return
	}

	result, err := h.svc.MarkUnread(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a notification.
// DELETE /api/v1/notifications/:id
func (h *HTTPHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid notification ID", nil)
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead marks every unread notification as read.
// POST /api/v1/notifications/read-all
func (h *HTTPHandler) MarkAllRead(c *gin.Context) {
	count, err := h.svc.MarkAllRead(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"updated": count})
}
