package inapp

import (
	"context"

	"github.com/google/uuid"

	"leadflow_backend/internal/notification/sse"
	"leadflow_backend/platform/logger"
)

const defaultListLimit = 50

// Service persists in-app notifications and pushes them over SSE.
type Service struct {
	repo Store
	sse  *sse.Service
	log  *logger.Logger
}

// NewService creates a new in-app notification service.
func NewService(repo Store, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SetSSE injects the SSE service so new notifications are pushed live.
func (s *Service) SetSSE(service *sse.Service) {
	s.sse = service
}

// Notify persists a notification and broadcasts it to connected clients.
func (s *Service) Notify(ctx context.Context, params CreateParams) (Notification, error) {
	notification, err := s.repo.Create(ctx, params)
	if err != nil {
		return Notification{}, err
	}

	if s.sse != nil {
		event := sse.Event{
			Type:    sse.EventNotification,
			Message: notification.Message,
			Data:    notification,
		}
		if notification.RelatedLeadID != nil {
			event.LeadID = *notification.RelatedLeadID
		}
		s.sse.Broadcast(event)
	}

	return notification, nil
}

// List retrieves the most recent notifications.
func (s *Service) List(ctx context.Context) ([]Notification, error) {
	return s.repo.List(ctx, defaultListLimit)
}

// UnreadCount returns the number of unread notifications.
func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	return s.repo.UnreadCount(ctx)
}

// MarkRead marks a single notification as read.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) (Notification, error) {
	return s.repo.SetRead(ctx, id, true)
}

// MarkUnread flips a notification back to unread.
func (s *Service) MarkUnread(ctx context.Context, id uuid.UUID) (Notification, error) {
	return s.repo.SetRead(ctx, id, false)
}

// MarkAllRead marks every unread notification as read.
func (s *Service) MarkAllRead(ctx context.Context) (int, error) {
	return s.repo.MarkAllRead(ctx)
}

// Delete removes a notification.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
