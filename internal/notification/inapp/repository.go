// Package inapp provides persistent in-app notifications backing the
// notification bell and the SSE stream.
package inapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leadflow_backend/platform/apperr"
)

// Notification types pushed to the frontend.
const (
	TypeLeadCreated   = "lead_created"
	TypeScoreUpdated  = "score_updated"
	TypeTaskCompleted = "task_completed"
	TypeCommentAdded  = "comment_added"
)

// Notification is a persisted in-app notification.
type Notification struct {
	ID            uuid.UUID  `json:"id"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	RelatedLeadID *uuid.UUID `json:"relatedLeadId,omitempty"`
	Read          bool       `json:"read"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// CreateParams contains the fields for creating a notification.
type CreateParams struct {
	Type          string
	Title         string
	Message       string
	RelatedLeadID *uuid.UUID
}

// Store is the persistence surface the notification service needs.
type Store interface {
	Create(ctx context.Context, params CreateParams) (Notification, error)
	List(ctx context.Context, limit int) ([]Notification, error)
	UnreadCount(ctx context.Context) (int, error)
	SetRead(ctx context.Context, id uuid.UUID, read bool) (Notification, error)
	MarkAllRead(ctx context.Context) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const notificationColumns = `id, type, title, message, related_lead_id, read, created_at`

// Repository provides PostgreSQL persistence for notifications.
type Repository struct {
	pool *pgxpool.Pool
}

var _ Store = (*Repository)(nil)

// NewRepository creates a new notifications repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new notification.
func (r *Repository) Create(ctx context.Context, params CreateParams) (Notification, error) {
	query := `
		INSERT INTO notifications (type, title, message, related_lead_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + notificationColumns

	row := r.pool.QueryRow(ctx, query, params.Type, params.Title, params.Message, params.RelatedLeadID)

	notification, err := scanNotification(row)
	if err != nil {
		return Notification{}, fmt.Errorf("create notification: %w", err)
	}
	return notification, nil
}

// List retrieves the most recent notifications, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]Notification, 0)
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return notifications, nil
}

// UnreadCount returns the number of unread notifications.
func (r *Repository) UnreadCount(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE read = false`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// SetRead sets a single notification's read flag.
func (r *Repository) SetRead(ctx context.Context, id uuid.UUID, read bool) (Notification, error) {
	query := `UPDATE notifications SET read = $2 WHERE id = $1 RETURNING ` + notificationColumns

	notification, err := scanNotification(r.pool.QueryRow(ctx, query, id, read))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Notification{}, apperr.NotFound("notification not found")
		}
		return Notification{}, fmt.Errorf("set notification read: %w", err)
	}
	return notification, nil
}

// MarkAllRead marks every unread notification as read and returns the count.
func (r *Repository) MarkAllRead(ctx context.Context) (int, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE notifications SET read = true WHERE read = false`)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Delete removes a notification.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

func scanNotification(row pgx.Row) (Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &n.RelatedLeadID, &n.Read, &n.CreatedAt)
	return n, err
}
