// Package repository provides PostgreSQL persistence for tasks.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"leadflow_backend/platform/apperr"
)

// Task sources. Dismissed acts as a soft delete: dismissed tasks are kept
// for audit but excluded from default listings and AI context.
const (
	SourceManual      = "manual"
	SourceAISuggested = "ai_suggested"
	SourceDismissed   = "dismissed"
)

// Task is a follow-up item attached to a lead.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	LeadID      uuid.UUID  `json:"leadId"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed"`
	Source      string     `json:"source"`
	AIReasoning *string    `json:"aiReasoning,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateParams contains the fields for creating a task.
type CreateParams struct {
	LeadID      uuid.UUID
	Title       string
	Description *string
	DueDate     *time.Time
	Source      string
	AIReasoning *string
}

// UpdateParams contains the optional fields for a partial update. Nil
// fields keep their stored value.
type UpdateParams struct {
	Title       *string
	Description *string
	DueDate     *time.Time
}

// Repository defines persistence operations for tasks.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (Task, error)
	// ListByLead returns the lead's tasks, newest first. Dismissed tasks
	// are excluded unless includeDismissed is set.
	ListByLead(ctx context.Context, leadID uuid.UUID, includeDismissed bool) ([]Task, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Task, error)
	UpdateSource(ctx context.Context, id uuid.UUID, source string) (Task, error)
	SetCompleted(ctx context.Context, id uuid.UUID, completed bool) (Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const taskColumns = `id, lead_id, title, description, due_date, completed, source, ai_reasoning, created_at, updated_at`

const taskNotFoundMessage = "task not found"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new tasks repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Create inserts a new task.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Task, error) {
	query := `
		INSERT INTO tasks (lead_id, title, description, due_date, source, ai_reasoning)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + taskColumns

	row := r.pool.QueryRow(ctx, query,
		params.LeadID, params.Title, params.Description, params.DueDate, params.Source, params.AIReasoning,
	)

	task, err := scanTask(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Task{}, apperr.NotFound("lead not found")
		}
		return Task{}, fmt.Errorf("create task: %w", err)
	}

	return task, nil
}

// GetByID retrieves a task by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, apperr.NotFound(taskNotFoundMessage)
		}
		return Task{}, fmt.Errorf("get task by id: %w", err)
	}

	return task, nil
}

// ListByLead retrieves a lead's tasks, newest first.
func (r *Repo) ListByLead(ctx context.Context, leadID uuid.UUID, includeDismissed bool) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE lead_id = $1`
	if !includeDismissed {
		query += ` AND source <> '` + SourceDismissed + `'`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	return tasks, nil
}

// Update applies a partial update to the task's editable fields.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Task, error) {
	query := `
		UPDATE tasks SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			due_date = COALESCE($4, due_date),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + taskColumns

	task, err := scanTask(r.pool.QueryRow(ctx, query, id, params.Title, params.Description, params.DueDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, apperr.NotFound(taskNotFoundMessage)
		}
		return Task{}, fmt.Errorf("update task: %w", err)
	}

	return task, nil
}

// UpdateSource changes the task's source (accept or dismiss a suggestion).
func (r *Repo) UpdateSource(ctx context.Context, id uuid.UUID, source string) (Task, error) {
	query := `UPDATE tasks SET source = $2, updated_at = now() WHERE id = $1 RETURNING ` + taskColumns

	task, err := scanTask(r.pool.QueryRow(ctx, query, id, source))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, apperr.NotFound(taskNotFoundMessage)
		}
		return Task{}, fmt.Errorf("update task source: %w", err)
	}

	return task, nil
}

// SetCompleted flips the completion flag.
func (r *Repo) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) (Task, error) {
	query := `UPDATE tasks SET completed = $2, updated_at = now() WHERE id = $1 RETURNING ` + taskColumns

	task, err := scanTask(r.pool.QueryRow(ctx, query, id, completed))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, apperr.NotFound(taskNotFoundMessage)
		}
		return Task{}, fmt.Errorf("set task completed: %w", err)
	}

	return task, nil
}

// Delete hard-removes a task.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(taskNotFoundMessage)
	}
	return nil
}

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(
		&t.ID, &t.LeadID, &t.Title, &t.Description, &t.DueDate,
		&t.Completed, &t.Source, &t.AIReasoning, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}
