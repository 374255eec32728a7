// Package todos provides a minimal public todo list used by the frontend
// onboarding demo. It is intentionally self-contained.
package todos

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

// Todo is a single todo item.
type Todo struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const todoColumns = `id, title, completed, created_at, updated_at`

// Repository provides PostgreSQL persistence for todos.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new todos repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new todo.
func (r *Repository) Create(ctx context.Context, title string) (Todo, error) {
	query := `INSERT INTO todos (title) VALUES ($1) RETURNING ` + todoColumns

	todo, err := scanTodo(r.pool.QueryRow(ctx, query, title))
	if err != nil {
		return Todo{}, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

// List retrieves all todos, oldest first.
func (r *Repository) List(ctx context.Context) ([]Todo, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+todoColumns+` FROM todos ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}

	return todos, nil
}

// Update changes title and/or completion state.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, title *string, completed *bool) (Todo, error) {
	query := `
		UPDATE todos SET
			title = COALESCE($2, title),
			completed = COALESCE($3, completed),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + todoColumns

	todo, err := scanTodo(r.pool.QueryRow(ctx, query, id, title, completed))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Todo{}, apperr.NotFound("todo not found")
		}
		return Todo{}, fmt.Errorf("update todo: %w", err)
	}
	return todo, nil
}

// Delete removes a todo.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("todo not found")
	}
	return nil
}

func scanTodo(row pgx.Row) (Todo, error) {
	var t Todo
	err := row.Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}
