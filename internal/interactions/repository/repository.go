// Package repository provides PostgreSQL persistence for interactions.
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

// Interaction is a logged contact event belonging to a lead.
type Interaction struct {
	ID        uuid.UUID `json:"id"`
	LeadID    uuid.UUID `json:"leadId"`
	Type      string    `json:"type"`
	Date      time.Time `json:"date"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateParams contains the fields for logging an interaction.
type CreateParams struct {
	LeadID uuid.UUID
	Type   string
	Date   time.Time
	Notes  *string
}

// UpdateParams contains the optional fields for a partial update. Nil
// fields keep their stored value.
type UpdateParams struct {
	Type  *string
	Date  *time.Time
	Notes *string
}

// Repository defines persistence operations for interactions.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Interaction, error)
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]Interaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (Interaction, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Interaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const interactionColumns = `id, lead_id, type, date, notes, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new interactions repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Create inserts a new interaction. A missing lead surfaces as NotFound via
// the foreign key violation.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Interaction, error) {
	query := `
		INSERT INTO interactions (lead_id, type, date, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + interactionColumns

	row := r.pool.QueryRow(ctx, query, params.LeadID, params.Type, params.Date, params.Notes)

	interaction, err := scanInteraction(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Interaction{}, apperr.NotFound("lead not found")
		}
		return Interaction{}, fmt.Errorf("create interaction: %w", err)
	}

	return interaction, nil
}

// ListByLead retrieves a lead's interactions in chronological order.
func (r *Repo) ListByLead(ctx context.Context, leadID uuid.UUID) ([]Interaction, error) {
	query := `SELECT ` + interactionColumns + ` FROM interactions WHERE lead_id = $1 ORDER BY date ASC`

	rows, err := r.pool.Query(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	interactions := make([]Interaction, 0)
	for rows.Next() {
		interaction, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		interactions = append(interactions, interaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}

	return interactions, nil
}

// GetByID retrieves a single interaction.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Interaction, error) {
	query := `SELECT ` + interactionColumns + ` FROM interactions WHERE id = $1`

	interaction, err := scanInteraction(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Interaction{}, apperr.NotFound("interaction not found")
		}
		return Interaction{}, fmt.Errorf("get interaction by id: %w", err)
	}

	return interaction, nil
}

// Update applies a partial update to an interaction.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Interaction, error) {
	query := `
		UPDATE interactions SET
			type = COALESCE($2, type),
			date = COALESCE($3, date),
			notes = COALESCE($4, notes),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + interactionColumns

	interaction, err := scanInteraction(r.pool.QueryRow(ctx, query, id, params.Type, params.Date, params.Notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Interaction{}, apperr.NotFound("interaction not found")
		}
		return Interaction{}, fmt.Errorf("update interaction: %w", err)
	}

	return interaction, nil
}

// Delete removes an interaction.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM interactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete interaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("interaction not found")
	}
	return nil
}

func scanInteraction(row pgx.Row) (Interaction, error) {
	var it Interaction
	err := row.Scan(&it.ID, &it.LeadID, &it.Type, &it.Date, &it.Notes, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}
