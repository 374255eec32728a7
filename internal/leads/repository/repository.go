package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"leadflow_backend/platform/apperr"
)

const leadNotFoundMessage = "lead not found"

const leadColumns = `id, first_name, last_name, email, phone, budget, location, company, status, source,
		summary, summary_generated_at, activity_score, score_calculated_at, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a new lead.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Lead, error) {
	query := `
		INSERT INTO leads (first_name, last_name, email, phone, budget, location, company, status, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + leadColumns

	row := r.pool.QueryRow(ctx, query,
		params.FirstName, params.LastName, params.Email, params.Phone, params.Budget,
		params.Location, params.Company, params.Status, params.Source,
	)

	lead, err := scanLead(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Lead{}, apperr.Conflict("a lead with this email already exists")
		}
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}

	return lead, nil
}

// List retrieves all leads ordered by creation time, newest first.
func (r *Repo) List(ctx context.Context) ([]Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// GetByID retrieves a lead by its ID, without interactions.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead by id: %w", err)
	}

	return lead, nil
}

// GetWithInteractions retrieves a lead with its interactions eagerly loaded.
func (r *Repo) GetWithInteractions(ctx context.Context, id uuid.UUID) (Lead, error) {
	lead, err := r.GetByID(ctx, id)
	if err != nil {
		return Lead{}, err
	}

	interactions, err := r.ListInteractions(ctx, id)
	if err != nil {
		return Lead{}, err
	}

	lead.Interactions = interactions
	return lead, nil
}

// Update applies a partial update. Omitted fields keep their current value.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Lead, error) {
	query := `
		UPDATE leads SET
			first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			email = COALESCE($4, email),
			phone = COALESCE($5, phone),
			budget = COALESCE($6, budget),
			location = COALESCE($7, location),
			company = COALESCE($8, company),
			status = COALESCE($9, status),
			source = COALESCE($10, source),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + leadColumns

	row := r.pool.QueryRow(ctx, query, id,
		params.FirstName, params.LastName, params.Email, params.Phone, params.Budget,
		params.Location, params.Company, params.Status, params.Source,
	)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Lead{}, apperr.Conflict("a lead with this email already exists")
		}
		return Lead{}, fmt.Errorf("update lead: %w", err)
	}

	return lead, nil
}

// Delete removes a lead. Interactions and tasks cascade at the storage layer.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMessage)
	}
	return nil
}

// ListInteractions retrieves a lead's interactions in chronological order.
func (r *Repo) ListInteractions(ctx context.Context, leadID uuid.UUID) ([]Interaction, error) {
	query := `
		SELECT id, lead_id, type, date, notes, created_at, updated_at
		FROM interactions
		WHERE lead_id = $1
		ORDER BY date ASC`

	rows, err := r.pool.Query(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("list lead interactions: %w", err)
	}
	defer rows.Close()

	return scanInteractions(rows)
}

// Begin opens a transaction on the pool.
func (r *Repo) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, nil
}

// ListAllWithInteractions loads every lead and groups its interactions in
// memory, using two queries instead of N+1.
func (r *Repo) ListAllWithInteractions(ctx context.Context, q Querier) ([]Lead, error) {
	rows, err := q.Query(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	leads, err := scanLeads(rows)
	if err != nil {
		return nil, err
	}

	interactionRows, err := q.Query(ctx, `
		SELECT id, lead_id, type, date, notes, created_at, updated_at
		FROM interactions
		ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	interactions, err := scanInteractions(interactionRows)
	if err != nil {
		return nil, err
	}

	byLead := make(map[uuid.UUID][]Interaction, len(leads))
	for _, interaction := range interactions {
		byLead[interaction.LeadID] = append(byLead[interaction.LeadID], interaction)
	}
	for i := range leads {
		leads[i].Interactions = byLead[leads[i].ID]
	}

	return leads, nil
}

// UpdateInsight persists the four derived fields in one atomic UPDATE.
// They must never be written partially. A nil Querier runs against the pool.
func (r *Repo) UpdateInsight(ctx context.Context, q Querier, id uuid.UUID, params InsightParams) error {
	if q == nil {
		q = r.pool
	}
	tag, err := q.Exec(ctx, `
		UPDATE leads SET
			summary = $2,
			summary_generated_at = $3,
			activity_score = $4,
			score_calculated_at = $5,
			updated_at = now()
		WHERE id = $1`,
		id, params.Summary, params.SummaryGeneratedAt, params.ActivityScore, params.ScoreCalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lead insight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMessage)
	}
	return nil
}

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.Phone, &l.Budget, &l.Location, &l.Company,
		&l.Status, &l.Source, &l.Summary, &l.SummaryGeneratedAt, &l.ActivityScore, &l.ScoreCalculatedAt,
		&l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

func scanLeads(rows pgx.Rows) ([]Lead, error) {
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}

	return leads, nil
}

func scanInteractions(rows pgx.Rows) ([]Interaction, error) {
	defer rows.Close()

	interactions := make([]Interaction, 0)
	for rows.Next() {
		var it Interaction
		if err := rows.Scan(&it.ID, &it.LeadID, &it.Type, &it.Date, &it.Notes, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		interactions = append(interactions, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}

	return interactions, nil
}
