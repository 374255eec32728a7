package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Lead is a sales prospect record with its derived insight fields.
type Lead struct {
	ID                 uuid.UUID  `json:"id"`
	FirstName          string     `json:"firstName"`
	LastName           string     `json:"lastName"`
	Email              string     `json:"email"`
	Phone              *string    `json:"phone,omitempty"`
	Budget             *float64   `json:"budget,omitempty"`
	Location           *string    `json:"location,omitempty"`
	Company            *string    `json:"company,omitempty"`
	Status             string     `json:"status"`
	Source             string     `json:"source"`
	Summary            *string    `json:"summary,omitempty"`
	SummaryGeneratedAt *time.Time `json:"summaryGeneratedAt,omitempty"`
	ActivityScore      *int       `json:"activityScore,omitempty"`
	ScoreCalculatedAt  *time.Time `json:"scoreCalculatedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`

	// Interactions is populated only by the eager-loading queries.
	Interactions []Interaction `json:"interactions,omitempty"`
}

// FullName returns the lead's display name.
func (l Lead) FullName() string {
	return l.FirstName + " " + l.LastName
}

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

// CreateParams contains the fields for creating a lead.
type CreateParams struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Budget    *float64
	Location  *string
	Company   *string
	Status    string
	Source    string
}

// UpdateParams contains the optional fields for a partial lead update.
type UpdateParams struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Budget    *float64
	Location  *string
	Company   *string
	Status    *string
	Source    *string
}

// InsightParams carries the derived fields written by the summary pipeline.
// They are always persisted together in a single UPDATE.
type InsightParams struct {
	Summary            string
	SummaryGeneratedAt time.Time
	ActivityScore      int
	ScoreCalculatedAt  time.Time
}

// Querier is the subset of pgx operations shared by *pgxpool.Pool and
// pgx.Tx, letting repository reads/writes run inside or outside a
// transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository defines persistence operations for leads.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Lead, error)
	List(ctx context.Context) ([]Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	GetWithInteractions(ctx context.Context, id uuid.UUID) (Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListInteractions(ctx context.Context, leadID uuid.UUID) ([]Interaction, error)

	// Begin opens a transaction for the bulk recalculation job.
	Begin(ctx context.Context) (pgx.Tx, error)
	// ListAllWithInteractions loads every lead with its interactions using
	// the given querier (pool or open transaction).
	ListAllWithInteractions(ctx context.Context, q Querier) ([]Lead, error)
	// UpdateInsight atomically persists the derived summary/score fields.
	UpdateInsight(ctx context.Context, q Querier, id uuid.UUID, params InsightParams) error
}
