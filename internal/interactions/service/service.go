// Package service implements interaction logging and its knock-on effects
// on the lead insight pipeline.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/interactions/repository"
	"leadflow_backend/internal/interactions/transport"
	"leadflow_backend/platform/logger"
)

// LeadInsights is the slice of the leads module this service needs: a way
// to request a background summary regeneration after activity changes.
type LeadInsights interface {
	ScheduleRegeneration(ctx context.Context, leadID uuid.UUID)
}

// Service provides business logic for interactions.
type Service struct {
	repo     repository.Repository
	insights LeadInsights
	bus      events.Bus
	log      *logger.Logger
}

// New creates a new interactions service.
func New(repo repository.Repository, insights LeadInsights, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		insights: insights,
		bus:      bus,
		log:      log,
	}
}

// Log records an interaction for a lead, publishes InteractionLogged and
// requests a background summary regeneration. Both side effects are
// fire-and-forget; the write is the only operation that can fail.
func (s *Service) Log(ctx context.Context, leadID uuid.UUID, req transport.LogInteractionRequest) (repository.Interaction, error) {
	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	interaction, err := s.repo.Create(ctx, repository.CreateParams{
		LeadID: leadID,
		Type:   req.Type,
		Date:   date,
		Notes:  req.Notes,
	})
	if err != nil {
		return repository.Interaction{}, err
	}

	s.bus.Publish(ctx, events.InteractionLogged{
		BaseEvent:     events.NewBaseEvent(),
		InteractionID: interaction.ID,
		LeadID:        leadID,
		Type:          interaction.Type,
		HasNotes:      interaction.Notes != nil && *interaction.Notes != "",
	})
	s.insights.ScheduleRegeneration(ctx, leadID)

	return interaction, nil
}

// ListByLead retrieves a lead's interactions in chronological order.
func (s *Service) ListByLead(ctx context.Context, leadID uuid.UUID) ([]repository.Interaction, error) {
	return s.repo.ListByLead(ctx, leadID)
}

// Get retrieves a single interaction.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Interaction, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial update. Date and type feed the scorer, so a
// successful update refreshes the owning lead's insight.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateInteractionRequest) (repository.Interaction, error) {
	interaction, err := s.repo.Update(ctx, id, repository.UpdateParams{
		Type:  req.Type,
		Date:  req.Date,
		Notes: req.Notes,
	})
	if err != nil {
		return repository.Interaction{}, err
	}

	s.insights.ScheduleRegeneration(ctx, interaction.LeadID)
	return interaction, nil
}

// Delete removes an interaction and refreshes the owning lead's insight.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	interaction, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.insights.ScheduleRegeneration(ctx, interaction.LeadID)
	return nil
}
