// Package service implements the leads business logic: CRUD, the
// summary/score pipeline call sites, and the bulk recalculation job.
package service

import (
	"context"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/insight"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/phone"

	"github.com/google/uuid"
)

const (
	defaultStatus = "new"
	defaultSource = "website"
)

// SummaryGenerator produces the summary and activity score for a lead.
// It is infallible by contract; completion failures degrade internally.
type SummaryGenerator interface {
	Generate(ctx context.Context, lead repository.Lead, interactions []repository.Interaction) insight.Result
}

// RegenerationScheduler enqueues a background summary regeneration.
// Submission failures must never fail the triggering mutation.
type RegenerationScheduler interface {
	EnqueueSummaryRegeneration(ctx context.Context, leadID uuid.UUID) error
}

// Service provides business logic for leads.
type Service struct {
	repo      repository.Repository
	generator SummaryGenerator
	scheduler RegenerationScheduler
	bus       events.Bus
	log       *logger.Logger
}

// New creates a new leads service. The scheduler may be nil when no job
// queue is configured; background regeneration is then skipped.
func New(repo repository.Repository, generator SummaryGenerator, scheduler RegenerationScheduler, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		generator: generator,
		scheduler: scheduler,
		bus:       bus,
		log:       log,
	}
}

// Create inserts a new lead and publishes a LeadCreated event.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (repository.Lead, error) {
	params := repository.CreateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     normalizePhone(req.Phone),
		Budget:    req.Budget,
		Location:  req.Location,
		Company:   req.Company,
		Status:    defaultStatus,
		Source:    defaultSource,
	}
	if req.Status != nil {
		params.Status = *req.Status
	}
	if req.Source != nil {
		params.Source = *req.Source
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return repository.Lead{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		FirstName: lead.FirstName,
		LastName:  lead.LastName,
		Email:     lead.Email,
		Status:    lead.Status,
		Source:    lead.Source,
	})

	return lead, nil
}

// List retrieves all leads.
func (s *Service) List(ctx context.Context) ([]repository.Lead, error) {
	return s.repo.List(ctx)
}

// Get retrieves a lead with its interactions.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	return s.repo.GetWithInteractions(ctx, id)
}

// Update applies a partial update. When a field that feeds the insight
// pipeline changes (status, budget, name, location), a background
// regeneration is enqueued fire-and-forget.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (repository.Lead, error) {
	lead, err := s.repo.Update(ctx, id, repository.UpdateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     normalizePhone(req.Phone),
		Budget:    req.Budget,
		Location:  req.Location,
		Company:   req.Company,
		Status:    req.Status,
		Source:    req.Source,
	})
	if err != nil {
		return repository.Lead{}, err
	}

	if affectsInsight(req) {
		s.scheduleRegeneration(ctx, id)
	}

	return lead, nil
}

// Delete removes a lead; interactions and tasks cascade.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// RegenerateSummary runs the summary pipeline for one lead and persists
// summary, summaryGeneratedAt, activityScore and scoreCalculatedAt as a
// single atomic update.
func (s *Service) RegenerateSummary(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, err := s.repo.GetWithInteractions(ctx, id)
	if err != nil {
		return repository.Lead{}, err
	}

	result := s.generator.Generate(ctx, lead, lead.Interactions)

	now := time.Now()
	err = s.repo.UpdateInsight(ctx, nil, id, repository.InsightParams{
		Summary:            result.Summary,
		SummaryGeneratedAt: now,
		ActivityScore:      result.ActivityScore,
		ScoreCalculatedAt:  now,
	})
	if err != nil {
		return repository.Lead{}, err
	}

	s.bus.Publish(ctx, events.LeadScoreUpdated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		LeadName:  lead.FullName(),
		Score:     result.ActivityScore,
	})

	return s.repo.GetWithInteractions(ctx, id)
}

// RecalculateAllScores recomputes summary and score for every lead inside
// one transaction. Per-lead failures are logged and skipped; the commit
// happens once at the end. Only failures before or outside the per-lead
// loop roll back and propagate.
func (s *Service) RecalculateAllScores(ctx context.Context) (transport.RecalculateScoresResult, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return transport.RecalculateScoresResult{}, apperr.Wrap(apperr.KindInternal, "could not open recalculation transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op once committed

	leads, err := s.repo.ListAllWithInteractions(ctx, tx)
	if err != nil {
		return transport.RecalculateScoresResult{}, err
	}

	count := 0
	for _, lead := range leads {
		result := s.generator.Generate(ctx, lead, lead.Interactions)

		now := time.Now()
		err := s.repo.UpdateInsight(ctx, tx, lead.ID, repository.InsightParams{
			Summary:            result.Summary,
			SummaryGeneratedAt: now,
			ActivityScore:      result.ActivityScore,
			ScoreCalculatedAt:  now,
		})
		if err != nil {
			s.log.Error("bulk recalculation: lead skipped",
				"lead_id", lead.ID,
				"error", err,
			)
			continue
		}
		count++
	}

	if err := tx.Commit(ctx); err != nil {
		return transport.RecalculateScoresResult{}, apperr.Wrap(apperr.KindInternal, "could not commit recalculation transaction", err)
	}

	s.log.Info("bulk recalculation complete", "updated", count, "total", len(leads))

	return transport.RecalculateScoresResult{Count: count}, nil
}

// ScheduleRegeneration submits a fire-and-forget background regeneration
// for the lead. Used by sibling modules (e.g. after logging an
// interaction); it never blocks or fails the caller.
func (s *Service) ScheduleRegeneration(ctx context.Context, leadID uuid.UUID) {
	s.scheduleRegeneration(ctx, leadID)
}

func (s *Service) scheduleRegeneration(ctx context.Context, leadID uuid.UUID) {
	if s.scheduler == nil {
		s.log.Warn("summary regeneration skipped: no job queue configured", "lead_id", leadID)
		return
	}
	if err := s.scheduler.EnqueueSummaryRegeneration(ctx, leadID); err != nil {
		// The mutation that triggered this already succeeded; losing one
		// regeneration is acceptable, it is re-triggerable and idempotent.
		s.log.Error("failed to enqueue summary regeneration", "lead_id", leadID, "error", err)
	}
}

func affectsInsight(req transport.UpdateLeadRequest) bool {
	return req.Status != nil || req.Budget != nil || req.FirstName != nil || req.LastName != nil || req.Location != nil
}

func normalizePhone(value *string) *string {
	if value == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*value)
	return &normalized
}
