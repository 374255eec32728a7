// Package service implements task management and AI task recommendations.
package service

import (
	"context"

	"github.com/google/uuid"

	"leadflow_backend/internal/events"
	leadsrepo "leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/tasks/insight"
	"leadflow_backend/internal/tasks/repository"
	"leadflow_backend/internal/tasks/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
)

// LeadReader is the slice of the leads repository this service needs for
// recommendation context.
type LeadReader interface {
	GetWithInteractions(ctx context.Context, id uuid.UUID) (leadsrepo.Lead, error)
}

// TaskRecommender produces next-step suggestions for a lead.
type TaskRecommender interface {
	Recommend(ctx context.Context, lead leadsrepo.Lead, interactions []leadsrepo.Interaction, existing []repository.Task) []insight.Recommendation
}

// Service provides business logic for tasks.
type Service struct {
	repo        repository.Repository
	leads       LeadReader
	recommender TaskRecommender
	bus         events.Bus
	log         *logger.Logger
}

// New creates a new tasks service.
func New(repo repository.Repository, leads LeadReader, recommender TaskRecommender, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		leads:       leads,
		recommender: recommender,
		bus:         bus,
		log:         log,
	}
}

// Create adds a manual task to a lead.
func (s *Service) Create(ctx context.Context, leadID uuid.UUID, req transport.CreateTaskRequest) (repository.Task, error) {
	return s.repo.Create(ctx, repository.CreateParams{
		LeadID:      leadID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Source:      repository.SourceManual,
	})
}

// ListByLead retrieves a lead's tasks, optionally including dismissed ones.
func (s *Service) ListByLead(ctx context.Context, leadID uuid.UUID, includeDismissed bool) ([]repository.Task, error) {
	return s.repo.ListByLead(ctx, leadID, includeDismissed)
}

// Get retrieves a single task.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Task, error) {
	return s.repo.GetByID(ctx, id)
}

// GenerateRecommendations asks the recommender for next-step tasks and
// persists each one with source ai_suggested. A degraded recommender
// yields an empty list, not an error.
func (s *Service) GenerateRecommendations(ctx context.Context, leadID uuid.UUID) ([]repository.Task, error) {
	lead, err := s.leads.GetWithInteractions(ctx, leadID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByLead(ctx, leadID, true)
	if err != nil {
		return nil, err
	}

	recommendations := s.recommender.Recommend(ctx, lead, lead.Interactions, existing)

	created := make([]repository.Task, 0, len(recommendations))
	for _, rec := range recommendations {
		description := rec.Description
		reasoning := rec.Reasoning
		task, err := s.repo.Create(ctx, repository.CreateParams{
			LeadID:      leadID,
			Title:       rec.Title,
			Description: &description,
			Source:      repository.SourceAISuggested,
			AIReasoning: &reasoning,
		})
		if err != nil {
			return nil, err
		}
		created = append(created, task)
	}

	s.log.Info("task recommendations created", "lead_id", leadID, "count", len(created))

	return created, nil
}

// Update applies a partial update to a task's title, description or due date.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateTaskRequest) (repository.Task, error) {
	return s.repo.Update(ctx, id, repository.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
}

// UpdateSource accepts (manual) or dismisses an AI-suggested task.
// Any other change is rejected; manual tasks are removed via Delete.
func (s *Service) UpdateSource(ctx context.Context, id uuid.UUID, req transport.UpdateTaskSourceRequest) (repository.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Task{}, err
	}

	if !validSourceTransition(task.Source, req.Source) {
		return repository.Task{}, apperr.Validation("cannot change task source from " + task.Source + " to " + req.Source)
	}
	if task.Source == req.Source {
		return task, nil
	}

	return s.repo.UpdateSource(ctx, id, req.Source)
}

// Complete marks a task done and publishes TaskCompleted.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (repository.Task, error) {
	task, err := s.repo.SetCompleted(ctx, id, true)
	if err != nil {
		return repository.Task{}, err
	}

	s.bus.Publish(ctx, events.TaskCompleted{
		BaseEvent: events.NewBaseEvent(),
		TaskID:    task.ID,
		LeadID:    task.LeadID,
		Title:     task.Title,
	})

	return task, nil
}

// Delete hard-removes a task.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// validSourceTransition encodes the suggestion lifecycle: an AI suggestion
// can be accepted (manual) or dismissed; manual and dismissed tasks keep
// their source for good.
func validSourceTransition(from, to string) bool {
	if from == to {
		return true
	}
	return from == repository.SourceAISuggested &&
		(to == repository.SourceManual || to == repository.SourceDismissed)
}
