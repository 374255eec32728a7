package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/interactions/repository"
	"leadflow_backend/internal/interactions/transport"
	"leadflow_backend/platform/logger"
)

type mockRepo struct {
	created   *repository.CreateParams
	createErr error
	existing  map[uuid.UUID]repository.Interaction
	deleted   []uuid.UUID
}

func (m *mockRepo) Create(_ context.Context, params repository.CreateParams) (repository.Interaction, error) {
	if m.createErr != nil {
		return repository.Interaction{}, m.createErr
	}
	m.created = &params
	return repository.Interaction{
		ID:     uuid.New(),
		LeadID: params.LeadID,
		Type:   params.Type,
		Date:   params.Date,
		Notes:  params.Notes,
	}, nil
}

func (m *mockRepo) ListByLead(_ context.Context, _ uuid.UUID) ([]repository.Interaction, error) {
	return nil, nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Interaction, error) {
	it, ok := m.existing[id]
	if !ok {
		return repository.Interaction{}, errors.New("not found")
	}
	return it, nil
}

func (m *mockRepo) Update(_ context.Context, id uuid.UUID, params repository.UpdateParams) (repository.Interaction, error) {
	it, ok := m.existing[id]
	if !ok {
		return repository.Interaction{}, errors.New("not found")
	}
	if params.Type != nil {
		it.Type = *params.Type
	}
	if params.Date != nil {
		it.Date = *params.Date
	}
	if params.Notes != nil {
		it.Notes = params.Notes
	}
	m.existing[id] = it
	return it, nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type stubInsights struct {
	scheduled []uuid.UUID
}

func (s *stubInsights) ScheduleRegeneration(_ context.Context, leadID uuid.UUID) {
	s.scheduled = append(s.scheduled, leadID)
}

func newTestService(repo *mockRepo, insights *stubInsights) *Service {
	log := logger.New("test")
	return New(repo, insights, events.NewInMemoryBus(log), log)
}

func TestLogSchedulesRegeneration(t *testing.T) {
	repo := &mockRepo{}
	insights := &stubInsights{}
	svc := newTestService(repo, insights)

	leadID := uuid.New()
	interaction, err := svc.Log(context.Background(), leadID, transport.LogInteractionRequest{Type: "call"})
	if err != nil {
		t.Fatalf("Log() error: %v", err)
	}
	if interaction.LeadID != leadID {
		t.Fatalf("interaction bound to %s, want %s", interaction.LeadID, leadID)
	}
	if len(insights.scheduled) != 1 || insights.scheduled[0] != leadID {
		t.Fatalf("expected one regeneration for %s, got %v", leadID, insights.scheduled)
	}
}

func TestLogDefaultsDateToNow(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo, &stubInsights{})

	before := time.Now()
	_, err := svc.Log(context.Background(), uuid.New(), transport.LogInteractionRequest{Type: "email"})
	if err != nil {
		t.Fatalf("Log() error: %v", err)
	}
	if repo.created.Date.Before(before) {
		t.Fatalf("date %v not defaulted to now", repo.created.Date)
	}
}

func TestLogKeepsExplicitDate(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo, &stubInsights{})

	date := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
	_, err := svc.Log(context.Background(), uuid.New(), transport.LogInteractionRequest{Type: "meeting", Date: &date})
	if err != nil {
		t.Fatalf("Log() error: %v", err)
	}
	if !repo.created.Date.Equal(date) {
		t.Fatalf("date = %v, want %v", repo.created.Date, date)
	}
}

func TestLogFailureSkipsSideEffects(t *testing.T) {
	repo := &mockRepo{createErr: errors.New("db down")}
	insights := &stubInsights{}
	svc := newTestService(repo, insights)

	_, err := svc.Log(context.Background(), uuid.New(), transport.LogInteractionRequest{Type: "call"})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(insights.scheduled) != 0 {
		t.Fatalf("regeneration scheduled despite failed write: %v", insights.scheduled)
	}
}

func TestUpdateRefreshesOwningLead(t *testing.T) {
	leadID := uuid.New()
	interactionID := uuid.New()
	repo := &mockRepo{
		existing: map[uuid.UUID]repository.Interaction{
			interactionID: {ID: interactionID, LeadID: leadID, Type: "call"},
		},
	}
	insights := &stubInsights{}
	svc := newTestService(repo, insights)

	newType := "meeting"
	updated, err := svc.Update(context.Background(), interactionID, transport.UpdateInteractionRequest{Type: &newType})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Type != "meeting" {
		t.Fatalf("type = %q, want meeting", updated.Type)
	}
	if len(insights.scheduled) != 1 || insights.scheduled[0] != leadID {
		t.Fatalf("expected regeneration for owning lead %s, got %v", leadID, insights.scheduled)
	}
}

func TestDeleteRefreshesOwningLead(t *testing.T) {
	leadID := uuid.New()
	interactionID := uuid.New()
	repo := &mockRepo{
		existing: map[uuid.UUID]repository.Interaction{
			interactionID: {ID: interactionID, LeadID: leadID},
		},
	}
	insights := &stubInsights{}
	svc := newTestService(repo, insights)

	if err := svc.Delete(context.Background(), interactionID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != interactionID {
		t.Fatalf("deleted = %v, want [%s]", repo.deleted, interactionID)
	}
	if len(insights.scheduled) != 1 || insights.scheduled[0] != leadID {
		t.Fatalf("expected regeneration for owning lead %s, got %v", leadID, insights.scheduled)
	}
}
