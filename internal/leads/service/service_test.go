package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/insight"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/logger"
)

// fakeTx satisfies pgx.Tx for the methods the service touches; everything
// else panics via the nil embedded interface.
type fakeTx struct {
	pgx.Tx
	commits   int
	rollbacks int
	commitErr error
}

func (t *fakeTx) Commit(_ context.Context) error {
	t.commits++
	return t.commitErr
}

func (t *fakeTx) Rollback(_ context.Context) error {
	t.rollbacks++
	return nil
}

type mockRepo struct {
	repository.Repository

	leads       []repository.Lead
	created     *repository.CreateParams
	updated     *repository.UpdateParams
	tx          *fakeTx
	beginErr    error
	listAllErr  error
	insightErrs map[uuid.UUID]error

	mu             sync.Mutex
	insightWrites  []uuid.UUID
	insightQuerier []repository.Querier
}

func (m *mockRepo) Create(_ context.Context, params repository.CreateParams) (repository.Lead, error) {
	m.created = &params
	return repository.Lead{
		ID:        uuid.New(),
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Email:     params.Email,
		Status:    params.Status,
		Source:    params.Source,
	}, nil
}

func (m *mockRepo) Update(_ context.Context, id uuid.UUID, params repository.UpdateParams) (repository.Lead, error) {
	m.updated = &params
	return repository.Lead{ID: id}, nil
}

func (m *mockRepo) GetWithInteractions(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	for _, lead := range m.leads {
		if lead.ID == id {
			return lead, nil
		}
	}
	return repository.Lead{ID: id, FirstName: "Jo", LastName: "Reyes", Status: "new"}, nil
}

func (m *mockRepo) Begin(_ context.Context) (pgx.Tx, error) {
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	return m.tx, nil
}

func (m *mockRepo) ListAllWithInteractions(_ context.Context, _ repository.Querier) ([]repository.Lead, error) {
	if m.listAllErr != nil {
		return nil, m.listAllErr
	}
	return m.leads, nil
}

func (m *mockRepo) UpdateInsight(_ context.Context, q repository.Querier, id uuid.UUID, _ repository.InsightParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insightWrites = append(m.insightWrites, id)
	m.insightQuerier = append(m.insightQuerier, q)
	if err, ok := m.insightErrs[id]; ok {
		return err
	}
	return nil
}

type stubGenerator struct{}

func (stubGenerator) Generate(_ context.Context, lead repository.Lead, interactions []repository.Interaction) insight.Result {
	return insight.Result{
		Summary:       insight.FallbackSummary(lead, len(interactions)),
		ActivityScore: 42,
	}
}

type stubScheduler struct {
	enqueued []uuid.UUID
	err      error
}

func (s *stubScheduler) EnqueueSummaryRegeneration(_ context.Context, leadID uuid.UUID) error {
	s.enqueued = append(s.enqueued, leadID)
	return s.err
}

func newTestService(repo *mockRepo, scheduler RegenerationScheduler) *Service {
	log := logger.New("test")
	return New(repo, stubGenerator{}, scheduler, events.NewInMemoryBus(log), log)
}

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestCreateAppliesDefaults(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo, &stubScheduler{})

	lead, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Maria",
		LastName:  "Santos",
		Email:     "maria@example.com",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if repo.created.Status != "new" || repo.created.Source != "website" {
		t.Fatalf("defaults not applied: status=%q source=%q", repo.created.Status, repo.created.Source)
	}
	if lead.FirstName != "Maria" {
		t.Fatalf("unexpected lead: %+v", lead)
	}
}

func TestCreateNormalizesPhone(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo, &stubScheduler{})

	_, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Maria",
		LastName:  "Santos",
		Email:     "maria@example.com",
		Phone:     strPtr("(512) 555-0100"),
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if repo.created.Phone == nil || *repo.created.Phone != "+15125550100" {
		t.Fatalf("phone not normalized: %v", repo.created.Phone)
	}
}

func TestUpdateSchedulesRegenerationOnInsightFields(t *testing.T) {
	repo := &mockRepo{}
	scheduler := &stubScheduler{}
	svc := newTestService(repo, scheduler)

	id := uuid.New()
	_, err := svc.Update(context.Background(), id, transport.UpdateLeadRequest{Status: strPtr("qualified")})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if len(scheduler.enqueued) != 1 || scheduler.enqueued[0] != id {
		t.Fatalf("expected one regeneration for %s, got %v", id, scheduler.enqueued)
	}
}

func TestUpdateSkipsRegenerationForNeutralFields(t *testing.T) {
	repo := &mockRepo{}
	scheduler := &stubScheduler{}
	svc := newTestService(repo, scheduler)

	_, err := svc.Update(context.Background(), uuid.New(), transport.UpdateLeadRequest{Company: strPtr("Acme")})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if len(scheduler.enqueued) != 0 {
		t.Fatalf("unexpected regeneration enqueued: %v", scheduler.enqueued)
	}
}

func TestUpdateSucceedsWhenEnqueueFails(t *testing.T) {
	repo := &mockRepo{}
	scheduler := &stubScheduler{err: errors.New("queue down")}
	svc := newTestService(repo, scheduler)

	_, err := svc.Update(context.Background(), uuid.New(), transport.UpdateLeadRequest{Budget: floatPtr(90000)})
	if err != nil {
		t.Fatalf("Update() must not fail on enqueue error, got: %v", err)
	}
}

func TestUpdateSucceedsWithNilScheduler(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo, nil)

	_, err := svc.Update(context.Background(), uuid.New(), transport.UpdateLeadRequest{Status: strPtr("contacted")})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
}

func TestRegenerateSummaryPersistsInsight(t *testing.T) {
	id := uuid.New()
	repo := &mockRepo{
		leads: []repository.Lead{{ID: id, FirstName: "Maria", LastName: "Santos", Status: "qualified"}},
	}
	svc := newTestService(repo, &stubScheduler{})

	_, err := svc.RegenerateSummary(context.Background(), id)
	if err != nil {
		t.Fatalf("RegenerateSummary() error: %v", err)
	}
	if len(repo.insightWrites) != 1 || repo.insightWrites[0] != id {
		t.Fatalf("expected one insight write for %s, got %v", id, repo.insightWrites)
	}
	if repo.insightQuerier[0] != nil {
		t.Fatalf("single regeneration must run outside a transaction")
	}
}

func TestRecalculateAllScores(t *testing.T) {
	lead1 := repository.Lead{ID: uuid.New(), FirstName: "A", LastName: "One", Status: "new"}
	lead2 := repository.Lead{ID: uuid.New(), FirstName: "B", LastName: "Two", Status: "contacted"}
	lead3 := repository.Lead{ID: uuid.New(), FirstName: "C", LastName: "Three", Status: "qualified"}

	tx := &fakeTx{}
	repo := &mockRepo{
		leads: []repository.Lead{lead1, lead2, lead3},
		tx:    tx,
		insightErrs: map[uuid.UUID]error{
			lead2.ID: errors.New("write failed"),
		},
	}
	svc := newTestService(repo, &stubScheduler{})

	result, err := svc.RecalculateAllScores(context.Background())
	if err != nil {
		t.Fatalf("RecalculateAllScores() error: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("count = %d, want 2 (failed lead excluded)", result.Count)
	}
	if tx.commits != 1 {
		t.Fatalf("commits = %d, want 1; a skipped lead must not abort the run", tx.commits)
	}
	for _, q := range repo.insightQuerier {
		if q != repository.Querier(tx) {
			t.Fatalf("insight writes must run on the shared transaction")
		}
	}
}

func TestRecalculateAllScoresListFailureRollsBack(t *testing.T) {
	tx := &fakeTx{}
	repo := &mockRepo{tx: tx, listAllErr: errors.New("db down")}
	svc := newTestService(repo, &stubScheduler{})

	_, err := svc.RecalculateAllScores(context.Background())
	if err == nil {
		t.Fatal("expected error when the lead listing fails")
	}
	if tx.commits != 0 {
		t.Fatalf("commits = %d, want 0", tx.commits)
	}
	if tx.rollbacks == 0 {
		t.Fatal("transaction was not rolled back")
	}
}

func TestRecalculateAllScoresCommitFailure(t *testing.T) {
	tx := &fakeTx{commitErr: errors.New("commit failed")}
	repo := &mockRepo{
		leads: []repository.Lead{{ID: uuid.New(), Status: "new"}},
		tx:    tx,
	}
	svc := newTestService(repo, &stubScheduler{})

	_, err := svc.RecalculateAllScores(context.Background())
	if err == nil {
		t.Fatal("expected error when commit fails")
	}
}
