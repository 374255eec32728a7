package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/notification/inapp"
	"leadflow_backend/platform/logger"
)

type mockStore struct {
	created []inapp.CreateParams
}

func (m *mockStore) Create(_ context.Context, params inapp.CreateParams) (inapp.Notification, error) {
	m.created = append(m.created, params)
	return inapp.Notification{ID: uuid.New(), Type: params.Type, Title: params.Title, Message: params.Message}, nil
}

func (m *mockStore) List(context.Context, int) ([]inapp.Notification, error) { return nil, nil }
func (m *mockStore) UnreadCount(context.Context) (int, error)               { return 0, nil }
func (m *mockStore) SetRead(context.Context, uuid.UUID, bool) (inapp.Notification, error) {
	return inapp.Notification{}, nil
}
func (m *mockStore) MarkAllRead(context.Context) (int, error) { return 0, nil }
func (m *mockStore) Delete(context.Context, uuid.UUID) error  { return nil }

func newTestModule(store *mockStore) *Module {
	log := logger.New("test")
	return &Module{
		log:          log,
		inAppService: inapp.NewService(store, log),
	}
}

func TestHandleInteractionLoggedWithNotes(t *testing.T) {
	store := &mockStore{}
	module := newTestModule(store)
	leadID := uuid.New()

	err := module.Handle(context.Background(), events.InteractionLogged{
		BaseEvent:     events.NewBaseEvent(),
		InteractionID: uuid.New(),
		LeadID:        leadID,
		Type:          "call",
		HasNotes:      true,
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(store.created))
	}
	got := store.created[0]
	if got.Type != inapp.TypeCommentAdded {
		t.Errorf("notification type = %q, want %q", got.Type, inapp.TypeCommentAdded)
	}
	if got.RelatedLeadID == nil || *got.RelatedLeadID != leadID {
		t.Errorf("RelatedLeadID = %v, want %s", got.RelatedLeadID, leadID)
	}
}

func TestHandleInteractionLoggedWithoutNotes(t *testing.T) {
	store := &mockStore{}
	module := newTestModule(store)

	err := module.Handle(context.Background(), events.InteractionLogged{
		BaseEvent:     events.NewBaseEvent(),
		InteractionID: uuid.New(),
		LeadID:        uuid.New(),
		Type:          "email",
		HasNotes:      false,
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(store.created) != 0 {
		t.Fatalf("expected no notification for an interaction without notes, got %d", len(store.created))
	}
}

func TestHandleLeadCreated(t *testing.T) {
	store := &mockStore{}
	module := newTestModule(store)

	err := module.Handle(context.Background(), events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		FirstName: "Maria",
		LastName:  "Santos",
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(store.created))
	}
	if store.created[0].Type != inapp.TypeLeadCreated {
		t.Errorf("notification type = %q, want %q", store.created[0].Type, inapp.TypeLeadCreated)
	}
}
