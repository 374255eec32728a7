package sse

import (
	"testing"

	"github.com/google/uuid"

	"leadflow_backend/platform/logger"
)

func TestBroadcastReachesAllClients(t *testing.T) {
	svc := New(logger.New("test"))

	a := &client{userID: uuid.New(), events: make(chan Event, 32)}
	b := &client{userID: uuid.New(), events: make(chan Event, 32)}
	svc.addClient(a)
	svc.addClient(b)

	svc.Broadcast(Event{Type: EventLeadCreated, Message: "hello"})

	for _, cl := range []*client{a, b} {
		select {
		case event := <-cl.events:
			if event.Type != EventLeadCreated {
				t.Fatalf("event type = %q, want %q", event.Type, EventLeadCreated)
			}
		default:
			t.Fatal("client did not receive broadcast")
		}
	}
}

func TestBroadcastSkipsFullBuffers(t *testing.T) {
	svc := New(logger.New("test"))

	full := &client{userID: uuid.New(), events: make(chan Event, 1)}
	full.events <- Event{Type: EventNotification}
	svc.addClient(full)

	// Must not block even though the client's buffer is full.
	svc.Broadcast(Event{Type: EventScoreUpdated})

	if got := len(full.events); got != 1 {
		t.Fatalf("buffer length = %d, want 1", got)
	}
}

func TestRemoveClientClosesChannel(t *testing.T) {
	svc := New(logger.New("test"))

	cl := &client{userID: uuid.New(), events: make(chan Event, 1)}
	svc.addClient(cl)
	svc.removeClient(cl)

	if _, open := <-cl.events; open {
		t.Fatal("events channel still open after removal")
	}
	if svc.ClientCount() != 0 {
		t.Fatalf("client count = %d, want 0", svc.ClientCount())
	}

	// Double removal must be a no-op, not a double close.
	svc.removeClient(cl)
}

func TestCloseDisconnectsEveryone(t *testing.T) {
	svc := New(logger.New("test"))

	for i := 0; i < 3; i++ {
		svc.addClient(&client{userID: uuid.New(), events: make(chan Event, 1)})
	}
	svc.Close()

	if svc.ClientCount() != 0 {
		t.Fatalf("client count = %d, want 0", svc.ClientCount())
	}
}
