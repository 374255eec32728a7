package scheduler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type stubConfig struct {
	redisURL string
	queue    string
}

func (c stubConfig) GetRedisURL() string { return c.redisURL }

func (c stubConfig) GetAsynqQueueName() string { return c.queue }

func (c stubConfig) GetAsynqConcurrency() int { return 1 }

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(stubConfig{}); err == nil {
		t.Fatal("expected error without redis url")
	}
}

func TestEnqueueSummaryRegeneration(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(stubConfig{redisURL: "redis://" + srv.Addr(), queue: "crm"})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	defer client.Close()

	if err := client.EnqueueSummaryRegeneration(context.Background(), uuid.New()); err != nil {
		t.Fatalf("EnqueueSummaryRegeneration() error: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: srv.Addr()})
	defer inspector.Close()

	pending, err := inspector.ListPendingTasks("crm")
	if err != nil {
		t.Fatalf("ListPendingTasks() error: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending tasks = %d, want 1", len(pending))
	}
	if pending[0].Type != TaskLeadSummaryRegenerate {
		t.Fatalf("task type = %q, want %q", pending[0].Type, TaskLeadSummaryRegenerate)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var client *Client
	if err := client.EnqueueSummaryRegeneration(context.Background(), uuid.New()); err != nil {
		t.Fatalf("nil client enqueue returned error: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("nil client close returned error: %v", err)
	}
}

func TestParseSummaryRegeneratePayloadRoundTrip(t *testing.T) {
	leadID := uuid.New()
	task, err := NewSummaryRegenerateTask(SummaryRegeneratePayload{LeadID: leadID.String()})
	if err != nil {
		t.Fatalf("NewSummaryRegenerateTask() error: %v", err)
	}

	payload, err := ParseSummaryRegeneratePayload(task)
	if err != nil {
		t.Fatalf("ParseSummaryRegeneratePayload() error: %v", err)
	}
	if payload.LeadID != leadID.String() {
		t.Fatalf("lead id = %q, want %q", payload.LeadID, leadID)
	}
}
