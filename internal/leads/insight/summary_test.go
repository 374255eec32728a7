package insight

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/ai/openrouter"
	"leadflow_backend/platform/logger"
)

type stubCompletions struct {
	response string
	err      error
	lastReq  openrouter.Request
}

func (s *stubCompletions) Complete(_ context.Context, req openrouter.Request) (string, error) {
	s.lastReq = req
	return s.response, s.err
}

func testLead() repository.Lead {
	budget := 120000.0
	location := "Austin, TX"
	return repository.Lead{
		ID:        uuid.New(),
		FirstName: "Maria",
		LastName:  "Santos",
		Email:     "maria@example.com",
		Budget:    &budget,
		Location:  &location,
		Status:    "qualified",
	}
}

func TestGenerateUsesCompletionText(t *testing.T) {
	stub := &stubCompletions{response: "  Maria Santos is a qualified lead ready to close.  "}
	gen := NewSummaryGenerator(stub, logger.New("test"))

	lead := testLead()
	interactions := []repository.Interaction{
		{LeadID: lead.ID, Type: "call", Date: time.Now().AddDate(0, 0, -2)},
	}

	result := gen.Generate(context.Background(), lead, interactions)

	if result.Summary != stub.response {
		t.Fatalf("summary = %q, want completion text", result.Summary)
	}
	if result.ActivityScore < 0 || result.ActivityScore > 100 {
		t.Fatalf("activity score %d out of range", result.ActivityScore)
	}
	if stub.lastReq.MaxTokens != summaryMaxTokens {
		t.Fatalf("max tokens = %d, want %d", stub.lastReq.MaxTokens, summaryMaxTokens)
	}
	if stub.lastReq.Temperature != summaryTemperature {
		t.Fatalf("temperature = %v, want %v", stub.lastReq.Temperature, summaryTemperature)
	}
}

func TestGenerateFallsBackOnCompletionError(t *testing.T) {
	stub := &stubCompletions{err: errors.New("upstream unavailable")}
	gen := NewSummaryGenerator(stub, logger.New("test"))

	lead := testLead()
	interactions := []repository.Interaction{
		{LeadID: lead.ID, Type: "email", Date: time.Now().AddDate(0, 0, -1)},
		{LeadID: lead.ID, Type: "call", Date: time.Now().AddDate(0, 0, -3)},
	}

	result := gen.Generate(context.Background(), lead, interactions)

	want := "Maria Santos is a qualified lead with 2 recorded interaction(s)."
	if result.Summary != want {
		t.Fatalf("fallback summary = %q, want %q", result.Summary, want)
	}
	// Scoring is local and must survive the completion outage.
	// recency 40 + engagement 10 + budget 20 + status 10
	if result.ActivityScore != 80 {
		t.Fatalf("activity score = %d, want 80", result.ActivityScore)
	}
}

func TestBuildSummaryPrompt(t *testing.T) {
	lead := testLead()
	notes := "Asked about enterprise pricing"
	interactions := []repository.Interaction{
		{
			LeadID: lead.ID,
			Type:   "call",
			Date:   time.Date(2026, time.February, 10, 9, 0, 0, 0, time.UTC),
			Notes:  &notes,
		},
	}

	prompt := buildSummaryPrompt(lead, interactions)

	for _, fragment := range []string{
		"Name: Maria Santos",
		"Budget: $120000.00",
		"Location: Austin, TX",
		"Company: Not specified",
		"Phone: N/A",
		"CALL on February 10, 2026: Asked about enterprise pricing",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Fatalf("prompt missing %q:\n%s", fragment, prompt)
		}
	}
}

func TestBuildSummaryPromptNoInteractions(t *testing.T) {
	prompt := buildSummaryPrompt(testLead(), nil)
	if !strings.Contains(prompt, "No interactions recorded yet") {
		t.Fatalf("prompt missing empty-interactions marker:\n%s", prompt)
	}
}
