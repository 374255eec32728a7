package insight

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"

	leadsrepo "leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/tasks/repository"
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

func newRecommender(stub *stubCompletions) *Recommender {
	return NewRecommender(stub, logger.New("test"))
}

func testLead() leadsrepo.Lead {
	return leadsrepo.Lead{
		ID:        uuid.New(),
		FirstName: "Maria",
		LastName:  "Santos",
		Email:     "maria@example.com",
		Status:    "qualified",
		Source:    "website",
	}
}

func TestRecommendParsesPlainJSON(t *testing.T) {
	stub := &stubCompletions{response: `[
		{"title": "Call to discuss budget", "description": "Book a 30 min call", "reasoning": "Budget unclear"},
		{"title": "Send comparables", "description": "Email local listings", "reasoning": "Asked for examples"}
	]`}
	recommender := newRecommender(stub)

	got := recommender.Recommend(context.Background(), testLead(), nil, nil)

	if len(got) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(got))
	}
	if got[0].Title != "Call to discuss budget" {
		t.Fatalf("unexpected first recommendation: %+v", got[0])
	}
	if stub.lastReq.MaxTokens != recommendationMaxTokens {
		t.Fatalf("max tokens = %d, want %d", stub.lastReq.MaxTokens, recommendationMaxTokens)
	}
}

func TestRecommendStripsMarkdownFence(t *testing.T) {
	stub := &stubCompletions{response: "Here you go:\n```json\n[{\"title\": \"Schedule demo\", \"description\": \"Set up a product demo\", \"reasoning\": \"High intent\"}]\n```"}
	recommender := newRecommender(stub)

	got := recommender.Recommend(context.Background(), testLead(), nil, nil)

	if len(got) != 1 || got[0].Title != "Schedule demo" {
		t.Fatalf("fenced JSON not parsed: %+v", got)
	}
}

func TestRecommendCapsAtThree(t *testing.T) {
	stub := &stubCompletions{response: `[
		{"title": "One", "description": "d", "reasoning": "r"},
		{"title": "Two", "description": "d", "reasoning": "r"},
		{"title": "Three", "description": "d", "reasoning": "r"},
		{"title": "Four", "description": "d", "reasoning": "r"}
	]`}
	recommender := newRecommender(stub)

	got := recommender.Recommend(context.Background(), testLead(), nil, nil)

	if len(got) != 3 {
		t.Fatalf("got %d recommendations, want cap of 3", len(got))
	}
}

func TestRecommendTruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("x", 400)
	stub := &stubCompletions{response: `[{"title": "` + long + `", "description": "d", "reasoning": "r"}]`}
	recommender := newRecommender(stub)

	got := recommender.Recommend(context.Background(), testLead(), nil, nil)

	if len(got) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(got))
	}
	if len(got[0].Title) != maxTitleLength {
		t.Fatalf("title length = %d, want %d", len(got[0].Title), maxTitleLength)
	}
}

func TestRecommendTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 300)
	stub := &stubCompletions{response: `[{"title": "` + long + `", "description": "d", "reasoning": "r"}]`}
	recommender := newRecommender(stub)

	got := recommender.Recommend(context.Background(), testLead(), nil, nil)

	if len(got) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(got))
	}
	if !utf8.ValidString(got[0].Title) {
		t.Fatal("truncated title is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(got[0].Title); n != maxTitleLength {
		t.Fatalf("title rune count = %d, want %d", n, maxTitleLength)
	}
}

func TestRecommendKeepsValidSiblingsOfMalformedEntries(t *testing.T) {
	stub := &stubCompletions{response: `[
		{"title": "First valid", "description": "d", "reasoning": "r"},
		{"title": 123, "description": "d", "reasoning": "r"},
		{"title": "Second valid", "description": "d", "reasoning": "r"}
	]`}
	recommender := newRecommender(stub)

	got := recommender.Recommend(context.Background(), testLead(), nil, nil)

	if len(got) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(got))
	}
	if got[0].Title != "First valid" || got[1].Title != "Second valid" {
		t.Fatalf("wrong entries survived: %+v", got)
	}
}

func TestRecommendDegradesGracefully(t *testing.T) {
	tests := []struct {
		name string
		stub *stubCompletions
	}{
		{"completion error", &stubCompletions{err: errors.New("upstream down")}},
		{"malformed json", &stubCompletions{response: "not json at all"}},
		{"object instead of array", &stubCompletions{response: `{"title": "t"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newRecommender(tt.stub).Recommend(context.Background(), testLead(), nil, nil)
			if len(got) != 0 {
				t.Fatalf("got %v, want empty", got)
			}
		})
	}
}

func TestRecommendSkipsIncompleteEntries(t *testing.T) {
	stub := &stubCompletions{response: `[
		{"title": "", "description": "d", "reasoning": "r"},
		{"title": "No reasoning", "description": "d"},
		{"title": "Valid", "description": "d", "reasoning": "r"}
	]`}
	recommender := newRecommender(stub)

	got := recommender.Recommend(context.Background(), testLead(), nil, nil)

	if len(got) != 1 || got[0].Title != "Valid" {
		t.Fatalf("incomplete entry not filtered: %+v", got)
	}
}

func TestBuildRecommendationPromptFiltersTasks(t *testing.T) {
	lead := testLead()
	existing := []repository.Task{
		{Title: "Pending task", Source: repository.SourceManual},
		{Title: "Dismissed task", Source: repository.SourceDismissed},
		{Title: "Done task", Source: repository.SourceManual, Completed: true},
	}

	prompt := buildRecommendationPrompt(lead, nil, existing)

	if !strings.Contains(prompt, "Pending task") {
		t.Fatal("prompt missing pending task")
	}
	if strings.Contains(prompt, "Dismissed task") {
		t.Fatal("dismissed task leaked into prompt")
	}
	if strings.Contains(prompt, "Done task") {
		t.Fatal("completed task leaked into prompt")
	}
}
