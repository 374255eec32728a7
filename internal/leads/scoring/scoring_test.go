package scoring

import (
	"testing"
	"time"

	"leadflow_backend/internal/leads/repository"
)

func floatPtr(v float64) *float64 { return &v }

func interactionsAt(now time.Time, daysAgo ...int) []repository.Interaction {
	out := make([]repository.Interaction, 0, len(daysAgo))
	for _, d := range daysAgo {
		out = append(out, repository.Interaction{Date: now.AddDate(0, 0, -d)})
	}
	return out
}

func TestScoreAt(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		lead         repository.Lead
		interactions []repository.Interaction
		want         int
	}{
		{
			name:         "qualified lead with big budget and recent activity",
			lead:         repository.Lead{Status: "qualified", Budget: floatPtr(100000)},
			interactions: interactionsAt(now, 2, 5),
			// recency 40 + engagement 10 + budget 20 + status 10
			want: 80,
		},
		{
			name: "new lead with mid budget and no interactions",
			lead: repository.Lead{Status: "new", Budget: floatPtr(50000)},
			// recency 0 + engagement 0 + budget 15 + status 5
			want: 20,
		},
		{
			name:         "contacted lead with stale interactions",
			lead:         repository.Lead{Status: "contacted", Budget: floatPtr(30000)},
			interactions: interactionsAt(now, 45, 60, 90),
			// recency 10 + engagement 20 + budget 10 + status 8
			want: 48,
		},
		{
			name:         "five interactions hit the engagement cap",
			lead:         repository.Lead{Status: "closed_lost"},
			interactions: interactionsAt(now, 1, 2, 3, 4, 5),
			// recency 40 + engagement 30 + budget 0 + status 0
			want: 70,
		},
		{
			name:         "two week old interaction",
			lead:         repository.Lead{Status: "new"},
			interactions: interactionsAt(now, 13),
			// recency 30 + engagement 10 + budget 0 + status 5
			want: 45,
		},
		{
			name:         "month old interaction",
			lead:         repository.Lead{Status: "new"},
			interactions: interactionsAt(now, 29),
			// recency 20 + engagement 10 + budget 0 + status 5
			want: 35,
		},
		{
			name: "unrecognized status falls back to midpoint",
			lead: repository.Lead{Status: "nurturing"},
			want: 5,
		},
		{
			name: "status matching is case insensitive",
			lead: repository.Lead{Status: "Qualified"},
			want: 10,
		},
		{
			name: "zero budget scores nothing",
			lead: repository.Lead{Status: "new", Budget: floatPtr(0)},
			want: 5,
		},
		{
			name: "small positive budget scores the floor",
			lead: repository.Lead{Status: "new", Budget: floatPtr(1000)},
			want: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreAt(tt.lead, tt.interactions, now)
			if got != tt.want {
				t.Fatalf("ScoreAt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreAtBounds(t *testing.T) {
	now := time.Now()

	max := ScoreAt(
		repository.Lead{Status: "qualified", Budget: floatPtr(500000)},
		interactionsAt(now, 0, 1, 2, 3, 4, 5, 6),
		now,
	)
	if max != 100 {
		t.Fatalf("maximal lead scored %d, want 100", max)
	}

	min := ScoreAt(repository.Lead{Status: "closed_lost"}, nil, now)
	if min != 0 {
		t.Fatalf("minimal lead scored %d, want 0", min)
	}
}

func TestScoreAtNoInteractionsCeiling(t *testing.T) {
	now := time.Now()

	// Without interactions the best possible score is budget + status.
	got := ScoreAt(repository.Lead{Status: "qualified", Budget: floatPtr(200000)}, nil, now)
	if got != 30 {
		t.Fatalf("interaction-less lead scored %d, want 30", got)
	}
}

func TestScoreAtUsesMostRecentInteraction(t *testing.T) {
	now := time.Now()

	// Order must not matter; recency keys off the latest date.
	scrambled := interactionsAt(now, 60, 3, 45)
	got := ScoreAt(repository.Lead{Status: "new"}, scrambled, now)
	// recency 40 + engagement 20 + status 5
	if got != 65 {
		t.Fatalf("ScoreAt() = %d, want 65", got)
	}
}

func TestScoreAtDeterministic(t *testing.T) {
	now := time.Now()
	lead := repository.Lead{Status: "contacted", Budget: floatPtr(75000)}
	interactions := interactionsAt(now, 1, 10, 20)

	first := ScoreAt(lead, interactions, now)
	for i := 0; i < 10; i++ {
		if got := ScoreAt(lead, interactions, now); got != first {
			t.Fatalf("run %d scored %d, first run scored %d", i, got, first)
		}
	}
}
