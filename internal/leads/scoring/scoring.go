// Package scoring computes the activity score for a lead.
//
// The score is a weighted sum of four independently capped factors:
// recency of the last interaction (40), interaction count (30), budget
// size (20), and pipeline status (10). It is pure and deterministic so
// it can run anywhere without I/O, including inside the bulk
// recalculation transaction.
package scoring

import (
	"strings"
	"time"

	"leadflow_backend/internal/leads/repository"
)

const (
	maxRecencyScore    = 40
	maxEngagementScore = 30
	maxBudgetScore     = 20
	maxStatusScore     = 10
)

// statusScores maps known pipeline statuses to their factor score.
// Unrecognized statuses fall back to the "new" midpoint.
var statusScores = map[string]int{
	"qualified":   10,
	"contacted":   8,
	"new":         5,
	"closed_lost": 0,
}

const defaultStatusScore = 5

// Score returns the lead's activity score in [0, 100].
// A lead with no interactions scores zero on recency and engagement,
// capping it at 30 (budget + status).
func Score(lead repository.Lead, interactions []repository.Interaction) int {
	return ScoreAt(lead, interactions, time.Now())
}

// ScoreAt computes the score relative to the given reference time.
// Split out from Score so tests can pin "now".
func ScoreAt(lead repository.Lead, interactions []repository.Interaction, now time.Time) int {
	score := recencyScore(interactions, now)
	score += engagementScore(len(interactions))
	score += budgetScore(lead.Budget)
	score += statusScore(lead.Status)

	return clamp(score, 0, 100)
}

func recencyScore(interactions []repository.Interaction, now time.Time) int {
	if len(interactions) == 0 {
		return 0
	}

	latest := interactions[0].Date
	for _, interaction := range interactions[1:] {
		if interaction.Date.After(latest) {
			latest = interaction.Date
		}
	}

	days := int(now.Sub(latest).Hours() / 24)
	switch {
	case days <= 7:
		return maxRecencyScore
	case days <= 14:
		return 30
	case days <= 30:
		return 20
	default:
		return 10
	}
}

func engagementScore(count int) int {
	switch {
	case count >= 5:
		return maxEngagementScore
	case count >= 3:
		return 20
	case count >= 1:
		return 10
	default:
		return 0
	}
}

func budgetScore(budget *float64) int {
	if budget == nil || *budget <= 0 {
		return 0
	}

	switch {
	case *budget >= 100000:
		return maxBudgetScore
	case *budget >= 50000:
		return 15
	case *budget >= 25000:
		return 10
	default:
		return 5
	}
}

func statusScore(status string) int {
	if value, ok := statusScores[strings.ToLower(status)]; ok {
		return value
	}
	return defaultStatusScore
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
