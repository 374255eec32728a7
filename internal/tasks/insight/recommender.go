// Package insight generates next-step task recommendations for a lead
// via the text-completion service.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"leadflow_backend/internal/leads/ports"
	leadsrepo "leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/tasks/repository"
	"leadflow_backend/platform/ai/openrouter"
	"leadflow_backend/platform/logger"
)

const (
	recommendationMaxTokens   = 800
	recommendationTemperature = 0.7

	maxRecommendations = 3
	maxTitleLength     = 255
)

// Models sometimes wrap the JSON array in a markdown code fence despite
// instructions not to.
var codeFencePattern = regexp.MustCompile("```(?:json)?\\s*(\\[[\\s\\S]*?\\])\\s*```")

// Recommendation is one suggested next-step task for a lead.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Reasoning   string `json:"reasoning"`
}

// Recommender produces task recommendations. It degrades gracefully: any
// upstream or parse failure yields an empty list, never an error.
type Recommender struct {
	completions ports.CompletionClient
	log         *logger.Logger
}

// NewRecommender creates a new task recommender.
func NewRecommender(completions ports.CompletionClient, log *logger.Logger) *Recommender {
	return &Recommender{
		completions: completions,
		log:         log,
	}
}

// Recommend returns at most three task recommendations for the lead given
// its interactions and existing tasks.
func (r *Recommender) Recommend(ctx context.Context, lead leadsrepo.Lead, interactions []leadsrepo.Interaction, existing []repository.Task) []Recommendation {
	content, err := r.completions.Complete(ctx, openrouter.Request{
		Prompt:      buildRecommendationPrompt(lead, interactions, existing),
		MaxTokens:   recommendationMaxTokens,
		Temperature: recommendationTemperature,
	})
	if err != nil {
		r.log.CompletionFailure("generate_recommendations", lead.ID.String(), err)
		return nil
	}

	recommendations := r.parseRecommendations(content)
	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations
}

func (r *Recommender) parseRecommendations(content string) []Recommendation {
	jsonStr := content
	if match := codeFencePattern.FindStringSubmatch(content); match != nil {
		jsonStr = match[1]
	}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &elements); err != nil {
		r.log.Warn("could not parse recommendation response", "error", err)
		return nil
	}

	// Elements are decoded one by one so a single malformed entry (wrong
	// field types, not an object) does not discard its valid siblings.
	recommendations := make([]Recommendation, 0, len(elements))
	for _, element := range elements {
		var item Recommendation
		if err := json.Unmarshal(element, &item); err != nil {
			continue
		}
		if item.Title == "" || item.Description == "" || item.Reasoning == "" {
			continue
		}
		if utf8.RuneCountInString(item.Title) > maxTitleLength {
			item.Title = string([]rune(item.Title)[:maxTitleLength])
		}
		recommendations = append(recommendations, item)
	}
	return recommendations
}

func buildRecommendationPrompt(lead leadsrepo.Lead, interactions []leadsrepo.Interaction, existing []repository.Task) string {
	var b strings.Builder

	b.WriteString("You are a CRM assistant helping manage sales leads. Analyze the following lead and suggest 1-3 specific, actionable next-step tasks to help move this lead forward in the sales process.\n\n")

	b.WriteString("Lead Information:\n")
	fmt.Fprintf(&b, "- Name: %s %s\n", lead.FirstName, lead.LastName)
	fmt.Fprintf(&b, "- Email: %s\n", lead.Email)
	fmt.Fprintf(&b, "- Status: %s\n", lead.Status)
	fmt.Fprintf(&b, "- Budget: %s\n", formatBudget(lead.Budget))
	fmt.Fprintf(&b, "- Location: %s\n", optionalString(lead.Location, "Not specified"))
	fmt.Fprintf(&b, "- Company: %s\n", optionalString(lead.Company, "Not specified"))
	fmt.Fprintf(&b, "- Source: %s\n", lead.Source)

	b.WriteString("\nRecent Interactions:\n")
	if len(interactions) == 0 {
		b.WriteString("  - No interactions recorded yet\n")
	} else {
		for _, interaction := range interactions {
			fmt.Fprintf(&b, "  - %s on %s: %s\n",
				strings.ToUpper(interaction.Type),
				interaction.Date.Format("Jan 2, 2006"),
				optionalString(interaction.Notes, "No notes"),
			)
		}
	}

	b.WriteString("\nExisting Pending Tasks:\n")
	pending := 0
	for _, task := range existing {
		if task.Source == repository.SourceDismissed || task.Completed {
			continue
		}
		fmt.Fprintf(&b, "  - %s\n", task.Title)
		pending++
	}
	if pending == 0 {
		b.WriteString("  - No existing tasks\n")
	}

	b.WriteString(`
Based on this context, suggest 1-3 specific, actionable tasks that would be most valuable right now. Each task should:
- Be specific and actionable (not vague like "follow up" or "think about next steps")
- Directly address the lead's current status and recent interactions
- Help move the lead forward in the sales process
- Not duplicate existing pending tasks

Format your response as a JSON array ONLY (no additional text):
[
  {
    "title": "Short actionable title (max 60 chars)",
    "description": "What specifically to do",
    "reasoning": "Why this task matters now and will help close the deal"
  }
]

Return ONLY the JSON array, no additional text or markdown.`)

	return b.String()
}

func optionalString(value *string, fallback string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback
	}
	return *value
}

func formatBudget(budget *float64) string {
	if budget == nil {
		return "Not specified"
	}
	return fmt.Sprintf("$%.2f", *budget)
}
