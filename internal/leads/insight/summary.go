// Package insight generates natural-language summaries and activity
// scores for leads via the text-completion service.
package insight

import (
	"context"
	"fmt"
	"strings"

	"leadflow_backend/internal/leads/ports"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/scoring"
	"leadflow_backend/platform/ai/openrouter"
	"leadflow_backend/platform/logger"
)

const (
	summaryMaxTokens   = 300
	summaryTemperature = 0.7
)

// Result is the output of a summary generation run.
type Result struct {
	Summary       string
	ActivityScore int
}

// SummaryGenerator produces a lead summary and activity score.
// It never fails: upstream errors degrade to a templated fallback summary
// while the score is always computed locally.
type SummaryGenerator struct {
	completions ports.CompletionClient
	log         *logger.Logger
}

// NewSummaryGenerator creates a new summary generator.
func NewSummaryGenerator(completions ports.CompletionClient, log *logger.Logger) *SummaryGenerator {
	return &SummaryGenerator{
		completions: completions,
		log:         log,
	}
}

// Generate returns the summary and activity score for a lead.
// The returned Result is always usable; completion failures are logged
// and replaced with the deterministic fallback text.
func (g *SummaryGenerator) Generate(ctx context.Context, lead repository.Lead, interactions []repository.Interaction) Result {
	activityScore := scoring.Score(lead, interactions)

	summary, err := g.completions.Complete(ctx, openrouter.Request{
		Prompt:      buildSummaryPrompt(lead, interactions),
		MaxTokens:   summaryMaxTokens,
		Temperature: summaryTemperature,
	})
	if err != nil {
		g.log.CompletionFailure("generate_summary", lead.ID.String(), err)
		summary = FallbackSummary(lead, len(interactions))
	}

	return Result{
		Summary:       summary,
		ActivityScore: activityScore,
	}
}

// FallbackSummary is the deterministic text substituted when the
// completion service is unavailable.
func FallbackSummary(lead repository.Lead, interactionCount int) string {
	return fmt.Sprintf("%s %s is a %s lead with %d recorded interaction(s).",
		lead.FirstName, lead.LastName, lead.Status, interactionCount)
}

func buildSummaryPrompt(lead repository.Lead, interactions []repository.Interaction) string {
	var b strings.Builder

	b.WriteString("You are a CRM assistant. Generate a concise, professional 2-3 sentence summary of this lead based on the information provided.\n\n")
	b.WriteString("Lead Information:\n")
	fmt.Fprintf(&b, "- Name: %s %s\n", lead.FirstName, lead.LastName)
	fmt.Fprintf(&b, "- Email: %s\n", lead.Email)
	fmt.Fprintf(&b, "- Phone: %s\n", optionalString(lead.Phone, "N/A"))
	fmt.Fprintf(&b, "- Budget: %s\n", formatBudget(lead.Budget))
	fmt.Fprintf(&b, "- Location: %s\n", optionalString(lead.Location, "Not specified"))
	fmt.Fprintf(&b, "- Company: %s\n", optionalString(lead.Company, "Not specified"))
	fmt.Fprintf(&b, "- Status: %s\n", lead.Status)

	b.WriteString("\nInteractions:\n")
	if len(interactions) == 0 {
		b.WriteString("- No interactions recorded yet\n")
	} else {
		for _, interaction := range interactions {
			fmt.Fprintf(&b, "- %s on %s: %s\n",
				strings.ToUpper(interaction.Type),
				interaction.Date.Format("January 2, 2006"),
				optionalString(interaction.Notes, "No notes"),
			)
		}
	}

	b.WriteString(`
Generate a summary that:
1. Starts with the lead's name
2. Mentions key engagement details (budget, location, status)
3. Highlights the most recent or important interaction
4. Provides actionable insight for next steps

Keep it to 2-3 sentences maximum. Be specific and professional.`)

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
