package events

import "github.com/google/uuid"

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created.
type LeadCreated struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	Source    string    `json:"source,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.created" }

// LeadScoreUpdated is published after the summary/score pipeline persists a
// fresh activity score for a lead.
type LeadScoreUpdated struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	LeadName string    `json:"leadName"`
	Score    int       `json:"score"`
}

func (e LeadScoreUpdated) EventName() string { return "leads.score.updated" }

// =============================================================================
// Interactions Domain Events
// =============================================================================

// InteractionLogged is published when an interaction is recorded for a lead.
type InteractionLogged struct {
	BaseEvent
	InteractionID uuid.UUID `json:"interactionId"`
	LeadID        uuid.UUID `json:"leadId"`
	Type          string    `json:"type"`
	HasNotes      bool      `json:"hasNotes"`
}

func (e InteractionLogged) EventName() string { return "interactions.logged" }

// =============================================================================
// Tasks Domain Events
// =============================================================================

// TaskCompleted is published when a task is marked completed.
type TaskCompleted struct {
	BaseEvent
	TaskID uuid.UUID `json:"taskId"`
	LeadID uuid.UUID `json:"leadId"`
	Title  string    `json:"title"`
}

func (e TaskCompleted) EventName() string { return "tasks.completed" }
