package transport

import "time"

// LogInteractionRequest contains data for recording an interaction on a lead.
type LogInteractionRequest struct {
	Type  string     `json:"type" validate:"required,oneof=call email meeting"`
	Date  *time.Time `json:"date,omitempty"`
	Notes *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// UpdateInteractionRequest contains optional fields for a partial update.
type UpdateInteractionRequest struct {
	Type  *string    `json:"type,omitempty" validate:"omitempty,oneof=call email meeting"`
	Date  *time.Time `json:"date,omitempty"`
	Notes *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
}
