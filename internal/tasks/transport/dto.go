package transport

import "time"

// CreateTaskRequest contains data for manually creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// UpdateTaskRequest contains optional fields for a partial task update.
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// UpdateTaskSourceRequest accepts or dismisses an AI suggestion.
type UpdateTaskSourceRequest struct {
	Source string `json:"source" validate:"required,oneof=manual ai_suggested dismissed"`
}
