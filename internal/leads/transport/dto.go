package transport

// CreateLeadRequest contains data for creating a new lead.
type CreateLeadRequest struct {
	FirstName string   `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string   `json:"lastName" validate:"required,min=1,max=100"`
	Email     string   `json:"email" validate:"required,email,max=255"`
	Phone     *string  `json:"phone,omitempty" validate:"omitempty,max=30"`
	Budget    *float64 `json:"budget,omitempty" validate:"omitempty,gte=0"`
	Location  *string  `json:"location,omitempty" validate:"omitempty,max=255"`
	Company   *string  `json:"company,omitempty" validate:"omitempty,max=255"`
	Status    *string  `json:"status,omitempty" validate:"omitempty,max=50"`
	Source    *string  `json:"source,omitempty" validate:"omitempty,max=50"`
}

// UpdateLeadRequest contains the optional fields for a partial lead update.
type UpdateLeadRequest struct {
	FirstName *string  `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string  `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Email     *string  `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone     *string  `json:"phone,omitempty" validate:"omitempty,max=30"`
	Budget    *float64 `json:"budget,omitempty" validate:"omitempty,gte=0"`
	Location  *string  `json:"location,omitempty" validate:"omitempty,max=255"`
	Company   *string  `json:"company,omitempty" validate:"omitempty,max=255"`
	Status    *string  `json:"status,omitempty" validate:"omitempty,max=50"`
	Source    *string  `json:"source,omitempty" validate:"omitempty,max=50"`
}

// RecalculateScoresResult reports the outcome of a bulk recalculation run.
type RecalculateScoresResult struct {
	Count int `json:"count"`
}
