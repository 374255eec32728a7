package transport

import "leadflow_backend/internal/auth/repository"

// RegisterRequest contains data for creating an account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest contains credentials for signing in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse returns the signed access token with the account.
type AuthResponse struct {
	AccessToken string          `json:"accessToken"`
	User        repository.User `json:"user"`
}
