package dto

import (
	"time"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse is the account shape returned to clients.
type UserResponse struct {
	ID                  string      `json:"id"`
	Email               string      `json:"email"`
	FullName            string      `json:"full_name"`
	Role                domain.Role `json:"role"`
	OnboardingCompleted bool        `json:"onboarding_completed"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
