package dto

import (
	"time"

	"github.com/spec-kit/repair-shop-service/internal/domain"
)

// RegisterRequest is the customer self-registration payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest authenticates any role.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CompleteProfileRequest carries the profile setup fields.
type CompleteProfileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
}

// AccountResponse is the wire shape of an account.
type AccountResponse struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Role            domain.Role `json:"role"`
	ProfileComplete bool        `json:"profile_complete"`
	CreatedAt       time.Time   `json:"created_at"`
}

// AuthResponse wraps an account with its issued token.
type AuthResponse struct {
	Account   AccountResponse `json:"account"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}
