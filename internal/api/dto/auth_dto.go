package dto

import (
	"time"

	"github.com/fitcore/gym-service/internal/domain"
)

// LoginRequest carries the single login payload for both principal kinds.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VerifyTokenResponse reports token validity; always HTTP 200.
type VerifyTokenResponse struct {
	Valid bool `json:"valid"`
}

// StaffProfile is the sanitized staff payload; no hash ever leaves the
// server.
type StaffProfile struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	Email string           `json:"email"`
	Role  domain.StaffRole `json:"role"`
}

// StudentProfile is the sanitized student payload.
type StudentProfile struct {
	ID       string  `json:"id"`
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	PlanID   *string `json:"plan_id,omitempty"`
}

// LoginResponse tags the profile with its kind; exactly one of Staff or
// Student is set.
type LoginResponse struct {
	Kind    string          `json:"kind"`
	Staff   *StaffProfile   `json:"staff,omitempty"`
	Student *StudentProfile `json:"student,omitempty"`
	Auth    AuthResponse    `json:"auth"`
}

// PasswordResetRequest payload for initiating reset.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest payload for confirming reset.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
