package dto

import "github.com/fitcore/gym-service/internal/domain"

// StaffCreateRequest payload for new staff users.
type StaffCreateRequest struct {
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Password string           `json:"password"`
	Role     domain.StaffRole `json:"role"`
}

// StaffUpdateRequest payload for staff mutation.
type StaffUpdateRequest struct {
	Name   *string           `json:"name,omitempty"`
	Email  *string           `json:"email,omitempty"`
	Role   *domain.StaffRole `json:"role,omitempty"`
	Active *bool             `json:"active,omitempty"`
}

// StaffResponse is the API shape for a staff user.
type StaffResponse struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	Email  string           `json:"email"`
	Role   domain.StaffRole `json:"role"`
	Active bool             `json:"active"`
}
