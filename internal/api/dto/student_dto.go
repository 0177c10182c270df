package dto

import "time"

// StudentCreateRequest payload for registering students.
type StudentCreateRequest struct {
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Password  string     `json:"password"`
	PlanID    *string    `json:"plan_id,omitempty"`
}

// StudentUpdateRequest payload for mutating students.
type StudentUpdateRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// StudentResponse is the API shape for a student.
type StudentResponse struct {
	ID        string     `json:"id"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	PlanID    *string    `json:"plan_id,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// PlanAssignRequest payload for assigning a plan.
type PlanAssignRequest struct {
	PlanID string `json:"plan_id"`
}
