package dto

import "time"

// ClassRequest payload for scheduling/updating a class.
type ClassRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	InstructorID *string   `json:"instructor_id,omitempty"`
	StartsAt     time.Time `json:"starts_at"`
	DurationMin  int       `json:"duration_min"`
	Capacity     int       `json:"capacity"`
}

// ClassResponse is the API shape for a scheduled class.
type ClassResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	InstructorID *string   `json:"instructor_id,omitempty"`
	StartsAt     time.Time `json:"starts_at"`
	DurationMin  int       `json:"duration_min"`
	Capacity     int       `json:"capacity"`
}
