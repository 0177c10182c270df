package domain

import "time"

// GymClass is a scheduled group class led by a staff instructor.
type GymClass struct {
	ID           string
	Title        string
	Description  string
	InstructorID *string
	StartsAt     time.Time
	DurationMin  int
	Capacity     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
