package domain

import "time"

// Exercise is a catalog entry referenced by workout items.
type Exercise struct {
	ID          string
	Name        string
	MuscleGroup string
	Equipment   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
