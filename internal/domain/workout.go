package domain

import "time"

// Workout is a named training template assignable to a student.
type Workout struct {
	ID        string
	Name      string
	StudentID *string
	Notes     string
	Items     []WorkoutItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkoutItem is one ordered exercise entry inside a workout.
type WorkoutItem struct {
	ID         string
	WorkoutID  string
	ExerciseID string
	Position   int
	Sets       int
	Reps       int
	RestSec    int
}
