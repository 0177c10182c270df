package dto

// ExerciseRequest payload for catalog entries.
type ExerciseRequest struct {
	Name        string  `json:"name"`
	MuscleGroup string  `json:"muscle_group"`
	Equipment   *string `json:"equipment,omitempty"`
}

// ExerciseResponse is the API shape for an exercise.
type ExerciseResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	MuscleGroup string  `json:"muscle_group"`
	Equipment   *string `json:"equipment,omitempty"`
}

// WorkoutItemRequest is one entry in a workout payload.
type WorkoutItemRequest struct {
	ExerciseID string `json:"exercise_id"`
	Sets       int    `json:"sets"`
	Reps       int    `json:"reps"`
	RestSec    int    `json:"rest_sec"`
}

// WorkoutRequest payload for templates.
type WorkoutRequest struct {
	Name      string               `json:"name"`
	StudentID *string              `json:"student_id,omitempty"`
	Notes     string               `json:"notes"`
	Items     []WorkoutItemRequest `json:"items"`
}

// WorkoutItemResponse is the API shape for a workout item.
type WorkoutItemResponse struct {
	ID         string `json:"id"`
	ExerciseID string `json:"exercise_id"`
	Position   int    `json:"position"`
	Sets       int    `json:"sets"`
	Reps       int    `json:"reps"`
	RestSec    int    `json:"rest_sec"`
}

// WorkoutResponse is the API shape for a workout template.
type WorkoutResponse struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	StudentID *string               `json:"student_id,omitempty"`
	Notes     string                `json:"notes"`
	Items     []WorkoutItemResponse `json:"items"`
}
