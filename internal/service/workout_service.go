package service

import (
	"context"

	"github.com/fitcore/gym-service/internal/domain"
	"github.com/fitcore/gym-service/internal/repository"
	apperrors "github.com/fitcore/gym-service/pkg/util"
)

// WorkoutService manages the exercise catalog and workout templates.
type WorkoutService struct {
	workouts  repository.WorkoutRepository
	exercises repository.ExerciseRepository
	students  repository.StudentRepository
}

// WorkoutDependencies bundles repositories for the workout service.
type WorkoutDependencies struct {
	WorkoutRepo  repository.WorkoutRepository
	ExerciseRepo repository.ExerciseRepository
	StudentRepo  repository.StudentRepository
}

// WorkoutItemInput is one exercise entry in a workout payload.
type WorkoutItemInput struct {
	ExerciseID string
	Sets       int
	Reps       int
	RestSec    int
}

// WorkoutInput describes a workout template payload.
type WorkoutInput struct {
	Name      string
	StudentID *string
	Notes     string
	Items     []WorkoutItemInput
}

// NewWorkoutService constructs the service.
func NewWorkoutService(deps WorkoutDependencies) *WorkoutService {
	return &WorkoutService{
		workouts:  deps.WorkoutRepo,
		exercises: deps.ExerciseRepo,
		students:  deps.StudentRepo,
	}
}

// CreateExercise adds a catalog entry.
func (s *WorkoutService) CreateExercise(ctx context.Context, name, muscleGroup string, equipment *string) (*domain.Exercise, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	exercise := &domain.Exercise{Name: name, MuscleGroup: muscleGroup, Equipment: equipment}
	if err := s.exercises.Create(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

// UpdateExercise modifies a catalog entry.
func (s *WorkoutService) UpdateExercise(ctx context.Context, exercise *domain.Exercise) error {
	return apperrors.MapError(s.exercises.Update(ctx, exercise))
}

// DeleteExercise removes a catalog entry.
func (s *WorkoutService) DeleteExercise(ctx context.Context, id string) error {
	if err := s.exercises.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// GetExercise fetches one catalog entry.
func (s *WorkoutService) GetExercise(ctx context.Context, id string) (*domain.Exercise, error) {
	exercise, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return exercise, nil
}

// ListExercises returns catalog entries.
func (s *WorkoutService) ListExercises(ctx context.Context, muscleGroup *string, limit, offset int) ([]domain.Exercise, error) {
	return s.exercises.List(ctx, muscleGroup, limit, offset)
}

// CreateWorkout creates a template with its ordered items. Every item
// must reference an existing exercise.
func (s *WorkoutService) CreateWorkout(ctx context.Context, input WorkoutInput) (*domain.Workout, error) {
	if input.Name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if input.StudentID != nil {
		if _, err := s.students.GetByID(ctx, *input.StudentID); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	items, err := s.buildItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	workout := &domain.Workout{
		Name:      input.Name,
		StudentID: input.StudentID,
		Notes:     input.Notes,
	}
	if err := s.workouts.Create(ctx, workout); err != nil {
		return nil, err
	}
	if err := s.workouts.ReplaceItems(ctx, workout.ID, items); err != nil {
		return nil, err
	}
	return s.GetWorkout(ctx, workout.ID)
}

// UpdateWorkout mutates a template and replaces its items when provided.
func (s *WorkoutService) UpdateWorkout(ctx context.Context, id string, input WorkoutInput) (*domain.Workout, error) {
	workout, err := s.workouts.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if input.Name != "" {
		workout.Name = input.Name
	}
	if input.StudentID != nil {
		if _, err := s.students.GetByID(ctx, *input.StudentID); err != nil {
			return nil, apperrors.MapError(err)
		}
		workout.StudentID = input.StudentID
	}
	workout.Notes = input.Notes
	if err := s.workouts.Update(ctx, workout); err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.Items != nil {
		items, err := s.buildItems(ctx, input.Items)
		if err != nil {
			return nil, err
		}
		if err := s.workouts.ReplaceItems(ctx, workout.ID, items); err != nil {
			return nil, err
		}
	}
	return s.GetWorkout(ctx, workout.ID)
}

// GetWorkout fetches one template with items.
func (s *WorkoutService) GetWorkout(ctx context.Context, id string) (*domain.Workout, error) {
	workout, err := s.workouts.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return workout, nil
}

// ListStudentWorkouts returns a student's assigned templates.
func (s *WorkoutService) ListStudentWorkouts(ctx context.Context, studentID string) ([]domain.Workout, error) {
	return s.workouts.ListByStudent(ctx, studentID)
}

// DeleteWorkout removes a template.
func (s *WorkoutService) DeleteWorkout(ctx context.Context, id string) error {
	if err := s.workouts.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *WorkoutService) buildItems(ctx context.Context, inputs []WorkoutItemInput) ([]domain.WorkoutItem, error) {
	items := make([]domain.WorkoutItem, 0, len(inputs))
	for i, in := range inputs {
		if _, err := s.exercises.GetByID(ctx, in.ExerciseID); err != nil {
			return nil, apperrors.MapError(err)
		}
		items = append(items, domain.WorkoutItem{
			ExerciseID: in.ExerciseID,
			Position:   i + 1,
			Sets:       in.Sets,
			Reps:       in.Reps,
			RestSec:    in.RestSec,
		})
	}
	return items, nil
}
