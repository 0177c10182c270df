package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fitcore/gym-service/internal/api/dto"
	"github.com/fitcore/gym-service/internal/domain"
	"github.com/fitcore/gym-service/internal/service"
	apperrors "github.com/fitcore/gym-service/pkg/util"
)

// WorkoutsHandler exposes exercise catalog and workout template CRUD.
type WorkoutsHandler struct {
	workouts *service.WorkoutService
}

// NewWorkoutsHandler constructs handler.
func NewWorkoutsHandler(workouts *service.WorkoutService) *WorkoutsHandler {
	return &WorkoutsHandler{workouts: workouts}
}

// CreateExercise handles POST /exercises.
func (h *WorkoutsHandler) CreateExercise(c *fiber.Ctx) error {
	var req dto.ExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	exercise, err := h.workouts.CreateExercise(c.Context(), req.Name, req.MuscleGroup, req.Equipment)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": exerciseResponse(exercise)})
}

// ListExercises handles GET /exercises.
func (h *WorkoutsHandler) ListExercises(c *fiber.Ctx) error {
	var muscleGroup *string
	if val := c.Query("muscle_group"); val != "" {
		muscleGroup = &val
	}
	limit, offset := pagination(c)
	exercises, err := h.workouts.ListExercises(c.Context(), muscleGroup, limit, offset)
	if err != nil {
		return err
	}
	resp := make([]dto.ExerciseResponse, 0, len(exercises))
	for i := range exercises {
		resp = append(resp, exerciseResponse(&exercises[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// UpdateExercise handles PUT /exercises/:id.
func (h *WorkoutsHandler) UpdateExercise(c *fiber.Ctx) error {
	exercise, err := h.workouts.GetExercise(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	var req dto.ExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name != "" {
		exercise.Name = req.Name
	}
	if req.MuscleGroup != "" {
		exercise.MuscleGroup = req.MuscleGroup
	}
	if req.Equipment != nil {
		exercise.Equipment = req.Equipment
	}
	if err := h.workouts.UpdateExercise(c.Context(), exercise); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": exerciseResponse(exercise)})
}

// DeleteExercise handles DELETE /exercises/:id.
func (h *WorkoutsHandler) DeleteExercise(c *fiber.Ctx) error {
	if err := h.workouts.DeleteExercise(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreateWorkout handles POST /workouts.
func (h *WorkoutsHandler) CreateWorkout(c *fiber.Ctx) error {
	var req dto.WorkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	workout, err := h.workouts.CreateWorkout(c.Context(), workoutInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": workoutResponse(workout)})
}

// GetWorkout handles GET /workouts/:id.
func (h *WorkoutsHandler) GetWorkout(c *fiber.Ctx) error {
	workout, err := h.workouts.GetWorkout(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workoutResponse(workout)})
}

// UpdateWorkout handles PUT /workouts/:id.
func (h *WorkoutsHandler) UpdateWorkout(c *fiber.Ctx) error {
	var req dto.WorkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	workout, err := h.workouts.UpdateWorkout(c.Context(), c.Params("id"), workoutInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workoutResponse(workout)})
}

// DeleteWorkout handles DELETE /workouts/:id.
func (h *WorkoutsHandler) DeleteWorkout(c *fiber.Ctx) error {
	if err := h.workouts.DeleteWorkout(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func workoutInput(req dto.WorkoutRequest) service.WorkoutInput {
	input := service.WorkoutInput{
		Name:      req.Name,
		StudentID: req.StudentID,
		Notes:     req.Notes,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.WorkoutItemInput{
			ExerciseID: item.ExerciseID,
			Sets:       item.Sets,
			Reps:       item.Reps,
			RestSec:    item.RestSec,
		})
	}
	return input
}

func exerciseResponse(exercise *domain.Exercise) dto.ExerciseResponse {
	return dto.ExerciseResponse{
		ID:          exercise.ID,
		Name:        exercise.Name,
		MuscleGroup: exercise.MuscleGroup,
		Equipment:   exercise.Equipment,
	}
}

func workoutResponse(workout *domain.Workout) dto.WorkoutResponse {
	resp := dto.WorkoutResponse{
		ID:        workout.ID,
		Name:      workout.Name,
		StudentID: workout.StudentID,
		Notes:     workout.Notes,
	}
	for _, item := range workout.Items {
		resp.Items = append(resp.Items, dto.WorkoutItemResponse{
			ID:         item.ID,
			ExerciseID: item.ExerciseID,
			Position:   item.Position,
			Sets:       item.Sets,
			Reps:       item.Reps,
			RestSec:    item.RestSec,
		})
	}
	return resp
}
