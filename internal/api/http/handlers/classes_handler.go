package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fitcore/gym-service/internal/api/dto"
	"github.com/fitcore/gym-service/internal/auth"
	"github.com/fitcore/gym-service/internal/domain"
	"github.com/fitcore/gym-service/internal/repository"
	"github.com/fitcore/gym-service/internal/service"
	apperrors "github.com/fitcore/gym-service/pkg/util"
)

// ClassesHandler exposes scheduled class CRUD.
type ClassesHandler struct {
	schedule *service.ScheduleService
}

// NewClassesHandler constructs handler.
func NewClassesHandler(schedule *service.ScheduleService) *ClassesHandler {
	return &ClassesHandler{schedule: schedule}
}

// Create handles POST /classes.
func (h *ClassesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewMissingToken()
	}

	var req dto.ClassRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	class, err := h.schedule.ScheduleClass(c.Context(), principal.Staff.ID, service.ClassInput{
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: req.InstructorID,
		StartsAt:     req.StartsAt,
		DurationMin:  req.DurationMin,
		Capacity:     req.Capacity,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": classResponse(class)})
}

// List handles GET /classes.
func (h *ClassesHandler) List(c *fiber.Ctx) error {
	filter := repository.ClassFilter{}
	if instructorID := c.Query("instructor_id"); instructorID != "" {
		filter.InstructorID = &instructorID
	}
	if from := c.Query("starts_from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.StartsFrom = &t
		}
	}
	if to := c.Query("starts_to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.StartsTo = &t
		}
	}
	filter.Limit, filter.Offset = pagination(c)

	classes, err := h.schedule.ListClasses(c.Context(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.ClassResponse, 0, len(classes))
	for i := range classes {
		resp = append(resp, classResponse(&classes[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /classes/:id.
func (h *ClassesHandler) Get(c *fiber.Ctx) error {
	class, err := h.schedule.GetClass(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": classResponse(class)})
}

// Update handles PUT /classes/:id.
func (h *ClassesHandler) Update(c *fiber.Ctx) error {
	var req dto.ClassRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	class, err := h.schedule.UpdateClass(c.Context(), c.Params("id"), service.ClassInput{
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: req.InstructorID,
		StartsAt:     req.StartsAt,
		DurationMin:  req.DurationMin,
		Capacity:     req.Capacity,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": classResponse(class)})
}

// Delete handles DELETE /classes/:id.
func (h *ClassesHandler) Delete(c *fiber.Ctx) error {
	if err := h.schedule.CancelClass(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func classResponse(class *domain.GymClass) dto.ClassResponse {
	return dto.ClassResponse{
		ID:           class.ID,
		Title:        class.Title,
		Description:  class.Description,
		InstructorID: class.InstructorID,
		StartsAt:     class.StartsAt,
		DurationMin:  class.DurationMin,
		Capacity:     class.Capacity,
	}
}
