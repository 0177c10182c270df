package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/fitcore/gym-service/internal/api/dto"
	"github.com/fitcore/gym-service/internal/domain"
	"github.com/fitcore/gym-service/internal/repository"
	apperrors "github.com/fitcore/gym-service/pkg/util"
)

// PlansHandler exposes membership plan CRUD.
type PlansHandler struct {
	plans repository.PlanRepository
}

// NewPlansHandler constructs handler.
func NewPlansHandler(plans repository.PlanRepository) *PlansHandler {
	return &PlansHandler{plans: plans}
}

// Create handles POST /plans.
func (h *PlansHandler) Create(c *fiber.Ctx) error {
	var req dto.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.PriceCents <= 0 || req.DurationDays <= 0 {
		return apperrors.NewValidationError("name, price_cents, duration_days required", nil)
	}

	plan := &domain.Plan{
		Name:         req.Name,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		DurationDays: req.DurationDays,
		Active:       true,
	}
	if err := h.plans.Create(c.Context(), plan); err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": planResponse(plan)})
}

// List handles GET /plans.
func (h *PlansHandler) List(c *fiber.Ctx) error {
	includeInactive := false
	if val := c.Query("include_inactive"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			includeInactive = parsed
		}
	}
	plans, err := h.plans.List(c.Context(), includeInactive)
	if err != nil {
		return apperrors.MapError(err)
	}
	resp := make([]dto.PlanResponse, 0, len(plans))
	for i := range plans {
		resp = append(resp, planResponse(&plans[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /plans/:id.
func (h *PlansHandler) Get(c *fiber.Ctx) error {
	plan, err := h.plans.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": planResponse(plan)})
}

// Update handles PUT /plans/:id.
func (h *PlansHandler) Update(c *fiber.Ctx) error {
	plan, err := h.plans.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	var req dto.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name != "" {
		plan.Name = req.Name
	}
	plan.Description = req.Description
	if req.PriceCents > 0 {
		plan.PriceCents = req.PriceCents
	}
	if req.DurationDays > 0 {
		plan.DurationDays = req.DurationDays
	}
	if req.Active != nil {
		plan.Active = *req.Active
	}
	if err := h.plans.Update(c.Context(), plan); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": planResponse(plan)})
}

func planResponse(plan *domain.Plan) dto.PlanResponse {
	return dto.PlanResponse{
		ID:           plan.ID,
		Name:         plan.Name,
		Description:  plan.Description,
		PriceCents:   plan.PriceCents,
		DurationDays: plan.DurationDays,
		Active:       plan.Active,
	}
}
