package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/fitcore/gym-service/internal/api/dto"
	"github.com/fitcore/gym-service/internal/auth"
	"github.com/fitcore/gym-service/internal/domain"
	"github.com/fitcore/gym-service/internal/repository"
	"github.com/fitcore/gym-service/internal/service"
	apperrors "github.com/fitcore/gym-service/pkg/util"
)

// StudentsHandler exposes student management and portal endpoints.
type StudentsHandler struct {
	members  *service.MemberService
	billing  *service.BillingService
	workouts *service.WorkoutService
}

// NewStudentsHandler constructs handler.
func NewStudentsHandler(members *service.MemberService, billing *service.BillingService, workouts *service.WorkoutService) *StudentsHandler {
	return &StudentsHandler{members: members, billing: billing, workouts: workouts}
}

// Create handles POST /students.
func (h *StudentsHandler) Create(c *fiber.Ctx) error {
	var req dto.StudentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("full_name, email, password required", nil)
	}

	student, err := h.members.RegisterStudent(c.Context(), service.StudentCreateInput{
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
		Password:  req.Password,
		PlanID:    req.PlanID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": studentResponse(student)})
}

// List handles GET /students.
func (h *StudentsHandler) List(c *fiber.Ctx) error {
	filter := repository.StudentFilter{}
	if status := c.Query("status"); status != "" {
		parsed := domain.StudentStatus(status)
		filter.Status = &parsed
	}
	if planID := c.Query("plan_id"); planID != "" {
		filter.PlanID = &planID
	}
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}
	filter.Limit, filter.Offset = pagination(c)

	students, err := h.members.ListStudents(c.Context(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		resp = append(resp, studentResponse(&students[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /students/:id.
func (h *StudentsHandler) Get(c *fiber.Ctx) error {
	student, err := h.members.GetStudent(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": studentResponse(student)})
}

// Update handles PUT /students/:id.
func (h *StudentsHandler) Update(c *fiber.Ctx) error {
	var req dto.StudentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.StudentUpdateInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if req.Status != nil {
		status := domain.StudentStatus(*req.Status)
		input.Status = &status
	}
	student, err := h.members.UpdateStudent(c.Context(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": studentResponse(student)})
}

// Delete handles DELETE /students/:id.
func (h *StudentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.members.DeleteStudent(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AssignPlan handles POST /students/:id/plan.
func (h *StudentsHandler) AssignPlan(c *fiber.Ctx) error {
	var req dto.PlanAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.PlanID == "" {
		return apperrors.NewValidationError("plan_id required", nil)
	}
	student, err := h.members.AssignPlan(c.Context(), c.Params("id"), req.PlanID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": studentResponse(student)})
}

// Me handles GET /portal/me for the student portal.
func (h *StudentsHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Student == nil {
		return apperrors.NewMissingToken()
	}
	return c.JSON(fiber.Map{"data": studentResponse(principal.Student)})
}

// MyPayments handles GET /portal/payments.
func (h *StudentsHandler) MyPayments(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Student == nil {
		return apperrors.NewMissingToken()
	}
	limit, offset := pagination(c)
	payments, err := h.billing.ListStudentPayments(c.Context(), principal.Student.ID, limit, offset)
	if err != nil {
		return err
	}
	resp := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		resp = append(resp, paymentResponse(&payments[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// MyWorkouts handles GET /portal/workouts.
func (h *StudentsHandler) MyWorkouts(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Student == nil {
		return apperrors.NewMissingToken()
	}
	workouts, err := h.workouts.ListStudentWorkouts(c.Context(), principal.Student.ID)
	if err != nil {
		return err
	}
	resp := make([]dto.WorkoutResponse, 0, len(workouts))
	for i := range workouts {
		resp = append(resp, workoutResponse(&workouts[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

func studentResponse(student *domain.Student) dto.StudentResponse {
	return dto.StudentResponse{
		ID:        student.ID,
		FullName:  student.FullName,
		Email:     student.Email,
		Phone:     student.Phone,
		BirthDate: student.BirthDate,
		PlanID:    student.PlanID,
		Status:    string(student.Status),
		CreatedAt: student.CreatedAt,
	}
}

func pagination(c *fiber.Ctx) (limit, offset int) {
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 50)
	return pageSize, (page - 1) * pageSize
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}
