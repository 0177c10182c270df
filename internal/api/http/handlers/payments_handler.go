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

// PaymentsHandler exposes payment recording and listing.
type PaymentsHandler struct {
	billing *service.BillingService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(billing *service.BillingService) *PaymentsHandler {
	return &PaymentsHandler{billing: billing}
}

// Create handles POST /payments.
func (h *PaymentsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewMissingToken()
	}

	var req dto.PaymentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.StudentID == "" || req.AmountCents <= 0 || req.Method == "" {
		return apperrors.NewValidationError("student_id, amount_cents, method required", nil)
	}

	payment, err := h.billing.RecordPayment(c.Context(), principal.Staff.ID, service.PaymentInput{
		StudentID:   req.StudentID,
		PlanID:      req.PlanID,
		AmountCents: req.AmountCents,
		Method:      domain.PaymentMethod(req.Method),
		PaidAt:      req.PaidAt,
		Notes:       req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": paymentResponse(payment)})
}

// List handles GET /payments.
func (h *PaymentsHandler) List(c *fiber.Ctx) error {
	filter := repository.PaymentFilter{}
	if studentID := c.Query("student_id"); studentID != "" {
		filter.StudentID = &studentID
	}
	if planID := c.Query("plan_id"); planID != "" {
		filter.PlanID = &planID
	}
	if method := c.Query("method"); method != "" {
		parsed := domain.PaymentMethod(method)
		filter.Method = &parsed
	}
	if from := c.Query("paid_from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.PaidFrom = &t
		}
	}
	if to := c.Query("paid_to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.PaidTo = &t
		}
	}
	filter.Limit, filter.Offset = pagination(c)

	payments, err := h.billing.ListPayments(c.Context(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		resp = append(resp, paymentResponse(&payments[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /payments/:id.
func (h *PaymentsHandler) Get(c *fiber.Ctx) error {
	payment, err := h.billing.GetPayment(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": paymentResponse(payment)})
}

func paymentResponse(payment *domain.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:          payment.ID,
		ReceiptKey:  payment.ReceiptKey,
		StudentID:   payment.StudentID,
		PlanID:      payment.PlanID,
		AmountCents: payment.AmountCents,
		Method:      string(payment.Method),
		PaidAt:      payment.PaidAt,
		Notes:       payment.Notes,
	}
}
