package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fitcore/gym-service/internal/domain"
	"github.com/fitcore/gym-service/internal/events"
	"github.com/fitcore/gym-service/internal/repository"
	apperrors "github.com/fitcore/gym-service/pkg/util"
)

// BillingService records and lists membership payments. Plain CRUD: no
// delinquency or proration rules live here.
type BillingService struct {
	payments   repository.PaymentRepository
	students   repository.StudentRepository
	plans      repository.PlanRepository
	dispatcher events.Dispatcher
}

// BillingDependencies bundles repositories for the billing service.
type BillingDependencies struct {
	PaymentRepo repository.PaymentRepository
	StudentRepo repository.StudentRepository
	PlanRepo    repository.PlanRepository
	Dispatcher  events.Dispatcher
}

// PaymentInput describes a payment to record.
type PaymentInput struct {
	StudentID   string
	PlanID      *string
	AmountCents int64
	Method      domain.PaymentMethod
	PaidAt      *time.Time
	Notes       *string
}

// NewBillingService constructs the service.
func NewBillingService(deps BillingDependencies) *BillingService {
	return &BillingService{
		payments:   deps.PaymentRepo,
		students:   deps.StudentRepo,
		plans:      deps.PlanRepo,
		dispatcher: deps.Dispatcher,
	}
}

// RecordPayment persists a payment and emits payment_recorded.
func (s *BillingService) RecordPayment(ctx context.Context, actorStaffID string, input PaymentInput) (*domain.Payment, error) {
	if input.AmountCents <= 0 {
		return nil, apperrors.NewValidationError("amount must be positive", nil)
	}

	student, err := s.students.GetByID(ctx, input.StudentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if input.PlanID != nil {
		if _, err := s.plans.GetByID(ctx, *input.PlanID); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	paidAt := time.Now()
	if input.PaidAt != nil {
		paidAt = *input.PaidAt
	}

	payment := &domain.Payment{
		ReceiptKey:  uuid.NewString(),
		StudentID:   student.ID,
		PlanID:      input.PlanID,
		AmountCents: input.AmountCents,
		Method:      input.Method,
		PaidAt:      paidAt,
		Notes:       input.Notes,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPaymentRecorded,
			SubjectID: payment.ID,
			Actor:     events.Actor{Type: domain.SubjectTypeStaff, StaffID: &actorStaffID},
			Timestamp: time.Now(),
			Payload: events.PaymentRecordedPayload{
				ReceiptKey:  payment.ReceiptKey,
				AmountCents: payment.AmountCents,
				Method:      payment.Method,
				StudentID:   payment.StudentID,
			},
		})
	}
	return payment, nil
}

// GetPayment fetches one payment.
func (s *BillingService) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return payment, nil
}

// ListPayments returns payments matching the filter.
func (s *BillingService) ListPayments(ctx context.Context, filter repository.PaymentFilter) ([]domain.Payment, error) {
	return s.payments.ListWithFilter(ctx, filter)
}

// ListStudentPayments lists a student's own payments, for the portal.
func (s *BillingService) ListStudentPayments(ctx context.Context, studentID string, limit, offset int) ([]domain.Payment, error) {
	return s.payments.ListWithFilter(ctx, repository.PaymentFilter{
		StudentID: &studentID,
		Limit:     limit,
		Offset:    offset,
	})
}
