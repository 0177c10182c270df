package events

import (
	"time"

	"github.com/fitcore/gym-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStudentRegistered EventType = "student_registered"
	EventPlanAssigned      EventType = "plan_assigned"
	EventPaymentRecorded   EventType = "payment_recorded"
	EventClassScheduled    EventType = "class_scheduled"
	EventPasswordReset     EventType = "password_reset_requested"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type      domain.SubjectType `json:"type"`
	StudentID *string            `json:"student_id,omitempty"`
	StaffID   *string            `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// StudentRegisteredPayload payload.
type StudentRegisteredPayload struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// PlanAssignedPayload payload.
type PlanAssignedPayload struct {
	PlanID   string `json:"plan_id"`
	PlanName string `json:"plan_name"`
}

// PaymentRecordedPayload payload.
type PaymentRecordedPayload struct {
	ReceiptKey  string               `json:"receipt_key"`
	AmountCents int64                `json:"amount_cents"`
	Method      domain.PaymentMethod `json:"method"`
	StudentID   string               `json:"student_id"`
}

// ClassScheduledPayload payload.
type ClassScheduledPayload struct {
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	Capacity int       `json:"capacity"`
}

// PasswordResetPayload payload.
type PasswordResetPayload struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
