package dto

import "time"

// PaymentCreateRequest payload for recording a payment.
type PaymentCreateRequest struct {
	StudentID   string     `json:"student_id"`
	PlanID      *string    `json:"plan_id,omitempty"`
	AmountCents int64      `json:"amount_cents"`
	Method      string     `json:"method"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// PaymentResponse is the API shape for a payment.
type PaymentResponse struct {
	ID          string    `json:"id"`
	ReceiptKey  string    `json:"receipt_key"`
	StudentID   string    `json:"student_id"`
	PlanID      *string   `json:"plan_id,omitempty"`
	AmountCents int64     `json:"amount_cents"`
	Method      string    `json:"method"`
	PaidAt      time.Time `json:"paid_at"`
	Notes       *string   `json:"notes,omitempty"`
}
