package domain

import "time"

// PaymentMethod enumerates accepted payment instruments.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodPix    PaymentMethod = "PIX"
	PaymentMethodOnline PaymentMethod = "ONLINE"
)

// Payment records a settled membership payment.
type Payment struct {
	ID          string
	ReceiptKey  string
	StudentID   string
	PlanID      *string
	AmountCents int64
	Method      PaymentMethod
	PaidAt      time.Time
	Notes       *string
	CreatedAt   time.Time
}
