package domain

import "time"

// Plan is a membership plan students subscribe to.
type Plan struct {
	ID           string
	Name         string
	Description  string
	PriceCents   int64
	DurationDays int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
