package dto

// PlanRequest payload for creating/updating plans.
type PlanRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	PriceCents   int64  `json:"price_cents"`
	DurationDays int    `json:"duration_days"`
	Active       *bool  `json:"active,omitempty"`
}

// PlanResponse is the API shape for a plan.
type PlanResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	PriceCents   int64  `json:"price_cents"`
	DurationDays int    `json:"duration_days"`
	Active       bool   `json:"active"`
}
