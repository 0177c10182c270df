package domain

import "time"

// StudentStatus represents lifecycle states for a student.
type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "ACTIVE"
	StudentStatusInactive StudentStatus = "INACTIVE"
)

// Student is the domain model for gym members with portal access.
type Student struct {
	ID           string
	FullName     string
	Email        string
	Phone        *string
	BirthDate    *time.Time
	PasswordHash string
	PlanID       *string
	Status       StudentStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
