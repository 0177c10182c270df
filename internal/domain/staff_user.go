package domain

import "time"

// StaffRole enumerates dashboard operator roles. The values match the
// seeded rows and are carried verbatim inside token claims.
type StaffRole string

const (
	StaffRoleAdministrator StaffRole = "administrador"
	StaffRoleAttendant     StaffRole = "atendente"
)

// StaffUser models a dashboard operator (administrator or attendant).
type StaffUser struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         StaffRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
