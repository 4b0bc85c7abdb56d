package models

import "time"

// SchoolType classifies how students are attached to their weekly schedule.
// Section-based types resolve the full schedule from class membership alone;
// tertiary schools overlay individual course registrations on a home class.
type SchoolType string

const (
	SchoolTypePrimary   SchoolType = "PRIMARY"
	SchoolTypeSecondary SchoolType = "SECONDARY"
	SchoolTypeTertiary  SchoolType = "TERTIARY"
)

// RegistrationBased reports whether schedules for this school type are merged
// from home-class periods and per-student course registrations.
func (t SchoolType) RegistrationBased() bool {
	return t == SchoolTypeTertiary
}

// School represents one tenant institution.
type School struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Type      SchoolType `db:"type" json:"type"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
