package models

import "time"

// Student represents a learner registered in a school.
type Student struct {
	ID        string    `db:"id" json:"id"`
	SchoolID  string    `db:"school_id" json:"school_id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive      EnrollmentStatus = "ACTIVE"
	EnrollmentStatusTransferred EnrollmentStatus = "TRANSFERRED"
	EnrollmentStatusLeft        EnrollmentStatus = "LEFT"
)

// Enrollment captures a student's membership of a class or class arm within a
// term. For tertiary students the enrolled section is the home class that
// course registrations overlay.
type Enrollment struct {
	ID         string           `db:"id" json:"id"`
	StudentID  string           `db:"student_id" json:"student_id"`
	SchoolID   string           `db:"school_id" json:"school_id"`
	TermID     string           `db:"term_id" json:"term_id"`
	ClassID    *string          `db:"class_id" json:"class_id,omitempty"`
	ClassArmID *string          `db:"class_arm_id" json:"class_arm_id,omitempty"`
	Status     EnrollmentStatus `db:"status" json:"status"`
	JoinedAt   time.Time        `db:"joined_at" json:"joined_at"`
	LeftAt     *time.Time       `db:"left_at" json:"left_at,omitempty"`
}

// Section returns the enrolled section as the tagged variant.
func (e *Enrollment) Section() Section {
	return SectionFromRefs(e.ClassID, e.ClassArmID)
}
