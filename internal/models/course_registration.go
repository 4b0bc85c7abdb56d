package models

import "time"

// CourseRegistration links a tertiary student to a subject for a term,
// independent of home-class membership. At most one active registration may
// exist per (student, subject, term); deletion is a soft deactivate because
// schedule history keeps referencing the row.
type CourseRegistration struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	TermID       string    `db:"term_id" json:"term_id"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	CarryOver    bool      `db:"carry_over" json:"carry_over"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CourseRegistrationDetail enriches a registration with subject info.
type CourseRegistrationDetail struct {
	CourseRegistration
	SubjectName string `db:"subject_name" json:"subject_name"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
}
