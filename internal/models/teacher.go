package models

import "time"

// Teacher represents an instructor record.
type Teacher struct {
	ID        string    `db:"id" json:"id"`
	SchoolID  string    `db:"school_id" json:"school_id"`
	Email     string    `db:"email" json:"email"`
	FullName  string    `db:"full_name" json:"full_name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectTeacher marks a teacher as competent to teach a subject. It is an
// authorization-style assignment, orthogonal to any timetable period.
type SubjectTeacher struct {
	ID        string    `db:"id" json:"id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
