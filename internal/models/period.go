package models

import "time"

// PeriodKind distinguishes lessons from fixed non-teaching slots.
type PeriodKind string

const (
	PeriodKindLesson   PeriodKind = "LESSON"
	PeriodKindBreak    PeriodKind = "BREAK"
	PeriodKindAssembly PeriodKind = "ASSEMBLY"
	PeriodKindLunch    PeriodKind = "LUNCH"
)

// Period is the atomic schedulable unit: one slot on one day of the weekly
// grid, scoped to a term. Subject and course references are mutually exclusive
// by school type; teacher and room are optional until assigned.
type Period struct {
	ID         string     `db:"id" json:"id"`
	SchoolID   string     `db:"school_id" json:"school_id"`
	TermID     string     `db:"term_id" json:"term_id"`
	DayOfWeek  string     `db:"day_of_week" json:"day_of_week"`
	StartTime  string     `db:"start_time" json:"start_time"`
	EndTime    string     `db:"end_time" json:"end_time"`
	Kind       PeriodKind `db:"kind" json:"kind"`
	Label      *string    `db:"label" json:"label,omitempty"`
	SubjectID  *string    `db:"subject_id" json:"subject_id,omitempty"`
	CourseID   *string    `db:"course_id" json:"course_id,omitempty"`
	TeacherID  *string    `db:"teacher_id" json:"teacher_id,omitempty"`
	RoomID     *string    `db:"room_id" json:"room_id,omitempty"`
	ClassID    *string    `db:"class_id" json:"class_id,omitempty"`
	ClassArmID *string    `db:"class_arm_id" json:"class_arm_id,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// Section returns the tagged section variant for the period.
func (p *Period) Section() Section {
	return SectionFromRefs(p.ClassID, p.ClassArmID)
}

// SetSection writes the variant back onto the two optional columns.
func (p *Period) SetSection(section Section) {
	p.ClassID = section.ClassID()
	p.ClassArmID = section.ClassArmID()
}

// TeachingRef returns whichever of subject/course is populated.
func (p *Period) TeachingRef() *string {
	if p.SubjectID != nil && *p.SubjectID != "" {
		return p.SubjectID
	}
	if p.CourseID != nil && *p.CourseID != "" {
		return p.CourseID
	}
	return nil
}

// Assigned reports whether the period carries a real subject or course choice.
func (p *Period) Assigned() bool {
	return p.TeachingRef() != nil
}

// PeriodFilter describes query params for listing periods.
type PeriodFilter struct {
	SchoolID   string
	TermID     string
	DayOfWeek  string
	ClassID    string
	ClassArmID string
	TeacherID  string
	SubjectID  string
	RoomID     string
	Kind       PeriodKind
	SchoolType SchoolType
}

// ConflictDimension names which resource is double-booked.
type ConflictDimension string

const (
	ConflictDimensionTeacher ConflictDimension = "TEACHER"
	ConflictDimensionRoom    ConflictDimension = "ROOM"
)

// PeriodConflict describes the existing period a candidate collides with.
type PeriodConflict struct {
	PeriodID  string            `json:"period_id"`
	TermID    string            `json:"term_id"`
	DayOfWeek string            `json:"day_of_week"`
	StartTime string            `json:"start_time"`
	EndTime   string            `json:"end_time"`
	TeacherID *string           `json:"teacher_id,omitempty"`
	RoomID    *string           `json:"room_id,omitempty"`
	Section   Section           `json:"section"`
	Dimension ConflictDimension `json:"dimension"`
}

// PeriodConflictError is returned when a candidate period collides with a
// committed one. It is an expected, user-facing outcome; the message names the
// conflicting party, section, day, and time so the caller can resolve it
// without another round-trip.
type PeriodConflictError struct {
	Dimension ConflictDimension `json:"dimension"`
	Message   string            `json:"message"`
	Conflict  PeriodConflict    `json:"conflict"`
}

// Error implements the error interface for conflict errors.
func (e *PeriodConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// ScheduleSource tags where a merged schedule period came from.
type ScheduleSource string

const (
	ScheduleSourceHomeClass    ScheduleSource = "HOME_CLASS"
	ScheduleSourceRegistration ScheduleSource = "REGISTRATION"
)

// SchedulePeriod is a period enriched for schedule views. Conflict fields are
// display-only annotations produced by the cross-source merge; they never
// block retrieval.
type SchedulePeriod struct {
	Period
	Source               ScheduleSource `json:"source,omitempty"`
	HasConflict          bool           `json:"has_conflict"`
	ConflictingPeriodIDs []string       `json:"conflicting_period_ids,omitempty"`
	ConflictMessage      string         `json:"conflict_message,omitempty"`
}
