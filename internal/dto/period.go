package dto

import "github.com/schoolable/timetable-api/internal/models"

// CreatePeriodRequest describes the payload for creating a period.
type CreatePeriodRequest struct {
	SchoolID   string            `json:"schoolId" validate:"required"`
	TermID     string            `json:"termId" validate:"required"`
	DayOfWeek  string            `json:"dayOfWeek" validate:"required"`
	StartTime  string            `json:"startTime" validate:"required"`
	EndTime    string            `json:"endTime" validate:"required"`
	Kind       models.PeriodKind `json:"kind" validate:"required,oneof=LESSON BREAK ASSEMBLY LUNCH"`
	Label      *string           `json:"label,omitempty"`
	SubjectID  *string           `json:"subjectId,omitempty"`
	CourseID   *string           `json:"courseId,omitempty"`
	TeacherID  *string           `json:"teacherId,omitempty"`
	RoomID     *string           `json:"roomId,omitempty"`
	ClassID    string            `json:"classId" validate:"required_without=ClassArmID,excluded_with=ClassArmID"`
	ClassArmID string            `json:"classArmId"`
}

// Section resolves the tagged section variant from the request.
func (r CreatePeriodRequest) Section() models.Section {
	if r.ClassArmID != "" {
		return models.ArmSection(r.ClassArmID)
	}
	return models.ClassSection(r.ClassID)
}

// UpdatePeriodRequest patches time or assignment fields of a period. Nil
// pointers leave the stored value untouched.
type UpdatePeriodRequest struct {
	DayOfWeek *string `json:"dayOfWeek,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Label     *string `json:"label,omitempty"`
	SubjectID *string `json:"subjectId,omitempty"`
	CourseID  *string `json:"courseId,omitempty"`
	TeacherID *string `json:"teacherId,omitempty"`
	RoomID    *string `json:"roomId,omitempty"`
}

// TouchesSchedule reports whether the patch changes day, time, teacher, or
// room, which requires a fresh conflict check before committing.
func (r UpdatePeriodRequest) TouchesSchedule() bool {
	return r.DayOfWeek != nil || r.StartTime != nil || r.EndTime != nil || r.TeacherID != nil || r.RoomID != nil
}

// SeedMasterScheduleRequest creates one empty period per class arm for every
// template slot across the working week. Re-running with the same template
// skips slots that already exist instead of duplicating them.
type SeedMasterScheduleRequest struct {
	SchoolID string                `json:"schoolId" validate:"required"`
	TermID   string                `json:"termId" validate:"required"`
	Template []models.SlotTemplate `json:"template" validate:"required,min=1,dive"`
}

// SeedMasterScheduleResponse reports the idempotent seeding outcome.
type SeedMasterScheduleResponse struct {
	Created  int           `json:"created"`
	Skipped  int           `json:"skipped"`
	Outcomes []SlotOutcome `json:"outcomes,omitempty"`
}
