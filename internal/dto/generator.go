package dto

import "github.com/schoolable/timetable-api/internal/models"

// GenerateTimetableRequest instructs the distributor to fill a section's
// weekly grid from the subject/course pool.
type GenerateTimetableRequest struct {
	SchoolID             string                `json:"schoolId" validate:"required"`
	TermID               string                `json:"termId" validate:"required"`
	ClassID              string                `json:"classId" validate:"required_without=ClassArmID,excluded_with=ClassArmID"`
	ClassArmID           string                `json:"classArmId"`
	Template             []models.SlotTemplate `json:"template" validate:"omitempty,dive"`
	MaxSameSubjectPerDay int                   `json:"maxSameSubjectPerDay" validate:"omitempty,min=1"`
	FreePeriodsPerDay    int                   `json:"freePeriodsPerDay" validate:"omitempty,min=0"`
}

// Section resolves the tagged section variant from the request.
func (r GenerateTimetableRequest) Section() models.Section {
	if r.ClassArmID != "" {
		return models.ArmSection(r.ClassArmID)
	}
	return models.ClassSection(r.ClassID)
}

// GeneratedSlot is one proposed period. A nil SubjectID/CourseID with the
// "Free Period" label is a deliberately unassigned lesson slot.
type GeneratedSlot struct {
	DayOfWeek   string            `json:"dayOfWeek"`
	StartTime   string            `json:"startTime"`
	EndTime     string            `json:"endTime"`
	Kind        models.PeriodKind `json:"kind"`
	SubjectID   *string           `json:"subjectId,omitempty"`
	CourseID    *string           `json:"courseId,omitempty"`
	DisplayName string            `json:"displayName"`
	Existing    bool              `json:"existing"`
}

// GenerateTimetableResponse returns the full weekly proposal.
type GenerateTimetableResponse struct {
	TermID  string          `json:"termId"`
	Section models.Section  `json:"section"`
	Slots   []GeneratedSlot `json:"slots"`
}

// ApplyTimetableRequest persists a previously generated proposal.
type ApplyTimetableRequest struct {
	SchoolID   string          `json:"schoolId" validate:"required"`
	TermID     string          `json:"termId" validate:"required"`
	ClassID    string          `json:"classId" validate:"required_without=ClassArmID,excluded_with=ClassArmID"`
	ClassArmID string          `json:"classArmId"`
	Slots      []GeneratedSlot `json:"slots" validate:"required,min=1,dive"`
}

// Section resolves the tagged section variant from the request.
func (r ApplyTimetableRequest) Section() models.Section {
	if r.ClassArmID != "" {
		return models.ArmSection(r.ClassArmID)
	}
	return models.ClassSection(r.ClassID)
}

// SlotOutcomeStatus enumerates per-slot results of a bulk write-back.
type SlotOutcomeStatus string

const (
	SlotOutcomeCreated  SlotOutcomeStatus = "CREATED"
	SlotOutcomeSkipped  SlotOutcomeStatus = "SKIPPED"
	SlotOutcomeConflict SlotOutcomeStatus = "CONFLICT"
	SlotOutcomeFailed   SlotOutcomeStatus = "FAILED"
)

// SlotOutcome reports what happened to one slot during write-back. Bulk
// operations continue past individual failures and accumulate these instead of
// aborting the batch.
type SlotOutcome struct {
	DayOfWeek string            `json:"dayOfWeek"`
	StartTime string            `json:"startTime"`
	Status    SlotOutcomeStatus `json:"status"`
	PeriodID  string            `json:"periodId,omitempty"`
	Message   string            `json:"message,omitempty"`
}

// ApplyTimetableResponse summarises the write-back batch.
type ApplyTimetableResponse struct {
	Created  int           `json:"created"`
	Skipped  int           `json:"skipped"`
	Conflict int           `json:"conflict"`
	Failed   int           `json:"failed"`
	Outcomes []SlotOutcome `json:"outcomes"`
}
