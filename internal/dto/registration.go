package dto

// RegisterCourseRequest creates a course registration for a student.
type RegisterCourseRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	SubjectID string `json:"subjectId" validate:"required"`
	TermID    string `json:"termId" validate:"required"`
	CarryOver bool   `json:"carryOver"`
}

// EnrollStudentRequest places a student into a class arm for a term.
type EnrollStudentRequest struct {
	StudentID  string `json:"studentId" validate:"required"`
	SchoolID   string `json:"schoolId" validate:"required"`
	TermID     string `json:"termId" validate:"required"`
	ClassArmID string `json:"classArmId" validate:"required"`
}
