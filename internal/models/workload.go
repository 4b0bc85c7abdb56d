package models

// WorkloadStatus classifies a teacher's period count for a term.
type WorkloadStatus string

const (
	WorkloadStatusLow        WorkloadStatus = "LOW"
	WorkloadStatusNormal     WorkloadStatus = "NORMAL"
	WorkloadStatusHigh       WorkloadStatus = "HIGH"
	WorkloadStatusOverloaded WorkloadStatus = "OVERLOADED"
)

// WorkloadThresholds holds the configurable classification boundaries.
// Counts below LowBelow are LOW, up to NormalUpTo NORMAL, up to HighUpTo HIGH,
// and anything above is OVERLOADED.
type WorkloadThresholds struct {
	LowBelow   int `json:"low_below"`
	NormalUpTo int `json:"normal_up_to"`
	HighUpTo   int `json:"high_up_to"`
}

// Classify maps a period count onto a status.
func (t WorkloadThresholds) Classify(totalPeriods int) WorkloadStatus {
	switch {
	case totalPeriods < t.LowBelow:
		return WorkloadStatusLow
	case totalPeriods <= t.NormalUpTo:
		return WorkloadStatusNormal
	case totalPeriods <= t.HighUpTo:
		return WorkloadStatusHigh
	default:
		return WorkloadStatusOverloaded
	}
}

// TeacherWorkload is the derived per-teacher aggregate for a term. It is
// computed on demand and never persisted.
type TeacherWorkload struct {
	TeacherID        string         `json:"teacher_id"`
	TeacherName      string         `json:"teacher_name"`
	TotalPeriods     int            `json:"total_periods"`
	DistinctSections int            `json:"distinct_sections"`
	DistinctSubjects int            `json:"distinct_subjects"`
	PerSubject       map[string]int `json:"per_subject"`
	PerSection       map[string]int `json:"per_section"`
	Status           WorkloadStatus `json:"status"`
}

// WorkloadWarning flags a teacher whose load needs attention.
type WorkloadWarning struct {
	TeacherID string         `json:"teacher_id"`
	Status    WorkloadStatus `json:"status"`
	Message   string         `json:"message"`
}

// UncoveredSubject flags a subject with no competent teacher assigned. This is
// a data-quality signal, separate from workload classification.
type UncoveredSubject struct {
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name"`
}

// TeacherLoadRow is one LESSON period row joined with its teacher, as read
// for workload aggregation.
type TeacherLoadRow struct {
	TeacherID   string  `db:"teacher_id"`
	TeacherName string  `db:"teacher_name"`
	SubjectID   *string `db:"subject_id"`
	CourseID    *string `db:"course_id"`
	ClassID     *string `db:"class_id"`
	ClassArmID  *string `db:"class_arm_id"`
}

// TeachingRef returns whichever of subject/course the row carries.
func (r TeacherLoadRow) TeachingRef() string {
	if r.SubjectID != nil && *r.SubjectID != "" {
		return *r.SubjectID
	}
	if r.CourseID != nil && *r.CourseID != "" {
		return *r.CourseID
	}
	return ""
}

// SectionKey returns the stable key of the row's section.
func (r TeacherLoadRow) SectionKey() string {
	return SectionFromRefs(r.ClassID, r.ClassArmID).Key()
}

// WorkloadSummary is the full analyzer output for a school and term.
type WorkloadSummary struct {
	SchoolID          string             `json:"school_id"`
	TermID            string             `json:"term_id"`
	Teachers          []TeacherWorkload  `json:"teachers"`
	Warnings          []WorkloadWarning  `json:"warnings,omitempty"`
	UncoveredSubjects []UncoveredSubject `json:"uncovered_subjects,omitempty"`
	Thresholds        WorkloadThresholds `json:"thresholds"`
}
