package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolable/timetable-api/internal/models"
)

type stubSchoolRepo struct {
	schools map[string]*models.School
}

func (s *stubSchoolRepo) FindByID(_ context.Context, id string) (*models.School, error) {
	if school, ok := s.schools[id]; ok {
		return school, nil
	}
	return nil, sql.ErrNoRows
}

type stubTeacherDirectory struct {
	teachers map[string]*models.Teacher
}

func (s *stubTeacherDirectory) FindByID(_ context.Context, id string) (*models.Teacher, error) {
	if teacher, ok := s.teachers[id]; ok {
		return teacher, nil
	}
	return nil, sql.ErrNoRows
}

type stubEnrollmentRepo struct {
	enrollments map[string]*models.Enrollment
	armCounts   map[string]int
	created     []*models.Enrollment
}

func (s *stubEnrollmentRepo) FindActiveByStudentTerm(_ context.Context, studentID, termID string) (*models.Enrollment, error) {
	return s.enrollments[studentID+"|"+termID], nil
}

func (s *stubEnrollmentRepo) CountActiveByArm(_ context.Context, _ string, classArmID string) (int, error) {
	return s.armCounts[classArmID], nil
}

func (s *stubEnrollmentRepo) Create(_ context.Context, enrollment *models.Enrollment) error {
	enrollment.ID = "enrollment-1"
	s.created = append(s.created, enrollment)
	return nil
}

type stubRegistrationRepo struct {
	details   []models.CourseRegistrationDetail
	existing  map[string]bool
	created   []*models.CourseRegistration
	destroyed []string
}

func (s *stubRegistrationRepo) ListActiveByStudentTerm(_ context.Context, _, _ string) ([]models.CourseRegistrationDetail, error) {
	return s.details, nil
}

func (s *stubRegistrationRepo) ExistsActive(_ context.Context, studentID, subjectID, termID string) (bool, error) {
	return s.existing[studentID+"|"+subjectID+"|"+termID], nil
}

func (s *stubRegistrationRepo) Create(_ context.Context, registration *models.CourseRegistration) error {
	registration.ID = "registration-1"
	s.created = append(s.created, registration)
	return nil
}

func (s *stubRegistrationRepo) Deactivate(_ context.Context, id string) error {
	s.destroyed = append(s.destroyed, id)
	return nil
}

func lessonPeriod(id, termID, day, start, end string, section models.Section) models.Period {
	p := models.Period{
		ID:        id,
		SchoolID:  "school-1",
		TermID:    termID,
		DayOfWeek: day,
		StartTime: start,
		EndTime:   end,
		Kind:      models.PeriodKindLesson,
	}
	p.SetSection(section)
	return p
}

func newTimetableFixture(schoolType models.SchoolType, periods *stubPeriodRepo, enrollments *stubEnrollmentRepo, registrations *stubRegistrationRepo) *TimetableService {
	schools := &stubSchoolRepo{schools: map[string]*models.School{
		"school-1": {ID: "school-1", Name: "Test School", Type: schoolType},
	}}
	teachers := &stubTeacherDirectory{teachers: map[string]*models.Teacher{
		"teacher-1": {ID: "teacher-1", FullName: "Ada Obi"},
	}}
	classes := &stubClassRepo{
		classes: map[string]*models.Class{"class-1": {ID: "class-1", Name: "JSS1"}},
		arms:    map[string]*models.ClassArm{"arm-a": {ID: "arm-a", ClassID: "class-1", Name: "A"}},
	}
	subjects := &stubSubjectRepo{subjects: []models.Subject{
		{ID: "subject-1", SchoolID: "school-1", Name: "Mathematics"},
		{ID: "subject-9", SchoolID: "school-1", Name: "Philosophy"},
	}}
	return NewTimetableService(periods, enrollments, registrations, schools, teachers, classes, subjects, nil, 0, nil)
}

func TestStudentScheduleSectionBased(t *testing.T) {
	section := models.ArmSection("arm-a")
	periods := &stubPeriodRepo{periods: []models.Period{
		lessonPeriod("p2", "term-1", "TUESDAY", "08:00", "09:00", section),
		lessonPeriod("p1", "term-1", "MONDAY", "09:00", "10:00", section),
	}}
	enrollments := &stubEnrollmentRepo{enrollments: map[string]*models.Enrollment{
		"student-1|term-1": {StudentID: "student-1", ClassArmID: strPtr("arm-a")},
	}}
	svc := newTimetableFixture(models.SchoolTypeSecondary, periods, enrollments, &stubRegistrationRepo{})

	schedule, err := svc.StudentSchedule(context.Background(), "school-1", "student-1", "term-1")
	require.NoError(t, err)
	require.Len(t, schedule, 2)
	assert.Equal(t, "p1", schedule[0].ID)
	assert.Equal(t, models.ScheduleSourceHomeClass, schedule[0].Source)
	assert.False(t, schedule[0].HasConflict)
}

func TestStudentScheduleWithoutEnrollmentIsEmpty(t *testing.T) {
	svc := newTimetableFixture(models.SchoolTypeSecondary, &stubPeriodRepo{}, &stubEnrollmentRepo{}, &stubRegistrationRepo{})

	schedule, err := svc.StudentSchedule(context.Background(), "school-1", "student-1", "term-1")
	require.NoError(t, err)
	assert.Empty(t, schedule)
}

func TestStudentScheduleTertiaryMergeFlagsOverlapWithoutFailing(t *testing.T) {
	home := models.ArmSection("arm-a")
	elective := models.ClassSection("class-2")
	homePeriod := lessonPeriod("p-home", "term-1", "MONDAY", "10:00", "11:00", home)
	homePeriod.SubjectID = strPtr("subject-1")
	electivePeriod := lessonPeriod("p-elective", "term-1", "MONDAY", "10:30", "11:30", elective)
	electivePeriod.SubjectID = strPtr("subject-9")

	periods := &stubPeriodRepo{periods: []models.Period{
		homePeriod,
		electivePeriod,
	}}
	enrollments := &stubEnrollmentRepo{enrollments: map[string]*models.Enrollment{
		"student-1|term-1": {StudentID: "student-1", ClassArmID: strPtr("arm-a")},
	}}
	registrations := &stubRegistrationRepo{details: []models.CourseRegistrationDetail{
		{CourseRegistration: models.CourseRegistration{SubjectID: "subject-9"}, SubjectName: "Philosophy"},
	}}
	svc := newTimetableFixture(models.SchoolTypeTertiary, periods, enrollments, registrations)

	schedule, err := svc.StudentSchedule(context.Background(), "school-1", "student-1", "term-1")
	require.NoError(t, err)
	require.Len(t, schedule, 2)

	bySource := map[models.ScheduleSource]models.SchedulePeriod{}
	for _, entry := range schedule {
		bySource[entry.Source] = entry
	}
	homeEntry := bySource[models.ScheduleSourceHomeClass]
	regEntry := bySource[models.ScheduleSourceRegistration]

	assert.True(t, homeEntry.HasConflict)
	assert.True(t, regEntry.HasConflict)
	assert.Contains(t, homeEntry.ConflictingPeriodIDs, "p-elective")
	assert.Contains(t, regEntry.ConflictingPeriodIDs, "p-home")

	// The message names both clashing subjects, not just the slot.
	assert.Contains(t, homeEntry.ConflictMessage, "Mathematics")
	assert.Contains(t, homeEntry.ConflictMessage, "Philosophy")
	assert.Contains(t, homeEntry.ConflictMessage, "MONDAY")
	assert.Contains(t, regEntry.ConflictMessage, "Philosophy")
	assert.Contains(t, regEntry.ConflictMessage, "Mathematics")
}

func TestStudentScheduleTertiaryWithoutRegistrationsKeepsHomeOnly(t *testing.T) {
	home := models.ArmSection("arm-a")
	periods := &stubPeriodRepo{periods: []models.Period{
		lessonPeriod("p-home", "term-1", "WEDNESDAY", "08:00", "09:00", home),
	}}
	enrollments := &stubEnrollmentRepo{enrollments: map[string]*models.Enrollment{
		"student-1|term-1": {StudentID: "student-1", ClassArmID: strPtr("arm-a")},
	}}
	svc := newTimetableFixture(models.SchoolTypeTertiary, periods, enrollments, &stubRegistrationRepo{})

	schedule, err := svc.StudentSchedule(context.Background(), "school-1", "student-1", "term-1")
	require.NoError(t, err)
	require.Len(t, schedule, 1)
	assert.Equal(t, models.ScheduleSourceHomeClass, schedule[0].Source)
}

func TestSectionTimetableSortsChronologically(t *testing.T) {
	section := models.ArmSection("arm-a")
	periods := &stubPeriodRepo{periods: []models.Period{
		lessonPeriod("p-fri", "term-1", "FRIDAY", "08:00", "09:00", section),
		lessonPeriod("p-mon-late", "term-1", "MONDAY", "10:00", "11:00", section),
		lessonPeriod("p-mon-early", "term-1", "MONDAY", "08:00", "09:00", section),
	}}
	svc := newTimetableFixture(models.SchoolTypeSecondary, periods, &stubEnrollmentRepo{}, &stubRegistrationRepo{})

	timetable, err := svc.SectionTimetable(context.Background(), "term-1", section)
	require.NoError(t, err)
	require.Len(t, timetable, 3)
	assert.Equal(t, "p-mon-early", timetable[0].ID)
	assert.Equal(t, "p-mon-late", timetable[1].ID)
	assert.Equal(t, "p-fri", timetable[2].ID)
}

func TestTeacherTimetableSortsChronologically(t *testing.T) {
	section := models.ArmSection("arm-a")
	friday := lessonPeriod("p-fri", "term-1", "FRIDAY", "08:00", "09:00", section)
	friday.TeacherID = strPtr("teacher-1")
	tuesday := lessonPeriod("p-tue", "term-1", "TUESDAY", "08:00", "09:00", section)
	tuesday.TeacherID = strPtr("teacher-1")

	periods := &stubPeriodRepo{periods: []models.Period{friday, tuesday}}
	svc := newTimetableFixture(models.SchoolTypeSecondary, periods, &stubEnrollmentRepo{}, &stubRegistrationRepo{})

	timetable, err := svc.TeacherTimetable(context.Background(), "term-1", "teacher-1")
	require.NoError(t, err)
	require.Len(t, timetable, 2)
	assert.Equal(t, "p-tue", timetable[0].ID)
	assert.Equal(t, "p-fri", timetable[1].ID)
}

func TestSectionTimetableReturnsEmptyListForEmptyGrid(t *testing.T) {
	svc := newTimetableFixture(models.SchoolTypeSecondary, &stubPeriodRepo{}, &stubEnrollmentRepo{}, &stubRegistrationRepo{})

	periods, err := svc.SectionTimetable(context.Background(), "term-1", models.ArmSection("arm-a"))
	require.NoError(t, err)
	assert.NotNil(t, periods)
	assert.Empty(t, periods)
}

func TestSectionTimetableUnknownSection(t *testing.T) {
	svc := newTimetableFixture(models.SchoolTypeSecondary, &stubPeriodRepo{}, &stubEnrollmentRepo{}, &stubRegistrationRepo{})

	_, err := svc.SectionTimetable(context.Background(), "term-1", models.ArmSection("missing"))
	require.Error(t, err)
}

func TestTeacherTimetableUnknownTeacher(t *testing.T) {
	svc := newTimetableFixture(models.SchoolTypeSecondary, &stubPeriodRepo{}, &stubEnrollmentRepo{}, &stubRegistrationRepo{})

	_, err := svc.TeacherTimetable(context.Background(), "term-1", "missing")
	require.Error(t, err)
}
