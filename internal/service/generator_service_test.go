package service

import (
	"context"
	"database/sql"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolable/timetable-api/internal/dto"
	"github.com/schoolable/timetable-api/internal/models"
	"github.com/schoolable/timetable-api/pkg/timeutil"
)

type stubSubjectRepo struct {
	subjects  []models.Subject
	uncovered []models.Subject
}

func (s *stubSubjectRepo) FindByID(_ context.Context, id string) (*models.Subject, error) {
	for i := range s.subjects {
		if s.subjects[i].ID == id {
			subject := s.subjects[i]
			return &subject, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubSubjectRepo) ListBySchool(_ context.Context, _ string) ([]models.Subject, error) {
	return s.subjects, nil
}

func (s *stubSubjectRepo) ListUncovered(_ context.Context, _ string) ([]models.Subject, error) {
	return s.uncovered, nil
}

func fiveSubjects() []models.Subject {
	return []models.Subject{
		{ID: "subject-1", Name: "Mathematics"},
		{ID: "subject-2", Name: "English Language"},
		{ID: "subject-3", Name: "Basic Science"},
		{ID: "subject-4", Name: "History"},
		{ID: "subject-5", Name: "Fine Arts"},
	}
}

func defaultTemplate() []models.SlotTemplate {
	return []models.SlotTemplate{
		{StartTime: "08:00", EndTime: "09:00", Kind: models.PeriodKindLesson},
		{StartTime: "09:00", EndTime: "10:00", Kind: models.PeriodKindLesson},
		{StartTime: "10:00", EndTime: "10:30", Kind: models.PeriodKindBreak, Label: "Short Break"},
		{StartTime: "10:30", EndTime: "11:30", Kind: models.PeriodKindLesson},
		{StartTime: "11:30", EndTime: "12:30", Kind: models.PeriodKindLesson},
		{StartTime: "12:30", EndTime: "13:30", Kind: models.PeriodKindLesson},
		{StartTime: "13:30", EndTime: "14:30", Kind: models.PeriodKindLesson},
	}
}

func newGeneratorFixture(schoolType models.SchoolType, periods *stubPeriodRepo, opts GeneratorOptions, seed int64) *GeneratorService {
	schools := &stubSchoolRepo{schools: map[string]*models.School{
		"school-1": {ID: "school-1", Type: schoolType},
	}}
	subjects := &stubSubjectRepo{subjects: fiveSubjects()}

	terms := &stubTermRepo{terms: map[string]*models.Term{"term-1": {ID: "term-1"}}}
	classes := &stubClassRepo{
		classes: map[string]*models.Class{"class-1": {ID: "class-1"}},
		arms:    map[string]*models.ClassArm{"arm-a": {ID: "arm-a", ClassID: "class-1", Name: "A"}},
	}
	writer := NewPeriodService(periods, terms, classes, &stubRoomRepo{}, nil, nil, nil, nil)

	return NewGeneratorService(periods, subjects, schools, writer, opts, nil, rand.New(rand.NewSource(seed)), nil, nil)
}

func generateRequest() dto.GenerateTimetableRequest {
	return dto.GenerateTimetableRequest{
		SchoolID:   "school-1",
		TermID:     "term-1",
		ClassArmID: "arm-a",
		Template:   defaultTemplate(),
	}
}

func TestGeneratorFillsWholeWeekFromTemplate(t *testing.T) {
	svc := newGeneratorFixture(models.SchoolTypeSecondary, &stubPeriodRepo{}, GeneratorOptions{}, 7)

	resp, err := svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)
	// 7 template slots per weekday, lessons plus the seeded break.
	assert.Len(t, resp.Slots, 35)

	for _, slot := range resp.Slots {
		if slot.Kind != models.PeriodKindLesson {
			assert.Equal(t, "Short Break", slot.DisplayName)
			continue
		}
		if slot.SubjectID == nil {
			assert.Equal(t, "Free Period", slot.DisplayName)
		} else {
			assert.NotEmpty(t, slot.DisplayName)
		}
		assert.Nil(t, slot.CourseID)
	}

	// Output is ordered by day, then start time.
	for i := 1; i < len(resp.Slots); i++ {
		prev, cur := resp.Slots[i-1], resp.Slots[i]
		if prev.DayOfWeek == cur.DayOfWeek {
			assert.LessOrEqual(t, prev.StartTime, cur.StartTime)
		}
	}
}

func TestGeneratorHonoursDailyCapAndAvoidsBackToBack(t *testing.T) {
	opts := GeneratorOptions{MaxSameSubjectPerDay: 2}
	req := generateRequest()
	req.FreePeriodsPerDay = 0

	// The pool is wide enough that a valid candidate always exists, so the
	// soft constraints must hold on every run regardless of the seed.
	for seed := int64(1); seed <= 5; seed++ {
		svc := newGeneratorFixture(models.SchoolTypeSecondary, &stubPeriodRepo{}, opts, seed)
		resp, err := svc.Generate(context.Background(), req)
		require.NoError(t, err)

		perDay := map[string]map[string]int{}
		lastByDay := map[string]string{}
		for _, slot := range resp.Slots {
			if slot.Kind != models.PeriodKindLesson || slot.SubjectID == nil {
				continue
			}
			if perDay[slot.DayOfWeek] == nil {
				perDay[slot.DayOfWeek] = map[string]int{}
			}
			perDay[slot.DayOfWeek][*slot.SubjectID]++
			assert.NotEqual(t, lastByDay[slot.DayOfWeek], *slot.SubjectID, "back-to-back repeat on %s", slot.DayOfWeek)
			lastByDay[slot.DayOfWeek] = *slot.SubjectID
		}
		for day, counts := range perDay {
			for subjectID, count := range counts {
				assert.LessOrEqual(t, count, 2, "subject %s appears %d times on %s", subjectID, count, day)
			}
		}
	}
}

func TestGeneratorFallsBackToOnlySubjectWhenPoolExhausted(t *testing.T) {
	schools := &stubSchoolRepo{schools: map[string]*models.School{
		"school-1": {ID: "school-1", Type: models.SchoolTypeSecondary},
	}}
	subjects := &stubSubjectRepo{subjects: []models.Subject{{ID: "subject-1", Name: "Mathematics"}}}
	terms := &stubTermRepo{terms: map[string]*models.Term{"term-1": {ID: "term-1"}}}
	classes := &stubClassRepo{
		classes: map[string]*models.Class{"class-1": {ID: "class-1"}},
		arms:    map[string]*models.ClassArm{"arm-a": {ID: "arm-a", ClassID: "class-1", Name: "A"}},
	}
	periods := &stubPeriodRepo{}
	writer := NewPeriodService(periods, terms, classes, &stubRoomRepo{}, nil, nil, nil, nil)
	svc := NewGeneratorService(periods, subjects, schools, writer,
		GeneratorOptions{MaxSameSubjectPerDay: 2, FreePeriodsPerDay: 0}, nil, rand.New(rand.NewSource(3)), nil, nil)

	req := generateRequest()
	req.FreePeriodsPerDay = 0

	resp, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)

	// Six lesson slots a day against a pool of one: the daily cap and the
	// back-to-back rule cannot all hold, so coverage wins and every lesson
	// slot still carries the only subject.
	perDay := map[string]int{}
	for _, slot := range resp.Slots {
		if slot.Kind != models.PeriodKindLesson {
			continue
		}
		require.NotNil(t, slot.SubjectID, "%s %s left unassigned", slot.DayOfWeek, slot.StartTime)
		assert.Equal(t, "subject-1", *slot.SubjectID)
		perDay[slot.DayOfWeek]++
	}
	for _, day := range timeutil.Weekdays {
		assert.Equal(t, 6, perDay[day], day)
	}
}

func TestGeneratorKeepsExistingAssignmentsAndStructure(t *testing.T) {
	section := models.ArmSection("arm-a")
	assigned := lessonPeriod("p-assigned", "term-1", "MONDAY", "08:00", "09:00", section)
	assigned.SubjectID = strPtr("subject-4")
	breakPeriod := lessonPeriod("p-break", "term-1", "MONDAY", "10:00", "10:30", section)
	breakPeriod.Kind = models.PeriodKindBreak
	breakPeriod.Label = strPtr("Short Break")

	periods := &stubPeriodRepo{periods: []models.Period{assigned, breakPeriod}}
	svc := newGeneratorFixture(models.SchoolTypeSecondary, periods, GeneratorOptions{}, 11)

	resp, err := svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	// The lesson grid is derived from the existing schedule, not the
	// template: one lesson slot per day plus the one existing break.
	assert.Len(t, resp.Slots, 6)

	var mondayLesson *dto.GeneratedSlot
	breaks := 0
	for i := range resp.Slots {
		slot := &resp.Slots[i]
		if slot.Kind == models.PeriodKindBreak {
			breaks++
			assert.True(t, slot.Existing)
			continue
		}
		if slot.DayOfWeek == "MONDAY" {
			mondayLesson = slot
		}
	}
	assert.Equal(t, 1, breaks)
	require.NotNil(t, mondayLesson)
	assert.True(t, mondayLesson.Existing)
	require.NotNil(t, mondayLesson.SubjectID)
	assert.Equal(t, "subject-4", *mondayLesson.SubjectID)
}

func TestGeneratorRoutesTertiaryToCourses(t *testing.T) {
	svc := newGeneratorFixture(models.SchoolTypeTertiary, &stubPeriodRepo{}, GeneratorOptions{}, 3)

	resp, err := svc.Generate(context.Background(), generateRequest())
	require.NoError(t, err)
	for _, slot := range resp.Slots {
		assert.Nil(t, slot.SubjectID)
		if slot.Kind == models.PeriodKindLesson && slot.DisplayName != "Free Period" {
			assert.NotNil(t, slot.CourseID)
		}
	}
}

func TestGeneratorIsDeterministicForAFixedSeed(t *testing.T) {
	first := newGeneratorFixture(models.SchoolTypeSecondary, &stubPeriodRepo{}, GeneratorOptions{}, 99)
	second := newGeneratorFixture(models.SchoolTypeSecondary, &stubPeriodRepo{}, GeneratorOptions{}, 99)

	respA, err := first.Generate(context.Background(), generateRequest())
	require.NoError(t, err)
	respB, err := second.Generate(context.Background(), generateRequest())
	require.NoError(t, err)
	assert.Equal(t, respA.Slots, respB.Slots)
}

func TestGeneratorApplyFillsSeededSlotsAndSkipsCommittedOnes(t *testing.T) {
	section := models.ArmSection("arm-a")
	seeded := lessonPeriod("p-empty", "term-1", "MONDAY", "08:00", "09:00", section)
	committed := lessonPeriod("p-committed", "term-1", "MONDAY", "09:00", "10:00", section)
	committed.SubjectID = strPtr("subject-1")

	periods := &stubPeriodRepo{periods: []models.Period{seeded, committed}}
	svc := newGeneratorFixture(models.SchoolTypeSecondary, periods, GeneratorOptions{}, 5)

	resp, err := svc.Apply(context.Background(), dto.ApplyTimetableRequest{
		SchoolID:   "school-1",
		TermID:     "term-1",
		ClassArmID: "arm-a",
		Slots: []dto.GeneratedSlot{
			{DayOfWeek: "MONDAY", StartTime: "08:00", EndTime: "09:00", Kind: models.PeriodKindLesson, SubjectID: strPtr("subject-2"), DisplayName: "English Language"},
			{DayOfWeek: "MONDAY", StartTime: "09:00", EndTime: "10:00", Kind: models.PeriodKindLesson, SubjectID: strPtr("subject-3"), DisplayName: "Basic Science"},
			{DayOfWeek: "TUESDAY", StartTime: "08:00", EndTime: "09:00", Kind: models.PeriodKindLesson, SubjectID: strPtr("subject-4"), DisplayName: "History"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Created)
	assert.Equal(t, 1, resp.Skipped)
	assert.Equal(t, 0, resp.Failed)
	require.Len(t, resp.Outcomes, 3)

	// The seeded empty slot was filled in place, not duplicated.
	filled, err := periods.FindByID(context.Background(), "p-empty")
	require.NoError(t, err)
	require.NotNil(t, filled.SubjectID)
	assert.Equal(t, "subject-2", *filled.SubjectID)
	assert.Len(t, periods.periods, 3)
}
