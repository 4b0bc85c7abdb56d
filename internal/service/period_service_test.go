package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolable/timetable-api/internal/dto"
	"github.com/schoolable/timetable-api/internal/models"
	appErrors "github.com/schoolable/timetable-api/pkg/errors"
)

type stubPeriodRepo struct {
	periods  []models.Period
	nextID   int
	findErr  error
	writeErr error
}

func (s *stubPeriodRepo) FindByID(_ context.Context, id string) (*models.Period, error) {
	for i := range s.periods {
		if s.periods[i].ID == id {
			p := s.periods[i]
			return &p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubPeriodRepo) FindMany(_ context.Context, filter models.PeriodFilter) ([]models.Period, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	var out []models.Period
	for _, p := range s.periods {
		if filter.TermID != "" && p.TermID != filter.TermID {
			continue
		}
		if filter.DayOfWeek != "" && p.DayOfWeek != filter.DayOfWeek {
			continue
		}
		if filter.Kind != "" && p.Kind != filter.Kind {
			continue
		}
		if filter.TeacherID != "" && (p.TeacherID == nil || *p.TeacherID != filter.TeacherID) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *stubPeriodRepo) ListBySection(_ context.Context, termID string, section models.Section) ([]models.Period, error) {
	var out []models.Period
	for _, p := range s.periods {
		if p.TermID == termID && p.Section() == section {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubPeriodRepo) ListBySubjects(_ context.Context, termID string, subjectIDs []string) ([]models.Period, error) {
	wanted := make(map[string]struct{}, len(subjectIDs))
	for _, id := range subjectIDs {
		wanted[id] = struct{}{}
	}
	var out []models.Period
	for _, p := range s.periods {
		if p.TermID != termID || p.Kind != models.PeriodKindLesson || p.SubjectID == nil {
			continue
		}
		if _, ok := wanted[*p.SubjectID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubPeriodRepo) ExistsAt(_ context.Context, termID string, section models.Section, dayOfWeek, startTime string) (bool, error) {
	for _, p := range s.periods {
		if p.TermID == termID && p.Section() == section && p.DayOfWeek == dayOfWeek && p.StartTime == startTime {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubPeriodRepo) Create(_ context.Context, period *models.Period) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.nextID++
	if period.ID == "" {
		period.ID = fmt.Sprintf("period-%d", s.nextID)
	}
	s.periods = append(s.periods, *period)
	return nil
}

func (s *stubPeriodRepo) Update(_ context.Context, period *models.Period) error {
	for i := range s.periods {
		if s.periods[i].ID == period.ID {
			s.periods[i] = *period
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *stubPeriodRepo) Delete(_ context.Context, id string) error {
	for i := range s.periods {
		if s.periods[i].ID == id {
			s.periods = append(s.periods[:i], s.periods[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *stubPeriodRepo) DeleteBySection(_ context.Context, termID string, section models.Section) (int64, error) {
	var kept []models.Period
	var deleted int64
	for _, p := range s.periods {
		if p.TermID == termID && p.Section() == section {
			deleted++
			continue
		}
		kept = append(kept, p)
	}
	s.periods = kept
	return deleted, nil
}

type stubTermRepo struct {
	terms map[string]*models.Term
}

func (s *stubTermRepo) FindByID(_ context.Context, id string) (*models.Term, error) {
	if term, ok := s.terms[id]; ok {
		return term, nil
	}
	return nil, sql.ErrNoRows
}

type stubClassRepo struct {
	classes map[string]*models.Class
	arms    map[string]*models.ClassArm
	armList []models.ClassArmDetail
}

func (s *stubClassRepo) FindByID(_ context.Context, id string) (*models.Class, error) {
	if class, ok := s.classes[id]; ok {
		return class, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubClassRepo) FindArmByID(_ context.Context, id string) (*models.ClassArm, error) {
	if arm, ok := s.arms[id]; ok {
		return arm, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubClassRepo) ListArmsBySchool(_ context.Context, _ string) ([]models.ClassArmDetail, error) {
	return s.armList, nil
}

type stubRoomRepo struct {
	rooms map[string]*models.Room
}

func (s *stubRoomRepo) FindByID(_ context.Context, id string) (*models.Room, error) {
	if room, ok := s.rooms[id]; ok {
		return room, nil
	}
	return nil, sql.ErrNoRows
}

func strPtr(v string) *string { return &v }

func newPeriodFixture() (*PeriodService, *stubPeriodRepo) {
	periods := &stubPeriodRepo{}
	terms := &stubTermRepo{terms: map[string]*models.Term{"term-1": {ID: "term-1", SchoolID: "school-1"}}}
	classes := &stubClassRepo{
		arms: map[string]*models.ClassArm{
			"arm-a": {ID: "arm-a", ClassID: "class-1", Name: "A"},
			"arm-b": {ID: "arm-b", ClassID: "class-1", Name: "B"},
		},
		armList: []models.ClassArmDetail{
			{ClassArm: models.ClassArm{ID: "arm-a", ClassID: "class-1", Name: "A"}},
			{ClassArm: models.ClassArm{ID: "arm-b", ClassID: "class-1", Name: "B"}},
		},
	}
	rooms := &stubRoomRepo{rooms: map[string]*models.Room{"room-1": {ID: "room-1", Name: "Lab"}}}
	svc := NewPeriodService(periods, terms, classes, rooms, nil, nil, nil, nil)
	return svc, periods
}

func lessonRequest(armID, day, start, end string) dto.CreatePeriodRequest {
	return dto.CreatePeriodRequest{
		SchoolID:   "school-1",
		TermID:     "term-1",
		DayOfWeek:  day,
		StartTime:  start,
		EndTime:    end,
		Kind:       models.PeriodKindLesson,
		ClassArmID: armID,
	}
}

func TestPeriodServiceCreateRejectsTeacherDoubleBooking(t *testing.T) {
	svc, repo := newPeriodFixture()
	ctx := context.Background()

	first := lessonRequest("arm-a", "MONDAY", "08:00", "09:00")
	first.TeacherID = strPtr("teacher-1")
	_, err := svc.Create(ctx, first)
	require.NoError(t, err)

	second := lessonRequest("arm-b", "MONDAY", "08:30", "09:30")
	second.TeacherID = strPtr("teacher-1")
	_, err = svc.Create(ctx, second)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)

	var conflict *models.PeriodConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, models.ConflictDimensionTeacher, conflict.Dimension)
	assert.Contains(t, conflict.Message, "teacher-1")
	assert.Contains(t, conflict.Message, "MONDAY")

	// The write must never reach the store on conflict.
	assert.Len(t, repo.periods, 1)
}

func TestPeriodServiceCreateAllowsAdjacentPeriods(t *testing.T) {
	svc, repo := newPeriodFixture()
	ctx := context.Background()

	first := lessonRequest("arm-a", "MONDAY", "08:00", "09:00")
	first.TeacherID = strPtr("teacher-1")
	_, err := svc.Create(ctx, first)
	require.NoError(t, err)

	adjacent := lessonRequest("arm-b", "MONDAY", "09:00", "10:00")
	adjacent.TeacherID = strPtr("teacher-1")
	_, err = svc.Create(ctx, adjacent)
	require.NoError(t, err)
	assert.Len(t, repo.periods, 2)
}

func TestPeriodServiceCreateRejectsRoomDoubleBooking(t *testing.T) {
	svc, _ := newPeriodFixture()
	ctx := context.Background()

	first := lessonRequest("arm-a", "TUESDAY", "10:00", "11:00")
	first.TeacherID = strPtr("teacher-1")
	first.RoomID = strPtr("room-1")
	_, err := svc.Create(ctx, first)
	require.NoError(t, err)

	second := lessonRequest("arm-b", "TUESDAY", "10:30", "11:30")
	second.TeacherID = strPtr("teacher-2")
	second.RoomID = strPtr("room-1")
	_, err = svc.Create(ctx, second)
	require.Error(t, err)

	var conflict *models.PeriodConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, models.ConflictDimensionRoom, conflict.Dimension)
	assert.Contains(t, conflict.Message, "room-1")
}

func TestPeriodServiceNonLessonPeriodsExemptFromConflicts(t *testing.T) {
	svc, repo := newPeriodFixture()
	ctx := context.Background()

	lesson := lessonRequest("arm-a", "MONDAY", "08:00", "09:00")
	lesson.TeacherID = strPtr("teacher-1")
	_, err := svc.Create(ctx, lesson)
	require.NoError(t, err)

	breakSlot := lessonRequest("arm-b", "MONDAY", "08:00", "09:00")
	breakSlot.Kind = models.PeriodKindBreak
	breakSlot.TeacherID = strPtr("teacher-1")
	_, err = svc.Create(ctx, breakSlot)
	require.NoError(t, err)
	assert.Len(t, repo.periods, 2)
}

func TestPeriodServiceCreateValidatesTimes(t *testing.T) {
	svc, _ := newPeriodFixture()
	ctx := context.Background()

	bad := lessonRequest("arm-a", "MONDAY", "8:00", "09:00")
	_, err := svc.Create(ctx, bad)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidTimeFormat.Code, appErr.Code)

	inverted := lessonRequest("arm-a", "MONDAY", "10:00", "09:00")
	_, err = svc.Create(ctx, inverted)
	require.Error(t, err)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidTimeRange.Code, appErr.Code)
}

func TestPeriodServiceUpdateExcludesItselfFromConflictCheck(t *testing.T) {
	svc, _ := newPeriodFixture()
	ctx := context.Background()

	req := lessonRequest("arm-a", "MONDAY", "08:00", "09:00")
	req.TeacherID = strPtr("teacher-1")
	created, err := svc.Create(ctx, req)
	require.NoError(t, err)

	// Shifting a period over its own old slot must not self-conflict.
	updated, err := svc.Update(ctx, created.ID, dto.UpdatePeriodRequest{
		StartTime: strPtr("08:30"),
		EndTime:   strPtr("09:30"),
	})
	require.NoError(t, err)
	assert.Equal(t, "08:30", updated.StartTime)
}

func TestPeriodServiceUpdateMissingPeriod(t *testing.T) {
	svc, _ := newPeriodFixture()
	_, err := svc.Update(context.Background(), "missing", dto.UpdatePeriodRequest{})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestPeriodServiceSeedMasterScheduleIsIdempotent(t *testing.T) {
	svc, repo := newPeriodFixture()
	ctx := context.Background()

	req := dto.SeedMasterScheduleRequest{
		SchoolID: "school-1",
		TermID:   "term-1",
		Template: []models.SlotTemplate{
			{StartTime: "08:00", EndTime: "09:00", Kind: models.PeriodKindLesson},
			{StartTime: "09:00", EndTime: "09:30", Kind: models.PeriodKindBreak, Label: "Short Break"},
		},
	}

	first, err := svc.SeedMasterSchedule(ctx, req)
	require.NoError(t, err)
	// 2 arms x 5 weekdays x 2 slots.
	assert.Equal(t, 20, first.Created)
	assert.Equal(t, 0, first.Skipped)
	assert.Len(t, repo.periods, 20)

	second, err := svc.SeedMasterSchedule(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 20, second.Skipped)
	assert.Len(t, repo.periods, 20)
}

func TestPeriodServiceDeleteBySection(t *testing.T) {
	svc, repo := newPeriodFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, lessonRequest("arm-a", "MONDAY", "08:00", "09:00"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, lessonRequest("arm-b", "MONDAY", "08:00", "09:00"))
	require.NoError(t, err)

	deleted, err := svc.DeleteBySection(ctx, "term-1", models.ArmSection("arm-a"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Len(t, repo.periods, 1)
}
