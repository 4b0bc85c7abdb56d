package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/schoolable/timetable-api/internal/models"
	appErrors "github.com/schoolable/timetable-api/pkg/errors"
	"github.com/schoolable/timetable-api/pkg/timeutil"
)

type schedulePeriodReader interface {
	FindMany(ctx context.Context, filter models.PeriodFilter) ([]models.Period, error)
	ListBySection(ctx context.Context, termID string, section models.Section) ([]models.Period, error)
	ListBySubjects(ctx context.Context, termID string, subjectIDs []string) ([]models.Period, error)
}

type enrollmentReader interface {
	FindActiveByStudentTerm(ctx context.Context, studentID, termID string) (*models.Enrollment, error)
}

type registrationReader interface {
	ListActiveByStudentTerm(ctx context.Context, studentID, termID string) ([]models.CourseRegistrationDetail, error)
}

type schoolReader interface {
	FindByID(ctx context.Context, id string) (*models.School, error)
}

type teacherReader interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// TimetableService assembles read-only schedule views. Section and teacher
// views are plain lookups; the student view additionally merges registration
// periods for tertiary schools and annotates cross-source overlaps. Those
// annotations are advisory, the schedule always comes back in full.
type TimetableService struct {
	periods       schedulePeriodReader
	enrollments   enrollmentReader
	registrations registrationReader
	schools       schoolReader
	teachers      teacherReader
	classes       classArmReader
	subjects      subjectCatalog
	cache         *CacheService
	cacheTTL      time.Duration
	logger        *zap.Logger
}

// NewTimetableService instantiates TimetableService.
func NewTimetableService(
	periods schedulePeriodReader,
	enrollments enrollmentReader,
	registrations registrationReader,
	schools schoolReader,
	teachers teacherReader,
	classes classArmReader,
	subjects subjectCatalog,
	cache *CacheService,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &TimetableService{
		periods:       periods,
		enrollments:   enrollments,
		registrations: registrations,
		schools:       schools,
		teachers:      teachers,
		classes:       classes,
		subjects:      subjects,
		cache:         cache,
		cacheTTL:      cacheTTL,
		logger:        logger,
	}
}

// StudentSchedule resolves a student's weekly schedule for a term. A student
// without an active enrollment has an empty schedule, which is a valid state,
// not an error. For tertiary schools the home-class grid is merged with the
// periods of every actively registered subject.
func (s *TimetableService) StudentSchedule(ctx context.Context, schoolID, studentID, termID string) ([]models.SchedulePeriod, error) {
	school, err := s.loadSchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("timetable:%s:student:%s", termID, studentID)
	var cached []models.SchedulePeriod
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	enrollment, err := s.enrollments.FindActiveByStudentTerm(ctx, studentID, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if enrollment == nil {
		return []models.SchedulePeriod{}, nil
	}

	homePeriods, err := s.periods.ListBySection(ctx, termID, enrollment.Section())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section periods")
	}

	schedule := make([]models.SchedulePeriod, 0, len(homePeriods))
	for _, period := range homePeriods {
		schedule = append(schedule, models.SchedulePeriod{Period: period, Source: models.ScheduleSourceHomeClass})
	}

	if school.Type.RegistrationBased() {
		registered, err := s.registrations.ListActiveByStudentTerm(ctx, studentID, termID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course registrations")
		}
		if len(registered) > 0 {
			subjectIDs := make([]string, 0, len(registered))
			for _, reg := range registered {
				subjectIDs = append(subjectIDs, reg.SubjectID)
			}
			regPeriods, err := s.periods.ListBySubjects(ctx, termID, subjectIDs)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registered subject periods")
			}
			seen := make(map[string]struct{}, len(schedule))
			for _, entry := range schedule {
				seen[entry.ID] = struct{}{}
			}
			for _, period := range regPeriods {
				if _, dup := seen[period.ID]; dup {
					continue
				}
				schedule = append(schedule, models.SchedulePeriod{Period: period, Source: models.ScheduleSourceRegistration})
			}
		}
	}

	sortSchedule(schedule)
	s.annotateOverlaps(ctx, schoolID, schedule)

	_ = s.cache.Set(ctx, cacheKey, schedule, s.cacheTTL)
	return schedule, nil
}

// SectionTimetable returns the weekly grid of a class or class arm. The
// section must exist; an existing section with no periods yields an empty
// list.
func (s *TimetableService) SectionTimetable(ctx context.Context, termID string, section models.Section) ([]models.Period, error) {
	if section.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "section is required")
	}
	if err := s.ensureSectionExists(ctx, section); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("timetable:%s:section:%s", termID, section.Key())
	var cached []models.Period
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	periods, err := s.periods.ListBySection(ctx, termID, section)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section timetable")
	}
	if periods == nil {
		periods = []models.Period{}
	}
	sortPeriods(periods)
	_ = s.cache.Set(ctx, cacheKey, periods, s.cacheTTL)
	return periods, nil
}

// TeacherTimetable returns every period assigned to a teacher in a term.
func (s *TimetableService) TeacherTimetable(ctx context.Context, termID, teacherID string) ([]models.Period, error) {
	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	cacheKey := fmt.Sprintf("timetable:%s:teacher:%s", termID, teacherID)
	var cached []models.Period
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	periods, err := s.periods.FindMany(ctx, models.PeriodFilter{TermID: termID, TeacherID: teacherID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher timetable")
	}
	if periods == nil {
		periods = []models.Period{}
	}
	sortPeriods(periods)
	_ = s.cache.Set(ctx, cacheKey, periods, s.cacheTTL)
	return periods, nil
}

func (s *TimetableService) loadSchool(ctx context.Context, schoolID string) (*models.School, error) {
	school, err := s.schools.FindByID(ctx, schoolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school")
	}
	return school, nil
}

func (s *TimetableService) ensureSectionExists(ctx context.Context, section models.Section) error {
	if s.classes == nil {
		return nil
	}
	var err error
	switch section.Kind {
	case models.SectionKindArm:
		_, err = s.classes.FindArmByID(ctx, section.ID)
	default:
		_, err = s.classes.FindByID(ctx, section.ID)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class or class arm not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}
	return nil
}

func sortSchedule(schedule []models.SchedulePeriod) {
	sort.SliceStable(schedule, func(i, j int) bool {
		di, dj := timeutil.DayIndex(schedule[i].DayOfWeek), timeutil.DayIndex(schedule[j].DayOfWeek)
		if di != dj {
			return di < dj
		}
		return schedule[i].StartTime < schedule[j].StartTime
	})
}

func sortPeriods(periods []models.Period) {
	sort.SliceStable(periods, func(i, j int) bool {
		di, dj := timeutil.DayIndex(periods[i].DayOfWeek), timeutil.DayIndex(periods[j].DayOfWeek)
		if di != dj {
			return di < dj
		}
		return periods[i].StartTime < periods[j].StartTime
	})
}

// annotateOverlaps flags pairs of merged periods that occupy the same day and
// overlapping times. Both sides of a pair are marked so either rendering of
// the schedule shows the clash. Subject names are resolved once per schedule
// and only when a clash actually exists.
func (s *TimetableService) annotateOverlaps(ctx context.Context, schoolID string, schedule []models.SchedulePeriod) {
	var names map[string]string
	for i := range schedule {
		for j := i + 1; j < len(schedule); j++ {
			a, b := &schedule[i], &schedule[j]
			if a.DayOfWeek != b.DayOfWeek {
				continue
			}
			if !timeutil.Overlaps(a.StartTime, a.EndTime, b.StartTime, b.EndTime) {
				continue
			}
			if names == nil {
				names = s.subjectNames(ctx, schoolID)
			}
			markOverlap(a, b, names)
			markOverlap(b, a, names)
		}
	}
}

// subjectNames is best-effort: the annotation is display-only, so a failed
// lookup degrades the message to raw ids instead of failing the schedule.
func (s *TimetableService) subjectNames(ctx context.Context, schoolID string) map[string]string {
	if s.subjects == nil {
		return map[string]string{}
	}
	subjects, err := s.subjects.ListBySchool(ctx, schoolID)
	if err != nil {
		s.logger.Warn("failed to resolve subject names for conflict messages",
			zap.String("school_id", schoolID), zap.Error(err))
		return map[string]string{}
	}
	names := make(map[string]string, len(subjects))
	for _, subject := range subjects {
		names[subject.ID] = subject.Name
	}
	return names
}

func markOverlap(target, other *models.SchedulePeriod, names map[string]string) {
	target.HasConflict = true
	target.ConflictingPeriodIDs = append(target.ConflictingPeriodIDs, other.ID)
	if target.ConflictMessage == "" {
		target.ConflictMessage = fmt.Sprintf("%s overlaps with %s on %s %s-%s",
			scheduleDisplayName(target, names), scheduleDisplayName(other, names),
			other.DayOfWeek, other.StartTime, other.EndTime)
	}
}

func scheduleDisplayName(p *models.SchedulePeriod, names map[string]string) string {
	if ref := p.TeachingRef(); ref != nil {
		if name, ok := names[*ref]; ok && name != "" {
			return name
		}
		return *ref
	}
	if p.Label != nil && *p.Label != "" {
		return *p.Label
	}
	return string(p.Kind)
}
