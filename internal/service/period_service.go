package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolable/timetable-api/internal/dto"
	"github.com/schoolable/timetable-api/internal/models"
	appErrors "github.com/schoolable/timetable-api/pkg/errors"
	"github.com/schoolable/timetable-api/pkg/timeutil"
)

type periodRepository interface {
	FindByID(ctx context.Context, id string) (*models.Period, error)
	FindMany(ctx context.Context, filter models.PeriodFilter) ([]models.Period, error)
	ListBySection(ctx context.Context, termID string, section models.Section) ([]models.Period, error)
	ExistsAt(ctx context.Context, termID string, section models.Section, dayOfWeek, startTime string) (bool, error)
	Create(ctx context.Context, period *models.Period) error
	Update(ctx context.Context, period *models.Period) error
	Delete(ctx context.Context, id string) error
	DeleteBySection(ctx context.Context, termID string, section models.Section) (int64, error)
}

type termReader interface {
	FindByID(ctx context.Context, id string) (*models.Term, error)
}

type classArmReader interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
	FindArmByID(ctx context.Context, id string) (*models.ClassArm, error)
	ListArmsBySchool(ctx context.Context, schoolID string) ([]models.ClassArmDetail, error)
}

type roomReader interface {
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

// PeriodService owns the period lifecycle: validation, double-booking
// detection, and idempotent master-schedule seeding. Every write is preceded
// by a conflict check; the write is never attempted on conflict, so no
// partial period state can be persisted.
type PeriodService struct {
	periods   periodRepository
	terms     termReader
	classes   classArmReader
	rooms     roomReader
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPeriodService instantiates PeriodService.
func NewPeriodService(
	periods periodRepository,
	terms termReader,
	classes classArmReader,
	rooms roomReader,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *PeriodService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodService{
		periods:   periods,
		terms:     terms,
		classes:   classes,
		rooms:     rooms,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// List returns periods matching the filter.
func (s *PeriodService) List(ctx context.Context, filter models.PeriodFilter) ([]models.Period, error) {
	periods, err := s.periods.FindMany(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list periods")
	}
	return periods, nil
}

// Create inserts a new period after validation and conflict detection.
func (s *PeriodService) Create(ctx context.Context, req dto.CreatePeriodRequest) (*models.Period, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period payload")
	}

	period, err := s.buildPeriod(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.detectConflict(ctx, period, ""); err != nil {
		return nil, err
	}

	if err := s.periods.Create(ctx, period); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create period")
	}
	s.invalidateSchedules(ctx, period.TermID)
	return period, nil
}

// Update patches an existing period. Changes to day, time, teacher, or room
// re-run conflict detection against the store before anything is written.
func (s *PeriodService) Update(ctx context.Context, id string, req dto.UpdatePeriodRequest) (*models.Period, error) {
	existing, err := s.periods.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}

	updated := *existing
	if req.DayOfWeek != nil {
		updated.DayOfWeek = timeutil.NormalizeDay(*req.DayOfWeek)
	}
	if req.StartTime != nil {
		updated.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		updated.EndTime = *req.EndTime
	}
	if req.Label != nil {
		updated.Label = req.Label
	}
	if req.SubjectID != nil {
		updated.SubjectID = req.SubjectID
	}
	if req.CourseID != nil {
		updated.CourseID = req.CourseID
	}
	if req.TeacherID != nil {
		updated.TeacherID = req.TeacherID
	}
	if req.RoomID != nil {
		updated.RoomID = req.RoomID
	}

	if req.TouchesSchedule() {
		if err := s.validateTimes(&updated); err != nil {
			return nil, err
		}
		if err := s.detectConflict(ctx, &updated, existing.ID); err != nil {
			return nil, err
		}
	}

	if err := s.periods.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update period")
	}
	s.invalidateSchedules(ctx, updated.TermID)
	return &updated, nil
}

// Delete removes a period. Deletion is immediate and term-scoped.
func (s *PeriodService) Delete(ctx context.Context, id string) error {
	existing, err := s.periods.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}
	if err := s.periods.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete period")
	}
	s.invalidateSchedules(ctx, existing.TermID)
	return nil
}

// DeleteBySection removes every period for a class or class arm in the term
// and reports how many were removed.
func (s *PeriodService) DeleteBySection(ctx context.Context, termID string, section models.Section) (int64, error) {
	if termID == "" || section.IsZero() {
		return 0, appErrors.Clone(appErrors.ErrValidation, "termId and section are required")
	}
	deleted, err := s.periods.DeleteBySection(ctx, termID, section)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete section periods")
	}
	s.invalidateSchedules(ctx, termID)
	return deleted, nil
}

// SeedMasterSchedule creates one empty period per class arm for every
// template slot across the working week. It is idempotent: slots already
// occupied at the same (arm, day, start time) are skipped, never duplicated,
// and individual failures do not abort the batch.
func (s *PeriodService) SeedMasterSchedule(ctx context.Context, req dto.SeedMasterScheduleRequest) (*dto.SeedMasterScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid master schedule payload")
	}
	if err := s.ensureTerm(ctx, req.TermID); err != nil {
		return nil, err
	}
	for _, slot := range req.Template {
		if err := validateTimeRange(slot.StartTime, slot.EndTime); err != nil {
			return nil, err
		}
	}

	arms, err := s.classes.ListArmsBySchool(ctx, req.SchoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class arms")
	}

	result := &dto.SeedMasterScheduleResponse{}
	for _, arm := range arms {
		section := models.ArmSection(arm.ID)
		for _, day := range timeutil.Weekdays {
			for _, slot := range req.Template {
				exists, err := s.periods.ExistsAt(ctx, req.TermID, section, day, slot.StartTime)
				if err != nil {
					result.Outcomes = append(result.Outcomes, dto.SlotOutcome{
						DayOfWeek: day, StartTime: slot.StartTime,
						Status: dto.SlotOutcomeFailed, Message: err.Error(),
					})
					continue
				}
				if exists {
					result.Skipped++
					continue
				}

				period := &models.Period{
					SchoolID:  req.SchoolID,
					TermID:    req.TermID,
					DayOfWeek: day,
					StartTime: slot.StartTime,
					EndTime:   slot.EndTime,
					Kind:      slot.Kind,
				}
				if slot.Label != "" {
					label := slot.Label
					period.Label = &label
				}
				period.SetSection(section)

				if err := s.periods.Create(ctx, period); err != nil {
					result.Outcomes = append(result.Outcomes, dto.SlotOutcome{
						DayOfWeek: day, StartTime: slot.StartTime,
						Status: dto.SlotOutcomeFailed, Message: err.Error(),
					})
					continue
				}
				result.Created++
			}
		}
	}
	s.invalidateSchedules(ctx, req.TermID)
	return result, nil
}

func (s *PeriodService) buildPeriod(ctx context.Context, req dto.CreatePeriodRequest) (*models.Period, error) {
	period := &models.Period{
		SchoolID:  req.SchoolID,
		TermID:    req.TermID,
		DayOfWeek: timeutil.NormalizeDay(req.DayOfWeek),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Kind:      req.Kind,
		Label:     req.Label,
		SubjectID: req.SubjectID,
		CourseID:  req.CourseID,
		TeacherID: req.TeacherID,
		RoomID:    req.RoomID,
	}
	period.SetSection(req.Section())

	if err := s.validateTimes(period); err != nil {
		return nil, err
	}
	if err := s.ensureTerm(ctx, req.TermID); err != nil {
		return nil, err
	}
	if err := s.ensureSection(ctx, period.Section()); err != nil {
		return nil, err
	}
	if period.RoomID != nil && *period.RoomID != "" {
		if _, err := s.rooms.FindByID(ctx, *period.RoomID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
		}
	}
	return period, nil
}

func (s *PeriodService) validateTimes(period *models.Period) error {
	if !timeutil.IsValidDay(period.DayOfWeek) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day of week %q", period.DayOfWeek))
	}
	start, err := timeutil.ParseTime(period.StartTime)
	if err != nil {
		return err
	}
	end, err := timeutil.ParseTime(period.EndTime)
	if err != nil {
		return err
	}
	if err := timeutil.ValidateRange(start, end); err != nil {
		return err
	}
	period.StartTime = start
	period.EndTime = end
	return nil
}

// detectConflict scans every LESSON period on the candidate's term and day
// and rejects the first teacher or room double-booking. Teacher and room
// checks run across the whole term/day, not just the candidate's own section:
// a teacher may legitimately take two sections back-to-back, never at the
// same moment.
func (s *PeriodService) detectConflict(ctx context.Context, candidate *models.Period, excludeID string) error {
	if candidate.Kind != models.PeriodKindLesson {
		return nil
	}
	teacherSet := candidate.TeacherID != nil && *candidate.TeacherID != ""
	roomSet := candidate.RoomID != nil && *candidate.RoomID != ""
	if !teacherSet && !roomSet {
		return nil
	}

	start := time.Now()
	existing, err := s.periods.FindMany(ctx, models.PeriodFilter{
		TermID:    candidate.TermID,
		DayOfWeek: candidate.DayOfWeek,
		Kind:      models.PeriodKindLesson,
	})
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("conflict_scan", time.Since(start))
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check period conflicts")
	}

	for i := range existing {
		other := &existing[i]
		if other.ID == excludeID {
			continue
		}
		if !timeutil.Overlaps(candidate.StartTime, candidate.EndTime, other.StartTime, other.EndTime) {
			continue
		}
		if teacherSet && other.TeacherID != nil && *other.TeacherID == *candidate.TeacherID {
			return s.wrapConflict(models.ConflictDimensionTeacher, candidate, other)
		}
		if roomSet && other.RoomID != nil && *other.RoomID == *candidate.RoomID {
			return s.wrapConflict(models.ConflictDimensionRoom, candidate, other)
		}
	}
	return nil
}

func (s *PeriodService) wrapConflict(dimension models.ConflictDimension, candidate, other *models.Period) error {
	party := "teacher"
	partyID := ""
	if dimension == models.ConflictDimensionTeacher {
		if other.TeacherID != nil {
			partyID = *other.TeacherID
		}
	} else {
		party = "room"
		if other.RoomID != nil {
			partyID = *other.RoomID
		}
	}
	message := fmt.Sprintf("%s %s is already booked for %s on %s %s-%s",
		party, partyID, other.Section().Key(), other.DayOfWeek, other.StartTime, other.EndTime)

	if s.metrics != nil {
		s.metrics.RecordConflictDetected(string(dimension))
	}
	s.logger.Info("period conflict rejected",
		zap.String("dimension", string(dimension)),
		zap.String("term_id", candidate.TermID),
		zap.String("day_of_week", candidate.DayOfWeek),
	)

	domainErr := &models.PeriodConflictError{
		Dimension: dimension,
		Message:   message,
		Conflict: models.PeriodConflict{
			PeriodID:  other.ID,
			TermID:    other.TermID,
			DayOfWeek: other.DayOfWeek,
			StartTime: other.StartTime,
			EndTime:   other.EndTime,
			TeacherID: other.TeacherID,
			RoomID:    other.RoomID,
			Section:   other.Section(),
			Dimension: dimension,
		},
	}
	return appErrors.Wrap(domainErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, fmt.Sprintf("period conflict: %s", message))
}

func (s *PeriodService) ensureTerm(ctx context.Context, termID string) error {
	if s.terms == nil {
		return nil
	}
	if _, err := s.terms.FindByID(ctx, termID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
	}
	return nil
}

func (s *PeriodService) ensureSection(ctx context.Context, section models.Section) error {
	if s.classes == nil || section.IsZero() {
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

func (s *PeriodService) invalidateSchedules(ctx context.Context, termID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, fmt.Sprintf("timetable:%s:*", termID))
	_ = s.cache.Invalidate(ctx, fmt.Sprintf("workload:%s:*", termID))
}

func validateTimeRange(start, end string) error {
	normalStart, err := timeutil.ParseTime(start)
	if err != nil {
		return err
	}
	normalEnd, err := timeutil.ParseTime(end)
	if err != nil {
		return err
	}
	return timeutil.ValidateRange(normalStart, normalEnd)
}
