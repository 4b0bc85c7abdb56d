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

type registrationRepository interface {
	ListActiveByStudentTerm(ctx context.Context, studentID, termID string) ([]models.CourseRegistrationDetail, error)
	ExistsActive(ctx context.Context, studentID, subjectID, termID string) (bool, error)
	Create(ctx context.Context, registration *models.CourseRegistration) error
	Deactivate(ctx context.Context, id string) error
}

type subjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// RegistrationService manages tertiary course registrations. At most one
// active registration may exist per (student, subject, term); removal is a
// soft deactivate so schedule history keeps resolving.
type RegistrationService struct {
	registrations registrationRepository
	subjects      subjectReader
	terms         termReader
	cache         *CacheService
	yearStart     time.Month
	now           func() time.Time
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewRegistrationService instantiates RegistrationService.
func NewRegistrationService(
	registrations registrationRepository,
	subjects subjectReader,
	terms termReader,
	cache *CacheService,
	yearStartMonth int,
	validate *validator.Validate,
	logger *zap.Logger,
) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	yearStart := time.Month(yearStartMonth)
	if yearStart < time.January || yearStart > time.December {
		yearStart = time.September
	}
	return &RegistrationService{
		registrations: registrations,
		subjects:      subjects,
		terms:         terms,
		cache:         cache,
		yearStart:     yearStart,
		now:           time.Now,
		validator:     validate,
		logger:        logger,
	}
}

// Register creates an active course registration for the student.
func (s *RegistrationService) Register(ctx context.Context, req dto.RegisterCourseRequest) (*models.CourseRegistration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	term, err := s.terms.FindByID(ctx, req.TermID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
	}

	exists, err := s.registrations.ExistsActive(ctx, req.StudentID, req.SubjectID, req.TermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing registrations")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already has an active registration for this subject and term")
	}

	academicYear := term.AcademicYear
	if academicYear == "" {
		academicYear = timeutil.AcademicYear(s.now(), s.yearStart)
	}

	registration := &models.CourseRegistration{
		StudentID:    req.StudentID,
		SubjectID:    req.SubjectID,
		TermID:       req.TermID,
		AcademicYear: academicYear,
		CarryOver:    req.CarryOver,
		Active:       true,
	}
	if err := s.registrations.Create(ctx, registration); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create registration")
	}

	s.invalidateStudent(ctx, req.TermID, req.StudentID)
	return registration, nil
}

// Deactivate soft-deletes a registration.
func (s *RegistrationService) Deactivate(ctx context.Context, id, termID, studentID string) error {
	if err := s.registrations.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate registration")
	}
	s.invalidateStudent(ctx, termID, studentID)
	return nil
}

// ListForStudent returns the student's active registrations for the term.
func (s *RegistrationService) ListForStudent(ctx context.Context, studentID, termID string) ([]models.CourseRegistrationDetail, error) {
	registrations, err := s.registrations.ListActiveByStudentTerm(ctx, studentID, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list registrations")
	}
	if registrations == nil {
		registrations = []models.CourseRegistrationDetail{}
	}
	return registrations, nil
}

func (s *RegistrationService) invalidateStudent(ctx context.Context, termID, studentID string) {
	if s.cache == nil || studentID == "" {
		return
	}
	_ = s.cache.Invalidate(ctx, fmt.Sprintf("timetable:%s:student:%s", termID, studentID))
}
