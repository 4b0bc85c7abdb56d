package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolable/timetable-api/internal/dto"
	"github.com/schoolable/timetable-api/internal/models"
	appErrors "github.com/schoolable/timetable-api/pkg/errors"
)

type enrollmentRepository interface {
	FindActiveByStudentTerm(ctx context.Context, studentID, termID string) (*models.Enrollment, error)
	CountActiveByArm(ctx context.Context, termID, classArmID string) (int, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
}

// EnrollmentService places students into class arms. An arm with a positive
// capacity rejects enrollments once full; zero capacity means unbounded.
type EnrollmentService struct {
	enrollments enrollmentRepository
	classes     classArmReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService instantiates EnrollmentService.
func NewEnrollmentService(enrollments enrollmentRepository, classes classArmReader, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{enrollments: enrollments, classes: classes, validator: validate, logger: logger}
}

// Enroll creates an active enrollment for the student in the class arm.
func (s *EnrollmentService) Enroll(ctx context.Context, req dto.EnrollStudentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	arm, err := s.classes.FindArmByID(ctx, req.ClassArmID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class arm not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class arm")
	}

	existing, err := s.enrollments.FindActiveByStudentTerm(ctx, req.StudentID, req.TermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing enrollment")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already has an active enrollment for this term")
	}

	if arm.Capacity > 0 {
		count, err := s.enrollments.CountActiveByArm(ctx, req.TermID, req.ClassArmID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count arm enrollments")
		}
		if count >= arm.Capacity {
			return nil, appErrors.Clone(appErrors.ErrCapacityExceeded,
				fmt.Sprintf("class arm %s is full (%d/%d)", arm.Name, count, arm.Capacity))
		}
	}

	enrollment := &models.Enrollment{
		StudentID: req.StudentID,
		SchoolID:  req.SchoolID,
		TermID:    req.TermID,
		Status:    models.EnrollmentStatusActive,
	}
	enrollment.ClassArmID = &req.ClassArmID
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	return enrollment, nil
}
