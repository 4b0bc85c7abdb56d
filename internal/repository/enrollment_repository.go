package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schoolable/timetable-api/internal/models"
)

// EnrollmentRepository provides persistence for student enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository creates a new enrollment repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// FindActiveByStudentTerm returns the student's active enrollment for the
// term, or nil when the student has none. Absence is a valid state, not an
// error; schedule assembly treats it as an empty schedule.
func (r *EnrollmentRepository) FindActiveByStudentTerm(ctx context.Context, studentID, termID string) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, school_id, term_id, class_id, class_arm_id, status, joined_at, left_at
		FROM enrollments WHERE student_id = $1 AND term_id = $2 AND status = $3`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, studentID, termID, models.EnrollmentStatusActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active enrollment: %w", err)
	}
	return &enrollment, nil
}

// CountActiveByArm returns how many students are actively enrolled in the arm
// for the term.
func (r *EnrollmentRepository) CountActiveByArm(ctx context.Context, termID, classArmID string) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE term_id = $1 AND class_arm_id = $2 AND status = $3`
	var count int
	if err := r.db.GetContext(ctx, &count, query, termID, classArmID, models.EnrollmentStatusActive); err != nil {
		return 0, fmt.Errorf("count arm enrollments: %w", err)
	}
	return count, nil
}

// Create stores a new enrollment record.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.JoinedAt.IsZero() {
		enrollment.JoinedAt = time.Now().UTC()
	}
	const query = `INSERT INTO enrollments (id, student_id, school_id, term_id, class_id, class_arm_id, status, joined_at, left_at)
		VALUES (:id, :student_id, :school_id, :term_id, :class_id, :class_arm_id, :status, :joined_at, :left_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}
