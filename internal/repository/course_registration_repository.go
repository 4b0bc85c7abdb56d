package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schoolable/timetable-api/internal/models"
)

// CourseRegistrationRepository provides persistence for course registrations.
type CourseRegistrationRepository struct {
	db *sqlx.DB
}

// NewCourseRegistrationRepository creates a new registration repository.
func NewCourseRegistrationRepository(db *sqlx.DB) *CourseRegistrationRepository {
	return &CourseRegistrationRepository{db: db}
}

// ListActiveByStudentTerm returns the student's active registrations for a
// term, enriched with subject info.
func (r *CourseRegistrationRepository) ListActiveByStudentTerm(ctx context.Context, studentID, termID string) ([]models.CourseRegistrationDetail, error) {
	const query = `SELECT cr.id, cr.student_id, cr.subject_id, cr.term_id, cr.academic_year, cr.carry_over, cr.active, cr.created_at, cr.updated_at, s.name AS subject_name, s.code AS subject_code
		FROM course_registrations cr
		JOIN subjects s ON s.id = cr.subject_id
		WHERE cr.student_id = $1 AND cr.term_id = $2 AND cr.active = TRUE
		ORDER BY s.name ASC`
	var registrations []models.CourseRegistrationDetail
	if err := r.db.SelectContext(ctx, &registrations, query, studentID, termID); err != nil {
		return nil, fmt.Errorf("list active registrations: %w", err)
	}
	return registrations, nil
}

// ExistsActive reports whether the student already holds an active
// registration for the subject within the term.
func (r *CourseRegistrationRepository) ExistsActive(ctx context.Context, studentID, subjectID, termID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM course_registrations WHERE student_id = $1 AND subject_id = $2 AND term_id = $3 AND active = TRUE)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, studentID, subjectID, termID); err != nil {
		return false, fmt.Errorf("check registration uniqueness: %w", err)
	}
	return exists, nil
}

// Create stores a new registration record.
func (r *CourseRegistrationRepository) Create(ctx context.Context, registration *models.CourseRegistration) error {
	if registration.ID == "" {
		registration.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if registration.CreatedAt.IsZero() {
		registration.CreatedAt = now
	}
	registration.UpdatedAt = now

	const query = `INSERT INTO course_registrations (id, student_id, subject_id, term_id, academic_year, carry_over, active, created_at, updated_at)
		VALUES (:id, :student_id, :subject_id, :term_id, :academic_year, :carry_over, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, registration); err != nil {
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a registration. Rows are never hard-deleted while
// schedule history references them.
func (r *CourseRegistrationRepository) Deactivate(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE course_registrations SET active = FALSE, updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("deactivate registration: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deactivated registration: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
