package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolable/timetable-api/internal/models"
)

// TeacherRepository provides read access to teacher records and competency
// assignments.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository creates a new teacher repository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// FindByID loads a teacher by id.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	const query = `SELECT id, school_id, email, full_name, active, created_at, updated_at FROM teachers WHERE id = $1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// ListCompetentForSubject returns the active teachers marked competent to
// teach the subject, in stable insertion order. Competency is an
// authorization-style assignment, independent of timetable periods.
func (r *TeacherRepository) ListCompetentForSubject(ctx context.Context, subjectID string) ([]models.Teacher, error) {
	const query = `SELECT t.id, t.school_id, t.email, t.full_name, t.active, t.created_at, t.updated_at
		FROM subject_teachers st
		JOIN teachers t ON t.id = st.teacher_id
		WHERE st.subject_id = $1 AND t.active = TRUE
		ORDER BY st.created_at ASC`
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, subjectID); err != nil {
		return nil, fmt.Errorf("list competent teachers: %w", err)
	}
	return teachers, nil
}
