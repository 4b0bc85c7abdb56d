package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolable/timetable-api/internal/models"
)

// SubjectRepository provides read access to the subject/course catalog.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new subject repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// FindByID loads a subject by id.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	const query = `SELECT id, school_id, code, name, created_at, updated_at FROM subjects WHERE id = $1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// ListBySchool returns the school's full catalog ordered by name.
func (r *SubjectRepository) ListBySchool(ctx context.Context, schoolID string) ([]models.Subject, error) {
	const query = `SELECT id, school_id, code, name, created_at, updated_at FROM subjects WHERE school_id = $1 ORDER BY name ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, schoolID); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// ListUncovered returns subjects in the school that have no competent teacher
// assigned.
func (r *SubjectRepository) ListUncovered(ctx context.Context, schoolID string) ([]models.Subject, error) {
	const query = `SELECT s.id, s.school_id, s.code, s.name, s.created_at, s.updated_at
		FROM subjects s
		LEFT JOIN subject_teachers st ON st.subject_id = s.id
		WHERE s.school_id = $1 AND st.id IS NULL
		ORDER BY s.name ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, schoolID); err != nil {
		return nil, fmt.Errorf("list uncovered subjects: %w", err)
	}
	return subjects, nil
}
