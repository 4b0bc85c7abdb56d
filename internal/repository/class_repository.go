package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolable/timetable-api/internal/models"
)

// ClassRepository provides read access to classes and class arms.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository creates a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// FindByID loads a class by id.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT id, school_id, name, level, created_at, updated_at FROM classes WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// FindArmByID loads a class arm by id.
func (r *ClassRepository) FindArmByID(ctx context.Context, id string) (*models.ClassArm, error) {
	const query = `SELECT id, class_id, name, capacity, created_at, updated_at FROM class_arms WHERE id = $1`
	var arm models.ClassArm
	if err := r.db.GetContext(ctx, &arm, query, id); err != nil {
		return nil, err
	}
	return &arm, nil
}

// ListArmsBySchool returns every class arm in the school with its class name,
// ordered by class level then arm name. Master-schedule seeding iterates this.
func (r *ClassRepository) ListArmsBySchool(ctx context.Context, schoolID string) ([]models.ClassArmDetail, error) {
	const query = `SELECT ca.id, ca.class_id, ca.name, ca.capacity, ca.created_at, ca.updated_at, c.name AS class_name
		FROM class_arms ca
		JOIN classes c ON c.id = ca.class_id
		WHERE c.school_id = $1
		ORDER BY c.level ASC, ca.name ASC`
	var arms []models.ClassArmDetail
	if err := r.db.SelectContext(ctx, &arms, query, schoolID); err != nil {
		return nil, fmt.Errorf("list class arms: %w", err)
	}
	return arms, nil
}
