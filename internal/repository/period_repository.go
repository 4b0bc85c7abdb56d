package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schoolable/timetable-api/internal/models"
)

const periodColumns = "id, school_id, term_id, day_of_week, start_time, end_time, kind, label, subject_id, course_id, teacher_id, room_id, class_id, class_arm_id, created_at, updated_at"

// day_of_week holds day names, so a plain ASC sort would put FRIDAY first.
const chronologicalOrder = "ORDER BY CASE day_of_week" +
	" WHEN 'MONDAY' THEN 1 WHEN 'TUESDAY' THEN 2 WHEN 'WEDNESDAY' THEN 3" +
	" WHEN 'THURSDAY' THEN 4 WHEN 'FRIDAY' THEN 5 WHEN 'SATURDAY' THEN 6" +
	" ELSE 7 END, start_time ASC"

// PeriodRepository provides persistence for timetable periods.
type PeriodRepository struct {
	db *sqlx.DB
}

// NewPeriodRepository creates a new period repository.
func NewPeriodRepository(db *sqlx.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

// FindByID loads a period by id.
func (r *PeriodRepository) FindByID(ctx context.Context, id string) (*models.Period, error) {
	query := fmt.Sprintf("SELECT %s FROM periods WHERE id = $1", periodColumns)
	var period models.Period
	if err := r.db.GetContext(ctx, &period, query, id); err != nil {
		return nil, err
	}
	return &period, nil
}

// FindMany returns periods matching the filter, ordered by day then start
// time. An empty result is a valid outcome, never an error.
func (r *PeriodRepository) FindMany(ctx context.Context, filter models.PeriodFilter) ([]models.Period, error) {
	base := "FROM periods WHERE 1=1"
	var conditions []string
	var args []interface{}

	add := func(column string, value string) {
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if filter.SchoolID != "" {
		add("school_id", filter.SchoolID)
	}
	if filter.TermID != "" {
		add("term_id", filter.TermID)
	}
	if filter.DayOfWeek != "" {
		add("day_of_week", filter.DayOfWeek)
	}
	if filter.ClassID != "" {
		add("class_id", filter.ClassID)
	}
	if filter.ClassArmID != "" {
		add("class_arm_id", filter.ClassArmID)
	}
	if filter.TeacherID != "" {
		add("teacher_id", filter.TeacherID)
	}
	if filter.SubjectID != "" {
		add("subject_id", filter.SubjectID)
	}
	if filter.RoomID != "" {
		add("room_id", filter.RoomID)
	}
	if filter.Kind != "" {
		add("kind", string(filter.Kind))
	}
	if filter.SchoolType != "" {
		conditions = append(conditions, fmt.Sprintf("school_id IN (SELECT id FROM schools WHERE type = $%d)", len(args)+1))
		args = append(args, string(filter.SchoolType))
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s %s", periodColumns, base, chronologicalOrder)
	var periods []models.Period
	if err := r.db.SelectContext(ctx, &periods, query, args...); err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	return periods, nil
}

// ListBySection returns the committed weekly grid for a class or class arm.
func (r *PeriodRepository) ListBySection(ctx context.Context, termID string, section models.Section) ([]models.Period, error) {
	column := "class_id"
	if section.Kind == models.SectionKindArm {
		column = "class_arm_id"
	}
	query := fmt.Sprintf("SELECT %s FROM periods WHERE term_id = $1 AND %s = $2 %s", periodColumns, column, chronologicalOrder)
	var periods []models.Period
	if err := r.db.SelectContext(ctx, &periods, query, termID, section.ID); err != nil {
		return nil, fmt.Errorf("list periods by section: %w", err)
	}
	return periods, nil
}

// ListBySubjects returns LESSON periods in the term whose subject is one of
// the given ids. Used to overlay course-registration sessions on a schedule.
func (r *PeriodRepository) ListBySubjects(ctx context.Context, termID string, subjectIDs []string) ([]models.Period, error) {
	if len(subjectIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(
		fmt.Sprintf("SELECT %s FROM periods WHERE term_id = ? AND kind = ? AND subject_id IN (?) %s", periodColumns, chronologicalOrder),
		termID, models.PeriodKindLesson, subjectIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("build subject period query: %w", err)
	}
	query = r.db.Rebind(query)
	var periods []models.Period
	if err := r.db.SelectContext(ctx, &periods, query, args...); err != nil {
		return nil, fmt.Errorf("list periods by subjects: %w", err)
	}
	return periods, nil
}

// ExistsAt reports whether a period already occupies (section, day, start)
// within the term. Master-schedule seeding keys its idempotency on this.
func (r *PeriodRepository) ExistsAt(ctx context.Context, termID string, section models.Section, dayOfWeek, startTime string) (bool, error) {
	column := "class_id"
	if section.Kind == models.SectionKindArm {
		column = "class_arm_id"
	}
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM periods WHERE term_id = $1 AND %s = $2 AND day_of_week = $3 AND start_time = $4)", column)
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, termID, section.ID, dayOfWeek, startTime); err != nil {
		return false, fmt.Errorf("check period existence: %w", err)
	}
	return exists, nil
}

// CountByTeacher returns the number of LESSON periods a teacher holds in the
// term.
func (r *PeriodRepository) CountByTeacher(ctx context.Context, termID, teacherID string) (int, error) {
	const query = `SELECT COUNT(*) FROM periods WHERE term_id = $1 AND teacher_id = $2 AND kind = $3`
	var count int
	if err := r.db.GetContext(ctx, &count, query, termID, teacherID, models.PeriodKindLesson); err != nil {
		return 0, fmt.Errorf("count periods by teacher: %w", err)
	}
	return count, nil
}

// ListTeacherLoads returns one row per staffed LESSON period in the term,
// joined with the teacher name, optionally filtered by school type.
func (r *PeriodRepository) ListTeacherLoads(ctx context.Context, schoolID, termID string, schoolType models.SchoolType) ([]models.TeacherLoadRow, error) {
	query := `SELECT p.teacher_id, t.full_name AS teacher_name, p.subject_id, p.course_id, p.class_id, p.class_arm_id
		FROM periods p
		JOIN teachers t ON t.id = p.teacher_id
		JOIN schools s ON s.id = p.school_id
		WHERE p.school_id = $1 AND p.term_id = $2 AND p.kind = $3 AND p.teacher_id IS NOT NULL`
	args := []interface{}{schoolID, termID, models.PeriodKindLesson}
	if schoolType != "" {
		query += " AND s.type = $4"
		args = append(args, schoolType)
	}
	var rows []models.TeacherLoadRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teacher loads: %w", err)
	}
	return rows, nil
}

// Create stores a new period record.
func (r *PeriodRepository) Create(ctx context.Context, period *models.Period) error {
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if period.CreatedAt.IsZero() {
		period.CreatedAt = now
	}
	period.UpdatedAt = now

	const query = `INSERT INTO periods (id, school_id, term_id, day_of_week, start_time, end_time, kind, label, subject_id, course_id, teacher_id, room_id, class_id, class_arm_id, created_at, updated_at)
		VALUES (:id, :school_id, :term_id, :day_of_week, :start_time, :end_time, :kind, :label, :subject_id, :course_id, :teacher_id, :room_id, :class_id, :class_arm_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, period); err != nil {
		return fmt.Errorf("create period: %w", err)
	}
	return nil
}

// Update modifies a period record in place.
func (r *PeriodRepository) Update(ctx context.Context, period *models.Period) error {
	period.UpdatedAt = time.Now().UTC()
	const query = `UPDATE periods SET day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time, kind = :kind, label = :label, subject_id = :subject_id, course_id = :course_id, teacher_id = :teacher_id, room_id = :room_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, period); err != nil {
		return fmt.Errorf("update period: %w", err)
	}
	return nil
}

// Delete removes a period by id. Deletion is immediate; there is no soft
// delete for periods.
func (r *PeriodRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM periods WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete period: %w", err)
	}
	return nil
}

// DeleteBySection removes every period for a class or class arm within a term.
func (r *PeriodRepository) DeleteBySection(ctx context.Context, termID string, section models.Section) (int64, error) {
	column := "class_id"
	if section.Kind == models.SectionKindArm {
		column = "class_arm_id"
	}
	result, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM periods WHERE term_id = $1 AND %s = $2", column), termID, section.ID)
	if err != nil {
		return 0, fmt.Errorf("delete periods by section: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted periods: %w", err)
	}
	return affected, nil
}
