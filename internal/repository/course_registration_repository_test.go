package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/schoolable/timetable-api/internal/models"
)

func TestCourseRegistrationRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newPeriodRepoMock(t)
	defer cleanup()

	repo := NewCourseRegistrationRepository(db)
	rows := sqlmock.NewRows([]string{"id", "student_id", "subject_id", "term_id", "academic_year", "carry_over", "active", "created_at", "updated_at", "subject_name", "subject_code"}).
		AddRow("reg-1", "student-1", "subject-1", "term-1", "2025/2026", false, true, time.Now(), time.Now(), "Mathematics", "MTH101")
	mock.ExpectQuery(regexp.QuoteMeta("FROM course_registrations cr")).
		WithArgs("student-1", "term-1").
		WillReturnRows(rows)

	registrations, err := repo.ListActiveByStudentTerm(context.Background(), "student-1", "term-1")
	require.NoError(t, err)
	require.Len(t, registrations, 1)
	require.Equal(t, "Mathematics", registrations[0].SubjectName)
	require.True(t, registrations[0].Active)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRegistrationRepositoryExistsActive(t *testing.T) {
	db, mock, cleanup := newPeriodRepoMock(t)
	defer cleanup()

	repo := NewCourseRegistrationRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("student-1", "subject-1", "term-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.ExistsActive(context.Background(), "student-1", "subject-1", "term-1")
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRegistrationRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newPeriodRepoMock(t)
	defer cleanup()

	repo := NewCourseRegistrationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO course_registrations")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	registration := &models.CourseRegistration{
		StudentID:    "student-1",
		SubjectID:    "subject-1",
		TermID:       "term-1",
		AcademicYear: "2025/2026",
		Active:       true,
	}
	require.NoError(t, repo.Create(context.Background(), registration))
	require.NotEmpty(t, registration.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRegistrationRepositoryDeactivateMissingRow(t *testing.T) {
	db, mock, cleanup := newPeriodRepoMock(t)
	defer cleanup()

	repo := NewCourseRegistrationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE course_registrations SET active = FALSE")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Deactivate(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
