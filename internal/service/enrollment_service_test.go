package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolable/timetable-api/internal/dto"
	"github.com/schoolable/timetable-api/internal/models"
	appErrors "github.com/schoolable/timetable-api/pkg/errors"
)

func newEnrollmentFixture(enrollments *stubEnrollmentRepo, capacity int) *EnrollmentService {
	classes := &stubClassRepo{arms: map[string]*models.ClassArm{
		"arm-a": {ID: "arm-a", ClassID: "class-1", Name: "A", Capacity: capacity},
	}}
	return NewEnrollmentService(enrollments, classes, nil, nil)
}

func enrollRequest() dto.EnrollStudentRequest {
	return dto.EnrollStudentRequest{
		StudentID:  "student-1",
		SchoolID:   "school-1",
		TermID:     "term-1",
		ClassArmID: "arm-a",
	}
}

func TestEnrollCreatesActiveEnrollment(t *testing.T) {
	enrollments := &stubEnrollmentRepo{}
	svc := newEnrollmentFixture(enrollments, 30)

	created, err := svc.Enroll(context.Background(), enrollRequest())
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusActive, created.Status)
	require.NotNil(t, created.ClassArmID)
	assert.Equal(t, "arm-a", *created.ClassArmID)
	require.Len(t, enrollments.created, 1)
}

func TestEnrollRejectsWhenArmIsFull(t *testing.T) {
	enrollments := &stubEnrollmentRepo{armCounts: map[string]int{"arm-a": 30}}
	svc := newEnrollmentFixture(enrollments, 30)

	_, err := svc.Enroll(context.Background(), enrollRequest())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrCapacityExceeded.Code, appErr.Code)
	assert.Empty(t, enrollments.created)
}

func TestEnrollZeroCapacityMeansUnbounded(t *testing.T) {
	enrollments := &stubEnrollmentRepo{armCounts: map[string]int{"arm-a": 500}}
	svc := newEnrollmentFixture(enrollments, 0)

	_, err := svc.Enroll(context.Background(), enrollRequest())
	require.NoError(t, err)
}

func TestEnrollRejectsSecondActiveEnrollment(t *testing.T) {
	enrollments := &stubEnrollmentRepo{enrollments: map[string]*models.Enrollment{
		"student-1|term-1": {ID: "enrollment-0", StudentID: "student-1"},
	}}
	svc := newEnrollmentFixture(enrollments, 30)

	_, err := svc.Enroll(context.Background(), enrollRequest())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestEnrollUnknownArm(t *testing.T) {
	svc := newEnrollmentFixture(&stubEnrollmentRepo{}, 30)

	req := enrollRequest()
	req.ClassArmID = "missing"
	_, err := svc.Enroll(context.Background(), req)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
