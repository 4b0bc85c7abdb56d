package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolable/timetable-api/internal/models"
	appErrors "github.com/schoolable/timetable-api/pkg/errors"
	"github.com/schoolable/timetable-api/pkg/response"
)

type fakeTimetableSrv struct {
	schedule    []models.SchedulePeriod
	scheduleErr error
	periods     []models.Period
	periodsErr  error
	lastSection models.Section
}

func (f *fakeTimetableSrv) StudentSchedule(context.Context, string, string, string) ([]models.SchedulePeriod, error) {
	return f.schedule, f.scheduleErr
}

func (f *fakeTimetableSrv) SectionTimetable(_ context.Context, _ string, section models.Section) ([]models.Period, error) {
	f.lastSection = section
	return f.periods, f.periodsErr
}

func (f *fakeTimetableSrv) TeacherTimetable(context.Context, string, string) ([]models.Period, error) {
	return f.periods, f.periodsErr
}

func TestTimetableHandlerStudentScheduleSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&fakeTimetableSrv{
		schedule: []models.SchedulePeriod{
			{Period: models.Period{ID: "p1", DayOfWeek: "MONDAY"}, Source: models.ScheduleSourceHomeClass},
		},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/students/student-1/schedule?schoolId=school-1&termId=term-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "student-1"}}

	handler.StudentSchedule(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Error)
	assert.NotNil(t, envelope.Data)
}

func TestTimetableHandlerStudentScheduleNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&fakeTimetableSrv{
		scheduleErr: appErrors.Clone(appErrors.ErrNotFound, "school not found"),
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/students/student-1/schedule", nil)
	c.Params = gin.Params{{Key: "id", Value: "student-1"}}

	handler.StudentSchedule(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrNotFound.Code, envelope.Error.Code)
}

func TestTimetableHandlerArmTimetableResolvesSection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeTimetableSrv{periods: []models.Period{}}
	handler := NewTimetableHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/class-arms/arm-a/timetable?termId=term-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "arm-a"}}

	handler.ArmTimetable(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ArmSection("arm-a"), srv.lastSection)
}
