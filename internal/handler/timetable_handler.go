package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolable/timetable-api/internal/models"
	"github.com/schoolable/timetable-api/pkg/response"
)

type timetableProvider interface {
	StudentSchedule(ctx context.Context, schoolID, studentID, termID string) ([]models.SchedulePeriod, error)
	SectionTimetable(ctx context.Context, termID string, section models.Section) ([]models.Period, error)
	TeacherTimetable(ctx context.Context, termID, teacherID string) ([]models.Period, error)
}

// TimetableHandler serves assembled schedule views.
type TimetableHandler struct {
	service timetableProvider
}

// NewTimetableHandler constructs handler.
func NewTimetableHandler(svc timetableProvider) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// StudentSchedule godoc
// @Summary Get a student's effective weekly schedule
// @Tags Timetables
// @Produce json
// @Param id path string true "Student ID"
// @Param schoolId query string true "School ID"
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/schedule [get]
func (h *TimetableHandler) StudentSchedule(c *gin.Context) {
	schedule, err := h.service.StudentSchedule(c.Request.Context(), c.Query("schoolId"), c.Param("id"), c.Query("termId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule)
}

// ClassTimetable godoc
// @Summary Get the weekly timetable of a class
// @Tags Timetables
// @Produce json
// @Param id path string true "Class ID"
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/timetable [get]
func (h *TimetableHandler) ClassTimetable(c *gin.Context) {
	periods, err := h.service.SectionTimetable(c.Request.Context(), c.Query("termId"), models.ClassSection(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods)
}

// ArmTimetable godoc
// @Summary Get the weekly timetable of a class arm
// @Tags Timetables
// @Produce json
// @Param id path string true "Class arm ID"
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /class-arms/{id}/timetable [get]
func (h *TimetableHandler) ArmTimetable(c *gin.Context) {
	periods, err := h.service.SectionTimetable(c.Request.Context(), c.Query("termId"), models.ArmSection(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods)
}

// TeacherTimetable godoc
// @Summary Get the weekly timetable of a teacher
// @Tags Timetables
// @Produce json
// @Param id path string true "Teacher ID"
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/timetable [get]
func (h *TimetableHandler) TeacherTimetable(c *gin.Context) {
	periods, err := h.service.TeacherTimetable(c.Request.Context(), c.Query("termId"), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods)
}
