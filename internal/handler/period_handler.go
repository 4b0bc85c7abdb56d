package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/schoolable/timetable-api/internal/dto"
	"github.com/schoolable/timetable-api/internal/models"
	"github.com/schoolable/timetable-api/internal/service"
	appErrors "github.com/schoolable/timetable-api/pkg/errors"
	"github.com/schoolable/timetable-api/pkg/response"
)

// PeriodHandler manages period endpoints.
type PeriodHandler struct {
	service *service.PeriodService
}

// NewPeriodHandler constructs handler.
func NewPeriodHandler(svc *service.PeriodService) *PeriodHandler {
	return &PeriodHandler{service: svc}
}

// List godoc
// @Summary List periods
// @Tags Periods
// @Produce json
// @Param termId query string false "Filter by term"
// @Param dayOfWeek query string false "Filter by day"
// @Param classId query string false "Filter by class"
// @Param classArmId query string false "Filter by class arm"
// @Param teacherId query string false "Filter by teacher"
// @Param subjectId query string false "Filter by subject"
// @Param roomId query string false "Filter by room"
// @Param kind query string false "Filter by period kind"
// @Param schoolType query string false "Filter by school type"
// @Success 200 {object} response.Envelope
// @Router /periods [get]
func (h *PeriodHandler) List(c *gin.Context) {
	filter := models.PeriodFilter{
		SchoolID:   c.Query("schoolId"),
		TermID:     c.Query("termId"),
		DayOfWeek:  strings.ToUpper(c.Query("dayOfWeek")),
		ClassID:    c.Query("classId"),
		ClassArmID: c.Query("classArmId"),
		TeacherID:  c.Query("teacherId"),
		SubjectID:  c.Query("subjectId"),
		RoomID:     c.Query("roomId"),
		Kind:       models.PeriodKind(strings.ToUpper(c.Query("kind"))),
		SchoolType: models.SchoolType(strings.ToUpper(c.Query("schoolType"))),
	}

	periods, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods)
}

// Create godoc
// @Summary Create period
// @Tags Periods
// @Accept json
// @Produce json
// @Param payload body dto.CreatePeriodRequest true "Period payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /periods [post]
func (h *PeriodHandler) Create(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	period, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, period)
}

// Update godoc
// @Summary Update period
// @Tags Periods
// @Accept json
// @Produce json
// @Param id path string true "Period ID"
// @Param payload body dto.UpdatePeriodRequest true "Patch payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /periods/{id} [put]
func (h *PeriodHandler) Update(c *gin.Context) {
	var req dto.UpdatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	period, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, period)
}

// Delete godoc
// @Summary Delete period
// @Tags Periods
// @Param id path string true "Period ID"
// @Success 204
// @Router /periods/{id} [delete]
func (h *PeriodHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteBySection godoc
// @Summary Delete all periods for a class or class arm in a term
// @Tags Periods
// @Produce json
// @Param termId query string true "Term ID"
// @Param classId query string false "Class ID"
// @Param classArmId query string false "Class arm ID"
// @Success 200 {object} response.Envelope
// @Router /periods [delete]
func (h *PeriodHandler) DeleteBySection(c *gin.Context) {
	section := models.SectionFromRefs(optionalQuery(c, "classId"), optionalQuery(c, "classArmId"))
	deleted, err := h.service.DeleteBySection(c.Request.Context(), c.Query("termId"), section)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": deleted})
}

// SeedMasterSchedule godoc
// @Summary Seed the master schedule grid for every class arm
// @Tags Periods
// @Accept json
// @Produce json
// @Param payload body dto.SeedMasterScheduleRequest true "Template payload"
// @Success 200 {object} response.Envelope
// @Router /periods/master-schedule [post]
func (h *PeriodHandler) SeedMasterSchedule(c *gin.Context) {
	var req dto.SeedMasterScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.SeedMasterSchedule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

func optionalQuery(c *gin.Context, key string) *string {
	if value := c.Query(key); value != "" {
		return &value
	}
	return nil
}
