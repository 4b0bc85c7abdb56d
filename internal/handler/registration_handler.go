package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolable/timetable-api/internal/dto"
	"github.com/schoolable/timetable-api/internal/service"
	appErrors "github.com/schoolable/timetable-api/pkg/errors"
	"github.com/schoolable/timetable-api/pkg/response"
)

// RegistrationHandler manages course registration and enrollment endpoints.
type RegistrationHandler struct {
	registrations *service.RegistrationService
	enrollments   *service.EnrollmentService
}

// NewRegistrationHandler constructs handler.
func NewRegistrationHandler(registrations *service.RegistrationService, enrollments *service.EnrollmentService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations, enrollments: enrollments}
}

// Register godoc
// @Summary Register a student for a course
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body dto.RegisterCourseRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /registrations [post]
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req dto.RegisterCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	registration, err := h.registrations.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, registration)
}

// Deactivate godoc
// @Summary Deactivate a course registration
// @Tags Registrations
// @Param id path string true "Registration ID"
// @Param termId query string false "Term ID for cache invalidation"
// @Param studentId query string false "Student ID for cache invalidation"
// @Success 204
// @Router /registrations/{id} [delete]
func (h *RegistrationHandler) Deactivate(c *gin.Context) {
	if err := h.registrations.Deactivate(c.Request.Context(), c.Param("id"), c.Query("termId"), c.Query("studentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListForStudent godoc
// @Summary List a student's active course registrations
// @Tags Registrations
// @Produce json
// @Param id path string true "Student ID"
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/registrations [get]
func (h *RegistrationHandler) ListForStudent(c *gin.Context) {
	registrations, err := h.registrations.ListForStudent(c.Request.Context(), c.Param("id"), c.Query("termId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, registrations)
}

// Enroll godoc
// @Summary Enroll a student into a class arm
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body dto.EnrollStudentRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /enrollments [post]
func (h *RegistrationHandler) Enroll(c *gin.Context) {
	var req dto.EnrollStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.enrollments.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}
