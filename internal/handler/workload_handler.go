package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/schoolable/timetable-api/internal/models"
	"github.com/schoolable/timetable-api/internal/service"
	"github.com/schoolable/timetable-api/pkg/response"
)

// WorkloadHandler serves teacher load analytics.
type WorkloadHandler struct {
	service *service.WorkloadService
}

// NewWorkloadHandler constructs handler.
func NewWorkloadHandler(svc *service.WorkloadService) *WorkloadHandler {
	return &WorkloadHandler{service: svc}
}

// Summary godoc
// @Summary Summarize teacher workload for a school and term
// @Tags Workload
// @Produce json
// @Param id path string true "School ID"
// @Param termId query string true "Term ID"
// @Param type query string false "School type filter"
// @Success 200 {object} response.Envelope
// @Router /schools/{id}/workload [get]
func (h *WorkloadHandler) Summary(c *gin.Context) {
	schoolType := models.SchoolType(strings.ToUpper(c.Query("type")))
	summary, err := h.service.Summarize(c.Request.Context(), c.Param("id"), c.Query("termId"), schoolType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// LeastLoadedTeacher godoc
// @Summary Recommend the least loaded competent teacher for a subject
// @Tags Workload
// @Produce json
// @Param id path string true "Subject ID"
// @Param termId query string true "Term ID"
// @Param exclude query string false "Comma-separated teacher IDs to skip"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id}/least-loaded-teacher [get]
func (h *WorkloadHandler) LeastLoadedTeacher(c *gin.Context) {
	var exclude []string
	if raw := c.Query("exclude"); raw != "" {
		exclude = strings.Split(raw, ",")
	}
	teacher, err := h.service.LeastLoadedTeacherFor(c.Request.Context(), c.Param("id"), c.Query("termId"), exclude)
	if err != nil {
		response.Error(c, err)
		return
	}
	// A nil teacher is a valid answer: no competent teacher exists.
	response.JSON(c, http.StatusOK, teacher)
}
