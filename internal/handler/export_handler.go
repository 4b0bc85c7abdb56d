package handler

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/schoolable/timetable-api/internal/models"
	"github.com/schoolable/timetable-api/internal/service"
	"github.com/schoolable/timetable-api/pkg/response"
)

// ExportHandler serves downloadable timetable documents.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// ArmTimetable godoc
// @Summary Export a class arm's weekly timetable
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Class arm ID"
// @Param schoolId query string true "School ID"
// @Param termId query string true "Term ID"
// @Param format query string false "csv or pdf" default(csv)
// @Param title query string false "Document title"
// @Success 200 {file} binary
// @Router /class-arms/{id}/timetable/export [get]
func (h *ExportHandler) ArmTimetable(c *gin.Context) {
	armID := c.Param("id")
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", "csv")))
	title := c.DefaultQuery("title", "Weekly Timetable")

	data, contentType, err := h.service.SectionTimetable(
		c.Request.Context(),
		c.Query("schoolId"),
		c.Query("termId"),
		models.ArmSection(armID),
		title,
		format,
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("timetable-%s.%s", armID, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, contentType, data)
}
