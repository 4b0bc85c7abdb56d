package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolable/timetable-api/internal/dto"
	"github.com/schoolable/timetable-api/internal/service"
	appErrors "github.com/schoolable/timetable-api/pkg/errors"
	"github.com/schoolable/timetable-api/pkg/response"
)

// GeneratorHandler exposes the auto-distribution endpoints.
type GeneratorHandler struct {
	service *service.GeneratorService
}

// NewGeneratorHandler constructs handler.
func NewGeneratorHandler(svc *service.GeneratorService) *GeneratorHandler {
	return &GeneratorHandler{service: svc}
}

// Generate godoc
// @Summary Generate a weekly timetable proposal for a section
// @Tags Generator
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generation payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *GeneratorHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	proposal, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proposal)
}

// Apply godoc
// @Summary Commit a generated proposal slot by slot
// @Tags Generator
// @Accept json
// @Produce json
// @Param payload body dto.ApplyTimetableRequest true "Proposal payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/apply [post]
func (h *GeneratorHandler) Apply(c *gin.Context) {
	var req dto.ApplyTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Apply(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
