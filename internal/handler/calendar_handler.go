package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-schedule-api/internal/dto"
	"github.com/noah-isme/academy-schedule-api/internal/models"
	"github.com/noah-isme/academy-schedule-api/internal/service"
	appErrors "github.com/noah-isme/academy-schedule-api/pkg/errors"
	"github.com/noah-isme/academy-schedule-api/pkg/response"
)

type calendarService interface {
	Preview(ctx context.Context, req dto.PreviewSessionDatesRequest) (*dto.PreviewSessionDatesResponse, error)
	ListSessionDates(ctx context.Context, academyID, periodID, subjectID string, types []string) ([]models.SessionDate, error)
}

type calendarExporter interface {
	ExportSessionDates(ctx context.Context, academyID, periodID, subjectID string, format dto.ExportFormat) (*dto.ExportResult, error)
}

// CalendarHandler exposes session date endpoints.
type CalendarHandler struct {
	calendar calendarService
	exporter calendarExporter
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(calendar *service.CalendarService, exporter *service.ExportService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar, exporter: exporter}
}

// Preview godoc
// @Summary Preview session dates
// @Description Expands a date range over weekdays without persisting anything.
// @Tags Session Dates
// @Accept json
// @Produce json
// @Param academyId path string true "Academy ID"
// @Param payload body dto.PreviewSessionDatesRequest true "Range and weekdays"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /academies/{academyId}/session-dates/preview [post]
func (h *CalendarHandler) Preview(c *gin.Context) {
	var req dto.PreviewSessionDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preview payload"))
		return
	}

	result, err := h.calendar.Preview(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List godoc
// @Summary List session dates of a course
// @Tags Session Dates
// @Produce json
// @Param academyId path string true "Academy ID"
// @Param periodId path string true "Period ID"
// @Param subjectId path string true "Subject ID"
// @Param type query string false "Comma separated date types"
// @Success 200 {object} response.Envelope
// @Router /academies/{academyId}/periods/{periodId}/subjects/{subjectId}/session-dates [get]
func (h *CalendarHandler) List(c *gin.Context) {
	var types []string
	if raw := c.Query("type"); raw != "" {
		types = strings.Split(raw, ",")
	}

	dates, err := h.calendar.ListSessionDates(c.Request.Context(), c.Param("academyId"), c.Param("periodId"), c.Param("subjectId"), types)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dates, nil, map[string]interface{}{"count": len(dates)})
}

// Export godoc
// @Summary Export the session calendar of a course
// @Tags Session Dates
// @Produce octet-stream
// @Param academyId path string true "Academy ID"
// @Param periodId path string true "Period ID"
// @Param subjectId path string true "Subject ID"
// @Param format query string false "csv, pdf, xlsx or ics" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /academies/{academyId}/periods/{periodId}/subjects/{subjectId}/session-dates/export [get]
func (h *CalendarHandler) Export(c *gin.Context) {
	format := dto.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(dto.ExportFormatCSV))))

	result, err := h.exporter.ExportSessionDates(c.Request.Context(), c.Param("academyId"), c.Param("periodId"), c.Param("subjectId"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, result.Filename, result.ContentType, result.Payload)
}
