package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-schedule-api/internal/dto"
	"github.com/noah-isme/academy-schedule-api/internal/models"
	"github.com/noah-isme/academy-schedule-api/internal/scheduling"
	appErrors "github.com/noah-isme/academy-schedule-api/pkg/errors"
)

type calendarServiceMock struct {
	preview dto.PreviewSessionDatesRequest
	types   []string
	subject string
}

func (m *calendarServiceMock) Preview(ctx context.Context, req dto.PreviewSessionDatesRequest) (*dto.PreviewSessionDatesResponse, error) {
	m.preview = req
	dates := []scheduling.Date{scheduling.MustParseDate("2025-03-03")}
	return &dto.PreviewSessionDatesResponse{Dates: dates, Count: len(dates)}, nil
}

func (m *calendarServiceMock) ListSessionDates(ctx context.Context, academyID, periodID, subjectID string, types []string) ([]models.SessionDate, error) {
	m.subject = subjectID
	m.types = types
	return []models.SessionDate{{ID: "sd-1", Date: scheduling.MustParseDate("2025-03-03"), DateType: models.SessionDateClass}}, nil
}

type exporterMock struct {
	format dto.ExportFormat
}

func (m *exporterMock) ExportSessionDates(ctx context.Context, academyID, periodID, subjectID string, format dto.ExportFormat) (*dto.ExportResult, error) {
	m.format = format
	if format == "docx" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	return &dto.ExportResult{Filename: "piano-2025-i." + string(format), ContentType: "text/calendar; charset=utf-8", Payload: []byte("BEGIN:VCALENDAR")}, nil
}

const sessionDatesPath = "/academies/ac-1/periods/per-1/subjects/sub-1/session-dates"

func newCalendarRouter(calendar *calendarServiceMock, exporter *exporterMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := &CalendarHandler{calendar: calendar, exporter: exporter}
	router := gin.New()
	router.POST("/academies/:academyId/session-dates/preview", handler.Preview)
	router.GET("/academies/:academyId/periods/:periodId/subjects/:subjectId/session-dates", handler.List)
	router.GET("/academies/:academyId/periods/:periodId/subjects/:subjectId/session-dates/export", handler.Export)
	return router
}

func TestCalendarHandlerPreview(t *testing.T) {
	calendar := &calendarServiceMock{}
	router := newCalendarRouter(calendar, &exporterMock{})

	w := doJSON(router, http.MethodPost, "/academies/ac-1/session-dates/preview", `{"start_date":"2025-03-01","end_date":"2025-03-31","weekdays":[1,3]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{1, 3}, calendar.preview.Weekdays)

	var resp dto.PreviewSessionDatesResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "2025-03-03", resp.Dates[0].String())
}

func TestCalendarHandlerListSplitsTypes(t *testing.T) {
	calendar := &calendarServiceMock{}
	router := newCalendarRouter(calendar, &exporterMock{})

	w := doJSON(router, http.MethodGet, sessionDatesPath+"?type=clase,feriado", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sub-1", calendar.subject)
	assert.Equal(t, []string{"clase", "feriado"}, calendar.types)
	assert.EqualValues(t, 1, decodeEnvelope(t, w).Meta["count"])
}

func TestCalendarHandlerExport(t *testing.T) {
	exporter := &exporterMock{}
	router := newCalendarRouter(&calendarServiceMock{}, exporter)

	w := doJSON(router, http.MethodGet, sessionDatesPath+"/export?format=ICS", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ExportFormatICS, exporter.format)
	assert.Equal(t, `attachment; filename="piano-2025-i.ics"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "BEGIN:VCALENDAR", w.Body.String())

	w = doJSON(router, http.MethodGet, sessionDatesPath+"/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ExportFormatCSV, exporter.format)

	w = doJSON(router, http.MethodGet, sessionDatesPath+"/export?format=docx", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
