package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-schedule-api/internal/dto"
	"github.com/noah-isme/academy-schedule-api/internal/models"
	"github.com/noah-isme/academy-schedule-api/pkg/export"
	appErrors "github.com/noah-isme/academy-schedule-api/pkg/errors"
)

type courseSlotLister interface {
	ListByCourse(ctx context.Context, exec sqlx.ExtContext, academyID, periodID, subjectID string) ([]models.TimeSlot, error)
}

type tableRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type eventRenderer interface {
	Render(name string, events []export.Event) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Timezone  string
	ProductID string
}

// ExportService renders course calendars in downloadable formats.
type ExportService struct {
	calendar *CalendarService
	slots    courseSlotLister
	csv      tableRenderer
	pdf      tableRenderer
	xlsx     tableRenderer
	ics      eventRenderer
	location *time.Location
	logger   *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the pkg/export defaults.
func NewExportService(calendar *CalendarService, slots courseSlotLister, cfg ExportConfig, logger *zap.Logger, csv, pdf, xlsx tableRenderer, ics eventRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ProductID == "" {
		cfg.ProductID = "-//academy-schedule-api//EN"
	}
	location := time.UTC
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			logger.Warn("unknown export timezone, using UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
			cfg.Timezone = "UTC"
		} else {
			location = loc
		}
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter("Sessions")
	}
	if ics == nil {
		ics = export.NewICSExporter(cfg.ProductID, cfg.Timezone)
	}
	return &ExportService{
		calendar: calendar,
		slots:    slots,
		csv:      csv,
		pdf:      pdf,
		xlsx:     xlsx,
		ics:      ics,
		location: location,
		logger:   logger,
	}
}

// ExportSessionDates renders the calendar of a course in the requested format.
func (s *ExportService) ExportSessionDates(ctx context.Context, academyID, periodID, subjectID string, format dto.ExportFormat) (*dto.ExportResult, error) {
	contentType, ok := exportContentTypes[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	period, subject, err := s.calendar.loadCourse(ctx, academyID, periodID, subjectID)
	if err != nil {
		return nil, err
	}
	dates, err := s.calendar.sessions.List(ctx, nil, models.SessionDateFilter{PeriodID: periodID, SubjectID: subjectID})
	if err != nil {
		return nil, storeError("list session dates", err)
	}
	slots, err := s.slots.ListByCourse(ctx, nil, academyID, periodID, subjectID)
	if err != nil {
		return nil, storeError("list course slots", err)
	}

	title := fmt.Sprintf("%s · %s", subject.Name, period.Name())
	var payload []byte
	switch format {
	case dto.ExportFormatICS:
		payload, err = s.ics.Render(title, s.buildEvents(subject, dates, slots))
	case dto.ExportFormatCSV:
		payload, err = s.csv.Render(buildDataset(title, dates, slots))
	case dto.ExportFormatPDF:
		payload, err = s.pdf.Render(buildDataset(title, dates, slots))
	case dto.ExportFormatXLSX:
		payload, err = s.xlsx.Render(buildDataset(title, dates, slots))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to render %s export", format))
	}

	s.logger.Debug("session calendar exported",
		zap.String("period_id", periodID),
		zap.String("subject_id", subjectID),
		zap.String("format", string(format)),
		zap.Int("dates", len(dates)),
	)

	return &dto.ExportResult{
		Filename:    fmt.Sprintf("%s-%s.%s", slugify(subject.Name), slugify(period.Name()), format),
		ContentType: contentType,
		Payload:     payload,
	}, nil
}

var exportContentTypes = map[dto.ExportFormat]string{
	dto.ExportFormatCSV:  "text/csv",
	dto.ExportFormatPDF:  "application/pdf",
	dto.ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	dto.ExportFormatICS:  "text/calendar; charset=utf-8",
}

// buildDataset emits one row per class slot on each class date and one row per other entry.
func buildDataset(title string, dates []models.SessionDate, slots []models.TimeSlot) export.Dataset {
	data := export.Dataset{
		Title:   title,
		Headers: []string{"Date", "Day", "Start", "End", "Type"},
	}
	for _, sd := range dates {
		day := sd.Date.Weekday()
		matched := false
		if sd.DateType == models.SessionDateClass {
			for _, slot := range slots {
				if slot.DayOfWeek != day {
					continue
				}
				matched = true
				data.Rows = append(data.Rows, []string{sd.Date.String(), day.String(), slot.StartTime.String(), slot.EndTime.String(), string(sd.DateType)})
			}
		}
		if !matched {
			data.Rows = append(data.Rows, []string{sd.Date.String(), day.String(), "", "", string(sd.DateType)})
		}
	}
	return data
}

func (s *ExportService) buildEvents(subject *models.Subject, dates []models.SessionDate, slots []models.TimeSlot) []export.Event {
	events := make([]export.Event, 0, len(dates))
	for _, sd := range dates {
		matched := false
		if sd.DateType == models.SessionDateClass {
			for _, slot := range slots {
				if slot.DayOfWeek != sd.Date.Weekday() {
					continue
				}
				matched = true
				events = append(events, export.Event{
					UID:     fmt.Sprintf("%s-%s@academy-schedule", sd.ID, slot.ID),
					Summary: subject.Name,
					Start:   slot.StartTime.On(sd.Date, s.location),
					End:     slot.EndTime.On(sd.Date, s.location),
				})
			}
		}
		if !matched {
			events = append(events, export.Event{
				UID:         fmt.Sprintf("%s@academy-schedule", sd.ID),
				Summary:     fmt.Sprintf("%s (%s)", subject.Name, sd.DateType),
				Description: string(sd.DateType),
				Start:       sd.Date.Time(),
				AllDay:      true,
			})
		}
	}
	return events
}

func slugify(raw string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(raw) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
