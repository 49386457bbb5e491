package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-schedule-api/internal/dto"
	"github.com/noah-isme/academy-schedule-api/internal/models"
	"github.com/noah-isme/academy-schedule-api/internal/scheduling"
	appErrors "github.com/noah-isme/academy-schedule-api/pkg/errors"
)

type sessionDateLister interface {
	List(ctx context.Context, exec sqlx.ExtContext, filter models.SessionDateFilter) ([]models.SessionDate, error)
}

// CalendarService previews and lists course session dates.
type CalendarService struct {
	sessions  sessionDateLister
	periods   periodReader
	subjects  subjectReader
	validator *validator.Validate
	logger    *zap.Logger
	maxDays   int
}

// NewCalendarService constructs the service. maxDays caps preview spans; zero disables the cap.
func NewCalendarService(sessions sessionDateLister, periods periodReader, subjects subjectReader, validate *validator.Validate, logger *zap.Logger, maxDays int) *CalendarService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{
		sessions:  sessions,
		periods:   periods,
		subjects:  subjects,
		validator: validate,
		logger:    logger,
		maxDays:   maxDays,
	}
}

// Preview expands a range over weekdays without touching storage.
func (s *CalendarService) Preview(ctx context.Context, req dto.PreviewSessionDatesRequest) (*dto.PreviewSessionDatesResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid preview payload")
	}

	start, err := scheduling.ParseDate(req.StartDate)
	if err != nil {
		return nil, invalidDate("start_date", req.StartDate, err)
	}
	end, err := scheduling.ParseDate(req.EndDate)
	if err != nil {
		return nil, invalidDate("end_date", req.EndDate, err)
	}

	var weekdays scheduling.WeekdaySet
	for _, d := range req.Weekdays {
		weekdays = weekdays.Add(scheduling.Weekday(d))
	}

	dates, err := scheduling.GenerateSessionDates(start, end, weekdays, scheduling.GeneratorOptions{MaxDays: s.maxDays})
	if err != nil {
		return nil, translateSchedulingError(err)
	}
	return &dto.PreviewSessionDatesResponse{Dates: dates, Count: len(dates)}, nil
}

// ListSessionDates returns the calendar of a course, optionally narrowed to date types.
func (s *CalendarService) ListSessionDates(ctx context.Context, academyID, periodID, subjectID string, types []string) ([]models.SessionDate, error) {
	filter := models.SessionDateFilter{PeriodID: periodID, SubjectID: subjectID}
	for _, raw := range types {
		t := models.SessionDateType(strings.ToLower(strings.TrimSpace(raw)))
		if t == "" {
			continue
		}
		if !t.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown session date type %q", raw))
		}
		filter.Types = append(filter.Types, t)
	}

	if _, _, err := s.loadCourse(ctx, academyID, periodID, subjectID); err != nil {
		return nil, err
	}

	dates, err := s.sessions.List(ctx, nil, filter)
	if err != nil {
		return nil, storeError("list session dates", err)
	}
	if dates == nil {
		dates = []models.SessionDate{}
	}
	return dates, nil
}

func (s *CalendarService) loadCourse(ctx context.Context, academyID, periodID, subjectID string) (*models.AcademicPeriod, *models.Subject, error) {
	period, err := s.periods.FindByID(ctx, academyID, periodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "academic period not found")
		}
		return nil, nil, storeError("load academic period", err)
	}
	subject, err := s.subjects.FindByID(ctx, academyID, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, nil, storeError("load subject", err)
	}
	return period, subject, nil
}
