package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-schedule-api/internal/dto"
	"github.com/noah-isme/academy-schedule-api/internal/models"
	"github.com/noah-isme/academy-schedule-api/internal/scheduling"
	"github.com/noah-isme/academy-schedule-api/pkg/database"
	appErrors "github.com/noah-isme/academy-schedule-api/pkg/errors"
)

type periodRepository interface {
	List(ctx context.Context, filter models.PeriodFilter) ([]models.AcademicPeriod, int, error)
	FindByID(ctx context.Context, academyID, id string) (*models.AcademicPeriod, error)
	Create(ctx context.Context, period *models.AcademicPeriod) error
}

// PeriodService orchestrates academic period workflows.
type PeriodService struct {
	repo      periodRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPeriodService creates a new period service instance.
func NewPeriodService(repo periodRepository, validate *validator.Validate, logger *zap.Logger) *PeriodService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated periods of an academy.
func (s *PeriodService) List(ctx context.Context, filter models.PeriodFilter) ([]models.AcademicPeriod, *models.Pagination, error) {
	periods, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list periods")
	}
	if periods == nil {
		periods = []models.AcademicPeriod{}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}

	return periods, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a period by ID.
func (s *PeriodService) Get(ctx context.Context, academyID, id string) (*models.AcademicPeriod, error) {
	period, err := s.repo.FindByID(ctx, academyID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "academic period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}
	return period, nil
}

// Create registers a period. Both dates or neither must be given.
func (s *PeriodService) Create(ctx context.Context, academyID string, req dto.CreatePeriodRequest) (*models.AcademicPeriod, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid period payload")
	}

	period := &models.AcademicPeriod{
		AcademyID: academyID,
		Year:      req.Year,
		Period:    req.Period,
		IsActive:  true,
	}
	if req.IsActive != nil {
		period.IsActive = *req.IsActive
	}

	if (req.StartDate == "") != (req.EndDate == "") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date and end_date must be provided together")
	}
	if req.StartDate != "" {
		start, err := scheduling.ParseDate(req.StartDate)
		if err != nil {
			return nil, invalidDate("start_date", req.StartDate, err)
		}
		end, err := scheduling.ParseDate(req.EndDate)
		if err != nil {
			return nil, invalidDate("end_date", req.EndDate, err)
		}
		if end.Before(start) {
			return nil, translateSchedulingError(&scheduling.DateRangeError{
				Kind:    scheduling.KindRangeInverted,
				Message: fmt.Sprintf("end date %s is before start date %s", end, start),
			})
		}
		period.StartDate = start
		period.EndDate = end
	}

	if err := s.repo.Create(ctx, period); err != nil {
		if database.IsCode(err, database.CodeUniqueViolation) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("period %s already exists", period.Name()))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create period")
	}

	s.logger.Info("academic period created", zap.String("academy_id", academyID), zap.String("period_id", period.ID), zap.String("name", period.Name()))
	return period, nil
}
