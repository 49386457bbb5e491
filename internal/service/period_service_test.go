package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-schedule-api/internal/dto"
	"github.com/noah-isme/academy-schedule-api/internal/models"
	appErrors "github.com/noah-isme/academy-schedule-api/pkg/errors"
)

type periodRepoStub struct {
	periods   []models.AcademicPeriod
	total     int
	listErr   error
	created   *models.AcademicPeriod
	createErr error
}

func (s *periodRepoStub) List(ctx context.Context, filter models.PeriodFilter) ([]models.AcademicPeriod, int, error) {
	return s.periods, s.total, s.listErr
}

func (s *periodRepoStub) FindByID(ctx context.Context, academyID, id string) (*models.AcademicPeriod, error) {
	for i := range s.periods {
		if s.periods[i].ID == id && s.periods[i].AcademyID == academyID {
			return &s.periods[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *periodRepoStub) Create(ctx context.Context, period *models.AcademicPeriod) error {
	if s.createErr != nil {
		return s.createErr
	}
	period.ID = "per-new"
	s.created = period
	return nil
}

func TestPeriodServiceList(t *testing.T) {
	repo := &periodRepoStub{periods: []models.AcademicPeriod{{ID: "per-1", AcademyID: "ac-1", Year: 2025, Period: "I"}}, total: 41}
	svc := NewPeriodService(repo, nil, nil)

	periods, pagination, err := svc.List(context.Background(), models.PeriodFilter{AcademyID: "ac-1", Page: 3})
	require.NoError(t, err)
	assert.Len(t, periods, 1)
	assert.Equal(t, &models.Pagination{Page: 3, PageSize: 20, TotalCount: 41}, pagination)

	repo.listErr = errors.New("boom")
	_, _, err = svc.List(context.Background(), models.PeriodFilter{AcademyID: "ac-1"})
	assert.Equal(t, appErrors.ErrInternal.Code, appErrorOf(t, err).Code)
}

func TestPeriodServiceGet(t *testing.T) {
	repo := &periodRepoStub{periods: []models.AcademicPeriod{{ID: "per-1", AcademyID: "ac-1", Year: 2025, Period: "I"}}}
	svc := NewPeriodService(repo, nil, nil)

	period, err := svc.Get(context.Background(), "ac-1", "per-1")
	require.NoError(t, err)
	assert.Equal(t, "2025 – I", period.Name())

	_, err = svc.Get(context.Background(), "ac-2", "per-1")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrorOf(t, err).Code)
}

func TestPeriodServiceCreate(t *testing.T) {
	repo := &periodRepoStub{}
	svc := NewPeriodService(repo, nil, nil)

	period, err := svc.Create(context.Background(), "ac-1", dto.CreatePeriodRequest{
		Year: 2025, Period: "II", StartDate: "2025-08-01", EndDate: "2025-12-15",
	})
	require.NoError(t, err)
	assert.Equal(t, "per-new", period.ID)
	assert.True(t, period.IsActive)
	assert.True(t, period.HasRange())
	assert.Equal(t, "2025-12-15", repo.created.EndDate.String())
}

func TestPeriodServiceCreateWithoutRange(t *testing.T) {
	inactive := false
	svc := NewPeriodService(&periodRepoStub{}, nil, nil)

	period, err := svc.Create(context.Background(), "ac-1", dto.CreatePeriodRequest{Year: 2026, Period: "I", IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, period.HasRange())
	assert.False(t, period.IsActive)
}

func TestPeriodServiceCreateRejects(t *testing.T) {
	cases := []struct {
		name string
		req  dto.CreatePeriodRequest
		code string
	}{
		{name: "missing period", req: dto.CreatePeriodRequest{Year: 2025}, code: appErrors.ErrValidation.Code},
		{name: "half range", req: dto.CreatePeriodRequest{Year: 2025, Period: "I", StartDate: "2025-03-01"}, code: appErrors.ErrValidation.Code},
		{name: "bad date", req: dto.CreatePeriodRequest{Year: 2025, Period: "I", StartDate: "2025-03-01", EndDate: "2025-13-01"}, code: codeInvalidDate},
		{name: "inverted", req: dto.CreatePeriodRequest{Year: 2025, Period: "I", StartDate: "2025-07-01", EndDate: "2025-03-01"}, code: "DATE_RANGE_INVERTED"},
	}
	svc := NewPeriodService(&periodRepoStub{}, nil, nil)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "ac-1", tc.req)
			assert.Equal(t, tc.code, appErrorOf(t, err).Code)
		})
	}
}

func TestPeriodServiceCreateDuplicate(t *testing.T) {
	repo := &periodRepoStub{createErr: fmt.Errorf("create period: %w", &pq.Error{Code: "23505"})}
	svc := NewPeriodService(repo, nil, nil)

	_, err := svc.Create(context.Background(), "ac-1", dto.CreatePeriodRequest{Year: 2025, Period: "I"})
	appErr := appErrorOf(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "2025 – I")
}
