package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-schedule-api/internal/models"
	"github.com/noah-isme/academy-schedule-api/internal/scheduling"
)

func TestPeriodRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	active := true
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "academy_id", "year", "period", "start_date", "end_date", "is_active", "created_at", "updated_at"}).
		AddRow("per-1", "ac-1", 2025, "II", "2025-08-01", "2025-12-15", true, now, now).
		AddRow("per-0", "ac-1", 2025, "I", nil, nil, true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM academic_periods WHERE academy_id = $1 AND year = $2 AND is_active = $3 ORDER BY year DESC, period DESC LIMIT 20 OFFSET 0")).
		WithArgs("ac-1", 2025, true).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM academic_periods WHERE academy_id = $1 AND year = $2 AND is_active = $3")).
		WithArgs("ac-1", 2025, true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	periods, total, err := repo.List(context.Background(), models.PeriodFilter{AcademyID: "ac-1", Year: 2025, IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, periods, 2)
	assert.True(t, periods[0].HasRange())
	assert.False(t, periods[1].HasRange())
	assert.Equal(t, "2025 – II", periods[0].Name())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO academic_periods")).
		WithArgs(sqlmock.AnyArg(), "ac-1", 2026, "I", "2026-03-01", nil, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	period := &models.AcademicPeriod{AcademyID: "ac-1", Year: 2026, Period: "I", StartDate: scheduling.MustParseDate("2026-03-01"), IsActive: true}
	require.NoError(t, repo.Create(context.Background(), period))
	assert.NotEmpty(t, period.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, academy_id, name FROM subjects WHERE academy_id = $1 AND id = $2")).
		WithArgs("ac-1", "sub-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "academy_id", "name"}).AddRow("sub-1", "ac-1", "Piano"))

	subject, err := repo.FindByID(context.Background(), "ac-1", "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "Piano", subject.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
