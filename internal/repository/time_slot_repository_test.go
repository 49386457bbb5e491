package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-schedule-api/internal/models"
	"github.com/noah-isme/academy-schedule-api/internal/scheduling"
)

var timetable = models.TimetableScope{AcademyID: "ac-1", ProfessorID: "prof-1", PeriodID: "per-1"}

func TestTimeSlotRepositoryLockTimetable(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTimeSlotRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("ac-1|prof-1|per-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.LockTimetable(context.Background(), nil, timetable.LockKey()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeSlotRepositoryListByTimetable(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTimeSlotRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "academy_id", "professor_id", "period_id", "subject_id", "course_name", "day_of_week", "start_time", "end_time", "created_at", "updated_at", "deleted_at"}).
		AddRow("ts-1", "ac-1", "prof-1", "per-1", "sub-1", "Piano", 1, "09:00:00", "10:30:00", now, now, nil).
		AddRow("ts-2", "ac-1", "prof-1", "per-1", nil, "", 3, "18:00:00", "19:00:00", now, now, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM time_slots ts LEFT JOIN subjects s ON s.id = ts.subject_id WHERE ts.academy_id = $1 AND ts.professor_id = $2 AND ts.period_id = $3 AND ts.deleted_at IS NULL")).
		WithArgs("ac-1", "prof-1", "per-1").
		WillReturnRows(rows)

	slots, err := repo.ListByTimetable(context.Background(), nil, timetable)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "Piano", slots[0].CourseName)
	assert.Equal(t, "sub-1", slots[0].Subject())
	assert.Equal(t, "Monday 09:00-10:30", slots[0].WeeklySlot().String())
	assert.Nil(t, slots[1].SubjectID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeSlotRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTimeSlotRepository(db)

	subject := "sub-1"
	slot := &models.TimeSlot{AcademyID: "ac-1", ProfessorID: "prof-1", PeriodID: "per-1", SubjectID: &subject}
	slot.SetSlot(scheduling.Slot{Day: scheduling.Tuesday, Start: scheduling.MustParseTimeOfDay("14:00"), End: scheduling.MustParseTimeOfDay("15:00")})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO time_slots")).
		WithArgs(sqlmock.AnyArg(), "ac-1", "prof-1", "per-1", "sub-1", 2, "14:00", "15:00", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), nil, slot))
	assert.NotEmpty(t, slot.ID)
	assert.False(t, slot.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeSlotRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTimeSlotRepository(db)

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE time_slots SET day_of_week = $2, start_time = $3, end_time = $4, updated_at = $5 WHERE id = $1 AND deleted_at IS NULL")).
		WithArgs("ts-9", 5, "10:00", "11:00", now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), nil, "ts-9", scheduling.Slot{Day: scheduling.Friday, Start: scheduling.MustParseTimeOfDay("10:00"), End: scheduling.MustParseTimeOfDay("11:00")}, now)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeSlotRepositorySoftDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTimeSlotRepository(db)

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE time_slots SET deleted_at = $2, updated_at = $2 WHERE id = ANY($1) AND deleted_at IS NULL")).
		WithArgs(sqlmock.AnyArg(), now).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.SoftDelete(context.Background(), nil, []string{"ts-1", "ts-2"}, now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = repo.SoftDelete(context.Background(), nil, nil, now)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeSlotRepositorySoftDeleteByCourse(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTimeSlotRepository(db)

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE time_slots SET deleted_at = $5, updated_at = $5")).
		WithArgs("ac-1", "prof-1", "per-1", "sub-1", now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.SoftDeleteByCourse(context.Background(), nil, models.CourseScope{TimetableScope: timetable, SubjectID: "sub-1"}, now)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeSlotRepositoryListByCourse(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTimeSlotRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "academy_id", "professor_id", "period_id", "subject_id", "course_name", "day_of_week", "start_time", "end_time", "created_at", "updated_at", "deleted_at"}).
		AddRow("ts-1", "ac-1", "prof-1", "per-1", "sub-1", "Piano", 5, "18:00:00", "19:30:00", now, now, nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE ts.academy_id = $1 AND ts.period_id = $2 AND ts.subject_id = $3 AND ts.deleted_at IS NULL")).
		WithArgs("ac-1", "per-1", "sub-1").
		WillReturnRows(rows)

	slots, err := repo.ListByCourse(context.Background(), nil, "ac-1", "per-1", "sub-1")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "Friday 18:00-19:30", slots[0].WeeklySlot().String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
