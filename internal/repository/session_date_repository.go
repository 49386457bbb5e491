package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/academy-schedule-api/internal/models"
	"github.com/noah-isme/academy-schedule-api/internal/scheduling"
)

// SessionDateRepository persists concrete course calendar entries.
type SessionDateRepository struct {
	db *sqlx.DB
}

// NewSessionDateRepository builds the repository.
func NewSessionDateRepository(db *sqlx.DB) *SessionDateRepository {
	return &SessionDateRepository{db: db}
}

func (r *SessionDateRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns session dates of a course ordered by date, optionally narrowed by type.
func (r *SessionDateRepository) List(ctx context.Context, exec sqlx.ExtContext, filter models.SessionDateFilter) ([]models.SessionDate, error) {
	var b strings.Builder
	b.WriteString(`SELECT id, period_id, subject_id, profile_id, date, date_type, created_at FROM session_dates WHERE period_id = $1 AND subject_id = $2`)
	args := []interface{}{filter.PeriodID, filter.SubjectID}
	if filter.ProfileID != "" {
		args = append(args, filter.ProfileID)
		b.WriteString(fmt.Sprintf(" AND profile_id = $%d", len(args)))
	}
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		args = append(args, pq.Array(types))
		b.WriteString(fmt.Sprintf(" AND date_type = ANY($%d)", len(args)))
	}
	b.WriteString(" ORDER BY date ASC, date_type ASC")

	var dates []models.SessionDate
	if err := sqlx.SelectContext(ctx, r.exec(exec), &dates, b.String(), args...); err != nil {
		return nil, fmt.Errorf("list session dates: %w", err)
	}
	return dates, nil
}

// InsertClassDates stores one "clase" entry per date.
func (r *SessionDateRepository) InsertClassDates(ctx context.Context, exec sqlx.ExtContext, course models.CourseScope, dates []scheduling.Date) ([]models.SessionDate, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	const query = `
INSERT INTO session_dates (id, period_id, subject_id, profile_id, date, date_type, created_at)
VALUES (:id, :period_id, :subject_id, :profile_id, :date, :date_type, :created_at)`

	now := time.Now().UTC()
	profileID := course.ProfessorID
	created := make([]models.SessionDate, 0, len(dates))
	for _, d := range dates {
		row := models.SessionDate{
			ID:        uuid.NewString(),
			PeriodID:  course.PeriodID,
			SubjectID: course.SubjectID,
			ProfileID: &profileID,
			Date:      d,
			DateType:  models.SessionDateClass,
			CreatedAt: now,
		}
		if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, row); err != nil {
			return nil, fmt.Errorf("insert session date %s: %w", d, err)
		}
		created = append(created, row)
	}
	return created, nil
}

// DeleteClassDates removes the "clase" entries of a course on the given dates.
func (r *SessionDateRepository) DeleteClassDates(ctx context.Context, exec sqlx.ExtContext, course models.CourseScope, dates []scheduling.Date) (int64, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	raw := make([]string, len(dates))
	for i, d := range dates {
		raw[i] = d.String()
	}
	const query = `DELETE FROM session_dates WHERE period_id = $1 AND subject_id = $2 AND profile_id = $3 AND date_type = $4 AND date = ANY($5::date[])`
	res, err := r.exec(exec).ExecContext(ctx, query, course.PeriodID, course.SubjectID, course.ProfessorID, models.SessionDateClass, pq.Array(raw))
	if err != nil {
		return 0, fmt.Errorf("delete session dates: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

// DeleteByCourse removes every session date the course's professor holds for
// the subject, whatever its type. Entries without a professor are left alone.
func (r *SessionDateRepository) DeleteByCourse(ctx context.Context, exec sqlx.ExtContext, course models.CourseScope) (int64, error) {
	const query = `DELETE FROM session_dates WHERE period_id = $1 AND subject_id = $2 AND profile_id = $3`
	res, err := r.exec(exec).ExecContext(ctx, query, course.PeriodID, course.SubjectID, course.ProfessorID)
	if err != nil {
		return 0, fmt.Errorf("delete course session dates: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}
