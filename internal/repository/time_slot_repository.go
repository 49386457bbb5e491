package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/academy-schedule-api/internal/models"
	"github.com/noah-isme/academy-schedule-api/internal/scheduling"
)

const timeSlotColumns = `ts.id, ts.academy_id, ts.professor_id, ts.period_id, ts.subject_id, COALESCE(s.name, '') AS course_name,
ts.day_of_week, ts.start_time, ts.end_time, ts.created_at, ts.updated_at, ts.deleted_at`

// TimeSlotRepository persists weekly professor slots.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository builds the repository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

func (r *TimeSlotRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// LockTimetable serialises writers of one professor timetable until the surrounding transaction ends.
func (r *TimeSlotRepository) LockTimetable(ctx context.Context, exec sqlx.ExtContext, key string) error {
	if _, err := r.exec(exec).ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("lock timetable: %w", err)
	}
	return nil
}

// ListByTimetable returns the live slots of a professor in a period across all subjects.
func (r *TimeSlotRepository) ListByTimetable(ctx context.Context, exec sqlx.ExtContext, scope models.TimetableScope) ([]models.TimeSlot, error) {
	query := `SELECT ` + timeSlotColumns + `
FROM time_slots ts LEFT JOIN subjects s ON s.id = ts.subject_id
WHERE ts.academy_id = $1 AND ts.professor_id = $2 AND ts.period_id = $3 AND ts.deleted_at IS NULL
ORDER BY ts.day_of_week ASC, ts.start_time ASC`
	var slots []models.TimeSlot
	if err := sqlx.SelectContext(ctx, r.exec(exec), &slots, query, scope.AcademyID, scope.ProfessorID, scope.PeriodID); err != nil {
		return nil, fmt.Errorf("list timetable slots: %w", err)
	}
	return slots, nil
}

// ListByCourse returns the live slots of a subject in a period, whoever teaches them.
func (r *TimeSlotRepository) ListByCourse(ctx context.Context, exec sqlx.ExtContext, academyID, periodID, subjectID string) ([]models.TimeSlot, error) {
	query := `SELECT ` + timeSlotColumns + `
FROM time_slots ts LEFT JOIN subjects s ON s.id = ts.subject_id
WHERE ts.academy_id = $1 AND ts.period_id = $2 AND ts.subject_id = $3 AND ts.deleted_at IS NULL
ORDER BY ts.day_of_week ASC, ts.start_time ASC`
	var slots []models.TimeSlot
	if err := sqlx.SelectContext(ctx, r.exec(exec), &slots, query, academyID, periodID, subjectID); err != nil {
		return nil, fmt.Errorf("list course slots: %w", err)
	}
	return slots, nil
}

// Create inserts a slot, assigning id and timestamps when missing.
func (r *TimeSlotRepository) Create(ctx context.Context, exec sqlx.ExtContext, slot *models.TimeSlot) error {
	now := time.Now().UTC()
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now

	const query = `
INSERT INTO time_slots (id, academy_id, professor_id, period_id, subject_id, day_of_week, start_time, end_time, created_at, updated_at)
VALUES (:id, :academy_id, :professor_id, :period_id, :subject_id, :day_of_week, :start_time, :end_time, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, slot); err != nil {
		return fmt.Errorf("create time slot: %w", err)
	}
	return nil
}

// Update moves a live slot to a new weekly shape.
func (r *TimeSlotRepository) Update(ctx context.Context, exec sqlx.ExtContext, id string, slot scheduling.Slot, at time.Time) error {
	const query = `UPDATE time_slots SET day_of_week = $2, start_time = $3, end_time = $4, updated_at = $5 WHERE id = $1 AND deleted_at IS NULL`
	res, err := r.exec(exec).ExecContext(ctx, query, id, slot.Day, slot.Start, slot.End, at)
	if err != nil {
		return fmt.Errorf("update time slot: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SoftDelete marks the given slots deleted and returns how many rows changed.
func (r *TimeSlotRepository) SoftDelete(ctx context.Context, exec sqlx.ExtContext, ids []string, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	const query = `UPDATE time_slots SET deleted_at = $2, updated_at = $2 WHERE id = ANY($1) AND deleted_at IS NULL`
	res, err := r.exec(exec).ExecContext(ctx, query, pq.Array(ids), at)
	if err != nil {
		return 0, fmt.Errorf("soft delete time slots: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

// SoftDeleteByCourse marks every live slot of a course deleted.
func (r *TimeSlotRepository) SoftDeleteByCourse(ctx context.Context, exec sqlx.ExtContext, scope models.CourseScope, at time.Time) (int64, error) {
	const query = `UPDATE time_slots SET deleted_at = $5, updated_at = $5
WHERE academy_id = $1 AND professor_id = $2 AND period_id = $3 AND subject_id = $4 AND deleted_at IS NULL`
	res, err := r.exec(exec).ExecContext(ctx, query, scope.AcademyID, scope.ProfessorID, scope.PeriodID, scope.SubjectID, at)
	if err != nil {
		return 0, fmt.Errorf("soft delete course slots: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}
