package models

import (
	"time"

	"github.com/noah-isme/academy-schedule-api/internal/scheduling"
)

// TimeSlot is one weekly teaching block ("turno") of a professor within an academic period.
type TimeSlot struct {
	ID          string               `db:"id" json:"id"`
	AcademyID   string               `db:"academy_id" json:"academy_id"`
	ProfessorID string               `db:"professor_id" json:"professor_id"`
	PeriodID    string               `db:"period_id" json:"period_id"`
	SubjectID   *string              `db:"subject_id" json:"subject_id,omitempty"`
	CourseName  string               `db:"course_name" json:"course_name,omitempty"`
	DayOfWeek   scheduling.Weekday   `db:"day_of_week" json:"day_of_week"`
	StartTime   scheduling.TimeOfDay `db:"start_time" json:"start_time"`
	EndTime     scheduling.TimeOfDay `db:"end_time" json:"end_time"`
	CreatedAt   time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `db:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time           `db:"deleted_at" json:"-"`
}

// WeeklySlot exposes the slot shape for overlap checks.
func (t TimeSlot) WeeklySlot() scheduling.Slot {
	return scheduling.Slot{Day: t.DayOfWeek, Start: t.StartTime, End: t.EndTime}
}

// SetSlot copies the slot shape onto the record.
func (t *TimeSlot) SetSlot(s scheduling.Slot) {
	t.DayOfWeek = s.Day
	t.StartTime = s.Start
	t.EndTime = s.End
}

// Subject returns the subject id or an empty string.
func (t TimeSlot) Subject() string {
	if t.SubjectID == nil {
		return ""
	}
	return *t.SubjectID
}

// TimetableScope identifies one professor's timetable within a period.
type TimetableScope struct {
	AcademyID   string
	ProfessorID string
	PeriodID    string
}

// LockKey is the advisory lock identity serialising writers of the timetable.
func (s TimetableScope) LockKey() string {
	return s.AcademyID + "|" + s.ProfessorID + "|" + s.PeriodID
}

// CourseScope identifies a course: professor x subject x period.
type CourseScope struct {
	TimetableScope
	SubjectID string
}

// ScheduleConflict describes an existing slot colliding with a requested one.
type ScheduleConflict struct {
	DayOfWeek      scheduling.Weekday `json:"day_of_week"`
	DayName        string             `json:"day_name"`
	RequestedStart string             `json:"requested_start"`
	RequestedEnd   string             `json:"requested_end"`
	ExistingSlotID string             `json:"existing_slot_id,omitempty"`
	ExistingStart  string             `json:"existing_start"`
	ExistingEnd    string             `json:"existing_end"`
	SubjectID      string             `json:"subject_id,omitempty"`
	CourseName     string             `json:"course_name,omitempty"`
	Message        string             `json:"message"`
}

// NewScheduleConflict builds the conflict payload for a requested slot against an existing one.
func NewScheduleConflict(requested scheduling.Slot, existing TimeSlot) ScheduleConflict {
	held := existing.WeeklySlot()
	name := existing.CourseName
	if name == "" {
		name = "another course"
	}
	return ScheduleConflict{
		DayOfWeek:      requested.Day,
		DayName:        requested.Day.String(),
		RequestedStart: requested.Start.String(),
		RequestedEnd:   requested.End.String(),
		ExistingSlotID: existing.ID,
		ExistingStart:  held.Start.String(),
		ExistingEnd:    held.End.String(),
		SubjectID:      existing.Subject(),
		CourseName:     existing.CourseName,
		Message:        requested.String() + " overlaps " + name + " (" + held.String() + ")",
	}
}

// ScheduleConflictError is returned when requested slots collide with the professor's timetable.
type ScheduleConflictError struct {
	Message   string             `json:"message"`
	Conflicts []ScheduleConflict `json:"conflicts"`
}

// Error implements the error interface for conflict errors.
func (e *ScheduleConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// ReconcileStatus summarises the outcome of a reconciliation.
type ReconcileStatus string

const (
	ReconcileStatusApplied   ReconcileStatus = "applied"
	ReconcileStatusUnchanged ReconcileStatus = "unchanged"
	ReconcileStatusPartial   ReconcileStatus = "partial"
)

// ReconcileReport is returned by a successful reconciliation.
type ReconcileReport struct {
	Status           ReconcileStatus    `json:"status"`
	Created          int                `json:"created"`
	Updated          int                `json:"updated"`
	Deleted          int                `json:"deleted"`
	Unchanged        int                `json:"unchanged"`
	SessionsAdded    int                `json:"sessions_added"`
	SessionsRemoved  int                `json:"sessions_removed"`
	SessionsSkipped  bool               `json:"sessions_skipped,omitempty"`
	Conflicts        []ScheduleConflict `json:"conflicts,omitempty"`
	TimeSlots        []TimeSlot         `json:"time_slots"`
	SessionDates     []SessionDate      `json:"session_dates"`
	SessionDateRange *DateRange         `json:"session_date_range,omitempty"`
}

// DateRange is an inclusive calendar range.
type DateRange struct {
	Start scheduling.Date `json:"start_date"`
	End   scheduling.Date `json:"end_date"`
}
