package dto

import (
	"github.com/noah-isme/academy-schedule-api/internal/models"
	"github.com/noah-isme/academy-schedule-api/internal/scheduling"
)

// TimeSlotInput is one desired weekly slot. ID targets a stored slot to edit in place.
type TimeSlotInput struct {
	ID        string `json:"id,omitempty" validate:"omitempty,uuid"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// ReconcileScheduleRequest carries the desired state of a course schedule.
//
// Session dates come from SessionDates when present, otherwise from
// StartDate/EndDate, otherwise from the period range.
type ReconcileScheduleRequest struct {
	TimeSlots    []TimeSlotInput `json:"time_slots" validate:"max=50,dive"`
	SessionDates []string        `json:"session_dates,omitempty" validate:"max=1000"`
	StartDate    string          `json:"start_date,omitempty" validate:"required_with=EndDate"`
	EndDate      string          `json:"end_date,omitempty" validate:"required_with=StartDate"`
	AllowPartial bool            `json:"allow_partial"`
}

// CheckSlotRequest asks whether one slot fits the professor's timetable.
type CheckSlotRequest struct {
	DayOfWeek     int    `json:"day_of_week"`
	StartTime     string `json:"start_time" validate:"required"`
	EndTime       string `json:"end_time" validate:"required"`
	ExcludeSlotID string `json:"exclude_slot_id,omitempty" validate:"omitempty,uuid"`
}

// CheckSlotResponse reports the first collision, if any.
type CheckSlotResponse struct {
	Available bool                     `json:"available"`
	Slot      scheduling.Slot          `json:"slot"`
	Conflict  *models.ScheduleConflict `json:"conflict,omitempty"`
}

// CourseDeletionResponse summarises a course schedule removal.
type CourseDeletionResponse struct {
	SlotsDeleted    int64 `json:"slots_deleted"`
	SessionsDeleted int64 `json:"sessions_deleted"`
}
