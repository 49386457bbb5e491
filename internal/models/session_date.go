package models

import (
	"time"

	"github.com/noah-isme/academy-schedule-api/internal/scheduling"
)

// SessionDateType tags calendar entries. Only SessionDateClass drives scheduling.
type SessionDateType string

const (
	SessionDateClass   SessionDateType = "clase"
	SessionDateStart   SessionDateType = "inicio"
	SessionDateClose   SessionDateType = "cierre"
	SessionDateHoliday SessionDateType = "feriado"
	SessionDateRecital SessionDateType = "recital"
	SessionDateOther   SessionDateType = "otro"
)

// Valid reports whether the tag is known.
func (t SessionDateType) Valid() bool {
	switch t {
	case SessionDateClass, SessionDateStart, SessionDateClose, SessionDateHoliday, SessionDateRecital, SessionDateOther:
		return true
	}
	return false
}

// SessionDate is one concrete calendar occurrence of a course.
type SessionDate struct {
	ID        string          `db:"id" json:"id"`
	PeriodID  string          `db:"period_id" json:"period_id"`
	SubjectID string          `db:"subject_id" json:"subject_id"`
	ProfileID *string         `db:"profile_id" json:"profile_id,omitempty"`
	Date      scheduling.Date `db:"date" json:"date"`
	DateType  SessionDateType `db:"date_type" json:"date_type"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// SessionDateFilter narrows session date listings.
type SessionDateFilter struct {
	PeriodID  string
	SubjectID string
	// ProfileID limits the listing to one professor's entries when set.
	ProfileID string
	Types     []SessionDateType
}
