package models

import (
	"fmt"
	"time"

	"github.com/noah-isme/academy-schedule-api/internal/scheduling"
)

// AcademicPeriod models a named term ("2025 – II") scoping time slots and session dates.
type AcademicPeriod struct {
	ID        string          `db:"id" json:"id"`
	AcademyID string          `db:"academy_id" json:"academy_id"`
	Year      int             `db:"year" json:"year"`
	Period    string          `db:"period" json:"period"`
	StartDate scheduling.Date `db:"start_date" json:"start_date"`
	EndDate   scheduling.Date `db:"end_date" json:"end_date"`
	IsActive  bool            `db:"is_active" json:"is_active"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Name renders the display label.
func (p AcademicPeriod) Name() string {
	return fmt.Sprintf("%d – %s", p.Year, p.Period)
}

// HasRange reports whether both bounds are set.
func (p AcademicPeriod) HasRange() bool {
	return !p.StartDate.IsZero() && !p.EndDate.IsZero()
}

// PeriodFilter defines filters supported by list endpoints.
type PeriodFilter struct {
	AcademyID string
	Year      int
	IsActive  *bool
	Page      int
	PageSize  int
}

// Subject is the minimal subject record needed to name courses.
type Subject struct {
	ID        string `db:"id" json:"id"`
	AcademyID string `db:"academy_id" json:"academy_id"`
	Name      string `db:"name" json:"name"`
}
