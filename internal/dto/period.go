package dto

// CreatePeriodRequest registers an academic period. Dates are optional YYYY-MM-DD.
type CreatePeriodRequest struct {
	Year      int    `json:"year" validate:"required,min=2000,max=2100"`
	Period    string `json:"period" validate:"required,max=32"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	IsActive  *bool  `json:"is_active,omitempty"`
}
