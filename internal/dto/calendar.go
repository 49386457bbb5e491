package dto

import "github.com/noah-isme/academy-schedule-api/internal/scheduling"

// PreviewSessionDatesRequest expands a date range over weekdays without persisting.
type PreviewSessionDatesRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Weekdays  []int  `json:"weekdays" validate:"dive,min=1,max=7"`
}

// PreviewSessionDatesResponse lists the generated dates.
type PreviewSessionDatesResponse struct {
	Dates []scheduling.Date `json:"dates"`
	Count int               `json:"count"`
}

// ExportFormat enumerates supported calendar export formats.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatICS  ExportFormat = "ics"
)

// ExportResult is a rendered export ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}
