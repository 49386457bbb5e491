package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// XLSXExporter renders datasets into a single-sheet workbook.
type XLSXExporter struct {
	SheetName string
}

// NewXLSXExporter builds an exporter writing to the named sheet.
func NewXLSXExporter(sheet string) *XLSXExporter {
	return &XLSXExporter{SheetName: sheet}
}

// Render writes an optional title row, a styled header row and the dataset rows.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if err := data.check("xlsx"); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := defaultSheet
	if e.SheetName != "" {
		sheet = e.SheetName
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	row := 1
	if data.Title != "" {
		titleCell, _ := excelize.CoordinatesToCellName(1, row)
		lastCell, _ := excelize.CoordinatesToCellName(len(data.Headers), row)
		if err := f.SetCellValue(sheet, titleCell, data.Title); err != nil {
			return nil, fmt.Errorf("write title: %w", err)
		}
		if len(data.Headers) > 1 {
			if err := f.MergeCell(sheet, titleCell, lastCell); err != nil {
				return nil, fmt.Errorf("merge title: %w", err)
			}
		}
		row++
	}

	headerCell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(sheet, headerCell, &data.Headers); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(data.Headers), row)
	if err := f.SetCellStyle(sheet, headerCell, lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("style header row: %w", err)
	}

	for _, values := range data.Rows {
		row++
		record := make([]interface{}, len(data.Headers))
		for i := range record {
			record[i] = cell(values, i)
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, start, &record); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
	}

	for i := range data.Headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, 18)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
