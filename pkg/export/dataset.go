package export

import "fmt"

// Dataset is the tabular shape every exporter renders.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func (d Dataset) check(format string) error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("%s requires at least one header", format)
	}
	for i, row := range d.Rows {
		if len(row) > len(d.Headers) {
			return fmt.Errorf("%s row %d has %d cells for %d headers", format, i, len(row), len(d.Headers))
		}
	}
	return nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
