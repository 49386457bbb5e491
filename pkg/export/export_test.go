package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Piano – 2025",
		Headers: []string{"date", "weekday", "type"},
		Rows: [][]string{
			{"2025-01-06", "Monday", "clase"},
			{"2025-01-08", "Wednesday"},
		},
	}
}

func TestCSVExporterPadsShortRows(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,weekday,type", lines[0])
	assert.Equal(t, "2025-01-08,Wednesday,", lines[2])
}

func TestExportersRejectMissingHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewXLSXExporter("").Render(Dataset{})
	assert.Error(t, err)
}

func TestExportersRejectWideRows(t *testing.T) {
	data := Dataset{Headers: []string{"a"}, Rows: [][]string{{"1", "2"}}}
	_, err := NewCSVExporter().Render(data)
	assert.Error(t, err)
}

func TestPDFExporterRenders(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterWritesRows(t *testing.T) {
	out, err := NewXLSXExporter("Sessions").Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Sessions", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Piano – 2025", title)

	header, err := f.GetCellValue("Sessions", "B2")
	require.NoError(t, err)
	assert.Equal(t, "weekday", header)

	last, err := f.GetCellValue("Sessions", "A4")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-08", last)
}

func TestICSExporterRendersEvents(t *testing.T) {
	exporter := NewICSExporter("-//academy//schedule//EN", "UTC")
	exporter.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	out, err := exporter.Render("Piano", []Event{
		{UID: "a@test", Summary: "Piano", Start: start, End: start.Add(time.Hour)},
		{UID: "b@test", Summary: "Holiday", Start: start, AllDay: true},
	})
	require.NoError(t, err)

	body := string(out)
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "UID:a@test")
	assert.Contains(t, body, "DTSTART:20250106T090000Z")
	assert.Contains(t, body, "SUMMARY:Holiday")
	assert.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))
}

func TestICSExporterRejectsBadEvents(t *testing.T) {
	exporter := NewICSExporter("", "")
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	_, err := exporter.Render("x", []Event{{Summary: "no uid", Start: start, End: start.Add(time.Hour)}})
	assert.Error(t, err)

	_, err = exporter.Render("x", []Event{{UID: "u", Start: start, End: start}})
	assert.Error(t, err)
}
