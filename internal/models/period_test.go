package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-schedule-api/internal/scheduling"
)

func TestAcademicPeriodJSONRange(t *testing.T) {
	open := AcademicPeriod{ID: "per-1", Year: 2025, Period: "I"}
	raw, err := json.Marshal(open)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"start_date":null`)
	assert.Contains(t, string(raw), `"end_date":null`)
	assert.False(t, open.HasRange())

	ranged := open
	ranged.StartDate = scheduling.MustParseDate("2025-03-01")
	ranged.EndDate = scheduling.MustParseDate("2025-07-15")
	raw, err = json.Marshal(ranged)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"start_date":"2025-03-01"`)

	var decoded AcademicPeriod
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, decoded.HasRange())
	assert.Equal(t, "2025 – I", decoded.Name())
}
