package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-schedule-api/internal/dto"
	"github.com/noah-isme/academy-schedule-api/internal/models"
	"github.com/noah-isme/academy-schedule-api/internal/scheduling"
	appErrors "github.com/noah-isme/academy-schedule-api/pkg/errors"
)

func newCalendarService(sessions *sessionDateStoreStub) *CalendarService {
	return NewCalendarService(
		sessions,
		periodReaderStub{period: &models.AcademicPeriod{ID: "per-1", AcademyID: "ac-1"}},
		subjectReaderStub{subject: &models.Subject{ID: "sub-1", AcademyID: "ac-1", Name: "Piano"}},
		nil, nil, 730,
	)
}

func TestCalendarPreview(t *testing.T) {
	svc := newCalendarService(&sessionDateStoreStub{})

	resp, err := svc.Preview(context.Background(), dto.PreviewSessionDatesRequest{
		StartDate: "2025-03-03",
		EndDate:   "2025-03-16",
		Weekdays:  []int{1, 4},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Count)
	assert.Equal(t, []string{"2025-03-03", "2025-03-06", "2025-03-10", "2025-03-13"}, dateList(resp.Dates))
}

func TestCalendarPreviewErrors(t *testing.T) {
	svc := newCalendarService(&sessionDateStoreStub{})

	cases := []struct {
		name string
		req  dto.PreviewSessionDatesRequest
		code string
	}{
		{name: "inverted", req: dto.PreviewSessionDatesRequest{StartDate: "2025-03-16", EndDate: "2025-03-03", Weekdays: []int{1}}, code: string(scheduling.KindRangeInverted)},
		{name: "no weekdays", req: dto.PreviewSessionDatesRequest{StartDate: "2025-03-03", EndDate: "2025-03-16"}, code: string(scheduling.KindEmptyWeekdays)},
		{name: "no match", req: dto.PreviewSessionDatesRequest{StartDate: "2025-03-03", EndDate: "2025-03-04", Weekdays: []int{7}}, code: string(scheduling.KindNoDatesInRange)},
		{name: "too long", req: dto.PreviewSessionDatesRequest{StartDate: "2025-01-01", EndDate: "2028-01-01", Weekdays: []int{1}}, code: string(scheduling.KindRangeTooLong)},
		{name: "bad date", req: dto.PreviewSessionDatesRequest{StartDate: "03/03/2025", EndDate: "2025-03-16", Weekdays: []int{1}}, code: codeInvalidDate},
		{name: "bad weekday", req: dto.PreviewSessionDatesRequest{StartDate: "2025-03-03", EndDate: "2025-03-16", Weekdays: []int{9}}, code: appErrors.ErrValidation.Code},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Preview(context.Background(), tc.req)
			appErr := appErrorOf(t, err)
			assert.Equal(t, tc.code, appErr.Code)
			assert.Equal(t, 400, appErr.Status)
		})
	}
}

func TestCalendarListSessionDates(t *testing.T) {
	sessions := &sessionDateStoreStub{stored: classDates("2025-03-03", "2025-03-10")}
	svc := newCalendarService(sessions)

	dates, err := svc.ListSessionDates(context.Background(), "ac-1", "per-1", "sub-1", []string{"CLASE", ""})
	require.NoError(t, err)
	assert.Len(t, dates, 2)

	_, err = svc.ListSessionDates(context.Background(), "ac-1", "per-1", "sub-1", []string{"vacaciones"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorOf(t, err).Code)
}

func TestCalendarListSessionDatesUnknownSubject(t *testing.T) {
	svc := newCalendarService(&sessionDateStoreStub{})
	svc.subjects = subjectReaderStub{err: sql.ErrNoRows}

	_, err := svc.ListSessionDates(context.Background(), "ac-1", "per-1", "sub-x", nil)
	appErr := appErrorOf(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
