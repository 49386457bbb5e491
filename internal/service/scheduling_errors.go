package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/noah-isme/academy-schedule-api/internal/models"
	"github.com/noah-isme/academy-schedule-api/internal/scheduling"
	"github.com/noah-isme/academy-schedule-api/pkg/database"
	appErrors "github.com/noah-isme/academy-schedule-api/pkg/errors"
)

const (
	codeInvalidTime = "INVALID_TIME"
	codeInvalidDate = "INVALID_DATE"
)

// translateSchedulingError maps scheduling domain errors onto HTTP-aware errors.
// Unknown errors are returned unchanged.
func translateSchedulingError(err error) error {
	var validationErr *scheduling.ValidationError
	if errors.As(err, &validationErr) {
		return appErrors.Wrap(err, string(validationErr.Kind), http.StatusBadRequest, validationErr.Message)
	}
	var rangeErr *scheduling.DateRangeError
	if errors.As(err, &rangeErr) {
		appErr := appErrors.Wrap(err, string(rangeErr.Kind), http.StatusBadRequest, rangeErr.Message)
		if len(rangeErr.Dates) > 0 {
			return appErr.WithDetails(map[string]interface{}{"dates": rangeErr.Dates})
		}
		return appErr
	}
	var conflictErr *models.ScheduleConflictError
	if errors.As(err, &conflictErr) {
		return appErrors.Wrap(err, appErrors.ErrScheduleConflict.Code, appErrors.ErrScheduleConflict.Status, conflictErr.Message).
			WithDetails(conflictErr)
	}
	return err
}

func newConflictError(conflicts []models.ScheduleConflict) error {
	msgs := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		msgs = append(msgs, c.Message)
	}
	return translateSchedulingError(&models.ScheduleConflictError{
		Message:   "schedule conflict: " + strings.Join(msgs, "; "),
		Conflicts: conflicts,
	})
}

// storeError names the persistence step that failed. Exclusion violations are
// concurrent writers racing past the pre-check and surface as conflicts.
func storeError(step string, err error) error {
	if database.IsCode(err, database.CodeExclusionViolation) {
		return appErrors.Wrap(err, appErrors.ErrScheduleConflict.Code, appErrors.ErrScheduleConflict.Status,
			"schedule conflict: the timetable changed concurrently, reload and retry")
	}
	return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, fmt.Sprintf("failed to %s", step))
}

func invalidTime(field, raw string, err error) error {
	return appErrors.Wrap(err, codeInvalidTime, http.StatusBadRequest, fmt.Sprintf("%s: %q is not a valid HH:MM time", field, raw))
}

func invalidDate(field, raw string, err error) error {
	return appErrors.Wrap(err, codeInvalidDate, http.StatusBadRequest, fmt.Sprintf("%s: %q is not a valid YYYY-MM-DD date", field, raw))
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}
