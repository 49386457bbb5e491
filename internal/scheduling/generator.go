package scheduling

import (
	"fmt"
	"sort"
	"strings"
)

// DateRangeKind classifies session date generation errors.
type DateRangeKind string

const (
	KindRangeInverted       DateRangeKind = "DATE_RANGE_INVERTED"
	KindEmptyWeekdays       DateRangeKind = "EMPTY_WEEKDAYS"
	KindNoDatesInRange      DateRangeKind = "NO_DATES_IN_RANGE"
	KindRangeTooLong        DateRangeKind = "DATE_RANGE_TOO_LONG"
	KindDateWeekdayMismatch DateRangeKind = "DATE_WEEKDAY_MISMATCH"
)

// DateRangeError reports why session dates could not be produced or accepted.
type DateRangeError struct {
	Kind    DateRangeKind
	Message string
	Dates   []Date
}

func (e *DateRangeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// Is matches on Kind.
func (e *DateRangeError) Is(target error) bool {
	t, ok := target.(*DateRangeError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrRangeInverted       = &DateRangeError{Kind: KindRangeInverted, Message: "end date is before start date"}
	ErrEmptyWeekdays       = &DateRangeError{Kind: KindEmptyWeekdays, Message: "at least one weekday is required"}
	ErrNoDatesInRange      = &DateRangeError{Kind: KindNoDatesInRange, Message: "no dates in range fall on the selected weekdays"}
	ErrRangeTooLong        = &DateRangeError{Kind: KindRangeTooLong, Message: "date range is too long"}
	ErrDateWeekdayMismatch = &DateRangeError{Kind: KindDateWeekdayMismatch, Message: "date does not fall on a scheduled weekday"}
)

// GeneratorOptions tunes GenerateSessionDates. A zero MaxDays disables the span guard.
type GeneratorOptions struct {
	MaxDays int
}

// GenerateSessionDates expands [start, end] into the ascending list of dates
// whose weekday is in weekdays.
func GenerateSessionDates(start, end Date, weekdays WeekdaySet, opts GeneratorOptions) ([]Date, error) {
	if start.IsZero() || end.IsZero() {
		return nil, &DateRangeError{Kind: KindRangeInverted, Message: "start and end dates are required"}
	}
	if end.Before(start) {
		return nil, &DateRangeError{
			Kind:    KindRangeInverted,
			Message: fmt.Sprintf("end date %s is before start date %s", end, start),
		}
	}
	if weekdays.Empty() {
		return nil, &DateRangeError{Kind: KindEmptyWeekdays, Message: "at least one weekday is required to generate session dates"}
	}
	if opts.MaxDays > 0 && start.DaysUntil(end) >= opts.MaxDays {
		return nil, &DateRangeError{
			Kind:    KindRangeTooLong,
			Message: fmt.Sprintf("date range %s..%s exceeds %d days", start, end, opts.MaxDays),
		}
	}

	var dates []Date
	for d := start; !d.After(end); d = d.AddDays(1) {
		if weekdays.Has(d.Weekday()) {
			dates = append(dates, d)
		}
	}
	if len(dates) == 0 {
		return nil, &DateRangeError{
			Kind:    KindNoDatesInRange,
			Message: fmt.Sprintf("no %s between %s and %s", joinWeekdays(weekdays), start, end),
		}
	}
	return dates, nil
}

// ValidateSessionDates checks that every date falls on one of weekdays.
// The returned list is sorted ascending with duplicates removed.
func ValidateSessionDates(dates []Date, weekdays WeekdaySet) ([]Date, error) {
	if weekdays.Empty() {
		return nil, &DateRangeError{Kind: KindEmptyWeekdays, Message: "session dates require at least one scheduled weekday"}
	}
	var mismatched []Date
	for _, d := range dates {
		if !weekdays.Has(d.Weekday()) {
			mismatched = append(mismatched, d)
		}
	}
	if len(mismatched) > 0 {
		parts := make([]string, len(mismatched))
		for i, d := range mismatched {
			parts[i] = fmt.Sprintf("%s (%s)", d, d.Weekday())
		}
		return nil, &DateRangeError{
			Kind:    KindDateWeekdayMismatch,
			Message: fmt.Sprintf("dates not on a scheduled weekday (%s): %s", joinWeekdays(weekdays), strings.Join(parts, ", ")),
			Dates:   mismatched,
		}
	}
	return SortDates(dates), nil
}

// SortDates returns a sorted copy of dates without duplicates.
func SortDates(dates []Date) []Date {
	out := make([]Date, 0, len(dates))
	seen := make(map[Date]struct{}, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func joinWeekdays(set WeekdaySet) string {
	days := set.Days()
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return strings.Join(names, "/")
}
