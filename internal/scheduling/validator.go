package scheduling

import "fmt"

// ValidationKind classifies structural slot errors.
type ValidationKind string

const (
	KindInvalidDay   ValidationKind = "INVALID_DAY"
	KindInvalidRange ValidationKind = "INVALID_RANGE"
	KindOutOfBounds  ValidationKind = "OUT_OF_BOUNDS"
)

// ValidationError reports why a slot is structurally invalid.
type ValidationError struct {
	Kind    ValidationKind
	Slot    Slot
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// Is matches on Kind so callers can use errors.Is with the sentinels below.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidDay   = &ValidationError{Kind: KindInvalidDay, Message: "invalid day of week"}
	ErrInvalidRange = &ValidationError{Kind: KindInvalidRange, Message: "end time must be after start time"}
	ErrOutOfBounds  = &ValidationError{Kind: KindOutOfBounds, Message: "time slot outside working hours"}
)

// Bounds is the working-hours window slots must fit in.
type Bounds struct {
	Earliest TimeOfDay
	Latest   TimeOfDay
}

// DefaultBounds is 07:00 to 22:00.
var DefaultBounds = Bounds{Earliest: NewTimeOfDay(7, 0), Latest: NewTimeOfDay(22, 0)}

// Validate checks day range, ordering and working-hours bounds, in that order.
func Validate(slot Slot, bounds Bounds) error {
	if !slot.Day.Valid() {
		return &ValidationError{
			Kind:    KindInvalidDay,
			Slot:    slot,
			Message: fmt.Sprintf("day_of_week %d must be between 1 (Monday) and 7 (Sunday)", int(slot.Day)),
		}
	}
	if slot.End <= slot.Start {
		return &ValidationError{
			Kind:    KindInvalidRange,
			Slot:    slot,
			Message: fmt.Sprintf("%s: end time must be after start time", slot),
		}
	}
	if slot.Start < bounds.Earliest || slot.End > bounds.Latest {
		return &ValidationError{
			Kind:    KindOutOfBounds,
			Slot:    slot,
			Message: fmt.Sprintf("%s: must fall within %s-%s", slot, bounds.Earliest, bounds.Latest),
		}
	}
	return nil
}
