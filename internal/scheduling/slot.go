package scheduling

import "fmt"

// Slot is a weekly recurring block on one day. Intervals are half-open: [Start, End).
type Slot struct {
	Day   Weekday   `json:"day_of_week"`
	Start TimeOfDay `json:"start_time"`
	End   TimeOfDay `json:"end_time"`
}

// NewSlot is shorthand used heavily by callers building slots from strings.
func NewSlot(day Weekday, start, end string) (Slot, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return Slot{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return Slot{}, err
	}
	return Slot{Day: day, Start: s, End: e}, nil
}

// Overlaps reports whether both slots share a day and their intervals intersect.
// Touching endpoints do not overlap.
func (s Slot) Overlaps(o Slot) bool {
	if s.Day != o.Day {
		return false
	}
	return s.Start < o.End && o.Start < s.End
}

// Less orders by day, start, end.
func (s Slot) Less(o Slot) bool {
	if s.Day != o.Day {
		return s.Day < o.Day
	}
	if s.Start != o.Start {
		return s.Start < o.Start
	}
	return s.End < o.End
}

// Window renders "HH:MM-HH:MM".
func (s Slot) Window() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// String renders "Monday 09:00-10:00".
func (s Slot) String() string {
	return fmt.Sprintf("%s %s", s.Day, s.Window())
}

// Slotted is anything that occupies a weekly slot.
type Slotted interface {
	WeeklySlot() Slot
}

// WeeklySlot lets a bare Slot satisfy Slotted.
func (s Slot) WeeklySlot() Slot { return s }
