package scheduling

import (
	"fmt"
	"sort"
	"time"
)

// Weekday uses the ISO convention: 1 = Monday .. 7 = Sunday.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayOf converts Go's native weekday (Sunday = 0) into the ISO weekday.
// Every caller translating calendar dates into weekdays goes through here.
func WeekdayOf(d time.Weekday) Weekday {
	if d == time.Sunday {
		return Sunday
	}
	return Weekday(d)
}

// Valid reports whether the weekday is within 1..7.
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("day %d", int(w))
	}
	return weekdayNames[w]
}

// WeekdaySet is a bitmask of ISO weekdays.
type WeekdaySet uint8

// NewWeekdaySet builds a set ignoring out-of-range entries.
func NewWeekdaySet(days ...Weekday) WeekdaySet {
	var set WeekdaySet
	for _, d := range days {
		set = set.Add(d)
	}
	return set
}

// Add returns the set including d.
func (s WeekdaySet) Add(d Weekday) WeekdaySet {
	if !d.Valid() {
		return s
	}
	return s | 1<<uint(d)
}

// Has reports membership.
func (s WeekdaySet) Has(d Weekday) bool {
	return d.Valid() && s&(1<<uint(d)) != 0
}

// Empty reports whether no weekday is set.
func (s WeekdaySet) Empty() bool { return s == 0 }

// Days lists the members in ascending order.
func (s WeekdaySet) Days() []Weekday {
	days := make([]Weekday, 0, 7)
	for d := Monday; d <= Sunday; d++ {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

// WeekdaysOf collects the weekdays used by a slot set.
func WeekdaysOf(slots []Slot) WeekdaySet {
	var set WeekdaySet
	for _, slot := range slots {
		set = set.Add(slot.Day)
	}
	return set
}

// SortSlots orders slots by day then start then end.
func SortSlots(slots []Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Less(slots[j])
	})
}
