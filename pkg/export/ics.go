package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// Event is one calendar entry. AllDay events only use the date part of Start.
type Event struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	AllDay      bool
}

// ICSExporter renders events as an iCalendar (RFC 5545) document.
type ICSExporter struct {
	ProductID string
	Timezone  string
	now       func() time.Time
}

// NewICSExporter builds an exporter stamping documents with productID.
func NewICSExporter(productID, timezone string) *ICSExporter {
	return &ICSExporter{ProductID: productID, Timezone: timezone, now: time.Now}
}

// Render serializes the events under a calendar called name.
func (e *ICSExporter) Render(name string, events []Event) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	if e.ProductID != "" {
		cal.SetProductId(e.ProductID)
	}
	if name != "" {
		cal.SetName(name)
		cal.SetXWRCalName(name)
	}
	if e.Timezone != "" {
		cal.SetXWRTimezone(e.Timezone)
	}

	stamp := e.now().UTC()
	for i, ev := range events {
		if ev.UID == "" {
			return nil, fmt.Errorf("ics event %d has no uid", i)
		}
		if !ev.AllDay && !ev.End.After(ev.Start) {
			return nil, fmt.Errorf("ics event %s ends before it starts", ev.UID)
		}

		event := cal.AddEvent(ev.UID)
		event.SetDtStampTime(stamp)
		if ev.AllDay {
			event.SetAllDayStartAt(ev.Start)
			event.SetAllDayEndAt(ev.Start.AddDate(0, 0, 1))
		} else {
			event.SetStartAt(ev.Start)
			event.SetEndAt(ev.End)
		}
		event.SetSummary(ev.Summary)
		if ev.Description != "" {
			event.SetDescription(ev.Description)
		}
	}

	return []byte(cal.Serialize()), nil
}
