package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

const productID = "-//sma-timetable-api//timetable//EN"

// CalendarEvent is one weekly recurring lesson.
type CalendarEvent struct {
	UID         string
	Summary     string
	Description string
	Day         string
	Period      int
}

// ICSExporter maps abstract (day, period) cells onto wall-clock time and renders iCalendar data.
type ICSExporter struct {
	dayStart time.Duration
	period   time.Duration
	location *time.Location
}

// NewICSExporter validates the clock mapping. dayStart uses the HH:MM layout.
func NewICSExporter(dayStart string, period time.Duration, timezone string) (*ICSExporter, error) {
	start, err := time.Parse("15:04", dayStart)
	if err != nil {
		return nil, fmt.Errorf("parse day start %q: %w", dayStart, err)
	}
	if period <= 0 {
		return nil, fmt.Errorf("period duration must be positive")
	}
	loc := time.UTC
	if timezone != "" {
		if loc, err = time.LoadLocation(timezone); err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
		}
	}
	offset := time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute
	return &ICSExporter{dayStart: offset, period: period, location: loc}, nil
}

// Window returns the first occurrence of a cell in the week containing ref.
func (e *ICSExporter) Window(ref time.Time, day string, period int) (time.Time, time.Time, error) {
	weekday, ok := weekdays[day]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("unknown day %q", day)
	}
	if period < 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("period must be positive")
	}
	local := ref.In(e.location)
	// weeks start on Monday
	day0 := local.Day() - (int(local.Weekday())+6)%7 + (int(weekday)+6)%7
	offset := e.dayStart + time.Duration(period-1)*e.period
	// offsets apply to the wall clock of the location
	start := e.wallClock(local.Year(), local.Month(), day0, offset)
	end := e.wallClock(local.Year(), local.Month(), day0, offset+e.period)
	return start, end, nil
}

func (e *ICSExporter) wallClock(year int, month time.Month, day int, offset time.Duration) time.Time {
	return time.Date(year, month, day, 0, 0, 0, int(offset), e.location)
}

// Render produces a VCALENDAR with one weekly VEVENT per lesson anchored on the week of ref.
func (e *ICSExporter) Render(name string, ref time.Time, events []CalendarEvent) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(name)

	stamp := ref.UTC()
	for _, item := range events {
		start, end, err := e.Window(ref, item.Day, item.Period)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", item.UID, err)
		}
		event := cal.AddEvent(item.UID)
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(item.Summary)
		if item.Description != "" {
			event.SetDescription(item.Description)
		}
		event.AddProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY")
	}
	return []byte(cal.Serialize()), nil
}

var weekdays = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}
