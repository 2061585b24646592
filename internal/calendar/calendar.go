package calendar

import (
	"context"
	"time"
)

// RawEvent is an event as produced by a calendar source, before hour
// calibration.
type RawEvent struct {
	Title      string
	Start      time.Time
	End        time.Time
	AllDay     bool
	CalendarID string
}

// Event is a normalized calendar event: an inclusive starting/ending hour
// range for slot occupancy on a single day.
type Event struct {
	Title        string
	Day          time.Time
	AllDay       bool
	StartingHour int
	EndingHour   int
}

// Info describes one calendar known to a source.
type Info struct {
	ID   string
	Name string
}

// Source is the external calendar collaborator the schedule engine reads
// from. Implementations must filter out events from disabled calendars.
type Source interface {
	// HasPermission reports whether the source can deliver events at all.
	// A source without permission degrades to zero events, never an error.
	HasPermission() bool

	// ImportEvents returns the raw events overlapping the given day.
	ImportEvents(ctx context.Context, day time.Time) ([]RawEvent, error)

	// Calendars lists the calendars the source knows about.
	Calendars() []Info
}

// Normalize converts a raw event into its slot-hour range. The hour
// calibration policy is deliberate:
//
//   - start hour after the end's hour component: the event wraps past
//     midnight inside the day window, so the ending hour clamps to 23
//   - equal hour components: a single-hour event
//   - otherwise an end on the exact hour does not occupy its nominal end
//     hour, while any partial hour does
func Normalize(raw RawEvent) Event {
	startingHour := raw.Start.Hour()
	endHour := raw.End.Hour()

	var endingHour int
	switch {
	case startingHour > endHour:
		endingHour = 23
	case startingHour == endHour:
		endingHour = startingHour
	default:
		if raw.End.Minute() == 0 {
			endingHour = endHour - 1
		} else {
			endingHour = endHour
		}
	}

	return Event{
		Title:        raw.Title,
		Day:          raw.Start,
		AllDay:       raw.AllDay,
		StartingHour: startingHour,
		EndingHour:   endingHour,
	}
}
