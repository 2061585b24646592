package grid

import "fmt"

// Subdivision identifies one of the four 15-minute divisions of an hour.
type Subdivision int

const (
	OClock Subdivision = iota
	Quarter
	Half
	QuarterTo
)

const (
	// HoursPerDay is the number of addressable hours in a day grid.
	HoursPerDay = 24
	// SubdivisionsPerHour is the number of slots inside one hour.
	SubdivisionsPerHour = 4
	// SlotsPerDay is the total slot count of the dense today grid.
	SlotsPerDay = HoursPerDay * SubdivisionsPerHour
)

// Minute returns the minute value of the subdivision (0, 15, 30 or 45).
func (s Subdivision) Minute() int {
	return int(s) * 15
}

// suffix is the display fragment contributed by the subdivision. The
// on-the-hour slot contributes nothing.
func (s Subdivision) suffix() string {
	switch s {
	case Quarter:
		return ":15"
	case Half:
		return ":30"
	case QuarterTo:
		return ":45"
	default:
		return ""
	}
}

// Valid reports whether s is one of the four defined subdivisions.
func (s Subdivision) Valid() bool {
	return s >= OClock && s <= QuarterTo
}

// FromMinute maps a minute value to its subdivision. Only the exact
// quarter-hour values 0/15/30/45 are addressable.
func FromMinute(minute int) (Subdivision, bool) {
	switch minute {
	case 0:
		return OClock, true
	case 15:
		return Quarter, true
	case 30:
		return Half, true
	case 45:
		return QuarterTo, true
	default:
		return OClock, false
	}
}

// SlotIndex maps (hour, subdivision) to the index of the slot in the dense
// today grid. The mapping is a bijection onto [0, SlotsPerDay).
func SlotIndex(hour int, sub Subdivision) int {
	return hour*SubdivisionsPerHour + int(sub)
}

// FormattedTime renders a slot position on the 12-hour clock, e.g.
// "12AM", "1:15PM", "12PM". Hour 0 is midnight, hour 12 is noon.
func FormattedTime(hour int, sub Subdivision) string {
	switch {
	case hour == 0:
		return fmt.Sprintf("12%sAM", sub.suffix())
	case hour < 12:
		return fmt.Sprintf("%d%sAM", hour, sub.suffix())
	case hour == 12:
		return fmt.Sprintf("12%sPM", sub.suffix())
	default:
		return fmt.Sprintf("%d%sPM", hour-12, sub.suffix())
	}
}
