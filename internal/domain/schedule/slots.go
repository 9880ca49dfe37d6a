package schedule

import "time"

const (
	// SlotDuration is the fixed bookable increment.
	SlotDuration = 30 * time.Minute

	slotMinutes = 30

	// The 12:30-13:00 window is a fixed lunch break: morning slots start
	// strictly before 12:30, afternoon slots start at 13:00 or later.
	morningCutoffMinutes  = 12*60 + 30
	afternoonStartMinutes = 13 * 60
)

// WorkingHours bounds slot generation for one date.
type WorkingHours struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Interval is a committed booking, half-open: [Start, End).
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

type Slot struct {
	Start     TimeOfDay
	Available bool
}

// DayGrid is the display-ready slot grid, one bucket per half of the day,
// each ordered ascending by start time. Unavailable slots are kept so the
// consuming UI can render them disabled.
type DayGrid struct {
	Morning   []Slot
	Afternoon []Slot
}

// BuildDayGrid derives the 30-minute slot grid from the working window and
// the committed bookings. Pure: safe for concurrent use.
//
// A candidate slot [s, s+30) is unavailable iff it overlaps any booking
// [bStart, bEnd) under half-open semantics: s < bEnd && s+30 > bStart.
// Bookings that do not align to the 30-minute raster still knock out every
// candidate they touch.
func BuildDayGrid(wh WorkingHours, booked []Interval) DayGrid {
	grid := DayGrid{
		Morning:   []Slot{},
		Afternoon: []Slot{},
	}

	for s := wh.Start.Minutes(); s < wh.End.Minutes(); s += slotMinutes {
		if s >= morningCutoffMinutes && s < afternoonStartMinutes {
			continue // lunch break
		}

		slot := Slot{
			Start:     TimeOfDay{minutes: s},
			Available: !overlapsAny(s, booked),
		}

		if s < morningCutoffMinutes {
			grid.Morning = append(grid.Morning, slot)
		} else {
			grid.Afternoon = append(grid.Afternoon, slot)
		}
	}

	return grid
}

func overlapsAny(slotStart int, booked []Interval) bool {
	slotEnd := slotStart + slotMinutes
	for _, b := range booked {
		if slotStart < b.End.Minutes() && slotEnd > b.Start.Minutes() {
			return true
		}
	}
	return false
}

// IsBookableStart reports whether start is a valid slot start within the
// working window: on the 30-minute raster, outside the lunch break, and with
// the full slot fitting before the end of the window.
func (wh WorkingHours) IsBookableStart(start TimeOfDay) bool {
	s := start.Minutes()
	if s%slotMinutes != 0 {
		return false
	}
	if s < wh.Start.Minutes() || s+slotMinutes > wh.End.Minutes() {
		return false
	}
	if s >= morningCutoffMinutes && s < afternoonStartMinutes {
		return false
	}
	return true
}
