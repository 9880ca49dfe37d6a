package schedule

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// TimeOfDay is a wall-clock time within a single day, minute resolution.
type TimeOfDay struct {
	minutes int // since midnight, 0..1439
}

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{minutes: hour*60 + minute}, nil
}

// ParseTimeOfDay parses "HH:MM" (24-hour).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{minutes: t.Hour()*60 + t.Minute()}, nil
}

func (t TimeOfDay) Hour() int    { return t.minutes / 60 }
func (t TimeOfDay) Minute() int  { return t.minutes % 60 }
func (t TimeOfDay) Minutes() int { return t.minutes }

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.minutes < other.minutes
}

func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return TimeOfDay{minutes: t.minutes + int(d.Minutes())}
}

// String renders "HH:MM", the wire format for slot times.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// DisplayLabel renders the label shown on slot buttons: "9 AM" on the hour,
// "9:30 AM" otherwise.
func (t TimeOfDay) DisplayLabel() string {
	ref := time.Date(0, time.January, 1, t.Hour(), t.Minute(), 0, 0, time.UTC)
	if t.Minute() == 0 {
		return ref.Format("3 PM")
	}
	return ref.Format("3:04 PM")
}
