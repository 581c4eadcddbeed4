package schedule

import (
	"fmt"
)

// TimeOfDay is a minute-resolution wall-clock time within a single day,
// stored as minutes since midnight. The value 24:00 is allowed as an
// exclusive end-of-day bound.
type TimeOfDay int

// EndOfDay is the exclusive upper bound of a day's schedule window.
const EndOfDay TimeOfDay = 24 * 60

// ParseTimeOfDay parses an "HH:MM" string. "24:00" is accepted as the
// end-of-day bound; anything past it is rejected.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hours, minutes int
	if _, err := fmt.Sscanf(s, "%2d:%2d", &hours, &minutes); err != nil || len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time of day %q, expected HH:MM", s)
	}
	if minutes < 0 || minutes > 59 || hours < 0 || hours > 24 || (hours == 24 && minutes != 0) {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return TimeOfDay(hours*60 + minutes), nil
}

// MustTimeOfDay parses an "HH:MM" string and panics on failure. For use in
// tests and static schedules.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Before reports whether t is strictly earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool { return t < other }

// After reports whether t is strictly later than other.
func (t TimeOfDay) After(other TimeOfDay) bool { return t > other }

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int { return int(t) }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}
