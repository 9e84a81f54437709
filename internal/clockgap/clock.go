package clockgap

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// ClockTime is a time of day in minutes since midnight, in [0, 1440).
type ClockTime int

// NewClockTime builds a ClockTime, wrapping out-of-range values.
func NewClockTime(hour, minute int) ClockTime {
	m := (hour*60 + minute) % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return ClockTime(m)
}

// FromTime returns the local hour and minute of t.
func FromTime(t time.Time) ClockTime {
	return NewClockTime(t.Hour(), t.Minute())
}

// Parse reads an "HH:MM" value. Single-digit hours are accepted.
func Parse(s string) (ClockTime, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return NewClockTime(h, m), nil
}

// Hour returns the hour component.
func (c ClockTime) Hour() int { return int(c) / 60 }

// Minute returns the minute component.
func (c ClockTime) Minute() int { return int(c) % 60 }

// String formats as zero-padded HH:MM.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}
