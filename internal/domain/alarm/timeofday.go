package alarm

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	hoursPerDay      = 24
	minutesPerHour   = 60
	secondsPerMinute = 60
)

// TimeOfDay is a wall-clock time without a date, second precision.
type TimeOfDay struct {
	// Hour is in [0, 24).
	Hour int
	// Minute is in [0, 60).
	Minute int
	// Second is in [0, 60).
	Second int
}

// ParseTimeOfDay parses HH:MM:SS or HH:MM (seconds default to 00).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, newValidationError("time", s, "expected HH:MM or HH:MM:SS")
	}

	values := make([]int, 3)

	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return TimeOfDay{}, newValidationError("time", s, "not a number")
		}

		values[i] = v
	}

	t := TimeOfDay{
		Hour:   values[0],
		Minute: values[1],
		Second: values[2],
	}

	if err := t.Validate(); err != nil {
		return TimeOfDay{}, err
	}

	return t, nil
}

// MustParseTimeOfDay is like ParseTimeOfDay but panics on error.
// Intended for constants and tests.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}

	return t
}

// Validate reports whether all fields are within range.
func (t TimeOfDay) Validate() error {
	switch {
	case t.Hour < 0 || t.Hour >= hoursPerDay:
		return newValidationError("time", t.String(), "hour must be in [0,24)")
	case t.Minute < 0 || t.Minute >= minutesPerHour:
		return newValidationError("time", t.String(), "minute must be in [0,60)")
	case t.Second < 0 || t.Second >= secondsPerMinute:
		return newValidationError("time", t.String(), "second must be in [0,60)")
	default:
		return nil
	}
}

// String renders HH:MM:SS.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// AddMinutes returns the time of day n minutes later on the hour/minute grid.
// The second is reset to 00, minute overflow carries into the hour and the
// hour wraps modulo 24, so 23:45 plus 20 minutes is 00:05:00.
func (t TimeOfDay) AddMinutes(n int) TimeOfDay {
	total := (t.Hour*minutesPerHour + t.Minute + n) % (hoursPerDay * minutesPerHour)
	if total < 0 {
		total += hoursPerDay * minutesPerHour
	}

	return TimeOfDay{
		Hour:   total / minutesPerHour,
		Minute: total % minutesPerHour,
	}
}
