package timer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotANumber is returned when a duration field is not an integer.
var ErrNotANumber = errors.New("minutes and seconds must be whole numbers")

// ParseFields converts the minutes and seconds inputs. Empty fields count as zero.
func ParseFields(minutes, seconds string) (int, int, error) {
	m, err := parseField(minutes)
	if err != nil {
		return 0, 0, err
	}

	s, err := parseField(seconds)
	if err != nil {
		return 0, 0, err
	}

	if m > MaxField || s > MaxField || m < 0 || s < 0 {
		return 0, 0, ErrDurationRange
	}

	return m, s, nil
}

// ParseDuration reads MM:SS, or a bare number of seconds.
func ParseDuration(value string) (int, int, error) {
	minutes, seconds, found := strings.Cut(strings.TrimSpace(value), ":")
	if !found {
		return ParseFields("", minutes)
	}

	return ParseFields(minutes, seconds)
}

func parseField(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, raw)
	}

	return v, nil
}
