package clock

import "time"

// DisplayFormat selects how the current time is rendered.
type DisplayFormat int

const (
	// Format24Hour renders HH:MM:SS.
	Format24Hour DisplayFormat = iota
	// Format12Hour renders hh:MM:SS followed by AM or PM.
	Format12Hour
)

const (
	// Choice12Hour is the operator-facing name of the 12-hour format.
	Choice12Hour = "12-Hour"
	// Choice24Hour is the operator-facing name of the 24-hour format.
	Choice24Hour = "24-Hour"

	// TimeOfDayLayout is the layout used for alarm matching.
	TimeOfDayLayout = "15:04:05"
	// twelveHourLayout is the layout used by Format12Hour.
	twelveHourLayout = "03:04:05 PM"
)

// ParseDisplayFormat maps an operator choice to a DisplayFormat.
// Only "12-Hour" selects the 12-hour format; every other value,
// including garbage, falls back to 24-hour without an error.
func ParseDisplayFormat(choice string) DisplayFormat {
	if choice == Choice12Hour {
		return Format12Hour
	}

	return Format24Hour
}

// String returns the operator-facing name of the format.
func (f DisplayFormat) String() string {
	if f == Format12Hour {
		return Choice12Hour
	}

	return Choice24Hour
}

// Layout returns the time layout for the format.
func (f DisplayFormat) Layout() string {
	if f == Format12Hour {
		return twelveHourLayout
	}

	return TimeOfDayLayout
}

// Clock renders the current instant in the selected display format.
// It is not safe for concurrent use; the application shell owns it.
type Clock struct {
	// now is the time source, time.Now in production.
	now func() time.Time
	// format is the active display format.
	format DisplayFormat
}

// New creates a clock reading from now. A nil now falls back to time.Now.
func New(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}

	return &Clock{
		now:    now,
		format: Format24Hour,
	}
}

// Now returns the current instant.
func (c *Clock) Now() time.Time {
	return c.now()
}

// CurrentTime formats the current instant per the display format.
func (c *Clock) CurrentTime() string {
	return c.Format(c.now())
}

// Format renders t per the display format.
func (c *Clock) Format(t time.Time) string {
	return t.Format(c.format.Layout())
}

// TimeOfDay returns the current instant as HH:MM:SS regardless of display format.
func (c *Clock) TimeOfDay() string {
	return c.now().Format(TimeOfDayLayout)
}

// SetDisplayFormat switches the display format from an operator choice.
func (c *Clock) SetDisplayFormat(choice string) {
	c.format = ParseDisplayFormat(choice)
}

// DisplayFormat returns the active display format.
func (c *Clock) DisplayFormat() DisplayFormat {
	return c.format
}
