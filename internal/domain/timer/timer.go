// Package timer implements a one-shot countdown.
//
// Countdown is a pure state machine: something else calls Tick once per
// second while it is running.
package timer

import (
	"errors"
	"fmt"
)

// State is the lifecycle position of a countdown.
type State int

const (
	// StateStopped means the countdown is idle and its duration is editable.
	StateStopped State = iota
	// StateRunning means ticks decrement the remaining time.
	StateRunning
	// StatePaused means ticks are ignored and the remaining time is kept.
	StatePaused
	// StateCompleted is entered when remaining reaches zero; Reset returns to Stopped.
	StateCompleted
)

// String returns a lowercase name for display and logs.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// MaxField is the largest accepted value for the minutes and seconds inputs.
const MaxField = 59

var (
	// ErrZeroDuration is returned when starting with 0:00.
	ErrZeroDuration = errors.New("please set a duration greater than 0:00")
	// ErrDurationRange is returned when minutes or seconds are outside 0..59.
	ErrDurationRange = errors.New("minutes and seconds must be between 0 and 59")
	// ErrNotRunning is returned when pausing a countdown that is not running.
	ErrNotRunning = errors.New("timer is not running")
	// ErrNotPaused is returned when resuming a countdown that is not paused.
	ErrNotPaused = errors.New("timer is not paused")
)

// Countdown counts whole seconds down to zero.
type Countdown struct {
	initial   int
	remaining int
	state     State
}

// NewCountdown returns a stopped countdown.
func NewCountdown() *Countdown {
	return new(Countdown)
}

// Start begins counting from minutes:seconds.
// The requested duration only seeds the countdown when nothing remains, so
// starting a paused countdown continues from where it stopped.
func (c *Countdown) Start(minutes, seconds int) error {
	if minutes < 0 || minutes > MaxField || seconds < 0 || seconds > MaxField {
		return ErrDurationRange
	}

	if c.remaining == 0 {
		if minutes == 0 && seconds == 0 {
			return ErrZeroDuration
		}

		c.initial = minutes*60 + seconds
		c.remaining = c.initial
	}

	c.state = StateRunning

	return nil
}

// Pause halts decrementing and keeps the remaining time.
func (c *Countdown) Pause() error {
	if c.state != StateRunning {
		return ErrNotRunning
	}

	c.state = StatePaused

	return nil
}

// Resume continues from the preserved remaining time.
func (c *Countdown) Resume() error {
	if c.state != StatePaused {
		return ErrNotPaused
	}

	c.state = StateRunning

	return nil
}

// Reset stops the countdown and clears the remaining time.
func (c *Countdown) Reset() {
	c.remaining = 0
	c.initial = 0
	c.state = StateStopped
}

// Tick decrements a running countdown by one second.
// It returns true exactly once, on the tick that reaches zero.
func (c *Countdown) Tick() bool {
	if c.state != StateRunning {
		return false
	}

	c.remaining--
	if c.remaining > 0 {
		return false
	}

	c.remaining = 0
	c.state = StateCompleted

	return true
}

// State returns the lifecycle position.
func (c *Countdown) State() State {
	return c.state
}

// Remaining returns the remaining seconds.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Initial returns the duration the countdown was seeded with.
func (c *Countdown) Initial() int {
	return c.initial
}

// Editable reports whether the duration inputs may be changed.
func (c *Countdown) Editable() bool {
	return c.state == StateStopped
}

// Display renders the remaining time as MM:SS.
func (c *Countdown) Display() string {
	return FormatRemaining(c.remaining)
}

// FormatRemaining renders seconds as MM:SS.
func FormatRemaining(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
