// Package stopwatch implements an elapsed-time accumulator with laps.
package stopwatch

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotRunning is returned when recording a lap on a stopped stopwatch.
var ErrNotRunning = errors.New("stopwatch is not running")

// Lap is one row of the lap list.
type Lap struct {
	// Number is 1-based in chronological order.
	Number int
	// Split is the time since the previous lap boundary.
	Split time.Duration
	// Total is the elapsed time at this boundary.
	Total time.Duration
}

// Stopwatch accumulates elapsed time across pause and resume.
type Stopwatch struct {
	now         func() time.Time
	startEpoch  time.Time
	accumulated time.Duration
	running     bool
	// boundaries holds lap offsets from start in chronological order.
	boundaries []time.Duration
}

// New creates a stopwatch reading from now. A nil now falls back to time.Now.
func New(now func() time.Time) *Stopwatch {
	if now == nil {
		now = time.Now
	}

	return &Stopwatch{now: now}
}

// Start begins or resumes timing. It is a no-op while running.
func (s *Stopwatch) Start() {
	if s.running {
		return
	}

	s.startEpoch = s.now().Add(-s.accumulated)
	s.running = true
}

// Pause freezes the elapsed time. It is a no-op while stopped.
func (s *Stopwatch) Pause() {
	if !s.running {
		return
	}

	s.accumulated = s.now().Sub(s.startEpoch)
	s.running = false
}

// Reset zeroes the elapsed time and clears laps.
func (s *Stopwatch) Reset() {
	s.running = false
	s.accumulated = 0
	s.startEpoch = time.Time{}
	s.boundaries = nil
}

// Lap records a boundary at the current elapsed time.
func (s *Stopwatch) Lap() (Lap, error) {
	if !s.running {
		return Lap{}, ErrNotRunning
	}

	total := s.now().Sub(s.startEpoch)

	var previous time.Duration
	if n := len(s.boundaries); n > 0 {
		previous = s.boundaries[n-1]
	}

	s.boundaries = append(s.boundaries, total)

	return Lap{
		Number: len(s.boundaries),
		Split:  total - previous,
		Total:  total,
	}, nil
}

// Elapsed returns the accumulated time plus the current run.
func (s *Stopwatch) Elapsed() time.Duration {
	if !s.running {
		return s.accumulated
	}

	return s.now().Sub(s.startEpoch)
}

// Running reports whether the stopwatch is timing.
func (s *Stopwatch) Running() bool {
	return s.running
}

// Laps returns recorded laps, most recent first.
func (s *Stopwatch) Laps() []Lap {
	laps := make([]Lap, len(s.boundaries))

	var previous time.Duration

	for i, boundary := range s.boundaries {
		laps[len(laps)-1-i] = Lap{
			Number: i + 1,
			Split:  boundary - previous,
			Total:  boundary,
		}
		previous = boundary
	}

	return laps
}

// FormatElapsed renders d as HH:MM:SS.mmm. Negative durations render as zero.
func FormatElapsed(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}

	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	seconds := (ms % 60000) / 1000
	millis := ms % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}
