package alarm

import (
	"strconv"
	"strings"
)

// State is the position of an alarm in its lifecycle.
type State int

const (
	// StateIdle means the alarm waits for its scheduled time.
	StateIdle State = iota
	// StateRinging means the tune is playing and the operator must stop or snooze.
	StateRinging
	// StateSnoozing means a deferred re-ring is pending.
	StateSnoozing
	// StateRemoved is terminal.
	StateRemoved
)

// String returns a lowercase name for logs and the API.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRinging:
		return "ringing"
	case StateSnoozing:
		return "snoozing"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Defaults used by the add-alarm flow when the operator leaves a field empty.
const (
	DefaultSnoozeInterval = 1
	DefaultMaxSnoozes     = 1
)

// Spec holds the operator-editable fields of an alarm.
type Spec struct {
	// Time is when the alarm rings.
	Time TimeOfDay
	// Tune references the audio cue, usually a file path.
	Tune string
	// SnoozeInterval is the snooze length in minutes, always positive.
	SnoozeInterval int
	// MaxSnoozes bounds how many times the alarm may be snoozed.
	MaxSnoozes int
}

// Validate checks the numeric bounds of the spec.
func (s Spec) Validate() error {
	if err := s.Time.Validate(); err != nil {
		return err
	}

	if s.SnoozeInterval <= 0 {
		return newValidationError("snooze interval", strconv.Itoa(s.SnoozeInterval), "must be a positive number of minutes")
	}

	if s.MaxSnoozes < 0 {
		return newValidationError("max snoozes", strconv.Itoa(s.MaxSnoozes), "must not be negative")
	}

	return nil
}

// ParseSpec builds a Spec from raw operator input.
// Empty snooze fields fall back to the defaults; anything that is not an
// integer yields a *ValidationError.
func ParseSpec(timeOfDay, tune, snoozeInterval, maxSnoozes string) (Spec, error) {
	t, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return Spec{}, err
	}

	interval, err := parseIntField("snooze interval", snoozeInterval, DefaultSnoozeInterval)
	if err != nil {
		return Spec{}, err
	}

	count, err := parseIntField("max snoozes", maxSnoozes, DefaultMaxSnoozes)
	if err != nil {
		return Spec{}, err
	}

	spec := Spec{
		Time:           t,
		Tune:           strings.TrimSpace(tune),
		SnoozeInterval: interval,
		MaxSnoozes:     count,
	}

	if err = spec.Validate(); err != nil {
		return Spec{}, err
	}

	return spec, nil
}

func parseIntField(field, raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, newValidationError(field, raw, "not an integer")
	}

	return v, nil
}

// Alarm is a scheduled wake event.
// It is owned by the application shell and is not safe for concurrent use.
type Alarm struct {
	// ID identifies the alarm within the collection.
	ID string
	// ScheduledTime is the next time of day the alarm matches.
	ScheduledTime TimeOfDay
	// SetTime is the time of day the operator chose. Snoozes move
	// ScheduledTime and leave SetTime alone.
	SetTime TimeOfDay
	// Tune references the audio cue.
	Tune string
	// SnoozeInterval is the snooze length in minutes.
	SnoozeInterval int
	// MaxSnoozes bounds SnoozeCount.
	MaxSnoozes int
	// SnoozeCount is how many snoozes have been consumed.
	SnoozeCount int
	// IsSnoozing is set between a snooze and the following re-ring.
	IsSnoozing bool
	// State is the lifecycle position.
	State State
}

// New creates an idle alarm from a validated spec.
func New(id string, spec Spec) (*Alarm, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	return &Alarm{
		ID:             id,
		ScheduledTime:  spec.Time,
		SetTime:        spec.Time,
		Tune:           spec.Tune,
		SnoozeInterval: spec.SnoozeInterval,
		MaxSnoozes:     spec.MaxSnoozes,
		State:          StateIdle,
	}, nil
}

// Spec returns the editable fields of the alarm as the operator set them.
func (a *Alarm) Spec() Spec {
	return Spec{
		Time:           a.SetTime,
		Tune:           a.Tune,
		SnoozeInterval: a.SnoozeInterval,
		MaxSnoozes:     a.MaxSnoozes,
	}
}

// SnoozesRemaining returns how many snoozes are still available.
func (a *Alarm) SnoozesRemaining() int {
	return a.MaxSnoozes - a.SnoozeCount
}

// Matches reports whether an idle alarm should ring at the given HH:MM:SS time of day.
// The comparison is exact string equality at second granularity.
func (a *Alarm) Matches(timeOfDay string) bool {
	return a.State == StateIdle && a.ScheduledTime.String() == timeOfDay
}

// Ring moves an idle alarm to ringing.
func (a *Alarm) Ring() error {
	switch a.State {
	case StateIdle:
		a.State = StateRinging

		return nil
	case StateRemoved:
		return ErrRemoved
	default:
		return ErrNotIdle
	}
}

// Snooze handles the operator's snooze on a ringing alarm.
// If snoozes remain it consumes one, moves ScheduledTime forward by the
// snooze interval and enters Snoozing, returning true. Otherwise the alarm
// is removed and false is returned.
func (a *Alarm) Snooze() (bool, error) {
	if err := a.requireRinging(); err != nil {
		return false, err
	}

	if a.SnoozeCount >= a.MaxSnoozes {
		a.State = StateRemoved
		a.IsSnoozing = false

		return false, nil
	}

	a.SnoozeCount++
	a.ScheduledTime = a.ScheduledTime.AddMinutes(a.SnoozeInterval)
	a.IsSnoozing = true
	a.State = StateSnoozing

	return true, nil
}

// Wake moves a snoozing alarm back to ringing and clears IsSnoozing.
// It returns false, leaving the alarm untouched, when the alarm is no
// longer snoozing (stopped, deleted or edited in the meantime).
func (a *Alarm) Wake() bool {
	if a.State != StateSnoozing {
		return false
	}

	a.IsSnoozing = false
	a.State = StateRinging

	return true
}

// Stop removes a ringing alarm.
func (a *Alarm) Stop() error {
	if err := a.requireRinging(); err != nil {
		return err
	}

	a.State = StateRemoved
	a.IsSnoozing = false

	return nil
}

// Remove marks the alarm as removed from any non-terminal state.
func (a *Alarm) Remove() {
	a.State = StateRemoved
	a.IsSnoozing = false
}

// Edit replaces the editable fields and rearms the alarm as idle with a fresh snooze budget.
func (a *Alarm) Edit(spec Spec) error {
	if a.State == StateRemoved {
		return ErrRemoved
	}

	if err := spec.Validate(); err != nil {
		return err
	}

	a.ScheduledTime = spec.Time
	a.SetTime = spec.Time
	a.Tune = spec.Tune
	a.SnoozeInterval = spec.SnoozeInterval
	a.MaxSnoozes = spec.MaxSnoozes
	a.SnoozeCount = 0
	a.IsSnoozing = false
	a.State = StateIdle

	return nil
}

// Clone returns a copy of the alarm to avoid leaking internal references.
func (a *Alarm) Clone() *Alarm {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

func (a *Alarm) requireRinging() error {
	switch a.State {
	case StateRinging:
		return nil
	case StateRemoved:
		return ErrRemoved
	default:
		return ErrNotRinging
	}
}
