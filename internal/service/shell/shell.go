package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/alarm-clock/internal/audio"
	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/domain/clock"
	"github.com/oshokin/alarm-clock/internal/logger"
	repo "github.com/oshokin/alarm-clock/internal/repository/alarms"
	"github.com/oshokin/alarm-clock/internal/schedule"
)

// Options wires the shell's collaborators.
type Options struct {
	// Scheduler runs every callback; required.
	Scheduler schedule.Scheduler
	// Player plays tunes; nil means silence.
	Player audio.Player
	// Repository persists alarm definitions; nil keeps them in memory only.
	Repository repo.Repository
	// TickInterval is the clock refresh period; zero means config.DefaultTickInterval.
	TickInterval time.Duration
	// DisplayFormat is the initial format choice.
	DisplayFormat string
	// DefaultTune is used for alarms added without a tune.
	DefaultTune string
	// TimerTune is played when a countdown completes.
	TimerTune string
	// NewID generates alarm IDs; nil means random UUIDs.
	NewID func() string
}

// ErrNoScheduler is returned when Options.Scheduler is nil.
var ErrNoScheduler = errors.New("scheduler is required")

// Shell owns the clock, the alarms and the periodic tick.
type Shell struct {
	// ctx carries the named logger used from scheduled callbacks.
	ctx context.Context //nolint:containedctx // Callbacks fire outside any caller's context.

	sched  schedule.Scheduler
	player audio.Player
	repo   repo.Repository

	tickInterval time.Duration
	defaultTune  string
	timerTune    string
	newID        func() string

	clock *clock.Clock
	// alarms is the ordered collection; only touched on the scheduler thread.
	alarms []*entry
	// tick is the periodic refresh handle, nil until Start.
	tick schedule.Handle

	observers observers
}

// New creates a shell and loads persisted alarms.
func New(ctx context.Context, opts Options) (*Shell, error) {
	if opts.Scheduler == nil {
		return nil, ErrNoScheduler
	}

	s := &Shell{
		ctx:          logger.WithName(ctx, "shell"),
		sched:        opts.Scheduler,
		player:       opts.Player,
		repo:         opts.Repository,
		tickInterval: opts.TickInterval,
		defaultTune:  opts.DefaultTune,
		timerTune:    opts.TimerTune,
		newID:        opts.NewID,
		clock:        clock.New(opts.Scheduler.Now),
	}

	if s.player == nil {
		s.player = audio.Nop{}
	}

	if s.tickInterval <= 0 {
		s.tickInterval = config.DefaultTickInterval
	}

	if s.newID == nil {
		s.newID = uuid.NewString
	}

	s.clock.SetDisplayFormat(opts.DisplayFormat)

	if s.repo == nil {
		return s, nil
	}

	loaded, err := s.repo.Load(ctx)
	switch {
	case err == nil:
		for _, a := range loaded {
			if a.ID == "" {
				a.ID = s.newID()
			}

			s.alarms = append(s.alarms, &entry{alarm: a})
		}

		logger.InfoKV(s.ctx, "Alarms loaded", "count", len(loaded))
	case errors.Is(err, repo.ErrNotFound):
		// Start with an empty collection.
	default:
		return nil, fmt.Errorf("load alarms: %w", err)
	}

	return s, nil
}

// Start arms the periodic tick. Calling Start twice is a no-op.
func (s *Shell) Start(ctx context.Context) error {
	return s.sched.Do(ctx, func() {
		if s.tick != nil {
			return
		}

		s.tick = s.sched.Every(s.tickInterval, s.onTick)
		logger.InfoKV(s.ctx, "Clock started", "tick_interval", s.tickInterval.String(), "format", s.clock.DisplayFormat().String())
	})
}

// Close cancels the tick and every pending snooze and silences all tunes.
func (s *Shell) Close(ctx context.Context) error {
	return s.sched.Do(ctx, func() {
		if s.tick != nil {
			s.tick.Cancel()
			s.tick = nil
		}

		for _, e := range s.alarms {
			e.cancelSnooze()
			e.silence()
		}

		logger.Info(s.ctx, "Clock stopped")
	})
}

// Subscribe registers an observer and returns a function that removes it.
func (s *Shell) Subscribe(o Observer) func() {
	return s.observers.add(o)
}

// CurrentTime returns the formatted current time.
func (s *Shell) CurrentTime(ctx context.Context) (string, error) {
	var display string

	err := s.sched.Do(ctx, func() {
		display = s.clock.CurrentTime()
	})

	return display, err
}

// DisplayFormat returns the active display format.
func (s *Shell) DisplayFormat(ctx context.Context) (clock.DisplayFormat, error) {
	var format clock.DisplayFormat

	err := s.sched.Do(ctx, func() {
		format = s.clock.DisplayFormat()
	})

	return format, err
}

// SetDisplayFormat switches the clock format. Unknown choices select 24-hour.
// Observers get an immediate tick so the display does not wait for the next second.
func (s *Shell) SetDisplayFormat(ctx context.Context, choice string) (clock.DisplayFormat, error) {
	var format clock.DisplayFormat

	err := s.sched.Do(ctx, func() {
		s.clock.SetDisplayFormat(choice)
		format = s.clock.DisplayFormat()

		logger.InfoKV(s.ctx, "Display format changed", "requested", choice, "format", format.String())
		s.emit(Event{Kind: EventTick})
	})

	return format, err
}

// onTick refreshes the display, then matches alarms, in that order.
func (s *Shell) onTick() {
	s.emit(Event{Kind: EventTick})

	now := s.clock.TimeOfDay()

	for _, e := range s.alarms {
		if e.alarm.Matches(now) {
			s.ring(e)
		}
	}
}

// emit stamps the event with the display time and fans it out.
func (s *Shell) emit(e Event) {
	e.Display = s.clock.CurrentTime()

	for _, o := range s.observers.snapshot() {
		o.Notify(e)
	}
}

// play starts a tune; failures are logged and swallowed.
func (s *Shell) play(ref string, loop bool) audio.Playback {
	if ref == "" {
		return nil
	}

	playback, err := s.player.Play(s.ctx, ref, loop)
	if err != nil {
		logger.WarnKV(s.ctx, "Unable to play tune", "tune", ref, "error", err)

		return nil
	}

	return playback
}
