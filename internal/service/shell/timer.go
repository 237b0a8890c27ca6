package shell

import (
	"context"
	"errors"
	"time"

	"github.com/oshokin/alarm-clock/internal/audio"
	"github.com/oshokin/alarm-clock/internal/domain/timer"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/schedule"
)

// countdownStep is the countdown resolution.
const countdownStep = time.Second

// ErrSessionClosed is returned by sessions after Close.
var ErrSessionClosed = errors.New("session closed")

// TimerUpdate is a countdown snapshot for display.
type TimerUpdate struct {
	// Display is the remaining time as MM:SS.
	Display string
	// State is the countdown state after the update.
	State timer.State
	// Completed is set on the update that announces completion.
	Completed bool
}

// TimerSession is one countdown view. It is independent from every other
// session and from the alarms.
type TimerSession struct {
	shell     *Shell
	countdown *timer.Countdown
	onUpdate  func(TimerUpdate)
	// step is the pending one-second decrement, nil while not running.
	step     schedule.Handle
	playback audio.Playback
	closed   bool
}

// NewTimer creates a fresh countdown. onUpdate, if set, runs on the
// scheduler thread after every change and must return quickly.
func (s *Shell) NewTimer(onUpdate func(TimerUpdate)) *TimerSession {
	return &TimerSession{
		shell:     s,
		countdown: timer.NewCountdown(),
		onUpdate:  onUpdate,
	}
}

// Start begins counting down from minutes:seconds, or continues a paused countdown.
func (t *TimerSession) Start(ctx context.Context, minutes, seconds int) error {
	return t.shell.do(ctx, func() error {
		if t.closed {
			return ErrSessionClosed
		}

		if err := t.countdown.Start(minutes, seconds); err != nil {
			return err
		}

		t.arm()
		t.notify(false)

		return nil
	})
}

// Pause halts the countdown and keeps the remaining time.
func (t *TimerSession) Pause(ctx context.Context) error {
	return t.shell.do(ctx, func() error {
		if err := t.countdown.Pause(); err != nil {
			return err
		}

		t.disarm()
		t.notify(false)

		return nil
	})
}

// Resume continues a paused countdown.
func (t *TimerSession) Resume(ctx context.Context) error {
	return t.shell.do(ctx, func() error {
		if t.closed {
			return ErrSessionClosed
		}

		if err := t.countdown.Resume(); err != nil {
			return err
		}

		t.arm()
		t.notify(false)

		return nil
	})
}

// Reset stops the countdown and clears the remaining time.
func (t *TimerSession) Reset(ctx context.Context) error {
	return t.shell.do(ctx, func() error {
		t.disarm()
		t.silence()
		t.countdown.Reset()
		t.notify(false)

		return nil
	})
}

// Snapshot returns the current countdown state.
func (t *TimerSession) Snapshot(ctx context.Context) (TimerUpdate, error) {
	var update TimerUpdate

	err := t.shell.sched.Do(ctx, func() {
		update = t.update(false)
	})

	return update, err
}

// Close halts the countdown for good.
func (t *TimerSession) Close(ctx context.Context) error {
	return t.shell.sched.Do(ctx, func() {
		t.closed = true
		t.disarm()
		t.silence()
	})
}

// arm schedules the next decrement unless one is pending.
func (t *TimerSession) arm() {
	if t.step != nil {
		return
	}

	t.step = t.shell.sched.AfterFunc(countdownStep, t.onStep)
}

func (t *TimerSession) disarm() {
	if t.step != nil {
		t.step.Cancel()
		t.step = nil
	}
}

func (t *TimerSession) silence() {
	if t.playback != nil {
		t.playback.Stop()
		t.playback = nil
	}
}

// onStep is the one-second deferred action.
func (t *TimerSession) onStep() {
	t.step = nil

	if !t.countdown.Tick() {
		if t.countdown.State() == timer.StateRunning {
			t.arm()
		}

		t.notify(false)

		return
	}

	logger.InfoKV(t.shell.ctx, "Timer completed", "duration_seconds", t.countdown.Initial())

	t.silence()
	t.playback = t.shell.play(t.shell.timerTune, false)

	t.countdown.Reset()
	t.notify(true)
}

func (t *TimerSession) update(completed bool) TimerUpdate {
	return TimerUpdate{
		Display:   t.countdown.Display(),
		State:     t.countdown.State(),
		Completed: completed,
	}
}

func (t *TimerSession) notify(completed bool) {
	if t.onUpdate != nil {
		t.onUpdate(t.update(completed))
	}
}
