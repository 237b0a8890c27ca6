package shell

import (
	"context"
	"time"

	"github.com/oshokin/alarm-clock/internal/domain/stopwatch"
	"github.com/oshokin/alarm-clock/internal/schedule"
)

// DefaultStopwatchRefresh is the sub-second display refresh period.
const DefaultStopwatchRefresh = 47 * time.Millisecond

// StopwatchSnapshot is a stopwatch state for display.
type StopwatchSnapshot struct {
	// Elapsed is the total elapsed time.
	Elapsed time.Duration
	// Display is Elapsed as HH:MM:SS.mmm.
	Display string
	// Running reports whether time is accumulating.
	Running bool
	// Laps are most recent first.
	Laps []stopwatch.Lap
}

// StopwatchSession is one stopwatch view.
type StopwatchSession struct {
	shell     *Shell
	watch     *stopwatch.Stopwatch
	refresh   time.Duration
	onRefresh func(StopwatchSnapshot)
	// ticker is the display refresh, nil while paused.
	ticker schedule.Handle
}

// NewStopwatch creates a fresh stopwatch using the scheduler's time source.
// While running, onRefresh (if set) receives a snapshot every refresh period
// on the scheduler thread; a zero refresh selects DefaultStopwatchRefresh.
func (s *Shell) NewStopwatch(refresh time.Duration, onRefresh func(StopwatchSnapshot)) *StopwatchSession {
	if refresh <= 0 {
		refresh = DefaultStopwatchRefresh
	}

	return &StopwatchSession{
		shell:     s,
		watch:     stopwatch.New(s.sched.Now),
		refresh:   refresh,
		onRefresh: onRefresh,
	}
}

// Start begins or resumes timing.
func (w *StopwatchSession) Start(ctx context.Context) error {
	return w.shell.sched.Do(ctx, func() {
		w.watch.Start()

		if w.ticker == nil && w.onRefresh != nil {
			w.ticker = w.shell.sched.Every(w.refresh, w.publish)
		}

		w.publish()
	})
}

// Pause freezes the elapsed time.
func (w *StopwatchSession) Pause(ctx context.Context) error {
	return w.shell.sched.Do(ctx, func() {
		w.watch.Pause()
		w.stopRefresh()
		w.publish()
	})
}

// Reset zeroes the elapsed time and clears laps.
func (w *StopwatchSession) Reset(ctx context.Context) error {
	return w.shell.sched.Do(ctx, func() {
		w.stopRefresh()
		w.watch.Reset()
		w.publish()
	})
}

// Lap records a lap; only permitted while running.
func (w *StopwatchSession) Lap(ctx context.Context) (stopwatch.Lap, error) {
	var lap stopwatch.Lap

	err := w.shell.do(ctx, func() error {
		var err error

		lap, err = w.watch.Lap()
		if err != nil {
			return err
		}

		w.publish()

		return nil
	})

	return lap, err
}

// Snapshot returns the current state.
func (w *StopwatchSession) Snapshot(ctx context.Context) (StopwatchSnapshot, error) {
	var snapshot StopwatchSnapshot

	err := w.shell.sched.Do(ctx, func() {
		snapshot = w.snapshot()
	})

	return snapshot, err
}

// Close stops the display refresh.
func (w *StopwatchSession) Close(ctx context.Context) error {
	return w.shell.sched.Do(ctx, func() {
		w.stopRefresh()
		w.watch.Pause()
	})
}

func (w *StopwatchSession) stopRefresh() {
	if w.ticker != nil {
		w.ticker.Cancel()
		w.ticker = nil
	}
}

func (w *StopwatchSession) snapshot() StopwatchSnapshot {
	elapsed := w.watch.Elapsed()

	return StopwatchSnapshot{
		Elapsed: elapsed,
		Display: stopwatch.FormatElapsed(elapsed),
		Running: w.watch.Running(),
		Laps:    w.watch.Laps(),
	}
}

func (w *StopwatchSession) publish() {
	if w.onRefresh != nil {
		w.onRefresh(w.snapshot())
	}
}
