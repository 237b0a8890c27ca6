package schedule

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// defaultQueueSize is the event queue capacity of a Loop.
const defaultQueueSize = 64

// Loop is a Scheduler backed by real time and one worker goroutine.
type Loop struct {
	// events carries callbacks to the worker.
	events chan func()
	// done is closed when Run returns.
	done chan struct{}
	// once guards closing done.
	once sync.Once
}

// NewLoop creates a loop. Callbacks queue up until Run is called.
func NewLoop() *Loop {
	return &Loop{
		events: make(chan func(), defaultQueueSize),
		done:   make(chan struct{}),
	}
}

// Run executes queued callbacks until ctx is cancelled.
// A loop cannot be restarted once Run has returned.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.events:
			fn()
		}
	}
}

// Done is closed after Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Now returns the wall-clock time.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// Do runs fn on the loop goroutine and waits for it.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})

	if !l.send(func() {
		defer close(finished)
		fn()
	}, ctx.Done()) {
		if err := ctx.Err(); err != nil {
			return err
		}

		return ErrStopped
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		// Run may have executed fn right before exiting.
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	}
}

// AfterFunc runs fn on the loop once after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Handle {
	task := new(loopTask)

	task.timer = time.AfterFunc(d, func() {
		l.send(func() {
			// Cancellation is re-checked here, on the loop goroutine,
			// so a callback queued before Cancel is still dropped.
			if task.claimed.CompareAndSwap(false, true) {
				fn()
			}
		}, nil)
	})

	return task
}

// Every runs fn on the loop every d until cancelled.
func (l *Loop) Every(d time.Duration, fn func()) Handle {
	task := &loopTicker{
		stop: make(chan struct{}),
	}

	ticker := time.NewTicker(d)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				l.send(func() {
					if !task.cancelled.Load() {
						fn()
					}
				}, task.stop)
			case <-task.stop:
				return
			case <-l.done:
				return
			}
		}
	}()

	return task
}

// send queues fn unless the loop is done or abort fires first.
func (l *Loop) send(fn func(), abort <-chan struct{}) bool {
	select {
	case l.events <- fn:
		return true
	case <-l.done:
		return false
	case <-abort:
		return false
	}
}

// loopTask is a one-shot Handle.
type loopTask struct {
	timer *time.Timer
	// claimed is set by whichever of Cancel or the callback gets there first.
	claimed atomic.Bool
}

// Cancel implements Handle.
func (t *loopTask) Cancel() bool {
	if !t.claimed.CompareAndSwap(false, true) {
		return false
	}

	t.timer.Stop()

	return true
}

// loopTicker is a periodic Handle.
type loopTicker struct {
	stop      chan struct{}
	cancelled atomic.Bool
}

// Cancel implements Handle.
func (t *loopTicker) Cancel() bool {
	if !t.cancelled.CompareAndSwap(false, true) {
		return false
	}

	close(t.stop)

	return true
}
