package schedule

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Manual is a deterministic Scheduler whose time only moves on Advance.
// Callbacks run synchronously on the goroutine calling Advance or Do.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks []*manualTask
}

// NewManual creates a manual scheduler starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the manual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.now
}

// Do runs fn immediately.
func (m *Manual) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fn()

	return nil
}

// AfterFunc schedules fn at Now()+d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Handle {
	return m.add(d, 0, fn)
}

// Every schedules fn at every multiple of d from Now().
func (m *Manual) Every(d time.Duration, fn func()) Handle {
	return m.add(d, d, fn)
}

// Pending returns the number of scheduled, uncancelled callbacks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.tasks)
}

// Advance moves time forward by d, running every callback that falls due
// in order of due time, then scheduling order. Callbacks scheduled while
// advancing run too if they fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		task := m.popDue(target)
		if task == nil {
			break
		}

		task.fn()
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
}

// popDue removes or reschedules the earliest task due at or before target.
func (m *Manual) popDue(target time.Time) *manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.tasks) == 0 {
		return nil
	}

	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].due.Equal(m.tasks[j].due) {
			return m.tasks[i].seq < m.tasks[j].seq
		}

		return m.tasks[i].due.Before(m.tasks[j].due)
	})

	task := m.tasks[0]
	if task.due.After(target) {
		return nil
	}

	m.now = task.due

	if task.period > 0 {
		m.seq++
		task.due = task.due.Add(task.period)
		task.seq = m.seq
	} else {
		m.tasks = m.tasks[1:]
	}

	return task
}

func (m *Manual) add(d, period time.Duration, fn func()) *manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++

	task := &manualTask{
		owner:  m,
		due:    m.now.Add(d),
		period: period,
		seq:    m.seq,
		fn:     fn,
	}
	m.tasks = append(m.tasks, task)

	return task
}

func (m *Manual) remove(task *manualTask) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, t := range m.tasks {
		if t == task {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)

			return true
		}
	}

	return false
}

// manualTask is a Handle for Manual.
type manualTask struct {
	owner  *Manual
	due    time.Time
	period time.Duration
	seq    uint64
	fn     func()
}

// Cancel implements Handle.
func (t *manualTask) Cancel() bool {
	return t.owner.remove(t)
}
