package shell

import (
	"sync"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// EventKind tells observers what happened.
type EventKind int

const (
	// EventTick carries the refreshed display time.
	EventTick EventKind = iota
	// EventAlarmAdded is sent after an alarm joins the collection.
	EventAlarmAdded
	// EventAlarmUpdated is sent after an alarm was edited.
	EventAlarmUpdated
	// EventAlarmRemoved is sent after an alarm left the collection.
	EventAlarmRemoved
	// EventAlarmRinging is sent when an alarm starts ringing, first time or after a snooze.
	EventAlarmRinging
	// EventAlarmSnoozed is sent after a granted snooze.
	EventAlarmSnoozed
	// EventSnoozesExhausted is the operator notice for a snooze with none left.
	EventSnoozesExhausted
)

// String returns a short name for logs.
func (k EventKind) String() string {
	switch k {
	case EventTick:
		return "tick"
	case EventAlarmAdded:
		return "alarm_added"
	case EventAlarmUpdated:
		return "alarm_updated"
	case EventAlarmRemoved:
		return "alarm_removed"
	case EventAlarmRinging:
		return "alarm_ringing"
	case EventAlarmSnoozed:
		return "alarm_snoozed"
	case EventSnoozesExhausted:
		return "snoozes_exhausted"
	default:
		return "unknown"
	}
}

// Event is a change notification.
type Event struct {
	// Kind is what happened.
	Kind EventKind
	// Display is the formatted current time, set on every event.
	Display string
	// Alarm is a snapshot of the affected alarm, nil for ticks.
	Alarm *domain.Alarm
}

// Observer receives events on the scheduler thread.
// Implementations must return quickly and must not call back into the Shell.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Notify implements Observer.
func (f ObserverFunc) Notify(e Event) {
	f(e)
}

// observers is a registry safe for use from any goroutine.
type observers struct {
	mu   sync.Mutex
	next int
	set  map[int]Observer
}

func (o *observers) add(obs Observer) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.set == nil {
		o.set = make(map[int]Observer)
	}

	id := o.next
	o.next++
	o.set[id] = obs

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()

		delete(o.set, id)
	}
}

// snapshot returns observers in subscription order.
func (o *observers) snapshot() []Observer {
	o.mu.Lock()
	defer o.mu.Unlock()

	result := make([]Observer, 0, len(o.set))

	for id := range o.next {
		if obs, ok := o.set[id]; ok {
			result = append(result, obs)
		}
	}

	return result
}
