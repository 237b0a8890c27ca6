package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/domain/clock"
	"github.com/oshokin/alarm-clock/internal/service/shell"
)

// eventMsg wraps a shell event delivered from the scheduler thread.
type eventMsg shell.Event

// clockLoadedMsg carries the initial clock state.
type clockLoadedMsg struct {
	display string
	format  clock.DisplayFormat
	alarms  []*alarm.Alarm
}

// alarmsMsg carries a fresh alarm list.
type alarmsMsg []*alarm.Alarm

// formatMsg reports the active display format after a switch.
type formatMsg clock.DisplayFormat

// snoozedMsg reports the outcome of a snooze.
type snoozedMsg shell.SnoozeResult

// savedMsg is sent after the form was stored.
type savedMsg struct {
	alarm *alarm.Alarm
	added bool
}

// timerMsg carries a countdown update from the panel's session.
type timerMsg struct {
	panel  *timerPanel
	update shell.TimerUpdate
}

// stopwatchMsg carries a stopwatch snapshot from the panel's session.
type stopwatchMsg struct {
	panel    *stopwatchPanel
	snapshot shell.StopwatchSnapshot
}

// errMsg reports a failed shell call.
type errMsg struct{ err error }

// sender delivers messages into the running program.
type sender func(tea.Msg)

// bridge forwards shell events to the program.
type bridge struct {
	send sender
}

// Notify implements shell.Observer.
func (b bridge) Notify(e shell.Event) {
	b.send(eventMsg(e))
}
