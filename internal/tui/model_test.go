package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/domain/clock"
	"github.com/oshokin/alarm-clock/internal/domain/timer"
	"github.com/oshokin/alarm-clock/internal/schedule"
	"github.com/oshokin/alarm-clock/internal/service/shell"
)

// harness drives a model synchronously against a manual scheduler.
type harness struct {
	t     *testing.T
	sched *schedule.Manual
	shell *shell.Shell
	model *Model
	inbox []tea.Msg
	quit  bool
}

func newHarness(t *testing.T, at string, opts Options) *harness {
	t.Helper()

	start, err := time.Parse(time.DateTime, "2026-03-14 "+at)
	require.NoError(t, err)

	h := &harness{t: t, sched: schedule.NewManual(start)}

	h.shell, err = shell.New(context.Background(), shell.Options{Scheduler: h.sched})
	require.NoError(t, err)

	h.model = NewModel(context.Background(), h.shell, NewStyles(config.Default().Theme), opts)
	h.model.SetSender(func(msg tea.Msg) { h.inbox = append(h.inbox, msg) })

	unsubscribe := h.shell.Subscribe(h.model.Observer())
	t.Cleanup(unsubscribe)

	require.NoError(t, h.shell.Start(context.Background()))

	h.run(h.model.Init())

	return h
}

// run executes cmd and feeds every resulting message back into the model.
func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		h.drain()

		return
	}

	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			h.run(c)
		}
	case tea.QuitMsg:
		h.quit = true
	default:
		h.update(msg)
	}

	h.drain()
}

func (h *harness) update(msg tea.Msg) {
	_, cmd := h.model.Update(msg)
	h.run(cmd)
}

// drain delivers messages sent from the scheduler thread.
func (h *harness) drain() {
	for len(h.inbox) > 0 {
		msg := h.inbox[0]
		h.inbox = h.inbox[1:]
		h.update(msg)
	}
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg

		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}

		h.update(msg)
	}
}

// typeText enters characters one by one.
func (h *harness) typeText(s string) {
	for _, r := range s {
		h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) advance(d time.Duration) {
	h.sched.Advance(d)
	h.drain()
}

func (h *harness) addAlarm(at string, interval, maxSnoozes int) *alarm.Alarm {
	h.t.Helper()

	a, err := h.shell.AddAlarm(context.Background(), alarm.Spec{
		Time:           alarm.MustParseTimeOfDay(at),
		SnoozeInterval: interval,
		MaxSnoozes:     maxSnoozes,
	})
	require.NoError(h.t, err)

	h.drain()

	return a
}

// TestModel_AddAlarmThroughForm creates an alarm from typed input.
func TestModel_AddAlarmThroughForm(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "06:59:58", Options{})
	require.Equal(t, ModeClock, h.model.mode)
	require.Contains(t, h.model.View(), "No alarms")

	h.press("a")
	require.Equal(t, ModeForm, h.model.mode)

	h.typeText("07:00")
	h.press("tab", "tab")
	h.typeText("5")
	h.press("enter")

	require.Equal(t, ModeClock, h.model.mode)
	require.Len(t, h.model.alarms, 1)
	require.Equal(t, "07:00:00", h.model.alarms[0].ScheduledTime.String())
	require.Equal(t, 5, h.model.alarms[0].SnoozeInterval)
	require.Equal(t, "Alarm set for 07:00:00", h.model.notice)
}

// TestModel_FormValidation keeps the form open on malformed input.
func TestModel_FormValidation(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "06:00:00", Options{})

	h.press("a")
	h.typeText("25:00")
	h.press("enter")

	require.Equal(t, ModeForm, h.model.mode)
	require.Error(t, h.model.form.err)
	require.True(t, alarm.IsValidation(h.model.form.err))

	alarms, err := h.shell.Alarms(context.Background())
	require.NoError(t, err)
	require.Empty(t, alarms)

	h.press("esc")
	require.Equal(t, ModeClock, h.model.mode)
	require.Nil(t, h.model.form)
}

// TestModel_EditSelected prefills the form and saves changes.
func TestModel_EditSelected(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "06:00:00", Options{})
	h.addAlarm("07:00", 1, 1)
	h.addAlarm("08:00", 1, 1)

	h.press("j", "e")
	require.Equal(t, ModeForm, h.model.mode)
	require.Equal(t, "08:00:00", h.model.form.inputs[fieldTime].Value())

	h.model.form.inputs[fieldTime].SetValue("09:30")
	h.press("enter")

	require.Equal(t, ModeClock, h.model.mode)
	require.Equal(t, "09:30:00", h.model.alarms[1].ScheduledTime.String())
	require.Equal(t, "Alarm updated for 09:30:00", h.model.notice)
}

// TestModel_DeleteSelected removes the highlighted alarm.
func TestModel_DeleteSelected(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "06:00:00", Options{})
	first := h.addAlarm("07:00", 1, 1)
	h.addAlarm("08:00", 1, 1)

	h.press("j", "d")

	require.Len(t, h.model.alarms, 1)
	require.Equal(t, first.ID, h.model.alarms[0].ID)
	require.Equal(t, 0, h.model.cursor)
}

// TestModel_RingSnoozeExhaust walks the ringing prompt until snoozes run out.
func TestModel_RingSnoozeExhaust(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "06:59:58", Options{})
	h.addAlarm("07:00", 1, 1)

	h.advance(2 * time.Second)
	require.NotNil(t, h.model.ringing())
	require.Contains(t, h.model.View(), "is ringing")
	require.Contains(t, h.model.View(), "(1 left)")

	h.press("s")
	require.Nil(t, h.model.ringing())
	require.Equal(t, "Snoozed until 07:01:00, 0 snooze(s) remaining", h.model.notice)
	require.Equal(t, alarm.StateSnoozing, h.model.alarms[0].State)

	h.advance(time.Minute)
	require.NotNil(t, h.model.ringing())

	h.press("s")
	require.Equal(t, "No more snoozes remaining", h.model.notice)
	require.True(t, h.model.alert)
	require.Empty(t, h.model.alarms)
}

// TestModel_StopRinging removes a ringing alarm from any view.
func TestModel_StopRinging(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "06:59:59", Options{})
	h.addAlarm("07:00", 1, 3)

	h.press("t")
	require.Equal(t, ModeTimer, h.model.mode)

	h.advance(time.Second)
	require.NotNil(t, h.model.ringing())

	h.press("x")
	require.Nil(t, h.model.ringing())
	require.Empty(t, h.model.alarms)
}

// TestModel_ToggleFormat switches between 24-hour and 12-hour displays.
func TestModel_ToggleFormat(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "15:04:05", Options{})
	require.Equal(t, "15:04:05", h.model.display)

	h.press("f")
	require.Equal(t, clock.Format12Hour, h.model.format)
	require.Equal(t, "03:04:05 PM", h.model.display)

	h.press("f")
	require.Equal(t, clock.Format24Hour, h.model.format)
	require.Equal(t, "15:04:05", h.model.display)
}

// TestModel_TimerPreset starts a countdown from options and reports completion.
func TestModel_TimerPreset(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "10:00:00", Options{Mode: ModeTimer, TimerPreset: "00:03"})
	require.Equal(t, ModeTimer, h.model.mode)
	require.Equal(t, timer.StateRunning, h.model.timer.last.State)
	require.Equal(t, "00:03", h.model.timer.last.Display)

	h.press("p")
	require.Equal(t, timer.StatePaused, h.model.timer.last.State)

	h.advance(5 * time.Second)
	require.Equal(t, "00:03", h.model.timer.last.Display)

	h.press("p")
	h.advance(3 * time.Second)

	require.True(t, h.model.timer.done)
	require.Contains(t, h.model.View(), "Time's up!")
	require.Equal(t, timer.StateStopped, h.model.timer.last.State)
}

// TestModel_TimerRejectsZero shows the zero-duration error.
func TestModel_TimerRejectsZero(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "10:00:00", Options{})

	h.press("t", "enter")
	require.ErrorIs(t, h.model.timer.err, timer.ErrZeroDuration)

	h.typeText("1")
	h.press("tab")
	h.typeText("x")
	h.press("enter")
	require.ErrorIs(t, h.model.timer.err, timer.ErrNotANumber)
}

// TestModel_Stopwatch records laps and pauses.
func TestModel_Stopwatch(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "10:00:00", Options{})

	h.press("w", " ")
	require.Equal(t, ModeStopwatch, h.model.mode)

	h.advance(1500 * time.Millisecond)
	require.True(t, h.model.stopwatch.last.Running)

	h.press("l")
	require.Len(t, h.model.stopwatch.last.Laps, 1)
	require.Equal(t, 1500*time.Millisecond, h.model.stopwatch.last.Laps[0].Split)

	h.press(" ")
	require.False(t, h.model.stopwatch.last.Running)
	require.Contains(t, h.model.View(), "00:00:01.500")

	h.press("esc", "q")
	require.Equal(t, ModeClock, h.model.mode)
	require.True(t, h.quit)
}

// TestModel_TimerHaltsWhenViewCloses discards the countdown on esc.
func TestModel_TimerHaltsWhenViewCloses(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "10:00:00", Options{Mode: ModeTimer, TimerPreset: "00:10"})
	require.Equal(t, timer.StateRunning, h.model.timer.last.State)

	h.press("esc")
	require.Equal(t, ModeClock, h.model.mode)
	require.Nil(t, h.model.timer)
	// Only the clock tick is left.
	require.Equal(t, 1, h.sched.Pending())

	h.advance(4 * time.Second)

	h.press("t")
	require.Equal(t, ModeTimer, h.model.mode)
	require.Equal(t, "00:00", h.model.timer.last.Display)
	require.Equal(t, timer.StateStopped, h.model.timer.last.State)
	require.Equal(t, 1, h.sched.Pending())
}

// TestModel_StopwatchResetsWhenViewCloses opens a fresh stopwatch each time.
func TestModel_StopwatchResetsWhenViewCloses(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "10:00:00", Options{Mode: ModeStopwatch})

	h.press(" ")
	h.advance(2 * time.Second)
	h.press("l")
	require.Len(t, h.model.stopwatch.last.Laps, 1)

	h.press("esc")
	require.Nil(t, h.model.stopwatch)
	require.Equal(t, 1, h.sched.Pending())

	h.press("w")
	require.Equal(t, ModeStopwatch, h.model.mode)
	require.False(t, h.model.stopwatch.last.Running)
	require.Empty(t, h.model.stopwatch.last.Laps)
	require.Equal(t, "00:00:00.000", h.model.stopwatch.last.Display)
}
