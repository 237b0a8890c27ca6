package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/domain/clock"
	"github.com/oshokin/alarm-clock/internal/domain/timer"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/service/shell"
)

// Mode selects the visible view.
type Mode int

const (
	// ModeClock shows the time and the alarm list.
	ModeClock Mode = iota
	// ModeForm shows the add or edit form.
	ModeForm
	// ModeTimer shows the countdown.
	ModeTimer
	// ModeStopwatch shows the stopwatch.
	ModeStopwatch
)

// Options tune the initial state of the model.
type Options struct {
	// Mode is the first view shown.
	Mode Mode
	// TimerPreset prefills the countdown as MM:SS and starts it.
	TimerPreset string
	// DefaultTune is shown as the tune placeholder in the form.
	DefaultTune string
}

// Model is the root bubbletea model.
type Model struct {
	ctx   context.Context //nolint:containedctx // Shell calls run from tea commands.
	shell *shell.Shell
	send  sender
	opts  Options

	styles Styles
	keys   keyMap
	help   help.Model

	mode    Mode
	display string
	format  clock.DisplayFormat
	alarms  []*alarm.Alarm
	cursor  int
	notice  string
	alert   bool

	form      *alarmForm
	timer     *timerPanel
	stopwatch *stopwatchPanel
}

// NewModel creates the root model. SetSender must be called before the
// program starts so shell callbacks can reach it.
func NewModel(ctx context.Context, sh *shell.Shell, styles Styles, opts Options) *Model {
	return &Model{
		ctx:    logger.WithName(ctx, "tui"),
		shell:  sh,
		send:   func(tea.Msg) {},
		opts:   opts,
		styles: styles,
		keys:   defaultKeyMap(),
		help:   help.New(),
		mode:   ModeClock,
	}
}

// SetSender connects the model to a running program, typically Program.Send.
func (m *Model) SetSender(send func(tea.Msg)) {
	m.send = send
}

// Observer returns the shell observer feeding this model.
func (m *Model) Observer() shell.Observer {
	return bridge{send: func(msg tea.Msg) { m.send(msg) }}
}

// Close releases the timer and stopwatch sessions.
func (m *Model) Close(ctx context.Context) {
	if m.timer != nil {
		_ = m.timer.session.Close(ctx)
	}

	if m.stopwatch != nil {
		_ = m.stopwatch.session.Close(ctx)
	}
}

// Init loads the clock and opens the requested view.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadClock()}

	switch m.opts.Mode {
	case ModeTimer:
		cmds = append(cmds, m.openTimer())

		if m.opts.TimerPreset != "" {
			cmds = append(cmds, m.presetTimer(m.opts.TimerPreset))
		}
	case ModeStopwatch:
		m.openStopwatch()
	case ModeClock, ModeForm:
	}

	return tea.Batch(cmds...)
}

// Update handles one message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

		return m, nil
	case clockLoadedMsg:
		m.display = msg.display
		m.format = msg.format
		m.setAlarms(msg.alarms)

		return m, nil
	case eventMsg:
		return m, m.onEvent(shell.Event(msg))
	case alarmsMsg:
		m.setAlarms(msg)

		return m, nil
	case formatMsg:
		m.format = clock.DisplayFormat(msg)
		m.setNotice("Display format: "+m.format.String(), false)

		return m, nil
	case snoozedMsg:
		m.onSnoozed(shell.SnoozeResult(msg))

		return m, m.refreshAlarms()
	case savedMsg:
		m.mode = ModeClock
		m.form = nil

		verb := "updated"
		if msg.added {
			verb = "set"
		}

		m.setNotice(fmt.Sprintf("Alarm %s for %s", verb, msg.alarm.ScheduledTime), false)

		return m, m.refreshAlarms()
	case timerMsg:
		// Updates queued by a closed session are dropped.
		if msg.panel == m.timer {
			m.onTimer(msg.update)
		}

		return m, nil
	case stopwatchMsg:
		if msg.panel != nil && msg.panel == m.stopwatch {
			m.stopwatch.last = msg.snapshot
		}

		return m, nil
	case errMsg:
		m.onError(msg.err)

		return m, nil
	case tea.KeyMsg:
		return m, m.onKey(msg)
	}

	return m, m.forward(msg)
}

// View renders the active mode.
func (m *Model) View() string {
	var b strings.Builder

	switch m.mode {
	case ModeForm:
		b.WriteString(m.form.view(m.styles))
	case ModeTimer:
		b.WriteString(m.timer.view(m.styles))
	case ModeStopwatch:
		b.WriteString(m.stopwatch.view(m.styles))
	case ModeClock:
		b.WriteString(m.clockView())
	}

	if ringing := m.ringing(); ringing != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Alert.Render(ringPrompt(ringing)))
		b.WriteString("\n")
	}

	if m.notice != "" {
		style := m.styles.Notice
		if m.alert {
			style = m.styles.Alert
		}

		b.WriteString("\n")
		b.WriteString(style.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Panel.Render(m.help.ShortHelpView(m.bindings())))
	b.WriteString("\n")

	return b.String()
}

func (m *Model) clockView() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Alarm clock"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Clock.Render(m.display))
	b.WriteString("\n\n")

	if len(m.alarms) == 0 {
		b.WriteString(m.styles.Row.Render(m.styles.Muted.Render("No alarms. Press a to add one.")))
		b.WriteString("\n")

		return b.String()
	}

	for i, a := range m.alarms {
		line := fmt.Sprintf(
			"%s  %-8s  snooze %dm, %d/%d left",
			a.ScheduledTime,
			a.State,
			a.SnoozeInterval,
			a.SnoozesRemaining(),
			a.MaxSnoozes,
		)

		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(m.styles.Row.Render(line))
		}

		b.WriteString("\n")
	}

	return b.String()
}

func ringPrompt(a *alarm.Alarm) string {
	return fmt.Sprintf(
		"Alarm %s is ringing! s: snooze %d min (%d left), x: stop",
		a.ScheduledTime,
		a.SnoozeInterval,
		a.SnoozesRemaining(),
	)
}

// bindings returns the help entries of the active mode.
func (m *Model) bindings() []key.Binding {
	k := m.keys

	var result []key.Binding

	switch m.mode {
	case ModeForm:
		result = []key.Binding{k.Next, k.Prev, k.Submit, k.Back}
	case ModeTimer:
		result = []key.Binding{k.Start, k.Pause, k.Reset, k.Back}
	case ModeStopwatch:
		result = []key.Binding{k.Toggle, k.Lap, k.Reset, k.Back}
	case ModeClock:
		result = []key.Binding{k.Up, k.Down, k.Add, k.Edit, k.Delete, k.Format, k.Timer, k.Stopwatch, k.Quit}
	}

	if m.ringing() != nil && m.mode != ModeForm {
		result = append([]key.Binding{k.Snooze, k.Stop}, result...)
	}

	return result
}

// ringing returns the first ringing alarm, if any.
func (m *Model) ringing() *alarm.Alarm {
	for _, a := range m.alarms {
		if a.State == alarm.StateRinging {
			return a
		}
	}

	return nil
}

func (m *Model) selected() *alarm.Alarm {
	if m.cursor < 0 || m.cursor >= len(m.alarms) {
		return nil
	}

	return m.alarms[m.cursor]
}

func (m *Model) setAlarms(alarms []*alarm.Alarm) {
	m.alarms = alarms

	if m.cursor >= len(m.alarms) {
		m.cursor = len(m.alarms) - 1
	}

	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setNotice(text string, alert bool) {
	m.notice = text
	m.alert = alert
}

func (m *Model) onEvent(e shell.Event) tea.Cmd {
	m.display = e.Display

	switch e.Kind {
	case shell.EventTick:
		return nil
	case shell.EventAlarmRinging:
		m.setNotice("", false)
	case shell.EventSnoozesExhausted:
		m.setNotice("No more snoozes remaining", true)
	case shell.EventAlarmAdded, shell.EventAlarmUpdated, shell.EventAlarmRemoved, shell.EventAlarmSnoozed:
	}

	return m.refreshAlarms()
}

func (m *Model) onSnoozed(result shell.SnoozeResult) {
	if !result.Granted {
		// The exhausted notice arrives as an event.
		return
	}

	m.setNotice(fmt.Sprintf(
		"Snoozed until %s, %d snooze(s) remaining",
		result.Alarm.ScheduledTime,
		result.Alarm.SnoozesRemaining(),
	), false)
}

func (m *Model) onTimer(u shell.TimerUpdate) {
	if m.timer == nil {
		return
	}

	m.timer.last = u

	if u.Completed {
		m.timer.done = true
	}
}

func (m *Model) onError(err error) {
	switch {
	case m.mode == ModeForm && m.form != nil:
		m.form.err = err
	case m.mode == ModeTimer && m.timer != nil:
		m.timer.err = err
	case m.mode == ModeStopwatch && m.stopwatch != nil:
		m.stopwatch.err = err
	default:
		m.setNotice(err.Error(), true)
	}
}

// onKey routes keys: quit and the ringing prompt first, then the active mode.
func (m *Model) onKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	if ringing := m.ringing(); ringing != nil && m.mode != ModeForm {
		switch {
		case key.Matches(msg, m.keys.Snooze):
			return m.snooze(ringing.ID)
		case key.Matches(msg, m.keys.Stop):
			return m.stop(ringing.ID)
		}
	}

	switch m.mode {
	case ModeForm:
		return m.formKey(msg)
	case ModeTimer:
		return m.timerKey(msg)
	case ModeStopwatch:
		return m.stopwatchKey(msg)
	case ModeClock:
		return m.clockKey(msg)
	}

	return nil
}

func (m *Model) clockKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.alarms)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Add):
		m.form = newAlarmForm(nil, m.opts.DefaultTune)
		m.mode = ModeForm
	case key.Matches(msg, m.keys.Edit):
		if a := m.selected(); a != nil {
			m.form = newAlarmForm(a, m.opts.DefaultTune)
			m.mode = ModeForm
		}
	case key.Matches(msg, m.keys.Delete):
		if a := m.selected(); a != nil {
			return m.deleteAlarm(a.ID)
		}
	case key.Matches(msg, m.keys.Format):
		return m.toggleFormat()
	case key.Matches(msg, m.keys.Timer):
		return m.openTimer()
	case key.Matches(msg, m.keys.Stopwatch):
		m.openStopwatch()
	}

	return nil
}

func (m *Model) formKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.form = nil
		m.mode = ModeClock
	case key.Matches(msg, m.keys.Submit):
		return m.submitForm()
	case key.Matches(msg, m.keys.Next):
		m.form.move(1)
	case key.Matches(msg, m.keys.Prev):
		m.form.move(-1)
	default:
		return m.form.update(msg)
	}

	return nil
}

func (m *Model) timerKey(msg tea.KeyMsg) tea.Cmd {
	p := m.timer

	switch {
	case key.Matches(msg, m.keys.Back):
		return m.closeTimer()
	case key.Matches(msg, m.keys.Start):
		return m.startTimer()
	case key.Matches(msg, m.keys.Pause):
		return m.pauseOrResumeTimer()
	case key.Matches(msg, m.keys.Reset):
		p.done = false
		p.err = nil

		return m.call(p.session.Reset)
	case msg.String() == "tab" || msg.String() == ":":
		p.switchField()
	default:
		if p.editable() {
			return p.update(msg)
		}
	}

	return nil
}

func (m *Model) stopwatchKey(msg tea.KeyMsg) tea.Cmd {
	p := m.stopwatch

	switch {
	case key.Matches(msg, m.keys.Back):
		return m.closeStopwatch()
	case key.Matches(msg, m.keys.Toggle):
		p.err = nil

		if p.last.Running {
			return m.call(p.session.Pause)
		}

		return m.call(p.session.Start)
	case key.Matches(msg, m.keys.Lap):
		return func() tea.Msg {
			if _, err := p.session.Lap(m.ctx); err != nil {
				return errMsg{err}
			}

			return stopwatchSnapshot(m.ctx, p)
		}
	case key.Matches(msg, m.keys.Reset):
		p.err = nil

		return m.call(p.session.Reset)
	}

	return nil
}

// forward passes non-key messages such as cursor blinks to the focused inputs.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	switch {
	case m.mode == ModeForm && m.form != nil:
		return m.form.update(msg)
	case m.mode == ModeTimer && m.timer != nil:
		return m.timer.update(msg)
	default:
		return nil
	}
}

func (m *Model) openTimer() tea.Cmd {
	m.mode = ModeTimer

	if m.timer != nil {
		return nil
	}

	var panel *timerPanel

	panel = newTimerPanel(m.shell.NewTimer(func(u shell.TimerUpdate) {
		m.send(timerMsg{panel: panel, update: u})
	}))
	m.timer = panel

	return nil
}

// closeTimer halts the countdown. The next openTimer starts a fresh one.
func (m *Model) closeTimer() tea.Cmd {
	m.mode = ModeClock

	if m.timer == nil {
		return nil
	}

	session := m.timer.session
	m.timer = nil

	return m.call(session.Close)
}

func (m *Model) presetTimer(value string) tea.Cmd {
	minutes, seconds, err := timer.ParseDuration(value)
	if err != nil {
		return func() tea.Msg { return errMsg{err} }
	}

	m.timer.preset(strconv.Itoa(minutes), strconv.Itoa(seconds))

	return m.startTimer()
}

func (m *Model) startTimer() tea.Cmd {
	p := m.timer
	p.err = nil

	minutes, seconds, err := p.duration()
	if err != nil && p.editable() {
		p.err = err

		return nil
	}

	p.done = false
	session := p.session

	return func() tea.Msg {
		if err := session.Start(m.ctx, minutes, seconds); err != nil {
			return errMsg{err}
		}

		return nil
	}
}

func (m *Model) pauseOrResumeTimer() tea.Cmd {
	p := m.timer
	p.err = nil

	switch p.last.State {
	case timer.StateRunning:
		return m.call(p.session.Pause)
	case timer.StatePaused:
		return m.call(p.session.Resume)
	case timer.StateStopped, timer.StateCompleted:
	}

	return nil
}

func (m *Model) openStopwatch() {
	m.mode = ModeStopwatch

	if m.stopwatch != nil {
		return
	}

	var panel *stopwatchPanel

	panel = newStopwatchPanel(m.shell.NewStopwatch(shell.DefaultStopwatchRefresh, func(s shell.StopwatchSnapshot) {
		m.send(stopwatchMsg{panel: panel, snapshot: s})
	}))
	m.stopwatch = panel
}

// closeStopwatch stops the refresh and discards the laps.
func (m *Model) closeStopwatch() tea.Cmd {
	m.mode = ModeClock

	if m.stopwatch == nil {
		return nil
	}

	session := m.stopwatch.session
	m.stopwatch = nil

	return m.call(session.Close)
}

func stopwatchSnapshot(ctx context.Context, p *stopwatchPanel) tea.Msg {
	snapshot, err := p.session.Snapshot(ctx)
	if err != nil {
		return errMsg{err}
	}

	return stopwatchMsg{panel: p, snapshot: snapshot}
}

func (m *Model) submitForm() tea.Cmd {
	f := m.form

	spec, err := f.spec()
	if err != nil {
		f.err = err

		return nil
	}

	f.err = nil
	id := f.id

	return func() tea.Msg {
		var (
			saved *alarm.Alarm
			err   error
		)

		if id == "" {
			saved, err = m.shell.AddAlarm(m.ctx, spec)
		} else {
			saved, err = m.shell.EditAlarm(m.ctx, id, spec)
		}

		if err != nil {
			return errMsg{err}
		}

		return savedMsg{alarm: saved, added: id == ""}
	}
}

func (m *Model) loadClock() tea.Cmd {
	return func() tea.Msg {
		display, err := m.shell.CurrentTime(m.ctx)
		if err != nil {
			return errMsg{err}
		}

		format, err := m.shell.DisplayFormat(m.ctx)
		if err != nil {
			return errMsg{err}
		}

		alarms, err := m.shell.Alarms(m.ctx)
		if err != nil {
			return errMsg{err}
		}

		return clockLoadedMsg{display: display, format: format, alarms: alarms}
	}
}

func (m *Model) refreshAlarms() tea.Cmd {
	return func() tea.Msg {
		alarms, err := m.shell.Alarms(m.ctx)
		if err != nil {
			return errMsg{err}
		}

		return alarmsMsg(alarms)
	}
}

func (m *Model) toggleFormat() tea.Cmd {
	choice := clock.Choice12Hour
	if m.format == clock.Format12Hour {
		choice = clock.Choice24Hour
	}

	return func() tea.Msg {
		format, err := m.shell.SetDisplayFormat(m.ctx, choice)
		if err != nil {
			return errMsg{err}
		}

		return formatMsg(format)
	}
}

func (m *Model) deleteAlarm(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.shell.DeleteAlarm(m.ctx, id); err != nil {
			return errMsg{err}
		}

		return nil
	}
}

func (m *Model) stop(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.shell.StopAlarm(m.ctx, id); err != nil {
			return errMsg{err}
		}

		return nil
	}
}

func (m *Model) snooze(id string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.shell.SnoozeAlarm(m.ctx, id)
		if err != nil {
			return errMsg{err}
		}

		return snoozedMsg(result)
	}
}

// call runs a session method and reports only failures.
func (m *Model) call(fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(m.ctx); err != nil && !errors.Is(err, context.Canceled) {
			return errMsg{err}
		}

		return nil
	}
}
