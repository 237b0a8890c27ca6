package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oshokin/alarm-clock/internal/domain/timer"
	"github.com/oshokin/alarm-clock/internal/service/shell"
)

// timerPanel is the countdown view state.
type timerPanel struct {
	session *shell.TimerSession
	minutes textinput.Model
	seconds textinput.Model
	// focus is 0 for minutes, 1 for seconds.
	focus int
	last  shell.TimerUpdate
	// done is set after completion until the next start.
	done bool
	err  error
}

func newTimerPanel(session *shell.TimerSession) *timerPanel {
	p := &timerPanel{
		session: session,
		minutes: newInput("MM", 2),
		seconds: newInput("SS", 2),
		last:    shell.TimerUpdate{Display: timer.FormatRemaining(0), State: timer.StateStopped},
	}

	p.minutes.Focus()

	return p
}

// editable reports whether the duration inputs accept keys.
func (p *timerPanel) editable() bool {
	return p.last.State == timer.StateStopped
}

// preset fills the inputs.
func (p *timerPanel) preset(minutes, seconds string) {
	p.minutes.SetValue(minutes)
	p.seconds.SetValue(seconds)
}

// duration parses the inputs.
func (p *timerPanel) duration() (int, int, error) {
	return timer.ParseFields(p.minutes.Value(), p.seconds.Value())
}

func (p *timerPanel) switchField() {
	if p.focus == 0 {
		p.minutes.Blur()
		p.seconds.Focus()
		p.focus = 1

		return
	}

	p.seconds.Blur()
	p.minutes.Focus()
	p.focus = 0
}

// update forwards a message to the focused input.
func (p *timerPanel) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	if p.focus == 0 {
		p.minutes, cmd = p.minutes.Update(msg)
	} else {
		p.seconds, cmd = p.seconds.Update(msg)
	}

	return cmd
}

func (p *timerPanel) view(st Styles) string {
	var b strings.Builder

	b.WriteString(st.Title.Render("Timer"))
	b.WriteString("\n\n")
	b.WriteString(st.Clock.Render(p.last.Display))
	b.WriteString("\n")
	b.WriteString(st.Panel.Render(st.Muted.Render(p.last.State.String())))
	b.WriteString("\n\n")

	if p.editable() {
		b.WriteString(st.Panel.Render(p.minutes.View() + " : " + p.seconds.View()))
		b.WriteString("\n\n")
	}

	if p.done {
		b.WriteString(st.Alert.Render("Time's up!"))
		b.WriteString("\n")
	}

	if p.err != nil {
		b.WriteString(st.Alert.Render(p.err.Error()))
		b.WriteString("\n")
	}

	return b.String()
}
