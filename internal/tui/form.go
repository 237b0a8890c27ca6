package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
)

const (
	fieldTime = iota
	fieldTune
	fieldInterval
	fieldMaxSnoozes
	fieldCount
)

// alarmForm collects the fields of a new or edited alarm.
type alarmForm struct {
	// id is the alarm being edited, empty when adding.
	id     string
	inputs []textinput.Model
	labels []string
	focus  int
	// err is the last validation failure, shown under the fields.
	err error
}

func newInput(placeholder string, limit int) textinput.Model {
	t := textinput.New()
	t.Placeholder = placeholder
	t.CharLimit = limit
	t.Prompt = "> "
	t.Cursor.SetMode(cursor.CursorStatic)

	return t
}

// newAlarmForm opens an empty form, or one prefilled from existing.
func newAlarmForm(existing *alarm.Alarm, defaultTune string) *alarmForm {
	f := &alarmForm{
		inputs: make([]textinput.Model, fieldCount),
		labels: []string{"Time (HH:MM or HH:MM:SS)", "Tune", "Snooze interval (minutes)", "Max snoozes"},
	}

	f.inputs[fieldTime] = newInput("07:00", 8)
	f.inputs[fieldTune] = newInput(placeholderTune(defaultTune), 256)
	f.inputs[fieldInterval] = newInput(strconv.Itoa(alarm.DefaultSnoozeInterval), 4)
	f.inputs[fieldMaxSnoozes] = newInput(strconv.Itoa(alarm.DefaultMaxSnoozes), 4)

	if existing != nil {
		f.id = existing.ID
		f.inputs[fieldTime].SetValue(existing.ScheduledTime.String())
		f.inputs[fieldTune].SetValue(existing.Tune)
		f.inputs[fieldInterval].SetValue(strconv.Itoa(existing.SnoozeInterval))
		f.inputs[fieldMaxSnoozes].SetValue(strconv.Itoa(existing.MaxSnoozes))
	}

	f.inputs[fieldTime].Focus()

	return f
}

func placeholderTune(defaultTune string) string {
	if defaultTune == "" {
		return "path to a sound file"
	}

	return defaultTune
}

// editing reports whether the form edits an existing alarm.
func (f *alarmForm) editing() bool {
	return f.id != ""
}

// spec validates the fields.
func (f *alarmForm) spec() (alarm.Spec, error) {
	return alarm.ParseSpec(
		f.inputs[fieldTime].Value(),
		f.inputs[fieldTune].Value(),
		f.inputs[fieldInterval].Value(),
		f.inputs[fieldMaxSnoozes].Value(),
	)
}

// move shifts focus by delta, wrapping around.
func (f *alarmForm) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
}

// update forwards a message to the focused input.
func (f *alarmForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)

	return cmd
}

func (f *alarmForm) view(st Styles) string {
	var b strings.Builder

	title := "New alarm"
	if f.editing() {
		title = "Edit alarm " + f.id
	}

	b.WriteString(st.Title.Render(title))
	b.WriteString("\n\n")

	for i, input := range f.inputs {
		label := st.Label
		if i == f.focus {
			label = st.Focused
		}

		b.WriteString(st.Panel.Render(label.Render(f.labels[i])))
		b.WriteString("\n")
		b.WriteString(st.Panel.Render(input.View()))
		b.WriteString("\n\n")
	}

	if f.err != nil {
		b.WriteString(st.Alert.Render(f.err.Error()))
		b.WriteString("\n")
	}

	return b.String()
}
