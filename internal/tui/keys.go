package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists every binding; views show the subset that applies.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Add       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Format    key.Binding
	Snooze    key.Binding
	Stop      key.Binding
	Timer     key.Binding
	Stopwatch key.Binding
	Start     key.Binding
	Pause     key.Binding
	Reset     key.Binding
	Lap       key.Binding
	Toggle    key.Binding
	Next      key.Binding
	Prev      key.Binding
	Submit    key.Binding
	Back      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add alarm")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Format:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "12/24h")),
		Snooze:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "snooze")),
		Stop:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Timer:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "timer")),
		Stopwatch: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "stopwatch")),
		Start:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
		Pause:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Lap:       key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "lap")),
		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		Next:      key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
