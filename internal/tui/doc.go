// Package tui is the interactive terminal front end.
//
// A single bubbletea program shows the clock with its alarm list, the
// add and edit form, the countdown timer and the stopwatch. Every change
// goes through the shell; shell events come back as program messages, so
// the model itself never blocks on the event loop.
package tui
