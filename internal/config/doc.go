// Package config defines settings used by the alarm-clock commands and
// provides helpers to load, validate and save them in YAML format.
//
// Config holds the daemon address, the alarms file, the clock refresh
// interval, audio settings and the terminal theme. The theme is pure
// presentation and never changes how alarms, timers or stopwatches behave.
package config
