// Package client implements the one-shot CLI commands that talk to the
// clock daemon: listing, adding, editing, deleting, stopping and snoozing
// alarms, and reading or switching the display format.
package client
