// Package clock formats the current wall-clock time for display.
//
// A Clock renders the instant either as 24-hour HH:MM:SS or as 12-hour
// hh:MM:SS with an AM/PM marker, and always exposes a 24-hour time of day
// for alarm matching regardless of the display choice.
package clock
