// Package alarm contains core domain types for the alarm business logic.
//
// It defines TimeOfDay (second-precision wall-clock time without a date),
// Alarm (a scheduled wake event with a bounded snooze policy) and the
// Idle -> Ringing -> Snoozing -> Removed state machine. Side effects such as
// playing tunes or arming deferred re-rings belong to the application shell;
// this package only validates and records transitions.
package alarm
