// Package alarms implements persistence for alarm definitions.
//
// The FileRepository stores the operator-editable fields of every alarm as
// protobuf JSON on disk. Runtime state (ringing, snoozing, snooze counts) is
// never written, so a restart always brings alarms back idle.
package alarms
