// Package shell is the application shell of the alarm clock.
//
// A Shell owns the Clock, the ordered alarm collection and the periodic
// tick that refreshes the display and matches alarms. Every public method
// hops onto the scheduler's thread, so the gRPC daemon and the terminal UI
// can call into the shell from their own goroutines while all state is
// still mutated from one logical thread.
//
// Presentation layers learn about changes through Subscribe rather than by
// holding references into the shell. Timer and stopwatch sessions are
// created per view and share nothing with each other or with the alarms.
package shell
