// Package schedule provides cancellable deferred actions and the single
// logical thread that runs them.
//
// All clock, alarm, timer and stopwatch state is mutated from callbacks run
// by a Scheduler. Loop is the production implementation: one goroutine drains
// an event queue fed by timers and by callers of Do. Manual is a
// deterministic implementation for tests where time only moves on Advance.
//
// A Handle returned by AfterFunc or Every guarantees that once Cancel has
// returned, the callback will not run, even if its timer already expired and
// the callback is sitting in the queue.
package schedule
