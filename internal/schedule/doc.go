// Package schedule runs delayed tasks keyed by purpose.
//
// A form session has a handful of fire-later actions (resetting the form
// after a successful payment, dismissing a notification banner). Each is
// registered under a key; scheduling a key that is already pending replaces
// the earlier task, and a pending task can be cancelled by key.
//
// Two implementations are provided:
//   - Manual: a virtual clock advanced explicitly. Used by tests and by
//     one-shot commands that never wait for timers.
//   - Timer: wall-clock timers. Callbacks are handed to a post function so
//     they run on the owning session's event loop, never on a timer goroutine.
//
// # Usage Example
//
//	sched := schedule.NewManual()
//	sched.Schedule("reset", 5*time.Second, resetForm)
//	sched.Advance(5 * time.Second) // resetForm runs here
package schedule

import "time"

// Scheduler runs a function once after a delay, keyed by purpose.
type Scheduler interface {
	// Schedule registers fn to run after the delay, replacing any pending
	// task with the same key.
	Schedule(key string, after time.Duration, fn func())

	// Cancel removes a pending task. Returns true if one was pending.
	Cancel(key string) bool

	// Pending reports whether a task is waiting under key.
	Pending(key string) bool
}
